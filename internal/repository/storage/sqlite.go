package storage

import (
	"context"
	"database/sql"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	Connection *sql.DB
}

func NewSQLite(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

// Init - creates the game log tables.
func (that *Storage) Init(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS games (
			room_id TEXT NOT NULL,
			ai_symbol TEXT NOT NULL DEFAULT '',
			strategy TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS moves (
			room_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			symbol TEXT NOT NULL,
			nonce TEXT NOT NULL DEFAULT '',
			by_ai INTEGER NOT NULL DEFAULT 0,
			played_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			room_id TEXT NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			draw INTEGER NOT NULL DEFAULT 0,
			finished_at INTEGER NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := that.Connection.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("can't create table: %w", err)
		}
	}

	return nil
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}
