package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteRecorder appends the game log to the tables created by storage.Storage.Init.
type SQLiteRecorder struct {
	conn *sql.DB
}

func NewSQLiteRecorder(conn *sql.DB) *SQLiteRecorder {
	return &SQLiteRecorder{
		conn: conn,
	}
}

func (that *SQLiteRecorder) RecordGameStart(ctx context.Context, start GameStart) error {
	query := `INSERT INTO games (room_id, ai_symbol, strategy, started_at) VALUES (?, ?, ?, ?)`
	if _, err := that.conn.ExecContext(ctx, query, start.RoomID, start.AISymbol, start.Strategy, start.At.UnixMilli()); err != nil {
		return fmt.Errorf("can't record game start: %w", err)
	}
	return nil
}

func (that *SQLiteRecorder) RecordMove(ctx context.Context, move MoveRecord) error {
	query := `INSERT INTO moves (room_id, position, symbol, nonce, by_ai, played_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := that.conn.ExecContext(ctx, query, move.RoomID, move.Position, move.Symbol, move.Nonce, move.ByAI, move.At.UnixMilli()); err != nil {
		return fmt.Errorf("can't record move: %w", err)
	}
	return nil
}

func (that *SQLiteRecorder) RecordOutcome(ctx context.Context, outcome Outcome) error {
	query := `INSERT INTO outcomes (room_id, winner, draw, finished_at) VALUES (?, ?, ?, ?)`
	if _, err := that.conn.ExecContext(ctx, query, outcome.RoomID, outcome.Winner, outcome.Draw, outcome.At.UnixMilli()); err != nil {
		return fmt.Errorf("can't record outcome: %w", err)
	}
	return nil
}

// Moves returns the recorded moves of a room in insertion order.
func (that *SQLiteRecorder) Moves(ctx context.Context, roomID string) ([]MoveRecord, error) {
	query := `SELECT position, symbol, nonce, by_ai FROM moves WHERE room_id = ? ORDER BY rowid`

	rows, err := that.conn.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("can't query moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		move := MoveRecord{RoomID: roomID}
		if err = rows.Scan(&move.Position, &move.Symbol, &move.Nonce, &move.ByAI); err != nil {
			return nil, fmt.Errorf("can't scan move: %w", err)
		}
		moves = append(moves, move)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't iterate moves: %w", err)
	}

	return moves, nil
}
