package application

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/config"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/repository"
)

func TestNewRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("No driver records nothing", func(t *testing.T) {
		recorder, closer, err := newRecorder(ctx, &config.Config{})

		require.NoError(t, err)
		assert.IsType(t, repository.NopRecorder{}, recorder)
		assert.NoError(t, closer.Close())
	})

	t.Run("SQLite driver creates the schema", func(t *testing.T) {
		// Given: a sqlite path in a temp dir
		conf := &config.Config{
			Persistence:       config.Persistence{Driver: driverSQLite},
			SQLiteStoragePath: filepath.Join(t.TempDir(), "games.db"),
		}

		// When: opening the recorder
		recorder, closer, err := newRecorder(ctx, conf)
		require.NoError(t, err)
		defer closer.Close()

		// Then: it accepts writes
		require.IsType(t, &repository.SQLiteRecorder{}, recorder)
		assert.NoError(t, recorder.RecordGameStart(ctx, repository.GameStart{RoomID: "k2", At: time.Now()}))
	})

	t.Run("Unknown driver is an error", func(t *testing.T) {
		_, _, err := newRecorder(ctx, &config.Config{Persistence: config.Persistence{Driver: "mongo"}})

		require.ErrorIs(t, err, ErrUnknownDriver)
	})
}
