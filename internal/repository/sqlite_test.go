package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/repository/storage"
)

func newSQLiteRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()

	st, err := storage.NewSQLite(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	require.NoError(t, st.Init(context.Background()))

	return NewSQLiteRecorder(st.Connection)
}

func TestSQLiteRecorder(t *testing.T) {
	ctx := context.Background()
	at := time.Unix(1_700_000_000, 0)

	t.Run("Moves are returned in play order", func(t *testing.T) {
		// Given: a recorder with a started game
		recorder := newSQLiteRecorder(t)
		require.NoError(t, recorder.RecordGameStart(ctx, GameStart{RoomID: "k2", AISymbol: "O", Strategy: "random", At: at}))

		// When: recording a human and an AI move
		require.NoError(t, recorder.RecordMove(ctx, MoveRecord{RoomID: "k2", Position: 4, Symbol: "X", Nonce: "n1", At: at}))
		require.NoError(t, recorder.RecordMove(ctx, MoveRecord{RoomID: "k2", Position: 0, Symbol: "O", ByAI: true, At: at}))
		require.NoError(t, recorder.RecordMove(ctx, MoveRecord{RoomID: "other", Position: 1, Symbol: "X", At: at}))

		// Then: only this room's moves come back, in order
		moves, err := recorder.Moves(ctx, "k2")
		require.NoError(t, err)
		assert.Equal(t, []MoveRecord{
			{RoomID: "k2", Position: 4, Symbol: "X", Nonce: "n1"},
			{RoomID: "k2", Position: 0, Symbol: "O", ByAI: true},
		}, moves)
	})

	t.Run("Outcome is stored", func(t *testing.T) {
		recorder := newSQLiteRecorder(t)

		require.NoError(t, recorder.RecordOutcome(ctx, Outcome{RoomID: "k2", Winner: "X", At: at}))

		var winner string
		require.NoError(t, recorder.conn.QueryRowContext(ctx, `SELECT winner FROM outcomes WHERE room_id = ?`, "k2").Scan(&winner))
		assert.Equal(t, "X", winner)
	})
}
