package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

const testAdminKey = "s3cret"

func TestAdmin_Elevate(t *testing.T) {
	f := newFixture(t, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Wrong key is unauthorized", func(t *testing.T) {
		admin := NewAdmin(logger, testAdminKey, f.registry)

		err := admin.Elevate("conn-1", "guess")

		require.ErrorIs(t, err, apperror.ErrUnauthorized)
		assert.False(t, admin.IsAdmin("conn-1"))
	})

	t.Run("Empty configured key never matches", func(t *testing.T) {
		admin := NewAdmin(logger, "", f.registry)

		require.ErrorIs(t, admin.Elevate("conn-1", ""), apperror.ErrUnauthorized)
	})

	t.Run("Right key grants the role until forgotten", func(t *testing.T) {
		admin := NewAdmin(logger, testAdminKey, f.registry)

		require.NoError(t, admin.Elevate("conn-1", testAdminKey))
		assert.True(t, admin.IsAdmin("conn-1"))
		assert.False(t, admin.IsAdmin("conn-2"))

		admin.Forget("conn-1")
		assert.False(t, admin.IsAdmin("conn-1"))
	})
}

func TestAdmin_Operations(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Non-elevated connections are forbidden", func(t *testing.T) {
		// Given: a room and a plain connection
		f := newFixture(t, nil)
		roomID, _, _ := f.twoPlayerRoom(t)
		admin := NewAdmin(logger, testAdminKey, f.registry)

		// When/Then: every privileged operation is refused without touching the room
		_, err := admin.ListRooms("x")
		require.ErrorIs(t, err, apperror.ErrForbidden)

		_, err = admin.RoomInfo("x", roomID)
		require.ErrorIs(t, err, apperror.ErrForbidden)

		_, err = admin.RoomInfo("x", "nowhere")
		require.ErrorIs(t, err, apperror.ErrForbidden)

		_, err = admin.CloseRoom("x", roomID)
		require.ErrorIs(t, err, apperror.ErrForbidden)
		assert.Equal(t, 1, f.registry.Len())
	})

	t.Run("Admin inspects rooms", func(t *testing.T) {
		f := newFixture(t, nil)
		roomID, _, _ := f.twoPlayerRoom(t)
		_, err := f.registry.Join(ctx, "watcher", roomID, "")
		require.NoError(t, err)

		admin := NewAdmin(logger, testAdminKey, f.registry)
		require.NoError(t, admin.Elevate("root", testAdminKey))

		rooms, err := admin.ListRooms("root")
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, RoomSummary{
			RoomID:        roomID,
			Status:        entity.StatusActive,
			PlayerCount:   2,
			ObserverCount: 1,
		}, rooms[0])

		info, err := admin.RoomInfo("root", roomID)
		require.NoError(t, err)
		assert.Equal(t, 2, info.PlayerCount)
		assert.Equal(t, 1, info.ObserverCount)
		assert.Equal(t, []entity.Player{
			{ConnID: "x", Symbol: entity.PlayerX, Role: entity.RolePlayer},
			{ConnID: "o", Symbol: entity.PlayerO, Role: entity.RolePlayer},
			{ConnID: "watcher", Role: entity.RoleObserver},
		}, info.Players)

		_, err = admin.RoomInfo("root", "nowhere")
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Admin closes a room and evicts everyone", func(t *testing.T) {
		// Given: an elevated connection and a busy room
		f := newFixture(t, nil)
		roomID, _, _ := f.twoPlayerRoom(t)
		_, err := f.registry.Join(ctx, "watcher", roomID, "")
		require.NoError(t, err)
		admin := NewAdmin(logger, testAdminKey, f.registry)
		require.NoError(t, admin.Elevate("root", testAdminKey))

		// When: closing it
		evicted, err := admin.CloseRoom("root", roomID)

		// Then: all members are reported and the room is gone
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"x", "o", "watcher"}, evicted)
		assert.Empty(t, f.registry.List())

		_, err = f.registry.Move(ctx, "x", roomID, 0, entity.PlayerX, "n1")
		require.ErrorIs(t, err, apperror.ErrNotFound)

		_, err = admin.CloseRoom("root", roomID)
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestCollector_Sweep(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Given: an abandoned room and a connection that used the rate limiter
	f := newFixture(t, nil)
	created, err := f.registry.Create(ctx, "gone", "", "")
	require.NoError(t, err)
	f.registry.Disconnect("gone")
	f.limiter.Allow("someone")

	collector := NewCollector(logger, f.registry, f.limiter, time.Minute)

	// When: sweeping after the ttl
	f.clock.Advance(2 * time.Minute)
	removed := collector.Sweep()

	// Then: the room id is free again
	assert.Equal(t, []string{created.RoomID}, removed)
	assert.Zero(t, f.registry.Len())
}

func TestCollector_Run(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := newFixture(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewCollector(logger, f.registry, f.limiter, time.Millisecond).Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}
