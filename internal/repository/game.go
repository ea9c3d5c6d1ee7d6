package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRecorder keeps one hash and one move list per room.
type RedisRecorder struct {
	client *redis.Client
	expire time.Duration
}

// NewRedisRecorder - expire of zero keeps keys forever.
func NewRedisRecorder(client *redis.Client, expire time.Duration) *RedisRecorder {
	return &RedisRecorder{
		client: client,
		expire: expire,
	}
}

func gameKey(roomID string) string {
	return "room:" + roomID
}

func movesKey(roomID string) string {
	return "room:" + roomID + ":moves"
}

func (that *RedisRecorder) RecordGameStart(ctx context.Context, start GameStart) error {
	key := gameKey(start.RoomID)

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// the move log is append-only across games, only the previous outcome is cleared
		pipe.HDel(ctx, key, "winner", "draw", "finished_at")
		pipe.HSet(ctx, key,
			"ai_symbol", start.AISymbol,
			"strategy", start.Strategy,
			"started_at", start.At.UnixMilli(),
		)
		that.touch(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record game start: %w", err)
	}

	return nil
}

func (that *RedisRecorder) RecordMove(ctx context.Context, move MoveRecord) error {
	moveJSON, err := json.Marshal(move)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	key := movesKey(move.RoomID)

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, moveJSON)
		that.touch(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record move: %w", err)
	}

	return nil
}

func (that *RedisRecorder) RecordOutcome(ctx context.Context, outcome Outcome) error {
	key := gameKey(outcome.RoomID)

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"winner", outcome.Winner,
			"draw", outcome.Draw,
			"finished_at", outcome.At.UnixMilli(),
		)
		that.touch(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	return nil
}

// Moves returns the recorded moves of a room in play order.
func (that *RedisRecorder) Moves(ctx context.Context, roomID string) ([]MoveRecord, error) {
	raw, err := that.client.LRange(ctx, movesKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read moves: %w", err)
	}

	moves := make([]MoveRecord, 0, len(raw))
	for _, entry := range raw {
		var move MoveRecord
		if err = json.Unmarshal([]byte(entry), &move); err != nil {
			return nil, fmt.Errorf("failed to unmarshal move: %w", err)
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// Game returns the raw hash fields recorded for a room.
func (that *RedisRecorder) Game(ctx context.Context, roomID string) (map[string]string, error) {
	fields, err := that.client.HGetAll(ctx, gameKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read game: %w", err)
	}
	return fields, nil
}

func (that *RedisRecorder) touch(ctx context.Context, pipe redis.Pipeliner, key string) {
	if that.expire > 0 {
		pipe.Expire(ctx, key, that.expire)
	}
}
