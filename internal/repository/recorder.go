package repository

import (
	"context"
	"time"
)

// GameStart is logged when a room starts a fresh game.
type GameStart struct {
	RoomID   string    `json:"roomId"`
	AISymbol string    `json:"aiSymbol,omitempty"`
	Strategy string    `json:"strategy,omitempty"`
	At       time.Time `json:"at"`
}

// MoveRecord is logged for every applied move, human or AI.
type MoveRecord struct {
	RoomID   string    `json:"roomId"`
	Position int       `json:"position"`
	Symbol   string    `json:"symbol"`
	Nonce    string    `json:"nonce,omitempty"`
	ByAI     bool      `json:"byAi,omitempty"`
	At       time.Time `json:"at"`
}

// Outcome is logged when a game completes.
type Outcome struct {
	RoomID string    `json:"roomId"`
	Winner string    `json:"winner,omitempty"`
	Draw   bool      `json:"draw,omitempty"`
	At     time.Time `json:"at"`
}

// Recorder persists the game log. Callers treat it as best-effort.
type Recorder interface {
	RecordGameStart(ctx context.Context, start GameStart) error
	RecordMove(ctx context.Context, move MoveRecord) error
	RecordOutcome(ctx context.Context, outcome Outcome) error
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordGameStart(context.Context, GameStart) error { return nil }

func (NopRecorder) RecordMove(context.Context, MoveRecord) error { return nil }

func (NopRecorder) RecordOutcome(context.Context, Outcome) error { return nil }
