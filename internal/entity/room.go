package entity

import (
	"slices"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/session"
)

const (
	RolePlayer   = "player"
	RoleObserver = "observer"
	RoleAdmin    = "admin"
)

// Seat binds a connection to a player symbol.
type Seat struct {
	ConnID string `json:"connId"`
	Symbol string `json:"symbol"`
}

// Room is one game instance. Every field is guarded by Mu.
type Room struct {
	Mu sync.Mutex

	ID           string
	Game         *Game
	Seats        []Seat
	Observers    map[string]struct{}
	Sessions     *session.Manager
	Nonces       *NonceSet
	AISymbol     string
	Strategy     string
	Version      uint64
	Closed       bool
	CreatedAt    time.Time
	LastActiveAt time.Time
}

func NewRoom(id string, maxNonces int, now time.Time) *Room {
	return &Room{
		ID:           id,
		Game:         NewGame(),
		Observers:    make(map[string]struct{}),
		Sessions:     session.NewManager(),
		Nonces:       NewNonceSet(maxNonces),
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// HasAI reports whether one symbol is played by the move orchestrator.
func (that *Room) HasAI() bool {
	return that.AISymbol != ""
}

// IsAITurn reports whether the orchestrator should move next.
func (that *Room) IsAITurn() bool {
	return that.HasAI() && that.Game.IsActive() && that.Game.Turn == that.AISymbol
}

func (that *Room) Touch(now time.Time) {
	that.LastActiveAt = now
}

// Bump marks a state change; pending asynchronous continuations compare versions.
func (that *Room) Bump(now time.Time) {
	that.Version++
	that.Touch(now)
}

func (that *Room) SymbolOf(connID string) (string, bool) {
	for _, seat := range that.Seats {
		if seat.ConnID == connID {
			return seat.Symbol, true
		}
	}
	return "", false
}

func (that *Room) HolderOf(symbol string) (string, bool) {
	for _, seat := range that.Seats {
		if seat.Symbol == symbol {
			return seat.ConnID, true
		}
	}
	return "", false
}

// FreeSymbol returns the first symbol held by neither a human nor the AI.
func (that *Room) FreeSymbol() (string, bool) {
	for _, symbol := range []string{PlayerX, PlayerO} {
		if symbol == that.AISymbol {
			continue
		}
		if _, taken := that.HolderOf(symbol); !taken {
			return symbol, true
		}
	}
	return "", false
}

// Seat places connID in the slot for symbol and drops any observer entry.
func (that *Room) Seat(connID, symbol string) {
	delete(that.Observers, connID)
	that.Seats = append(that.Seats, Seat{ConnID: connID, Symbol: symbol})
}

func (that *Room) AddObserver(connID string) {
	that.Observers[connID] = struct{}{}
}

// Vacate removes connID from the room and returns the symbol it held, if any.
func (that *Room) Vacate(connID string) (string, bool) {
	delete(that.Observers, connID)

	for i, seat := range that.Seats {
		if seat.ConnID == connID {
			that.Seats = slices.Delete(that.Seats, i, i+1)
			return seat.Symbol, true
		}
	}

	return "", false
}

func (that *Room) IsMember(connID string) bool {
	if _, ok := that.Observers[connID]; ok {
		return true
	}
	_, ok := that.SymbolOf(connID)
	return ok
}

// Members lists players in seat order followed by observers in sorted order.
func (that *Room) Members() []string {
	members := make([]string, 0, len(that.Seats)+len(that.Observers))
	for _, seat := range that.Seats {
		members = append(members, seat.ConnID)
	}

	observers := make([]string, 0, len(that.Observers))
	for connID := range that.Observers {
		observers = append(observers, connID)
	}
	slices.Sort(observers)

	return append(members, observers...)
}

func (that *Room) PlayerCount() int {
	return len(that.Seats)
}

func (that *Room) ObserverCount() int {
	return len(that.Observers)
}

func (that *Room) IsEmpty() bool {
	return len(that.Seats) == 0 && len(that.Observers) == 0
}

// IsPlayable reports whether both symbols are accounted for.
func (that *Room) IsPlayable() bool {
	if that.HasAI() {
		return len(that.Seats) >= 1
	}
	return len(that.Seats) == 2
}

func (that *Room) State() GameState {
	state := GameState{
		RoomID:      that.ID,
		Board:       that.Game.Board,
		CurrentTurn: that.Game.Turn,
		Status:      that.Game.Status,
		Version:     that.Version,
	}

	if that.Game.LastMove != nil {
		move := *that.Game.LastMove
		state.LastMove = &move
	}

	switch that.Game.Winner {
	case PlayerTie:
		state.Draw = true
	case PlayerX, PlayerO:
		state.Winner = that.Game.Winner
	}

	return state
}

// GameState is the snapshot pushed to every member of a room.
type GameState struct {
	RoomID      string            `json:"roomId"`
	Board       [BoardSize]string `json:"board"`
	CurrentTurn string            `json:"currentTurn"`
	Status      string            `json:"status"`
	LastMove    *Move             `json:"lastMove,omitempty"`
	Winner      string            `json:"winner,omitempty"`
	Draw        bool              `json:"draw,omitempty"`
	Version     uint64            `json:"version"`
}
