package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
)

const (
	StatusWaiting   = "waiting"
	StatusActive    = "active"
	StatusCompleted = "completed"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"
	EmptyCell = ""
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game is the authoritative board of a room.
type Game struct {
	Board    [BoardSize]string `json:"board"`
	Turn     string            `json:"currentTurn"`
	Winner   string            `json:"winner,omitempty"`
	Status   string            `json:"status"`
	LastMove *Move             `json:"lastMove,omitempty"`
}

// Move is the last applied placement.
type Move struct {
	Position int    `json:"position"`
	Symbol   string `json:"symbol"`
}

func NewGame() *Game {
	return &Game{
		Turn:   PlayerX,
		Status: StatusWaiting,
	}
}

// IsValidSymbol reports whether s is one of the two player marks.
func IsValidSymbol(s string) bool {
	return s == PlayerX || s == PlayerO
}

// Opponent returns the other mark.
func Opponent(symbol string) string {
	if symbol == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// RandomMarks returns a shuffled pair of marks.
func RandomMarks() (string, string) {
	if rand.IntN(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}

func (that *Game) DetermineGameResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	// the game continues until all the squares are full
	for _, cell := range that.Board {
		if cell == EmptyCell {
			return ""
		}
	}

	return PlayerTie
}

func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	case PlayerX, PlayerO, PlayerTie:
		that.Winner = winner
		that.Status = StatusCompleted
		that.Turn = ""
	default:
		that.Status = StatusActive
	}
}

// CheckTurn validates a placement without applying it.
func (that *Game) CheckTurn(playerMark string, cell int) error {
	if err := that.ConfirmActiveState(); err != nil {
		return err
	}

	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *Game) MakeTurn(playerMark string, cell int) error {
	if err := that.CheckTurn(playerMark, cell); err != nil {
		return err
	}

	that.Board[cell] = playerMark
	that.LastMove = &Move{Position: cell, Symbol: playerMark}
	that.Turn = Opponent(playerMark)

	that.UpdateGameState()

	return nil
}

// Reset clears the board. active decides whether play may start immediately.
func (that *Game) Reset(active bool) {
	that.Board = [BoardSize]string{}
	that.Turn = PlayerX
	that.Winner = ""
	that.LastMove = nil
	that.Status = StatusWaiting
	if active {
		that.Status = StatusActive
	}
}

// AvailableCells lists the indexes of empty cells.
func (that *Game) AvailableCells() []int {
	cells := make([]int, 0, len(that.Board))
	for i, cell := range that.Board {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

func (that *Game) IsCompleted() bool {
	return that.Status == StatusCompleted
}

func (that *Game) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmActiveState() error {
	switch that.Status {
	case StatusWaiting:
		return apperror.ErrGameIsNotStarted
	case StatusCompleted:
		return apperror.ErrGameFinished
	case StatusActive:
		return nil
	default:
		return fmt.Errorf("%w: unknown game status %q", apperror.ErrInvalidMove, that.Status)
	}
}
