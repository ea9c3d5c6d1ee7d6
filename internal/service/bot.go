package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

const (
	StrategyRandom    = "random"
	StrategyFirstFree = "first-free"
)

// NoMove is returned by a strategy that has nothing to play.
const NoMove = -1

var (
	ErrUnknownStrategy  = errors.New("unknown strategy")
	ErrNoAvailableMoves = errors.New("no available moves")
)

// Strategy picks a cell for symbol on board.
type Strategy func(board [entity.BoardSize]string, symbol string) int

// BotService - the move orchestrator for rooms with a non-human player.
type BotService struct {
	strategies map[string]Strategy
}

func NewBotService() *BotService {
	return &BotService{
		strategies: map[string]Strategy{
			StrategyRandom:    randomCell,
			StrategyFirstFree: firstFreeCell,
		},
	}
}

// Register adds or replaces a named strategy.
func (that *BotService) Register(name string, strategy Strategy) {
	that.strategies[name] = strategy
}

// Supports reports whether name is a known strategy.
func (that *BotService) Supports(name string) bool {
	_, ok := that.strategies[name]
	return ok
}

// Decide returns the cell the strategy plays, or NoMove with an error when nothing can be played.
func (that *BotService) Decide(ctx context.Context, board [entity.BoardSize]string, symbol, strategy string) (int, error) {
	if err := ctx.Err(); err != nil {
		return NoMove, fmt.Errorf("bot decision canceled: %w", err)
	}

	pick, ok := that.strategies[strategy]
	if !ok {
		return NoMove, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}

	cell := pick(board, symbol)
	if cell == NoMove {
		return NoMove, ErrNoAvailableMoves
	}

	return cell, nil
}

func randomCell(board [entity.BoardSize]string, _ string) int {
	game := entity.Game{Board: board}
	cells := game.AvailableCells()
	if len(cells) == 0 {
		return NoMove
	}
	return cells[rand.IntN(len(cells))] //nolint: gosec // it's ok
}

func firstFreeCell(board [entity.BoardSize]string, _ string) int {
	game := entity.Game{Board: board}
	cells := game.AvailableCells()
	if len(cells) == 0 {
		return NoMove
	}
	return cells[0]
}
