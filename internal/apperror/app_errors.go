package apperror

import (
	"errors"
	"fmt"
)

// Stable wire codes.
const (
	CodeInvalidPayload = "invalid-payload"
	CodeInvalidMove    = "invalid-move"
	CodeDuplicate      = "duplicate"
	CodeRateLimit      = "rate-limit"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeNotFound       = "not-found"
	CodeGameClosed     = "game-closed"
	CodeInternal       = "internal"
)

var (
	ErrInvalidPayload = errors.New(CodeInvalidPayload)
	ErrInvalidMove    = errors.New(CodeInvalidMove)
	ErrDuplicate      = errors.New(CodeDuplicate)
	ErrRateLimit      = errors.New(CodeRateLimit)
	ErrUnauthorized   = errors.New(CodeUnauthorized)
	ErrForbidden      = errors.New(CodeForbidden)
	ErrNotFound       = errors.New(CodeNotFound)
	ErrGameClosed     = errors.New(CodeGameClosed)
)

var (
	ErrGameFinished     = fmt.Errorf("%w: game is already finished", ErrInvalidMove)
	ErrGameIsNotStarted = fmt.Errorf("%w: game is not started", ErrInvalidMove)
	ErrNotYourTurn      = fmt.Errorf("%w: it's not your turn", ErrInvalidMove)
	ErrCellOccupied     = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrInvalidCell      = fmt.Errorf("%w: invalid cell index", ErrInvalidMove)
	ErrNotSeated        = fmt.Errorf("%w: symbol is not held by this connection", ErrInvalidMove)
	ErrRoomNotFound     = fmt.Errorf("%w: room not found", ErrNotFound)
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidPayload, CodeInvalidPayload},
	{ErrInvalidMove, CodeInvalidMove},
	{ErrDuplicate, CodeDuplicate},
	{ErrRateLimit, CodeRateLimit},
	{ErrUnauthorized, CodeUnauthorized},
	{ErrForbidden, CodeForbidden},
	{ErrNotFound, CodeNotFound},
	{ErrGameClosed, CodeGameClosed},
}

// Code - returns the wire code of err, or CodeInternal for anything unexpected.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// InvalidPayload - wraps a schema violation with the field that caused it.
func InvalidPayload(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}
