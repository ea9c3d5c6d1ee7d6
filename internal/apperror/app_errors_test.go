package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	t.Run("Game rule errors map to invalid-move", func(t *testing.T) {
		for _, err := range []error{ErrNotYourTurn, ErrCellOccupied, ErrInvalidCell, ErrGameFinished, ErrGameIsNotStarted, ErrNotSeated} {
			assert.Equal(t, CodeInvalidMove, Code(err), err.Error())
		}
	})

	t.Run("Wrapped sentinels keep their code", func(t *testing.T) {
		// Given: a duplicate error wrapped twice
		err := fmt.Errorf("registry: %w", fmt.Errorf("room k2: %w", ErrDuplicate))

		// Then: the code survives the wrapping
		assert.Equal(t, CodeDuplicate, Code(err))
	})

	t.Run("Room lookups map to not-found", func(t *testing.T) {
		assert.Equal(t, CodeNotFound, Code(ErrRoomNotFound))
	})

	t.Run("Unknown errors map to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, Code(errors.New("boom")))
		assert.Equal(t, CodeInternal, Code(nil))
	})

	t.Run("InvalidPayload carries the detail", func(t *testing.T) {
		err := InvalidPayload("field %q is required", "roomId")

		assert.ErrorIs(t, err, ErrInvalidPayload)
		assert.Contains(t, err.Error(), `"roomId"`)
	})
}
