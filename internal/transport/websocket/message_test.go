package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
)

func TestDecodePayload(t *testing.T) {
	t.Run("Valid move is decoded", func(t *testing.T) {
		// Given: a well-formed move with an extra field
		raw := json.RawMessage(`{"roomId":"ada-lovelace","position":0,"symbol":"O","nonce":"n1","extra":true}`)

		// When: decoding it
		var payload MovePayload
		err := decodePayload(raw, &payload)

		// Then: every field is set, position zero included
		require.NoError(t, err)
		assert.Equal(t, "ada-lovelace", payload.RoomID)
		require.NotNil(t, payload.Position)
		assert.Zero(t, *payload.Position)
		assert.Equal(t, "O", payload.Symbol)
	})

	t.Run("Missing payload counts as an empty object", func(t *testing.T) {
		var payload CreateRoomPayload

		require.NoError(t, decodePayload(nil, &payload))
		require.NoError(t, decodePayload(json.RawMessage(" null "), &payload))
	})

	t.Run("Errors name the json field", func(t *testing.T) {
		var payload MovePayload
		err := decodePayload(json.RawMessage(`{"roomId":"k2","position":1,"symbol":"X"}`), &payload)

		require.ErrorIs(t, err, apperror.ErrInvalidPayload)
		assert.Contains(t, err.Error(), "nonce")
	})

	t.Run("Room ids must be lowercase hyphenated tokens", func(t *testing.T) {
		for _, roomID := range []string{"", "K2", "k2-", "-k2", "k--2", "k_2"} {
			var payload RoomPayload
			raw, err := json.Marshal(RoomPayload{RoomID: roomID})
			require.NoError(t, err)

			assert.ErrorIs(t, decodePayload(raw, &payload), apperror.ErrInvalidPayload, roomID)
		}
	})
}
