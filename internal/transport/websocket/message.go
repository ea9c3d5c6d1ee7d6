package websocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/usecase"
)

// Client requests.
const (
	ActionCreateRoom = "room:create"
	ActionJoinRoom   = "room:join"
	ActionLeaveRoom  = "room:leave"
	ActionMove       = "room:move"
	ActionResetRoom  = "room:reset"
	ActionListRooms  = "room:list"

	ActionAdminElevate = "admin:elevate"
	ActionAdminRooms   = "admin:rooms"
	ActionAdminRoom    = "admin:room"
	ActionAdminClose   = "admin:close"
)

// Server pushes.
const (
	ActionGameState = "game_state"
	ActionError     = "error"
)

const maxRoomIDLength = 64

var roomIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// payloadValidator - shared by every handler; field names in errors follow the json tags.
var payloadValidator = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// roomid: lowercase hyphenated token of bounded length
	_ = v.RegisterValidation("roomid", func(fl validator.FieldLevel) bool {
		roomID := fl.Field().String()
		return len(roomID) <= maxRoomIDLength && roomIDPattern.MatchString(roomID)
	})

	return v
}

// Message - the envelope of every frame in both directions. Acks echo the request's action and id.
type Message struct {
	Action  string          `json:"action"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type CreateRoomAck struct {
	Ack
	RoomID       string `json:"roomId"`
	Symbol       string `json:"symbol"`
	SessionToken string `json:"sessionToken"`
}

type JoinRoomAck struct {
	Ack
	Role         string `json:"role"`
	Symbol       string `json:"symbol,omitempty"`
	SessionToken string `json:"sessionToken,omitempty"`
}

type RoomsAck struct {
	Ack
	Rooms []usecase.RoomSummary `json:"rooms"`
}

type RoleAck struct {
	Ack
	Role string `json:"role"`
}

type RoomInfoAck struct {
	Ack
	RoomID        string          `json:"roomId"`
	Status        string          `json:"status"`
	PlayerCount   int             `json:"playerCount"`
	ObserverCount int             `json:"observerCount"`
	Players       []entity.Player `json:"players"`
}

// ErrorPush - out-of-band failure such as a forced room closure.
type ErrorPush struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	RoomID  string `json:"roomId,omitempty"`
}

type CreateRoomPayload struct {
	Strategy  string `json:"strategy,omitempty" validate:"omitempty,max=32"`
	StartMode string `json:"startMode,omitempty" validate:"omitempty,oneof=human ai random"`
}

type JoinRoomPayload struct {
	RoomID       string `json:"roomId" validate:"required,roomid"`
	SessionToken string `json:"sessionToken,omitempty" validate:"omitempty,max=128"`
}

// RoomPayload - requests addressing a room and nothing else.
type RoomPayload struct {
	RoomID string `json:"roomId" validate:"required,roomid"`
}

type MovePayload struct {
	RoomID   string `json:"roomId" validate:"required,roomid"`
	Position *int   `json:"position" validate:"required"`
	Symbol   string `json:"symbol" validate:"required,oneof=X O"`
	Nonce    string `json:"nonce" validate:"required,max=128"`
}

type ElevatePayload struct {
	AdminKey string `json:"adminKey" validate:"required,max=256"`
}

type EmptyPayload struct{}

// decodePayload fills dst from raw and validates it. A missing payload counts as an empty object.
func decodePayload(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	if raw[0] != '{' {
		return apperror.InvalidPayload("payload must be an object")
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return apperror.InvalidPayload("malformed payload: %v", err)
	}

	if err := payloadValidator.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return apperror.InvalidPayload("%s failed on %q", fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return apperror.InvalidPayload("invalid payload: %v", err)
	}

	return nil
}
