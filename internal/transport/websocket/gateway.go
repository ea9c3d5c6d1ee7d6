package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/usecase"
)

// Sender - delivers one message to one connection.
type Sender interface {
	Send(connID string, msg *Message) error
}

type roomRegistry interface {
	Create(ctx context.Context, connID, strategy, startMode string) (*usecase.CreateResult, error)
	Join(ctx context.Context, connID, roomID, token string) (*usecase.JoinResult, error)
	Leave(ctx context.Context, connID, roomID string) error
	Disconnect(connID string)
	Move(ctx context.Context, connID, roomID string, position int, symbol, nonce string) (*usecase.MoveResult, error)
	Reset(ctx context.Context, connID, roomID string) (*usecase.MoveResult, error)
	PlayAI(ctx context.Context, turn *usecase.AITurn) (entity.GameState, bool)
	List() []usecase.RoomSummary
	Members(roomID string) []string
}

type adminPlane interface {
	Elevate(connID, key string) error
	Forget(connID string)
	ListRooms(connID string) ([]usecase.RoomSummary, error)
	RoomInfo(connID, roomID string) (*usecase.RoomInfo, error)
	CloseRoom(connID, roomID string) ([]string, error)
}

// reply - what a handler produced: the ack for the caller, then pushes for everyone else.
type reply struct {
	ack     any
	states  []entity.GameState
	ai      *usecase.AITurn
	closed  string
	evicted []string
}

type handlerFunc func(ctx context.Context, connID string, payload json.RawMessage) (*reply, error)

// Gateway - transport-free dispatcher from client messages to registry operations.
type Gateway struct {
	logger   *slog.Logger
	registry roomRegistry
	admin    adminPlane
	sender   Sender

	handlers map[string]handlerFunc

	// AI replies still being decided
	pending sync.WaitGroup
}

func NewGateway(logger *slog.Logger, registry roomRegistry, admin adminPlane, sender Sender) *Gateway {
	gateway := &Gateway{
		logger:   logger.With("component", "gateway"),
		registry: registry,
		admin:    admin,
		sender:   sender,
	}

	gateway.handlers = map[string]handlerFunc{
		ActionCreateRoom:   gateway.handleCreateRoom,
		ActionJoinRoom:     gateway.handleJoinRoom,
		ActionLeaveRoom:    gateway.handleLeaveRoom,
		ActionMove:         gateway.handleMove,
		ActionResetRoom:    gateway.handleResetRoom,
		ActionListRooms:    gateway.handleListRooms,
		ActionAdminElevate: gateway.handleAdminElevate,
		ActionAdminRooms:   gateway.handleAdminRooms,
		ActionAdminRoom:    gateway.handleAdminRoom,
		ActionAdminClose:   gateway.handleAdminClose,
	}

	return gateway
}

// Handle processes one raw frame from connID: the ack goes out first, pushes
// follow. An AI reply owed by the room is decided afterwards in the background.
func (that *Gateway) Handle(ctx context.Context, connID string, raw []byte) {
	log := that.logger.With("method", "Handle", "connID", connID)

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Action == "" {
		log.Debug("malformed envelope", "error", err)
		that.push(connID, ActionError, ErrorPush{
			Code:    apperror.CodeInvalidPayload,
			Message: "malformed envelope",
		})
		return
	}

	handler, ok := that.handlers[msg.Action]
	if !ok {
		that.ack(connID, &msg, nil, apperror.InvalidPayload("unknown action %q", msg.Action))
		return
	}

	result, err := handler(ctx, connID, msg.Payload)
	if err != nil {
		that.ack(connID, &msg, nil, err)
		return
	}

	that.ack(connID, &msg, result.ack, nil)

	for _, state := range result.states {
		that.broadcast(state)
	}

	if result.ai != nil {
		that.pending.Add(1)
		go func() {
			defer that.pending.Done()
			that.playAI(ctx, result.ai)
		}()
	}

	for _, evicted := range result.evicted {
		that.push(evicted, ActionError, ErrorPush{
			Code:    apperror.CodeGameClosed,
			Message: "room was closed by an administrator",
			RoomID:  result.closed,
		})
	}
}

// Wait blocks until every AI reply started by Handle has been pushed or dropped.
func (that *Gateway) Wait() {
	that.pending.Wait()
}

// playAI runs the orchestrator after the human move is already out and pushes its reply.
func (that *Gateway) playAI(ctx context.Context, turn *usecase.AITurn) {
	if state, ok := that.registry.PlayAI(ctx, turn); ok {
		that.broadcast(state)
	}
}

// Disconnect releases everything connID held.
func (that *Gateway) Disconnect(connID string) {
	that.registry.Disconnect(connID)
	that.admin.Forget(connID)
}

func (that *Gateway) handleCreateRoom(ctx context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload CreateRoomPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	created, err := that.registry.Create(ctx, connID, payload.Strategy, payload.StartMode)
	if err != nil {
		return nil, fmt.Errorf("failed create room: %w", err)
	}

	return &reply{
		ack: CreateRoomAck{
			Ack:          Ack{OK: true},
			RoomID:       created.RoomID,
			Symbol:       created.Symbol,
			SessionToken: created.SessionToken,
		},
		states: created.States,
		ai:     created.AI,
	}, nil
}

func (that *Gateway) handleJoinRoom(ctx context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload JoinRoomPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	joined, err := that.registry.Join(ctx, connID, payload.RoomID, payload.SessionToken)
	if err != nil {
		return nil, fmt.Errorf("failed join room: %w", err)
	}

	return &reply{
		ack: JoinRoomAck{
			Ack:          Ack{OK: true},
			Role:         joined.Role,
			Symbol:       joined.Symbol,
			SessionToken: joined.SessionToken,
		},
		states: joined.States,
		ai:     joined.AI,
	}, nil
}

func (that *Gateway) handleLeaveRoom(ctx context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload RoomPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	if err := that.registry.Leave(ctx, connID, payload.RoomID); err != nil {
		return nil, fmt.Errorf("failed leave room: %w", err)
	}

	return &reply{ack: Ack{OK: true}}, nil
}

func (that *Gateway) handleMove(ctx context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload MovePayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	moved, err := that.registry.Move(ctx, connID, payload.RoomID, *payload.Position, payload.Symbol, payload.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed make move: %w", err)
	}

	return &reply{ack: Ack{OK: true}, states: moved.States, ai: moved.AI}, nil
}

func (that *Gateway) handleResetRoom(ctx context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload RoomPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	reset, err := that.registry.Reset(ctx, connID, payload.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed reset room: %w", err)
	}

	return &reply{ack: Ack{OK: true}, states: reset.States, ai: reset.AI}, nil
}

func (that *Gateway) handleListRooms(_ context.Context, _ string, raw json.RawMessage) (*reply, error) {
	var payload EmptyPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	return &reply{ack: RoomsAck{Ack: Ack{OK: true}, Rooms: that.registry.List()}}, nil
}

func (that *Gateway) handleAdminElevate(_ context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload ElevatePayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	if err := that.admin.Elevate(connID, payload.AdminKey); err != nil {
		return nil, err
	}

	return &reply{ack: RoleAck{Ack: Ack{OK: true}, Role: entity.RoleAdmin}}, nil
}

func (that *Gateway) handleAdminRooms(_ context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload EmptyPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	rooms, err := that.admin.ListRooms(connID)
	if err != nil {
		return nil, err
	}

	return &reply{ack: RoomsAck{Ack: Ack{OK: true}, Rooms: rooms}}, nil
}

func (that *Gateway) handleAdminRoom(_ context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload RoomPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	info, err := that.admin.RoomInfo(connID, payload.RoomID)
	if err != nil {
		return nil, err
	}

	return &reply{ack: RoomInfoAck{
		Ack:           Ack{OK: true},
		RoomID:        info.RoomID,
		Status:        info.Status,
		PlayerCount:   info.PlayerCount,
		ObserverCount: info.ObserverCount,
		Players:       info.Players,
	}}, nil
}

func (that *Gateway) handleAdminClose(_ context.Context, connID string, raw json.RawMessage) (*reply, error) {
	var payload RoomPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	evicted, err := that.admin.CloseRoom(connID, payload.RoomID)
	if err != nil {
		return nil, err
	}

	return &reply{ack: Ack{OK: true}, closed: payload.RoomID, evicted: evicted}, nil
}

// ack answers the request in msg with either payload or the wire code of err.
func (that *Gateway) ack(connID string, msg *Message, payload any, err error) {
	if err != nil {
		code := apperror.Code(err)
		if code == apperror.CodeInternal {
			that.logger.Error("request failed", "method", "ack", "connID", connID, "action", msg.Action, "error", err)
		}
		payload = Ack{OK: false, Error: code}
	}

	that.send(connID, &Message{Action: msg.Action, ID: msg.ID}, payload)
}

func (that *Gateway) broadcast(state entity.GameState) {
	for _, connID := range that.registry.Members(state.RoomID) {
		that.push(connID, ActionGameState, state)
	}
}

func (that *Gateway) push(connID, action string, payload any) {
	that.send(connID, &Message{Action: action}, payload)
}

func (that *Gateway) send(connID string, msg *Message, payload any) {
	log := that.logger.With("method", "send", "connID", connID, "action", msg.Action)

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal payload", "error", err)
		return
	}
	msg.Payload = raw

	if err = that.sender.Send(connID, msg); err != nil {
		if errors.Is(err, ErrUnknownConnection) {
			log.Debug("connection is gone")
			return
		}
		log.Warn("failed to send message", "error", err)
	}
}
