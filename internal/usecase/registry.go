package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/repository"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/service"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/session"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/telemetry"
)

const (
	StartModeHuman  = "human"
	StartModeAI     = "ai"
	StartModeRandom = "random"
)

const (
	defaultDecisionTimeout = 2 * time.Second
	defaultRecordTimeout   = time.Second
)

var errDecisionPanic = errors.New("move orchestrator panicked")

// botDecider - the move orchestrator consulted when the AI is to move.
type botDecider interface {
	Decide(ctx context.Context, board [entity.BoardSize]string, symbol, strategy string) (int, error)
	Supports(strategy string) bool
}

// Options - explicit knobs of the registry; nothing is read from the environment.
type Options struct {
	RoomTTL           time.Duration
	SessionIdleTTL    time.Duration
	MaxNonces         int
	AutoCreateOnJoin  bool
	AIDecisionTimeout time.Duration
	RecordTimeout     time.Duration
	DefaultStrategy   string
	Now               func() time.Time
}

// AITurn - an orchestrator move owed by a room. It is only applied while the
// room is still at the version it was taken at.
type AITurn struct {
	room    *entity.Room
	version uint64
}

// CreateResult - the seat handed to the creator plus the states to push.
type CreateResult struct {
	RoomID       string
	Symbol       string
	SessionToken string
	States       []entity.GameState
	AI           *AITurn
}

type JoinResult struct {
	RoomID       string
	Role         string
	Symbol       string
	SessionToken string
	States       []entity.GameState
	AI           *AITurn
}

// MoveResult - committed states in order plus the AI reply still to be played, if any.
type MoveResult struct {
	States []entity.GameState
	AI     *AITurn
}

// RoomSummary - one line of the public room listing.
type RoomSummary struct {
	RoomID        string `json:"roomId"`
	Status        string `json:"status"`
	PlayerCount   int    `json:"playerCount"`
	ObserverCount int    `json:"observerCount"`
	HasAI         bool   `json:"hasAi"`
}

type RoomInfo struct {
	RoomID        string          `json:"roomId"`
	Status        string          `json:"status"`
	PlayerCount   int             `json:"playerCount"`
	ObserverCount int             `json:"observerCount"`
	Players       []entity.Player `json:"players"`
}

// Registry - owns every room and is the only writer of room state.
//
// Lock order: a room's Mu may be held while taking connMu. mu and a room's Mu
// are never held together.
type Registry struct {
	logger *slog.Logger
	opts   Options

	ids      *pkg.IDGenerator
	limiter  *service.RateLimiter
	bot      botDecider
	recorder repository.Recorder
	tracer   *telemetry.MoveTracer

	mu    sync.RWMutex
	rooms map[string]*entity.Room

	connMu sync.Mutex
	conns  map[string]map[string]struct{}
}

func NewRegistry(
	logger *slog.Logger,
	opts Options,
	ids *pkg.IDGenerator,
	limiter *service.RateLimiter,
	bot botDecider,
	recorder repository.Recorder,
	tracer *telemetry.MoveTracer,
) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AIDecisionTimeout <= 0 {
		opts.AIDecisionTimeout = defaultDecisionTimeout
	}
	if opts.RecordTimeout <= 0 {
		opts.RecordTimeout = defaultRecordTimeout
	}
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = service.StrategyRandom
	}
	if recorder == nil {
		recorder = repository.NopRecorder{}
	}

	return &Registry{
		logger:   logger.With("component", "registry"),
		opts:     opts,
		ids:      ids,
		limiter:  limiter,
		bot:      bot,
		recorder: recorder,
		tracer:   tracer,
		rooms:    make(map[string]*entity.Room),
		conns:    make(map[string]map[string]struct{}),
	}
}

// Create - allocates a room and seats connID in it. A non-empty strategy, or
// the "ai" start mode, makes the other symbol AI-controlled.
func (that *Registry) Create(ctx context.Context, connID, strategy, startMode string) (*CreateResult, error) {
	log := that.logger.With("method", "Create", "connID", connID)

	if startMode == "" {
		startMode = StartModeHuman
	}
	if !slices.Contains([]string{StartModeHuman, StartModeAI, StartModeRandom}, startMode) {
		return nil, apperror.InvalidPayload("unknown startMode %q", startMode)
	}
	if strategy == "" && startMode == StartModeAI {
		strategy = that.opts.DefaultStrategy
	}
	if strategy != "" && (that.bot == nil || !that.bot.Supports(strategy)) {
		return nil, apperror.InvalidPayload("unknown strategy %q", strategy)
	}

	humanSymbol := entity.PlayerX
	switch startMode {
	case StartModeAI:
		humanSymbol = entity.PlayerO
	case StartModeRandom:
		humanSymbol, _ = entity.RandomMarks()
	}

	now := that.opts.Now()

	token, err := session.NewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	that.mu.Lock()
	roomID := that.ids.Generate(func(candidate string) bool {
		_, taken := that.rooms[candidate]
		return taken
	})

	// nobody can reach the room before it is stored, so it is prepared without its lock
	room := entity.NewRoom(roomID, that.opts.MaxNonces, now)
	room.Sessions.Adopt(token, humanSymbol, connID, now)
	room.Seat(connID, humanSymbol)
	if strategy != "" {
		room.AISymbol = entity.Opponent(humanSymbol)
		room.Strategy = strategy
		room.Game.Status = entity.StatusActive
	}
	room.Bump(now)

	start := that.gameStartOf(room, now)
	states := []entity.GameState{room.State()}
	turn := that.pendingAI(room)

	that.rooms[roomID] = room
	that.mu.Unlock()

	that.addMembership(connID, roomID)

	log.Info("room created", "roomID", roomID, "symbol", humanSymbol, "strategy", strategy)

	if start != nil {
		that.recordGameStart(ctx, *start)
	}

	return &CreateResult{
		RoomID:       roomID,
		Symbol:       humanSymbol,
		SessionToken: token,
		States:       states,
		AI:           turn,
	}, nil
}

// Join - seats connID in roomID. A token resolving to a vacant seat reclaims
// it; otherwise the first free symbol is handed out; otherwise connID observes.
func (that *Registry) Join(ctx context.Context, connID, roomID, token string) (*JoinResult, error) {
	log := that.logger.With("method", "Join", "connID", connID, "roomID", roomID)

	room, err := that.lockRoomForJoin(roomID)
	if err != nil {
		return nil, err
	}

	now := that.opts.Now()
	result := &JoinResult{RoomID: roomID}

	switch symbol, seated := room.SymbolOf(connID); {
	case seated:
		result.Role = entity.RolePlayer
		result.Symbol = symbol
		if s, ok := room.Sessions.Find(connID, symbol); ok {
			result.SessionToken = s.Token
		}
	case that.resume(room, connID, token, now):
		result.Role = entity.RolePlayer
		result.Symbol, _ = room.SymbolOf(connID)
		result.SessionToken = token
	default:
		free, ok := room.FreeSymbol()
		if !ok {
			room.AddObserver(connID)
			result.Role = entity.RoleObserver
			break
		}

		// the seat changes hands, earlier tokens for it must not reclaim it
		room.Sessions.RevokeSymbol(free)
		fresh, issueErr := room.Sessions.Issue(free, connID, now)
		if issueErr != nil {
			room.Mu.Unlock()
			return nil, fmt.Errorf("failed to issue session token: %w", issueErr)
		}

		room.Seat(connID, free)
		result.Role = entity.RolePlayer
		result.Symbol = free
		result.SessionToken = fresh
	}

	room.Touch(now)
	var start *repository.GameStart
	if room.Game.IsWaiting() && room.IsPlayable() {
		room.Game.Status = entity.StatusActive
		room.Bump(now)
		start = that.gameStartOf(room, now)
	}
	that.addMembership(connID, roomID)

	result.States = []entity.GameState{room.State()}
	result.AI = that.pendingAI(room)
	room.Mu.Unlock()

	log.Info("joined room", "role", result.Role, "symbol", result.Symbol)

	if start != nil {
		that.recordGameStart(ctx, *start)
	}

	return result, nil
}

// Leave - vacates connID's seat or observer place and revokes its seat token.
// Leaving a room one is not in is a no-op.
func (that *Registry) Leave(_ context.Context, connID, roomID string) error {
	room, ok := that.lookup(roomID)
	if !ok {
		return nil
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed || !room.IsMember(connID) {
		return nil
	}

	if symbol, wasPlayer := room.Vacate(connID); wasPlayer {
		room.Sessions.RevokeSymbol(symbol)
	}
	room.Touch(that.opts.Now())
	that.dropMembership(connID, roomID)

	that.logger.Info("left room", "method", "Leave", "connID", connID, "roomID", roomID)

	return nil
}

// Disconnect - leaves every room of connID while keeping seat tokens valid,
// so the seat can be reclaimed until someone else takes it.
func (that *Registry) Disconnect(connID string) {
	log := that.logger.With("method", "Disconnect", "connID", connID)

	that.connMu.Lock()
	roomIDs := make([]string, 0, len(that.conns[connID]))
	for roomID := range that.conns[connID] {
		roomIDs = append(roomIDs, roomID)
	}
	delete(that.conns, connID)
	that.connMu.Unlock()

	now := that.opts.Now()
	for _, roomID := range roomIDs {
		room, ok := that.lookup(roomID)
		if !ok {
			continue
		}

		room.Mu.Lock()
		if !room.Closed {
			if symbol, wasPlayer := room.Vacate(connID); wasPlayer {
				log.Info("seat released", "roomID", roomID, "symbol", symbol)
			}
			room.Touch(now)
		}
		room.Mu.Unlock()
	}

	if that.limiter != nil {
		that.limiter.Forget(connID)
	}
}

// Move - validates and applies a human move. The AI reply, if one is owed,
// is left to the caller so the human move can be pushed first.
func (that *Registry) Move(ctx context.Context, connID, roomID string, position int, symbol, nonce string) (_ *MoveResult, err error) {
	ctx, end := that.tracer.Start(ctx, "room.move", roomID,
		attribute.String("move.symbol", symbol),
		attribute.Int("move.position", position),
	)
	defer func() { end(err) }()

	if that.limiter != nil && !that.limiter.Allow(connID) {
		return nil, apperror.ErrRateLimit
	}

	room, ok := that.lookup(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	room.Mu.Lock()

	if room.Closed {
		room.Mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	if room.Nonces.Seen(nonce) {
		room.Mu.Unlock()
		return nil, apperror.ErrDuplicate
	}

	if holder, seated := room.HolderOf(symbol); !seated || holder != connID {
		room.Mu.Unlock()
		return nil, apperror.ErrNotSeated
	}

	if err = room.Game.MakeTurn(symbol, position); err != nil {
		room.Mu.Unlock()
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	now := that.opts.Now()
	room.Nonces.Record(nonce)
	room.Bump(now)
	room.Sessions.Touch(connID, now)

	result := &MoveResult{
		States: []entity.GameState{room.State()},
		AI:     that.pendingAI(room),
	}
	outcome := outcomeOf(room, now)
	room.Mu.Unlock()

	that.recordMove(ctx, repository.MoveRecord{
		RoomID:   roomID,
		Position: position,
		Symbol:   symbol,
		Nonce:    nonce,
		At:       now,
	}, outcome)

	return result, nil
}

// Reset - clears the board keeping seats, symbols and seen nonces.
// Only a seated player may reset.
func (that *Registry) Reset(ctx context.Context, connID, roomID string) (*MoveResult, error) {
	room, ok := that.lookup(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	room.Mu.Lock()

	if room.Closed {
		room.Mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	if _, seated := room.SymbolOf(connID); !seated {
		room.Mu.Unlock()
		return nil, apperror.ErrNotSeated
	}

	now := that.opts.Now()
	room.Game.Reset(room.IsPlayable())
	room.Bump(now)

	var start *repository.GameStart
	if room.Game.IsActive() {
		start = that.gameStartOf(room, now)
	}
	result := &MoveResult{
		States: []entity.GameState{room.State()},
		AI:     that.pendingAI(room),
	}
	room.Mu.Unlock()

	that.logger.Info("room reset", "method", "Reset", "connID", connID, "roomID", roomID)

	if start != nil {
		that.recordGameStart(ctx, *start)
	}

	return result, nil
}

// List - summaries of every open room ordered by id.
func (that *Registry) List() []RoomSummary {
	rooms := that.snapshot()

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		room.Mu.Lock()
		if !room.Closed {
			summaries = append(summaries, RoomSummary{
				RoomID:        room.ID,
				Status:        room.Game.Status,
				PlayerCount:   room.PlayerCount(),
				ObserverCount: room.ObserverCount(),
				HasAI:         room.HasAI(),
			})
		}
		room.Mu.Unlock()
	}

	slices.SortFunc(summaries, func(a, b RoomSummary) int {
		return strings.Compare(a.RoomID, b.RoomID)
	})

	return summaries
}

// Members - connection ids to push roomID's state to.
func (that *Registry) Members(roomID string) []string {
	room, ok := that.lookup(roomID)
	if !ok {
		return nil
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed {
		return nil
	}

	return room.Members()
}

func (that *Registry) Info(roomID string) (*RoomInfo, error) {
	room, ok := that.lookup(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	return &RoomInfo{
		RoomID:        room.ID,
		Status:        room.Game.Status,
		PlayerCount:   room.PlayerCount(),
		ObserverCount: room.ObserverCount(),
		Players:       room.Players(),
	}, nil
}

// Close - evicts everyone from roomID, deletes it and returns the evicted connections.
func (that *Registry) Close(roomID string) ([]string, error) {
	room, ok := that.lookup(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	room.Mu.Lock()
	if room.Closed {
		room.Mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	room.Closed = true
	evicted := room.Members()
	for _, connID := range evicted {
		room.Vacate(connID)
		that.dropMembership(connID, roomID)
	}
	room.Mu.Unlock()

	that.forgetRoom(room)

	that.logger.Info("room closed", "method", "Close", "roomID", roomID, "evicted", len(evicted))

	return evicted, nil
}

// Sweep - deletes empty rooms idle for longer than the room TTL and expires
// idle session tokens. Rooms with anyone present are never deleted.
func (that *Registry) Sweep() []string {
	now := that.opts.Now()

	var removed []string
	for _, room := range that.snapshot() {
		room.Mu.Lock()
		if room.Closed {
			room.Mu.Unlock()
			continue
		}

		room.Sessions.PruneIdle(now, that.opts.SessionIdleTTL, func(connID, symbol string) bool {
			holder, ok := room.HolderOf(symbol)
			return ok && holder == connID
		})

		expired := room.IsEmpty() && now.Sub(room.LastActiveAt) > that.opts.RoomTTL
		if expired {
			room.Closed = true
		}
		room.Mu.Unlock()

		if expired {
			that.forgetRoom(room)
			removed = append(removed, room.ID)
		}
	}

	return removed
}

// Len - number of rooms in the registry.
func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// resume re-seats connID from token when the token's symbol is vacant. Caller holds room.Mu.
func (that *Registry) resume(room *entity.Room, connID, token string, now time.Time) bool {
	if token == "" {
		return false
	}

	s, ok := room.Sessions.Resolve(token)
	if !ok {
		return false
	}

	if _, taken := room.HolderOf(s.Symbol); taken {
		return false
	}

	if err := room.Sessions.Bind(token, connID, now); err != nil {
		return false
	}

	room.Seat(connID, s.Symbol)

	return true
}

// pendingAI returns the AI move owed by room, or nil. Caller holds room.Mu.
func (that *Registry) pendingAI(room *entity.Room) *AITurn {
	if that.bot == nil || !room.IsAITurn() {
		return nil
	}
	return &AITurn{room: room, version: room.Version}
}

// PlayAI asks the orchestrator for the move owed by turn while no lock is held
// and applies it only if nothing changed the room in the meantime. A nil turn
// or any orchestrator failure yields no state.
func (that *Registry) PlayAI(ctx context.Context, turn *AITurn) (entity.GameState, bool) {
	if turn == nil {
		return entity.GameState{}, false
	}

	room, version := turn.room, turn.version
	log := that.logger.With("method", "PlayAI", "roomID", room.ID)

	room.Mu.Lock()
	if room.Closed || room.Version != version || !room.IsAITurn() || that.bot == nil {
		room.Mu.Unlock()
		return entity.GameState{}, false
	}
	board, symbol, strategy := room.Game.Board, room.AISymbol, room.Strategy
	room.Mu.Unlock()

	// the human move is already committed, a vanished caller must not cancel the reply
	ctx = context.WithoutCancel(ctx)

	cell, err := that.decide(ctx, board, symbol, strategy)
	if err != nil {
		log.Warn("no AI move", "error", err)
		return entity.GameState{}, false
	}

	room.Mu.Lock()
	if room.Closed || room.Version != version || !room.IsAITurn() {
		room.Mu.Unlock()
		log.Debug("room changed while the AI was deciding, move dropped")
		return entity.GameState{}, false
	}

	if err = room.Game.MakeTurn(symbol, cell); err != nil {
		room.Mu.Unlock()
		log.Error("AI produced an illegal move", "cell", cell, "error", err)
		return entity.GameState{}, false
	}

	now := that.opts.Now()
	room.Bump(now)
	state := room.State()
	outcome := outcomeOf(room, now)
	room.Mu.Unlock()

	that.recordMove(ctx, repository.MoveRecord{
		RoomID:   room.ID,
		Position: cell,
		Symbol:   symbol,
		ByAI:     true,
		At:       now,
	}, outcome)

	return state, true
}

// decide bounds the orchestrator by the decision timeout and turns a panic into an error.
func (that *Registry) decide(ctx context.Context, board [entity.BoardSize]string, symbol, strategy string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, that.opts.AIDecisionTimeout)
	defer cancel()

	type decision struct {
		cell int
		err  error
	}

	done := make(chan decision, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- decision{cell: service.NoMove, err: fmt.Errorf("%w: %v", errDecisionPanic, r)}
			}
		}()

		cell, err := that.bot.Decide(ctx, board, symbol, strategy)
		done <- decision{cell: cell, err: err}
	}()

	select {
	case d := <-done:
		if d.err == nil && d.cell == service.NoMove {
			d.err = service.ErrNoAvailableMoves
		}
		return d.cell, d.err
	case <-ctx.Done():
		return service.NoMove, fmt.Errorf("move orchestrator timed out: %w", ctx.Err())
	}
}

// lockRoomForJoin returns roomID locked, creating it first when the policy allows.
func (that *Registry) lockRoomForJoin(roomID string) (*entity.Room, error) {
	room, ok := that.lookup(roomID)
	if !ok && that.opts.AutoCreateOnJoin {
		room = that.getOrCreate(roomID)
		ok = true
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	room.Mu.Lock()
	if room.Closed {
		room.Mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	return room, nil
}

func (that *Registry) getOrCreate(roomID string) *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	if room, ok := that.rooms[roomID]; ok {
		return room
	}

	room := entity.NewRoom(roomID, that.opts.MaxNonces, that.opts.Now())
	that.rooms[roomID] = room

	that.logger.Info("room created on join", "method", "getOrCreate", "roomID", roomID)

	return room
}

func (that *Registry) lookup(roomID string) (*entity.Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[roomID]
	return room, ok
}

func (that *Registry) snapshot() []*entity.Room {
	that.mu.RLock()
	defer that.mu.RUnlock()

	rooms := make([]*entity.Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// forgetRoom removes room from the map unless its id was already reused.
func (that *Registry) forgetRoom(room *entity.Room) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.rooms[room.ID] == room {
		delete(that.rooms, room.ID)
	}
}

func (that *Registry) addMembership(connID, roomID string) {
	that.connMu.Lock()
	defer that.connMu.Unlock()

	rooms, ok := that.conns[connID]
	if !ok {
		rooms = make(map[string]struct{})
		that.conns[connID] = rooms
	}
	rooms[roomID] = struct{}{}
}

func (that *Registry) dropMembership(connID, roomID string) {
	that.connMu.Lock()
	defer that.connMu.Unlock()

	delete(that.conns[connID], roomID)
	if len(that.conns[connID]) == 0 {
		delete(that.conns, connID)
	}
}

// gameStartOf describes the game room just started. Caller holds room.Mu.
func (that *Registry) gameStartOf(room *entity.Room, now time.Time) *repository.GameStart {
	if !room.Game.IsActive() {
		return nil
	}

	return &repository.GameStart{
		RoomID:   room.ID,
		AISymbol: room.AISymbol,
		Strategy: room.Strategy,
		At:       now,
	}
}

// outcomeOf returns the result of a finished game. Caller holds room.Mu.
func outcomeOf(room *entity.Room, now time.Time) *repository.Outcome {
	if !room.Game.IsCompleted() {
		return nil
	}

	state := room.State()

	return &repository.Outcome{
		RoomID: room.ID,
		Winner: state.Winner,
		Draw:   state.Draw,
		At:     now,
	}
}

func (that *Registry) recordGameStart(ctx context.Context, start repository.GameStart) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), that.opts.RecordTimeout)
	defer cancel()

	if err := that.recorder.RecordGameStart(ctx, start); err != nil {
		that.logger.Error("failed to record game start", "method", "recordGameStart", "roomID", start.RoomID, "error", err)
	}
}

func (that *Registry) recordMove(ctx context.Context, move repository.MoveRecord, outcome *repository.Outcome) {
	log := that.logger.With("method", "recordMove", "roomID", move.RoomID)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), that.opts.RecordTimeout)
	defer cancel()

	if err := that.recorder.RecordMove(ctx, move); err != nil {
		log.Error("failed to record move", "error", err)
	}

	if outcome == nil {
		return
	}

	if err := that.recorder.RecordOutcome(ctx, *outcome); err != nil {
		log.Error("failed to record outcome", "error", err)
	}
}
