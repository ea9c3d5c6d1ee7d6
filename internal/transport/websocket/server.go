package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = 54 * time.Second
	maxMessageSize  = 4096
	sendBufferSize  = 64
	shutdownTimeout = 5 * time.Second
)

var (
	ErrUnknownConnection = errors.New("unknown connection")
	ErrSendBufferFull    = errors.New("send buffer is full")
)

// inbound - what the server feeds every frame and disconnect into.
type inbound interface {
	Handle(ctx context.Context, connID string, raw []byte)
	Disconnect(connID string)
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	closeOnce sync.Once
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
		_ = that.conn.Close()
	})
}

// Server - gorilla adapter that gives every socket an id and a buffered outbox.
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		clients: make(map[string]*client),
	}
}

// Start - serves /ws on port until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string, handler inbound) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down server", "error", err)
		}
		that.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Handler - routes /ws upgrades; ctx bounds every connection it accepts.
func (that *Server) Handler(ctx context.Context, handler inbound) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", otelhttp.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r, handler)
	}), "websocket.upgrade"))

	return mux
}

// Send queues msg for connID without blocking; a full outbox drops the connection.
func (that *Server) Send(connID string, msg *Message) error {
	that.mu.RLock()
	c, ok := that.clients[connID]
	that.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConnection, connID)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	select {
	case <-c.done:
		return fmt.Errorf("%w: %s", ErrUnknownConnection, connID)
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.close()
		return fmt.Errorf("%w: %s", ErrSendBufferFull, connID)
	}
}

func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request, handler inbound) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	that.mu.Lock()
	that.clients[c.id] = c
	that.mu.Unlock()

	log.Info("WebSocket connection established", "connID", c.id)

	go that.writePump(c)
	that.readPump(ctx, c, handler)
}

// readPump handles frames of c one at a time until the socket fails.
func (that *Server) readPump(ctx context.Context, c *client, handler inbound) {
	log := that.logger.With("method", "readPump", "connID", c.id)

	defer func() {
		that.mu.Lock()
		delete(that.clients, c.id)
		that.mu.Unlock()

		c.close()
		handler.Disconnect(c.id)

		log.Info("WebSocket connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		handler.Handle(ctx, c.id, data)
	}
}

func (that *Server) writePump(c *client) {
	log := that.logger.With("method", "writePump", "connID", c.id)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *Server) closeAll() {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, c := range that.clients {
		c.close()
	}
}
