package usecase

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
)

// Admin - privileged room operations for connections that presented the shared key.
type Admin struct {
	logger   *slog.Logger
	key      []byte
	registry *Registry

	mu     sync.RWMutex
	admins map[string]struct{}
}

// NewAdmin - an empty key disables elevation entirely.
func NewAdmin(logger *slog.Logger, key string, registry *Registry) *Admin {
	return &Admin{
		logger:   logger.With("component", "admin"),
		key:      []byte(key),
		registry: registry,
		admins:   make(map[string]struct{}),
	}
}

// Elevate grants connID the admin role for the rest of its lifetime.
func (that *Admin) Elevate(connID, key string) error {
	log := that.logger.With("method", "Elevate", "connID", connID)

	if len(that.key) == 0 || subtle.ConstantTimeCompare(that.key, []byte(key)) != 1 {
		log.Warn("rejected admin key")
		return apperror.ErrUnauthorized
	}

	that.mu.Lock()
	that.admins[connID] = struct{}{}
	that.mu.Unlock()

	log.Info("connection elevated")

	return nil
}

func (that *Admin) IsAdmin(connID string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.admins[connID]
	return ok
}

// Forget drops the role when the connection goes away.
func (that *Admin) Forget(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.admins, connID)
}

func (that *Admin) ListRooms(connID string) ([]RoomSummary, error) {
	if !that.IsAdmin(connID) {
		return nil, apperror.ErrForbidden
	}

	return that.registry.List(), nil
}

func (that *Admin) RoomInfo(connID, roomID string) (*RoomInfo, error) {
	if !that.IsAdmin(connID) {
		return nil, apperror.ErrForbidden
	}

	info, err := that.registry.Info(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed get room info: %w", err)
	}

	return info, nil
}

// CloseRoom force-closes roomID and returns the evicted connections to notify.
func (that *Admin) CloseRoom(connID, roomID string) ([]string, error) {
	if !that.IsAdmin(connID) {
		return nil, apperror.ErrForbidden
	}

	evicted, err := that.registry.Close(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed close room: %w", err)
	}

	that.logger.Info("room force-closed", "method", "CloseRoom", "connID", connID, "roomID", roomID)

	return evicted, nil
}
