// Package session keeps the resumption tokens of a single room.
//
// A Manager is not safe for concurrent use on its own; it lives inside a room
// and is guarded by that room's lock. Scoping a Manager to one room is what
// keeps a token from room A from ever resolving a seat in room B.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

var ErrUnknownToken = errors.New("unknown session token")

// Session is the seat a token can reclaim.
type Session struct {
	Token    string
	Symbol   string
	ConnID   string
	LastSeen time.Time
}

type Manager struct {
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Issue creates a token for symbol bound to connID.
func (that *Manager) Issue(symbol, connID string, now time.Time) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}

	that.Adopt(token, symbol, connID, now)

	return token, nil
}

// Adopt registers a token generated ahead of time.
func (that *Manager) Adopt(token, symbol, connID string, now time.Time) {
	that.sessions[token] = &Session{
		Token:    token,
		Symbol:   symbol,
		ConnID:   connID,
		LastSeen: now,
	}
}

func (that *Manager) Resolve(token string) (Session, bool) {
	s, ok := that.sessions[token]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Find returns the session currently bound to connID for symbol.
func (that *Manager) Find(connID, symbol string) (Session, bool) {
	for _, s := range that.sessions {
		if s.ConnID == connID && s.Symbol == symbol {
			return *s, true
		}
	}
	return Session{}, false
}

// Bind re-associates token with connID, replacing the previous connection.
func (that *Manager) Bind(token, connID string, now time.Time) error {
	s, ok := that.sessions[token]
	if !ok {
		return ErrUnknownToken
	}

	s.ConnID = connID
	s.LastSeen = now

	return nil
}

// Touch refreshes the idle clock of every session bound to connID.
func (that *Manager) Touch(connID string, now time.Time) {
	for _, s := range that.sessions {
		if s.ConnID == connID {
			s.LastSeen = now
		}
	}
}

// RevokeSymbol drops every token that could reclaim symbol.
func (that *Manager) RevokeSymbol(symbol string) {
	for token, s := range that.sessions {
		if s.Symbol == symbol {
			delete(that.sessions, token)
		}
	}
}

// PruneIdle drops sessions idle for longer than ttl, except those whose
// connection still holds the seat. A zero ttl disables expiry.
func (that *Manager) PruneIdle(now time.Time, ttl time.Duration, seated func(connID, symbol string) bool) int {
	if ttl <= 0 {
		return 0
	}

	pruned := 0
	for token, s := range that.sessions {
		if now.Sub(s.LastSeen) <= ttl || seated(s.ConnID, s.Symbol) {
			continue
		}
		delete(that.sessions, token)
		pruned++
	}

	return pruned
}

func (that *Manager) Len() int {
	return len(that.sessions)
}

// NewToken - generates an unguessable opaque token.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
