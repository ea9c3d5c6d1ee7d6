package service

import (
	"sync"
	"time"
)

type RateLimitOptions struct {
	// Limit is the number of accepted submissions per window. Zero disables limiting.
	Limit  int
	Window time.Duration
	Now    func() time.Time
}

// RateLimiter - per-connection sliding window admission control.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	requests map[string][]time.Time
}

func NewRateLimiter(opts RateLimitOptions) *RateLimiter {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &RateLimiter{
		limit:    opts.Limit,
		window:   opts.Window,
		now:      now,
		requests: make(map[string][]time.Time),
	}
}

// Allow prunes connID's window and accepts iff fewer than Limit submissions remain in it.
// Only accepted submissions are recorded.
func (that *RateLimiter) Allow(connID string) bool {
	if that.limit <= 0 {
		return true
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	requests := that.prune(that.requests[connID], now)

	if len(requests) >= that.limit {
		that.requests[connID] = requests
		return false
	}

	that.requests[connID] = append(requests, now)

	return true
}

// Forget drops everything known about connID.
func (that *RateLimiter) Forget(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.requests, connID)
}

// PruneIdle evicts connections whose whole window has expired and returns how many were evicted.
func (that *RateLimiter) PruneIdle() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	evicted := 0
	for connID, requests := range that.requests {
		if len(that.prune(requests, now)) == 0 {
			delete(that.requests, connID)
			evicted++
		}
	}

	return evicted
}

// Tracked returns how many connections currently hold a window.
func (that *RateLimiter) Tracked() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.requests)
}

// prune drops timestamps older than the window; requests are in ascending order.
func (that *RateLimiter) prune(requests []time.Time, now time.Time) []time.Time {
	windowStart := now.Add(-that.window)

	valid := len(requests)
	for i, at := range requests {
		if at.After(windowStart) {
			valid = i
			break
		}
	}

	return requests[valid:]
}
