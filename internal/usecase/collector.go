package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/service"
)

// Collector - periodically prunes expired rooms, sessions and rate-limit windows.
type Collector struct {
	logger   *slog.Logger
	registry *Registry
	limiter  *service.RateLimiter
	interval time.Duration
}

func NewCollector(logger *slog.Logger, registry *Registry, limiter *service.RateLimiter, interval time.Duration) *Collector {
	return &Collector{
		logger:   logger.With("component", "collector"),
		registry: registry,
		limiter:  limiter,
		interval: interval,
	}
}

// Run sweeps every interval until ctx is done. A non-positive interval disables it.
func (that *Collector) Run(ctx context.Context) {
	if that.interval <= 0 {
		return
	}

	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.Sweep()
		}
	}
}

// Sweep runs one pruning pass and returns the ids of removed rooms.
func (that *Collector) Sweep() []string {
	removed := that.registry.Sweep()

	evicted := 0
	if that.limiter != nil {
		evicted = that.limiter.PruneIdle()
	}

	if len(removed) > 0 || evicted > 0 {
		that.logger.Info("swept", "method", "Sweep", "rooms", removed, "rateLimitWindows", evicted)
	}

	return removed
}
