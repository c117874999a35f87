package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/corsinf/usuarios-api/internal/search"
)

// ProjectionCache is the cache side of session expiry.
type ProjectionCache interface {
	Invalidate(ctx context.Context, sessionID string) error
}

// SessionJanitor periodically drops search sessions that have gone idle,
// together with their cached result projections.
type SessionJanitor struct {
	sessions *search.Manager
	cache    ProjectionCache
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewSessionJanitor(
	sessions *search.Manager,
	cache ProjectionCache,
	logger *slog.Logger,
	interval time.Duration,
) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		cache:    cache,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (j *SessionJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep(ctx)
		case <-j.stopCh:
			j.logger.Info("session janitor stopped")
			return
		case <-ctx.Done():
			j.logger.Info("session janitor context cancelled")
			return
		}
	}
}

func (j *SessionJanitor) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	expired := j.sessions.Sweep(time.Now())
	for _, id := range expired {
		if err := j.cache.Invalidate(sweepCtx, id); err != nil {
			j.logger.Warn("failed to drop cached results for expired session",
				slog.String("session_id", id), slog.Any("error", err))
		}
	}

	if len(expired) > 0 {
		j.logger.Info("expired search sessions removed", slog.Int("count", len(expired)))
	}
}

// Stop signals the janitor to stop.
func (j *SessionJanitor) Stop() {
	close(j.stopCh)
}
