package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionStore is the part of the session manager the worker needs.
type SessionStore interface {
	CleanupOldSessions(idleTimeout time.Duration) int
	Count() int
}

type Worker struct {
	Sessions    SessionStore
	Interval    time.Duration
	IdleTimeout time.Duration
	logger      *zap.Logger
}

func NewWorker(sessions SessionStore, interval, idleTimeout time.Duration, logger *zap.Logger) *Worker {
	return &Worker{Sessions: sessions, Interval: interval, IdleTimeout: idleTimeout, logger: logger}
}

// Start runs one cleanup immediately and then one per Interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.runCleanup()

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.runCleanup()
			}
		}
	}()
	w.logger.Info("[CLEANUP] Background worker started",
		zap.Duration("interval", w.Interval), zap.Duration("idle_timeout", w.IdleTimeout))
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup() int {
	removed := w.Sessions.CleanupOldSessions(w.IdleTimeout)
	if removed > 0 {
		w.logger.Info("[CLEANUP] Removed idle sessions",
			zap.Int("removed", removed), zap.Int("remaining", w.Sessions.Count()))
	}
	return removed
}
