package worker

import (
	"context"
	"time"

	"github.com/grocerly/grocery-admin/pkg/utils/logging"
)

// IdleSessions is the set of form sessions the sweeper prunes
type IdleSessions interface {
	DisposeIdle(ttl time.Duration) int
}

// SessionSweeper periodically disposes form sessions that have been idle for
// longer than the configured TTL. Disposing a session releases its staged
// file previews and cancels any pending auto-reset.
//
// Single server instance is assumed; sessions live in process memory.
type SessionSweeper struct {
	sessions IdleSessions
	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSessionSweeper(sessions IdleSessions, interval, ttl time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop in the background
func (w *SessionSweeper) Start(ctx context.Context) error {
	logging.Default().Info("Session sweeper starting",
		"interval", w.interval.String(),
		"ttl", w.ttl.String())

	go w.run(ctx)

	return nil
}

// Stop signals the sweeper to stop and waits for completion
func (w *SessionSweeper) Stop() {
	logging.Default().Info("Session sweeper stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Session sweeper stopped")
}

func (w *SessionSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Session sweeper context cancelled")
			return
		}
	}
}

func (w *SessionSweeper) sweep() {
	if n := w.sessions.DisposeIdle(w.ttl); n > 0 {
		logging.Default().Info("Disposed idle form sessions", "count", n)
	}
}
