package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/grocerly/grocery-admin/pkg/service/worker"
	"github.com/m-mizutani/gt"
)

type mockSessions struct {
	mu      sync.Mutex
	calls   int
	lastTTL time.Duration
}

func (m *mockSessions) DisposeIdle(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastTTL = ttl
	return 1
}

func (m *mockSessions) snapshot() (int, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.lastTTL
}

func TestSessionSweeper_SweepsPeriodically(t *testing.T) {
	sessions := &mockSessions{}
	w := worker.NewSessionSweeper(sessions, 10*time.Millisecond, time.Minute)

	gt.NoError(t, w.Start(context.Background())).Required()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if calls, _ := sessions.snapshot(); calls >= 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	calls, ttl := sessions.snapshot()
	gt.Bool(t, calls >= 2).True()
	gt.Value(t, ttl).Equal(time.Minute)

	time.Sleep(30 * time.Millisecond)
	after, _ := sessions.snapshot()
	gt.Value(t, after).Equal(calls)
}

func TestSessionSweeper_StopsOnContextCancel(t *testing.T) {
	sessions := &mockSessions{}
	w := worker.NewSessionSweeper(sessions, time.Hour, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, w.Start(ctx)).Required()
	cancel()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
	calls, _ := sessions.snapshot()
	gt.Value(t, calls).Equal(0)
}
