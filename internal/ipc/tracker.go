package ipc

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Tracker counts active client connections. When the last client
// disconnects it starts a grace timer and calls onIdle after the grace
// period expires without a reconnect. A non-positive grace period
// disables idle detection entirely.
type Tracker struct {
	active      atomic.Int64
	gracePeriod time.Duration
	onIdle      func() // called in a separate goroutine when the grace period expires
	logger      *zap.SugaredLogger

	mu         sync.Mutex
	graceTimer *time.Timer
}

// NewTracker creates a Tracker with the given grace period.
func NewTracker(logger *zap.SugaredLogger, gracePeriod time.Duration, onIdle func()) *Tracker {
	return &Tracker{
		gracePeriod: gracePeriod,
		onIdle:      onIdle,
		logger:      logger,
	}
}

// ActiveCount returns the current number of connected clients.
func (t *Tracker) ActiveCount() int64 {
	return t.active.Load()
}

// CancelGrace cancels any pending grace timer. Used during explicit
// shutdown to prevent the idle callback from firing.
func (t *Tracker) CancelGrace() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.graceTimer != nil {
		t.graceTimer.Stop()
		t.graceTimer = nil
	}
}

func (t *Tracker) inc() int64 {
	n := t.active.Add(1)
	if n == 1 {
		// Went from 0 to 1: cancel any pending grace timer.
		t.mu.Lock()
		if t.graceTimer != nil {
			t.graceTimer.Stop()
			t.graceTimer = nil
			t.logger.Debugw("Client reconnected, grace timer cancelled")
		}
		t.mu.Unlock()
	}
	return n
}

func (t *Tracker) dec() int64 {
	n := t.active.Add(-1)
	if n == 0 && t.gracePeriod > 0 {
		// All clients gone, start the grace timer.
		t.mu.Lock()
		if t.graceTimer != nil {
			t.graceTimer.Stop()
		}
		t.logger.Infow("All clients disconnected, starting grace timer", "grace", t.gracePeriod)
		t.graceTimer = time.AfterFunc(t.gracePeriod, func() {
			t.mu.Lock()
			t.graceTimer = nil
			t.mu.Unlock()
			if t.onIdle != nil {
				t.onIdle()
			}
		})
		t.mu.Unlock()
	}
	return n
}
