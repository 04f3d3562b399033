package ipc

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestTrackerIdleAfterGrace verifies that the idle callback fires once
// the last client has been gone for the grace period.
func TestTrackerIdleAfterGrace(t *testing.T) {
	idle := make(chan struct{})
	tr := NewTracker(zap.NewNop().Sugar(), 50*time.Millisecond, func() { close(idle) })

	tr.inc()
	tr.dec()

	select {
	case <-idle:
	case <-time.After(2 * time.Second):
		t.Fatal("idle callback did not fire after grace period")
	}
}

// TestTrackerReconnectCancelsGrace verifies that a client arriving
// during the grace period keeps the daemon alive.
func TestTrackerReconnectCancelsGrace(t *testing.T) {
	idle := make(chan struct{})
	tr := NewTracker(zap.NewNop().Sugar(), 100*time.Millisecond, func() { close(idle) })

	tr.inc()
	tr.dec()
	tr.inc() // reconnect before the grace period expires

	select {
	case <-idle:
		t.Fatal("idle callback fired despite reconnect")
	case <-time.After(300 * time.Millisecond):
	}
	if got := tr.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount = %d, want 1", got)
	}
}

// TestTrackerZeroGraceNeverIdles verifies that a non-positive grace
// period disables idle detection.
func TestTrackerZeroGraceNeverIdles(t *testing.T) {
	fired := make(chan struct{})
	tr := NewTracker(zap.NewNop().Sugar(), 0, func() { close(fired) })

	tr.inc()
	tr.dec()

	select {
	case <-fired:
		t.Fatal("idle callback fired with zero grace period")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestTrackerCancelGrace verifies that an explicit cancel stops a
// pending grace timer.
func TestTrackerCancelGrace(t *testing.T) {
	fired := make(chan struct{})
	tr := NewTracker(zap.NewNop().Sugar(), 50*time.Millisecond, func() { close(fired) })

	tr.inc()
	tr.dec()
	tr.CancelGrace()

	select {
	case <-fired:
		t.Fatal("idle callback fired after CancelGrace")
	case <-time.After(200 * time.Millisecond):
	}
}
