package daemon

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inferiorhumanorgans/pidpath/internal/core"
)

// TestDaemonLookupCounters verifies the resolver wrapper keeps the
// stats counters in step with lookup outcomes.
func TestDaemonLookupCounters(t *testing.T) {
	d := &Daemon{logger: zap.NewNop().Sugar(), started: time.Now(), version: "test"}

	if _, err := d.Lookup(os.Getpid()); err != nil {
		// Platforms without a resolver backend still count the attempt.
		t.Logf("self lookup failed: %v", err)
	}
	if _, err := d.Lookup(-1); err == nil {
		t.Fatal("expected error for pid -1")
	}

	st := d.snapshot()
	if st.Lookups != 2 {
		t.Errorf("Lookups = %d, want 2", st.Lookups)
	}
	if st.Failed == 0 {
		t.Error("Failed = 0, want at least 1")
	}
	if st.Resolved+st.Failed != st.Lookups {
		t.Errorf("Resolved (%d) + Failed (%d) != Lookups (%d)", st.Resolved, st.Failed, st.Lookups)
	}
	if st.Version != "test" {
		t.Errorf("Version = %q, want %q", st.Version, "test")
	}
}

// TestApplyLogLevel verifies config reloads retune the atomic level
// and that invalid levels leave it alone.
func TestApplyLogLevel(t *testing.T) {
	d := &Daemon{
		logger: zap.NewNop().Sugar(),
		level:  zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}

	d.applyLogLevel(core.LogConfig{Level: "debug"})
	if d.level.Level() != zapcore.DebugLevel {
		t.Errorf("level = %v, want debug", d.level.Level())
	}

	d.applyLogLevel(core.LogConfig{Level: "bogus"})
	if d.level.Level() != zapcore.DebugLevel {
		t.Errorf("level changed on invalid input: %v", d.level.Level())
	}
}
