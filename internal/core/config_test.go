package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestLoadCreatesDefaultConfig verifies that loading a missing config
// file writes one with default values instead of failing.
func TestLoadCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cm := NewConfigManager(zap.NewNop().Sugar(), path, nil)

	if err := cm.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}

	cfg := cm.Get()
	if cfg.Logging.Level != "info" {
		t.Errorf("default level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.IdleTimeout != "" {
		t.Errorf("default idle_timeout = %q, want empty", cfg.IdleTimeout)
	}
}

// TestLoadParsesFields verifies that all config fields survive a load
// from disk.
func TestLoadParsesFields(t *testing.T) {
	content := `listen: /tmp/test.sock
idle_timeout: 2m
pid_file: /tmp/test.pid
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cm := NewConfigManager(zap.NewNop().Sugar(), path, nil)
	if err := cm.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := cm.Get()
	if cfg.Listen != "/tmp/test.sock" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.PIDFile != "/tmp/test.pid" {
		t.Errorf("PIDFile = %q", cfg.PIDFile)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	grace, err := cfg.IdleGrace()
	if err != nil {
		t.Fatalf("IdleGrace failed: %v", err)
	}
	if grace != 2*time.Minute {
		t.Errorf("IdleGrace = %v, want 2m", grace)
	}
}

// TestLoadRejectsInvalidIdleTimeout verifies that a malformed
// idle_timeout fails validation rather than being carried into the
// running daemon.
func TestLoadRejectsInvalidIdleTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("idle_timeout: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cm := NewConfigManager(zap.NewNop().Sugar(), path, nil)
	if err := cm.Load(); err == nil {
		t.Fatal("expected error for invalid idle_timeout, got nil")
	}
}

// TestLoadPublishesReloadEvent verifies that a successful load fires
// EventConfigReloaded on the bus.
func TestLoadPublishesReloadEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	bus := NewEventBus()

	reloads := 0
	bus.Subscribe(EventConfigReloaded, func(Event) {
		reloads++
	})

	cm := NewConfigManager(zap.NewNop().Sugar(), path, bus)
	if err := cm.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cm.Load(); err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	// First Load creates the default without publishing; the second
	// reads it back and publishes.
	if reloads != 1 {
		t.Errorf("reload events = %d, want 1", reloads)
	}
}

// TestIdleGrace covers the idle_timeout parse rules.
func TestIdleGrace(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"30s", 30 * time.Second, false},
		{"2m", 2 * time.Minute, false},
		{"-1s", 0, true},
		{"soon", 0, true},
	}
	for _, tc := range cases {
		got, err := Config{IdleTimeout: tc.in}.IdleGrace()
		if tc.wantErr {
			if err == nil {
				t.Errorf("IdleGrace(%q): expected error, got nil", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("IdleGrace(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("IdleGrace(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// TestSaveRoundTrip verifies that a saved config can be read back by a
// fresh manager.
func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	first := NewConfigManager(zap.NewNop().Sugar(), path, nil)
	if err := first.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	second := NewConfigManager(zap.NewNop().Sugar(), path, nil)
	if err := second.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if second.Get() != first.Get() {
		t.Errorf("round trip mismatch: %+v vs %+v", second.Get(), first.Get())
	}
}
