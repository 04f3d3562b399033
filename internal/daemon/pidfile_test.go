package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

// TestPIDFileRoundTrip covers write, read, and idempotent removal,
// including parent directory creation.
func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "pidpathd.pid")

	if err := WritePIDFile(path, 12345); err != nil {
		t.Fatalf("WritePIDFile failed: %v", err)
	}
	pid, err := ReadPIDFile(path)
	if err != nil {
		t.Fatalf("ReadPIDFile failed: %v", err)
	}
	if pid != 12345 {
		t.Errorf("pid = %d, want 12345", pid)
	}

	if err := RemovePIDFile(path); err != nil {
		t.Fatalf("RemovePIDFile failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("PID file still exists after remove")
	}
	if err := RemovePIDFile(path); err != nil {
		t.Errorf("second RemovePIDFile failed: %v", err)
	}
}

// TestReadPIDFileRejectsGarbage verifies non-numeric content is an
// error rather than pid 0.
func TestReadPIDFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pidpathd.pid")
	if err := os.WriteFile(path, []byte("not a pid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPIDFile(path); err == nil {
		t.Fatal("expected error for non-numeric PID file")
	}
}

// TestIsProcessRunning checks the live-process probe against the test
// process itself and obviously invalid PIDs.
func TestIsProcessRunning(t *testing.T) {
	if !IsProcessRunning(os.Getpid()) {
		t.Error("IsProcessRunning(self) = false")
	}
	if IsProcessRunning(0) {
		t.Error("IsProcessRunning(0) = true")
	}
	if IsProcessRunning(-1) {
		t.Error("IsProcessRunning(-1) = true")
	}
}
