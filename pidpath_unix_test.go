//go:build darwin || freebsd || linux

package pidpath

import (
	"errors"
	"os/exec"
	"testing"
)

func TestLookupPID1(t *testing.T) {
	// init/launchd. The exact binary is platform-dependent but the
	// lookup must produce something.
	if got := Path(1); got == "" {
		t.Error("Path(1) returned empty; expected the init binary")
	}
}

func TestLookupReapedProcess(t *testing.T) {
	cmd := exec.Command("sleep", "0")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Wait(); err != nil {
		t.Fatal(err)
	}

	// The child has been reaped; its PID no longer names a process
	// (barring an immediate PID reuse, which the kernel avoids).
	_, err := Lookup(pid)
	if err == nil {
		t.Fatalf("Lookup(%d) succeeded for a reaped process", pid)
	}
	if !errors.Is(err, ErrProcessNotFound) {
		t.Errorf("Lookup(%d): got %v, want ErrProcessNotFound", pid, err)
	}
	if got := Path(pid); got != "" {
		t.Errorf("Path(%d) = %q, want empty", pid, got)
	}
}
