// Package pidpath resolves process identifiers to executable paths.
//
// Each platform answers through its native process-table query: the
// proc_info syscall on macOS, the kern.proc sysctl tree on FreeBSD,
// procfs on Linux and QueryFullProcessImageName on Windows. Lookup
// reports failures through sentinel errors; Path collapses every
// failure to an empty string for callers that only want the answer.
package pidpath

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

var (
	// ErrPIDOutOfRange is returned for PIDs that cannot exist on this
	// platform: negative values and values above MaxPID. The OS is
	// never queried for them.
	ErrPIDOutOfRange = errors.New("pid out of range")

	// ErrProcessNotFound is returned when no running process matches
	// the PID, including processes that have already been reaped.
	ErrProcessNotFound = errors.New("process not found")

	// ErrNotImplemented is returned on platforms without a backend.
	ErrNotImplemented = errors.New("not implemented for GOOS=" + runtime.GOOS)
)

// Lookup resolves pid to the absolute path of its executable.
//
// PIDs outside [0, MaxPID] fail with ErrPIDOutOfRange before any OS
// call, so oversized values can never be truncated into a valid PID by
// the narrower native type. Other failures surface as
// ErrProcessNotFound, ErrNotImplemented, or the raw OS error.
func Lookup(pid int) (string, error) {
	if pid < 0 || int64(pid) > MaxPID {
		return "", ErrPIDOutOfRange
	}
	return queryExecutablePath(pid)
}

// Path resolves pid to its executable path, or "" if the lookup fails
// for any reason. This is the answer-only variant of Lookup.
func Path(pid int) string {
	path, err := Lookup(pid)
	if err != nil {
		return ""
	}
	return path
}

// Name returns the base name of pid's executable, or "" when the path
// cannot be resolved.
func Name(pid int) string {
	path := Path(pid)
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// Parent resolves the executable path of this process's parent.
func Parent() (string, error) {
	return Lookup(os.Getppid())
}

// Resolver resolves PIDs to executable paths. The package-level Lookup
// is the usual entry point; the interface exists so callers can swap in
// fakes or route lookups through a remote resolver.
type Resolver interface {
	Lookup(pid int) (string, error)
}

// System returns the Resolver backed by this platform's native query.
func System() Resolver {
	return systemResolver{}
}

type systemResolver struct{}

func (systemResolver) Lookup(pid int) (string, error) {
	return Lookup(pid)
}
