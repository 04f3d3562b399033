//go:build !windows && !darwin && !freebsd && !linux

package pidpath

// queryExecutablePath is a stub for platforms without a native backend.
func queryExecutablePath(pid int) (string, error) {
	return "", ErrNotImplemented
}
