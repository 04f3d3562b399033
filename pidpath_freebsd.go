//go:build freebsd

package pidpath

import (
	"errors"

	"golang.org/x/sys/unix"
)

// queryExecutablePath resolves the path through the kern.proc sysctl
// tree in two steps: confirm the process exists at all, then ask for
// its pathname. The pathname node alone cannot distinguish "no such
// process" from "process has no resolvable binary" (kernel threads,
// processes whose executable was unlinked).
func queryExecutablePath(pid int) (string, error) {
	kp, err := unix.SysctlRaw("kern.proc.pid", pid)
	if err != nil {
		if errors.Is(err, unix.ESRCH) {
			return "", ErrProcessNotFound
		}
		return "", err
	}
	// An empty record means the kernel filtered the process out, e.g.
	// security.bsd.see_other_uids=0 hiding other users' processes.
	if len(kp) == 0 {
		return "", ErrProcessNotFound
	}

	path, err := unix.SysctlRaw("kern.proc.pathname", pid)
	if err != nil {
		if errors.Is(err, unix.ESRCH) || errors.Is(err, unix.ENOENT) {
			return "", ErrProcessNotFound
		}
		return "", err
	}
	if len(path) == 0 {
		return "", ErrProcessNotFound
	}
	// The sysctl returns a null-terminated string.
	return unix.ByteSliceToString(path), nil
}
