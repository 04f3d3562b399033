//go:build linux

package pidpath

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// queryExecutablePath reads /proc/<pid>/exe, falling back to the first
// argv entry from /proc/<pid>/cmdline when the symlink is unreadable.
// The exe link requires ptrace-level access to other users' processes
// and does not exist for kernel threads; cmdline is world-readable but
// argv[0] is only as truthful as the process that set it.
func queryExecutablePath(pid int) (string, error) {
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err == nil && strings.HasPrefix(path, "/") {
		return path, nil
	}

	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrProcessNotFound
		}
		return "", err
	}
	// Arguments are separated by NUL bytes; argv[0] ends at the first.
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	if len(data) == 0 {
		// Kernel threads and zombies expose an empty cmdline.
		return "", ErrProcessNotFound
	}
	return string(data), nil
}
