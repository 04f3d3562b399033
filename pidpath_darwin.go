//go:build darwin

package pidpath

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// proc_pidpath syscall constants (from XNU bsd/sys/proc_info.h).
const (
	sysProcInfo          = 336 // SYS_PROC_INFO
	procInfoCallPIDInfo  = 2   // PROC_INFO_CALL_PIDINFO
	procPIDPathInfo      = 11  // PROC_PIDPATHINFO
	procPIDPathInfoMaxSz = 4096
)

// queryExecutablePath is the proc_pidpath equivalent as a raw syscall,
// avoiding CGO:
//
//	syscall6(SYS_PROC_INFO=336, PROC_INFO_CALL_PIDINFO=2, pid, PROC_PIDPATHINFO=11, 0, buf, 4096)
func queryExecutablePath(pid int) (string, error) {
	buf := make([]byte, procPIDPathInfoMaxSz)
	n, _, errno := unix.Syscall6(
		sysProcInfo,
		uintptr(procInfoCallPIDInfo),
		uintptr(pid),
		uintptr(procPIDPathInfo),
		0, // arg
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(procPIDPathInfoMaxSz),
	)
	if errno != 0 {
		if errno == unix.ESRCH {
			return "", ErrProcessNotFound
		}
		return "", errno
	}
	if n == 0 {
		// The kernel reports zombies and kernel-owned PIDs as zero
		// bytes written rather than an error.
		return "", ErrProcessNotFound
	}
	// n = bytes written; the payload is a null-terminated C string.
	return unix.ByteSliceToString(buf[:n]), nil
}
