//go:build windows

package pidpath

import (
	"errors"

	"golang.org/x/sys/windows"
)

// queryExecutablePath asks the kernel for the image path of pid.
// PROCESS_QUERY_LIMITED_INFORMATION works across sessions and for
// elevated targets, unlike the full query right.
func queryExecutablePath(pid int) (string, error) {
	handle, err := windows.OpenProcess(
		windows.PROCESS_QUERY_LIMITED_INFORMATION,
		false,
		uint32(pid),
	)
	if err != nil {
		// OpenProcess reports never-assigned and fully reaped PIDs as
		// an invalid parameter.
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return "", ErrProcessNotFound
		}
		return "", err
	}
	defer windows.CloseHandle(handle)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(handle, 0, &buf[0], &size); err != nil {
		return "", err
	}
	// size = characters written, excluding the terminator.
	return windows.UTF16ToString(buf[:size]), nil
}
