//go:build !windows && !darwin && !freebsd && !linux

package daemon

func defaultPIDFile() string {
	return ""
}
