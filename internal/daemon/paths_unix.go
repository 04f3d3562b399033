//go:build darwin || freebsd || linux

package daemon

// defaultPIDFile is used when the config does not name one.
func defaultPIDFile() string {
	return "/var/run/pidpathd.pid"
}
