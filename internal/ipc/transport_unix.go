//go:build darwin || freebsd || linux

package ipc

import (
	"net"
	"os"
	"time"
)

// DefaultEndpoint is the Unix domain socket path used when the config
// does not name one.
const DefaultEndpoint = "/var/run/pidpathd.sock"

// Listen opens the daemon's Unix domain socket. An empty endpoint
// selects DefaultEndpoint.
func Listen(endpoint string) (net.Listener, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	// Remove stale socket file from previous run.
	os.Remove(endpoint)
	ln, err := net.Listen("unix", endpoint)
	if err != nil {
		return nil, err
	}
	// Allow any local user to connect.
	if err := os.Chmod(endpoint, 0666); err != nil {
		ln.Close()
		return nil, err
	}
	return ln, nil
}

func dial(endpoint string, timeout time.Duration) (net.Conn, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return net.DialTimeout("unix", endpoint, timeout)
}
