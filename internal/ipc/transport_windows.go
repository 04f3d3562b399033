//go:build windows

package ipc

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// DefaultEndpoint is the Named Pipe path used when the config does not
// name one.
const DefaultEndpoint = `\\.\pipe\pidpathd`

// Listen opens the daemon's Named Pipe. An empty endpoint selects
// DefaultEndpoint.
func Listen(endpoint string) (net.Listener, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	cfg := &winio.PipeConfig{
		// Allow all authenticated users to connect; the daemon runs
		// elevated, clients do not.
		SecurityDescriptor: "D:P(A;;GA;;;AU)",
		MessageMode:        false,
		InputBufferSize:    64 * 1024,
		OutputBufferSize:   64 * 1024,
	}
	return winio.ListenPipe(endpoint, cfg)
}

func dial(endpoint string, timeout time.Duration) (net.Conn, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return winio.DialPipe(endpoint, &timeout)
}
