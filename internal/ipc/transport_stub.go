//go:build !windows && !darwin && !freebsd && !linux

package ipc

import (
	"fmt"
	"net"
	"time"
)

const DefaultEndpoint = ""

func Listen(endpoint string) (net.Listener, error) {
	return nil, fmt.Errorf("ipc: unsupported platform")
}

func dial(endpoint string, timeout time.Duration) (net.Conn, error) {
	return nil, fmt.Errorf("ipc: unsupported platform")
}
