package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"
)

const defaultDialTimeout = 5 * time.Second

// Client is a connection to the daemon. Not safe for concurrent use.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	enc     *json.Encoder
	scan    *bufio.Scanner
}

// Dial connects to the daemon at endpoint. An empty endpoint selects
// the platform default. A non-positive timeout selects the default;
// the timeout also bounds each request round trip.
func Dial(endpoint string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	conn, err := dial(endpoint, timeout)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial: %w", err)
	}
	c := NewClient(conn)
	c.timeout = timeout
	return c, nil
}

// NewClient wraps an established connection. No IO deadlines are
// applied.
func NewClient(conn net.Conn) *Client {
	scan := bufio.NewScanner(conn)
	scan.Buffer(make([]byte, maxLineBytes), maxLineBytes)
	return &Client{
		conn: conn,
		enc:  json.NewEncoder(conn),
		scan: scan,
	}
}

func (c *Client) roundTrip(req Request) (Response, error) {
	if c.timeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.timeout))
		defer c.conn.SetDeadline(time.Time{})
	}
	if err := c.enc.Encode(req); err != nil {
		return Response{}, fmt.Errorf("ipc: send: %w", err)
	}
	if !c.scan.Scan() {
		if err := c.scan.Err(); err != nil {
			return Response{}, fmt.Errorf("ipc: read: %w", err)
		}
		return Response{}, errors.New("ipc: connection closed")
	}
	var resp Response
	if err := json.Unmarshal(c.scan.Bytes(), &resp); err != nil {
		return Response{}, fmt.Errorf("ipc: decode: %w", err)
	}
	return resp, nil
}

// Resolve asks the daemon for the executable path of pid.
func (c *Client) Resolve(pid int) (Response, error) {
	return c.roundTrip(Request{Op: OpResolve, PID: pid})
}

// Stats fetches the daemon counters.
func (c *Client) Stats() (Stats, error) {
	resp, err := c.roundTrip(Request{Op: OpStats})
	if err != nil {
		return Stats{}, err
	}
	if resp.Stats == nil {
		return Stats{}, errors.New("ipc: stats missing from response")
	}
	return *resp.Stats, nil
}

// Shutdown asks the daemon to exit.
func (c *Client) Shutdown() error {
	_, err := c.roundTrip(Request{Op: OpShutdown})
	return err
}

// Close shuts down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
