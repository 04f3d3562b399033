package ipc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/inferiorhumanorgans/pidpath"
	"github.com/inferiorhumanorgans/pidpath/internal/core"
)

// maxLineBytes caps a single request line. Requests are tiny; anything
// longer is a misbehaving client.
const maxLineBytes = 4096

// ServerConfig wires the server's collaborators. Resolver and Logger
// are required, the rest are optional.
type ServerConfig struct {
	Resolver pidpath.Resolver
	Logger   *zap.SugaredLogger
	// Tracker counts client connections for idle shutdown. A nil
	// Tracker gets replaced with one that never fires.
	Tracker *Tracker
	// Bus receives EventClientConnected / EventClientDisconnected.
	Bus *core.EventBus
	// Stats supplies the snapshot returned for OpStats.
	Stats func() Stats
	// OnShutdown runs (at most once) after an OpShutdown request has
	// been answered.
	OnShutdown func()
}

// Server answers resolve requests from local clients.
type Server struct {
	cfg    ServerConfig
	logger *zap.SugaredLogger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool

	shutdownOnce sync.Once
}

// NewServer creates an IPC server around the given resolver.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Tracker == nil {
		cfg.Tracker = NewTracker(cfg.Logger, 0, nil)
	}
	return &Server{
		cfg:    cfg,
		logger: cfg.Logger.Named("ipc"),
		conns:  make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections on ln until Stop is called or the listener
// fails. Returns nil after Stop.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("ipc: accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

// Stop closes the listener and all active connections.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	ln := s.listener
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	for _, c := range conns {
		c.Close()
	}
}

func (s *Server) addConn(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) removeConn(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) handleConn(conn net.Conn) {
	if !s.addConn(conn) {
		conn.Close()
		return
	}
	active := s.cfg.Tracker.inc()
	if s.cfg.Bus != nil {
		s.cfg.Bus.PublishAsync(core.Event{
			Type:    core.EventClientConnected,
			Payload: core.ClientPayload{Active: active},
		})
	}
	defer func() {
		s.removeConn(conn)
		conn.Close()
		n := s.cfg.Tracker.dec()
		if s.cfg.Bus != nil {
			s.cfg.Bus.PublishAsync(core.Event{
				Type:    core.EventClientDisconnected,
				Payload: core.ClientPayload{Active: n},
			})
		}
	}()

	enc := json.NewEncoder(conn)
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, maxLineBytes), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		resp, shutdown := s.handleRequest(line)
		if err := enc.Encode(resp); err != nil {
			s.logger.Debugw("Failed to write response", "error", err)
			return
		}
		if shutdown {
			if s.cfg.OnShutdown != nil {
				s.shutdownOnce.Do(s.cfg.OnShutdown)
			}
			return
		}
	}
}

// handleRequest answers a single request line. The second return value
// reports whether the client asked the daemon to shut down.
func (s *Server) handleRequest(line []byte) (Response, bool) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{Code: CodeBadRequest, Error: "malformed request: " + err.Error()}, false
	}

	switch req.Op {
	case OpResolve:
		return s.handleResolve(req), false
	case OpStats:
		st := Stats{}
		if s.cfg.Stats != nil {
			st = s.cfg.Stats()
		}
		return Response{Stats: &st}, false
	case OpShutdown:
		return Response{}, true
	default:
		return Response{Code: CodeBadRequest, Error: fmt.Sprintf("unknown op %q", req.Op)}, false
	}
}

func (s *Server) handleResolve(req Request) Response {
	path, err := s.cfg.Resolver.Lookup(req.PID)
	if err != nil {
		return Response{PID: req.PID, Code: CodeForError(err), Error: err.Error()}
	}
	return Response{PID: req.PID, Path: path, Name: filepath.Base(path)}
}
