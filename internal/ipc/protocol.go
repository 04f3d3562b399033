// Package ipc implements the daemon's line-oriented JSON protocol over
// Unix domain sockets (Unix) and Named Pipes (Windows). Each request
// and each response is a single JSON object terminated by a newline.
package ipc

import (
	"errors"

	"github.com/inferiorhumanorgans/pidpath"
)

// Request operations.
const (
	OpResolve  = "resolve"
	OpStats    = "stats"
	OpShutdown = "shutdown"
)

// Machine-readable failure codes carried in Response.Code.
const (
	CodeOutOfRange  = "out_of_range"
	CodeNotFound    = "not_found"
	CodeQueryFailed = "query_failed"
	CodeUnsupported = "unsupported"
	CodeBadRequest  = "bad_request"
)

// Request is one client request line.
type Request struct {
	Op  string `json:"op"`
	PID int    `json:"pid,omitempty"`
}

// Response is one server response line. Exactly one of the payload
// groups is populated: Path/Name on success, Code/Error on failure,
// Stats for OpStats.
type Response struct {
	PID   int    `json:"pid,omitempty"`
	Path  string `json:"path,omitempty"`
	Name  string `json:"name,omitempty"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
	Stats *Stats `json:"stats,omitempty"`
}

// Stats is the daemon counters snapshot returned for OpStats.
type Stats struct {
	Lookups       uint64 `json:"lookups"`
	Resolved      uint64 `json:"resolved"`
	Failed        uint64 `json:"failed"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Version       string `json:"version"`
}

// CodeForError maps a resolver error to its wire code.
func CodeForError(err error) string {
	switch {
	case errors.Is(err, pidpath.ErrPIDOutOfRange):
		return CodeOutOfRange
	case errors.Is(err, pidpath.ErrProcessNotFound):
		return CodeNotFound
	case errors.Is(err, pidpath.ErrNotImplemented):
		return CodeUnsupported
	default:
		return CodeQueryFailed
	}
}
