package main

import (
	"os"
	"strings"
	"testing"

	"github.com/inferiorhumanorgans/pidpath/internal/ipc"
)

// TestResolveArgInvalidPID verifies non-numeric arguments become a
// bad_request result instead of a panic or silent zero.
func TestResolveArgInvalidPID(t *testing.T) {
	res := resolveArg(nil, "banana")
	if res.Code != ipc.CodeBadRequest {
		t.Errorf("Code = %q, want %q", res.Code, ipc.CodeBadRequest)
	}
	if res.Error == "" {
		t.Error("missing error text")
	}
}

// TestLocalResolveSelf resolves the test binary's own PID.
func TestLocalResolveSelf(t *testing.T) {
	res := localResolve(os.Getpid())
	if res.Error != "" {
		t.Skipf("self lookup unsupported here: %s", res.Error)
	}
	if res.Path == "" || res.Name == "" {
		t.Errorf("localResolve(self) = %+v", res)
	}
	if !strings.HasSuffix(res.Path, res.Name) {
		t.Errorf("Name %q is not the base of Path %q", res.Name, res.Path)
	}
}

// TestLocalResolveOutOfRange verifies the range guard surfaces as the
// out_of_range code.
func TestLocalResolveOutOfRange(t *testing.T) {
	res := localResolve(-1)
	if res.Code != ipc.CodeOutOfRange {
		t.Errorf("Code = %q, want %q", res.Code, ipc.CodeOutOfRange)
	}
	if res.Path != "" {
		t.Errorf("Path = %q, want empty", res.Path)
	}
}
