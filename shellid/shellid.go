// Package shellid classifies executable paths as command shells and
// identifies the shell that launched the current process.
package shellid

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/inferiorhumanorgans/pidpath"
)

// Shell enumerates the shells this package can recognize.
type Shell int

const (
	Unknown Shell = iota
	Bash
	Zsh
	Fish
	Sh
	Dash
	Ksh
	Tcsh
	PowerShell
	Cmd
)

func (s Shell) String() string {
	switch s {
	case Bash:
		return "bash"
	case Zsh:
		return "zsh"
	case Fish:
		return "fish"
	case Sh:
		return "sh"
	case Dash:
		return "dash"
	case Ksh:
		return "ksh"
	case Tcsh:
		return "tcsh"
	case PowerShell:
		return "powershell"
	case Cmd:
		return "cmd"
	default:
		return "unknown"
	}
}

// EnvOverride names the environment variable consulted before any
// process inspection. Setting it pins the detected shell.
const EnvOverride = "PIDPATH_SHELL"

// ErrUnknownShell is returned when no detection source yields a
// recognizable shell.
var ErrUnknownShell = errors.New("shell could not be identified")

// Info describes a detected shell and the evidence it came from.
type Info struct {
	Kind Shell
	// Path is the value that classified: an executable path or the
	// raw environment override.
	Path string
}

// FromPath classifies an executable path or bare command name. The
// match is on the lowercased base name, tolerating the login-shell "-"
// prefix and a Windows ".exe" suffix.
func FromPath(path string) Shell {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimPrefix(name, "-")
	name = strings.TrimSuffix(name, ".exe")
	switch name {
	case "bash":
		return Bash
	case "zsh":
		return Zsh
	case "fish":
		return Fish
	case "sh":
		return Sh
	case "dash":
		return Dash
	case "ksh", "ksh93", "mksh":
		return Ksh
	case "tcsh", "csh":
		return Tcsh
	case "pwsh", "powershell":
		return PowerShell
	case "cmd":
		return Cmd
	default:
		return Unknown
	}
}

// Current identifies the shell that launched this process.
//
// Sources are tried in order until one classifies: the PIDPATH_SHELL
// override, the parent process's executable path, then the SHELL
// environment variable.
func Current() (Info, error) {
	return currentFrom(pidpath.Path, os.Getppid, os.Getenv)
}

func currentFrom(lookup func(int) string, getppid func() int, getenv func(string) string) (Info, error) {
	if v := getenv(EnvOverride); v != "" {
		if kind := FromPath(v); kind != Unknown {
			return Info{Kind: kind, Path: v}, nil
		}
	}
	if p := lookup(getppid()); p != "" {
		if kind := FromPath(p); kind != Unknown {
			return Info{Kind: kind, Path: p}, nil
		}
	}
	if v := getenv("SHELL"); v != "" {
		if kind := FromPath(v); kind != Unknown {
			return Info{Kind: kind, Path: v}, nil
		}
	}
	return Info{}, ErrUnknownShell
}
