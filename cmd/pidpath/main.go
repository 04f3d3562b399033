// pidpath prints the executable paths of processes by PID, either by
// querying the OS directly or through a running pidpathd daemon.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/inferiorhumanorgans/pidpath"
	"github.com/inferiorhumanorgans/pidpath/internal/ipc"
	"github.com/inferiorhumanorgans/pidpath/shellid"
)

// Build info, injected via ldflags at compile time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "parent":
			os.Exit(runParent())
		case "shell":
			os.Exit(runShell())
		case "stats":
			os.Exit(runStats())
		case "version":
			fmt.Printf("pidpath %s (commit=%s, built=%s)\n", version, commit, buildDate)
			return
		}
	}

	nameOnly := flag.Bool("name", false, "Print executable base names instead of full paths")
	asJSON := flag.Bool("json", false, "Emit one JSON object per PID")
	remote := flag.Bool("remote", false, "Resolve via the pidpathd daemon instead of directly")
	socket := flag.String("socket", "", "Daemon endpoint (implies -remote)")
	timeout := flag.Duration("timeout", 5*time.Second, "Daemon request timeout")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: pidpath [flags] pid [pid ...]")
		fmt.Fprintln(os.Stderr, "       pidpath parent | shell | stats | version")
		flag.PrintDefaults()
		os.Exit(2)
	}

	os.Exit(run(flag.Args(), *nameOnly, *asJSON, *remote || *socket != "", *socket, *timeout))
}

// result is the per-PID outcome, printable as text or JSON.
type result struct {
	PID   int    `json:"pid"`
	Path  string `json:"path,omitempty"`
	Name  string `json:"name,omitempty"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// run resolves each argument in order. Failed PIDs print an empty line
// (or a JSON object with the failure) so output lines stay aligned
// with the arguments. Exit code 1 when any PID failed to resolve.
func run(args []string, nameOnly, asJSON, remote bool, socket string, timeout time.Duration) int {
	var client *ipc.Client
	if remote {
		c, err := ipc.Dial(socket, timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pidpath: %v\n", err)
			return 1
		}
		defer c.Close()
		client = c
	}

	enc := json.NewEncoder(os.Stdout)
	exit := 0
	for _, arg := range args {
		res := resolveArg(client, arg)
		if res.Error != "" || res.Path == "" {
			exit = 1
		}
		if res.Error != "" {
			fmt.Fprintf(os.Stderr, "pidpath: %s: %s\n", arg, res.Error)
		}
		switch {
		case asJSON:
			enc.Encode(res)
		case nameOnly:
			fmt.Println(res.Name)
		default:
			fmt.Println(res.Path)
		}
	}
	return exit
}

func resolveArg(client *ipc.Client, arg string) result {
	pid, err := strconv.Atoi(arg)
	if err != nil {
		return result{Code: ipc.CodeBadRequest, Error: fmt.Sprintf("invalid pid %q", arg)}
	}
	if client != nil {
		return remoteResolve(client, pid)
	}
	return localResolve(pid)
}

func localResolve(pid int) result {
	path, err := pidpath.Lookup(pid)
	if err != nil {
		return result{PID: pid, Code: ipc.CodeForError(err), Error: err.Error()}
	}
	return result{PID: pid, Path: path, Name: filepath.Base(path)}
}

func remoteResolve(client *ipc.Client, pid int) result {
	resp, err := client.Resolve(pid)
	if err != nil {
		return result{PID: pid, Code: ipc.CodeQueryFailed, Error: err.Error()}
	}
	return result{PID: pid, Path: resp.Path, Name: resp.Name, Code: resp.Code, Error: resp.Error}
}

// runParent prints the executable path of the parent process.
func runParent() int {
	path, err := pidpath.Parent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pidpath: parent: %v\n", err)
		return 1
	}
	fmt.Println(path)
	return 0
}

// runShell identifies the shell the command was launched from.
func runShell() int {
	info, err := shellid.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pidpath: shell: %v\n", err)
		return 1
	}
	fmt.Printf("%s\t%s\n", info.Kind, info.Path)
	return 0
}

// runStats fetches and prints the daemon counters.
func runStats() int {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	socket := fs.String("socket", "", "daemon endpoint (default: platform endpoint)")
	timeout := fs.Duration("timeout", 5*time.Second, "request timeout")
	fs.Parse(os.Args[2:])

	c, err := ipc.Dial(*socket, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pidpath: %v\n", err)
		return 1
	}
	defer c.Close()

	st, err := c.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pidpath: %v\n", err)
		return 1
	}
	fmt.Printf("version:  %s\n", st.Version)
	fmt.Printf("uptime:   %ds\n", st.UptimeSeconds)
	fmt.Printf("lookups:  %d\n", st.Lookups)
	fmt.Printf("resolved: %d\n", st.Resolved)
	fmt.Printf("failed:   %d\n", st.Failed)
	return 0
}
