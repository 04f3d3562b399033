package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/inferiorhumanorgans/pidpath/internal/daemon"
	"github.com/inferiorhumanorgans/pidpath/internal/ipc"
)

// Build info, injected via ldflags at compile time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func printVersion() {
	fmt.Printf("pidpathd %s (commit=%s, built=%s)\n", version, commit, buildDate)
}

// runDaemon loads the config and serves until shutdown. Returns the
// process exit code.
func runDaemon(configPath string) int {
	d, err := daemon.New(daemon.Options{ConfigPath: configPath, Version: version})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pidpathd: %v\n", err)
		return 1
	}
	if err := d.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "pidpathd: %v\n", err)
		return 1
	}
	return 0
}

// handleStop asks a running daemon to exit over IPC.
func handleStop(args []string) int {
	fs := flag.NewFlagSet("stop", flag.ExitOnError)
	socket := fs.String("socket", "", "daemon endpoint (default: platform endpoint)")
	fs.Parse(args)

	c, err := ipc.Dial(*socket, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pidpathd: %v\n", err)
		return 1
	}
	defer c.Close()

	if err := c.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "pidpathd: %v\n", err)
		return 1
	}
	fmt.Println("Daemon stopping.")
	return 0
}

// reportRunning probes the daemon endpoint and prints its live state.
func reportRunning() {
	c, err := ipc.Dial("", 2*time.Second)
	if err != nil {
		fmt.Println("Daemon is not running.")
		return
	}
	defer c.Close()

	st, err := c.Stats()
	if err != nil {
		fmt.Println("Daemon is not responding.")
		return
	}
	fmt.Printf("Daemon is running: version %s, uptime %ds, %d lookups.\n",
		st.Version, st.UptimeSeconds, st.Lookups)
}

// resolveRelativeToExe resolves a relative path against the directory containing
// the running executable. Absolute paths are returned unchanged.
func resolveRelativeToExe(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		log.Printf("Cannot determine executable path, using %q as-is: %v", path, err)
		return path
	}
	return filepath.Join(filepath.Dir(exe), path)
}
