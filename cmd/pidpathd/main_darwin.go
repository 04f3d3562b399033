//go:build darwin

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/inferiorhumanorgans/pidpath/internal/daemon"
)

const defaultConfigPath = "/etc/pidpathd/config.yaml"

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "install":
			if err := daemon.InstallDaemon(); err != nil {
				fmt.Fprintf(os.Stderr, "Install failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Daemon installed and started.")
			return
		case "uninstall":
			if err := daemon.UninstallDaemon(); err != nil {
				fmt.Fprintf(os.Stderr, "Uninstall failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Daemon uninstalled.")
			return
		case "restart":
			if err := daemon.RestartDaemon(); err != nil {
				fmt.Fprintf(os.Stderr, "Restart failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Daemon restarted.")
			return
		case "status":
			if daemon.IsDaemonInstalled() {
				fmt.Println("Daemon is installed.")
			} else {
				fmt.Println("Daemon is not installed.")
			}
			reportRunning()
			return
		case "stop":
			os.Exit(handleStop(os.Args[2:]))
		case "version":
			printVersion()
			return
		}
	}

	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	os.Exit(runDaemon(resolveRelativeToExe(*configPath)))
}
