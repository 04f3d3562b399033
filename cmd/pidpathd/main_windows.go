//go:build windows

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/inferiorhumanorgans/pidpath/internal/daemon"
	"github.com/inferiorhumanorgans/pidpath/internal/winsvc"
)

const defaultConfigPath = "config.yaml"

func main() {
	// Handle subcommands first (install, uninstall, start, stop).
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "install":
			handleInstall()
			return
		case "uninstall":
			handleUninstall()
			return
		case "start":
			handleServiceStart()
			return
		case "stop":
			handleServiceStop()
			return
		case "status":
			if winsvc.IsServiceInstalled() {
				fmt.Println("Service is installed.")
			} else {
				fmt.Println("Service is not installed.")
			}
			reportRunning()
			return
		case "version":
			printVersion()
			return
		}
	}

	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	serviceMode := flag.Bool("service", false, "Run as Windows Service (used by SCM)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	resolvedConfig := resolveRelativeToExe(*configPath)

	// Determine if running as a Windows Service.
	if *serviceMode || winsvc.IsWindowsService() {
		d, err := daemon.New(daemon.Options{ConfigPath: resolvedConfig, Version: version})
		if err != nil {
			log.Fatalf("Service failed: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		runFunc := func() error {
			return d.Run(ctx)
		}
		if err := winsvc.RunService(runFunc, cancel); err != nil {
			log.Fatalf("Service failed: %v", err)
		}
		return
	}

	// Console mode (development / direct launch).
	os.Exit(runDaemon(resolvedConfig))
}

// handleInstall registers the service with the Windows SCM.
func handleInstall() {
	fs := flag.NewFlagSet("install", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file (optional)")
	fs.Parse(os.Args[2:])

	exePath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine executable path: %v\n", err)
		os.Exit(1)
	}

	if err := winsvc.InstallService(exePath, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Service installed successfully.")
}

// handleUninstall removes the service from the Windows SCM.
func handleUninstall() {
	if err := winsvc.UninstallService(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Service uninstalled successfully.")
}

// handleServiceStart starts the service via SCM.
func handleServiceStart() {
	if err := winsvc.StartService(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Service started successfully.")
}

// handleServiceStop stops the service via SCM.
func handleServiceStop() {
	if err := winsvc.StopService(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Service stopped successfully.")
}
