//go:build !darwin && !windows

package main

import (
	"flag"
	"os"
)

const defaultConfigPath = "config.yaml"

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "status":
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
