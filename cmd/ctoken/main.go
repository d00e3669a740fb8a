package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "demo":
		if err := demo(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "events":
		if err := events(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("ctoken version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ctoken - composable token registry tool

Usage:
  ctoken <command> [options]

Commands:
  demo       Run a scripted multi-registry scenario
  events     Show a registry event timeline from an event database
  summary    Display a per-registry summary of an exported snapshot
  help       Show this help message
  version    Show version information

Examples:
  # Run the demo, persisting events to a database
  ctoken demo --db events.db

  # Inspect the recorded events
  ctoken events events.db

  # Export the demo's final state
  ctoken demo --snapshot state.json

For command-specific help, run:
  ctoken <command> --help`)
}
