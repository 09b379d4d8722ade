// Command timebeacon-log is a tool for viewing and analyzing timebeacon
// event log files.
//
// Log files are created by running timebeacon with the -event-log flag.
//
// Usage:
//
//	timebeacon-log <command> [flags] <file.blog>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	timebeacon-log view device.blog
//
//	# View only probe events
//	timebeacon-log view -category probe device.blog
//
//	# View one run
//	timebeacon-log view -run-id abc12345 device.blog
//
//	# Show statistics
//	timebeacon-log stats device.blog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/timebeacon/timebeacon-go/cmd/timebeacon-log/commands"
)

const usage = `timebeacon-log - Time Beacon Event Log Analyzer

Usage:
  timebeacon-log <command> [flags] <file.blog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "timebeacon-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	category := fs.String("category", "", "Filter by category (network-up, time-sync, probe, conflict, confirmed, announce, http, error)")
	runID := fs.String("run-id", "", "Filter by run ID")
	name := fs.String("name", "", "Filter by instance name")
	_ = fs.Parse(args)

	path := requirePath(fs)

	if err := commands.RunView(path, commands.ViewOptions{
		Category: *category,
		RunID:    *runID,
		Name:     *name,
	}, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one log file is required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}
