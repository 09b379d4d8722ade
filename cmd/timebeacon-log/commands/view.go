// Package commands implements the timebeacon-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/timebeacon/timebeacon-go/pkg/eventlog"
)

// ViewOptions specifies filtering for the view command.
type ViewOptions struct {
	Category string
	RunID    string
	Name     string
}

// RunView prints matching events in human-readable form.
func RunView(path string, opts ViewOptions, w io.Writer) error {
	filter := eventlog.Filter{
		RunID: opts.RunID,
		Name:  opts.Name,
	}

	if opts.Category != "" {
		cat, err := parseCategory(opts.Category)
		if err != nil {
			return err
		}
		filter.Category = &cat
	}

	reader, err := eventlog.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(w, event)
		count++
	}

	fmt.Fprintf(w, "%d event(s)\n", count)
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event eventlog.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	run := shortenRunID(event.RunID)

	fmt.Fprintf(w, "%s [run:%s] %-10s", ts, run, event.Category)

	if event.Name != "" {
		fmt.Fprintf(w, " name=%s", event.Name)
	}
	if event.Detail != "" {
		fmt.Fprintf(w, " detail=%q", event.Detail)
	}
	if event.RemoteAddr != "" {
		fmt.Fprintf(w, " remote=%s", event.RemoteAddr)
	}
	if event.Error != "" {
		fmt.Fprintf(w, " error=%q", event.Error)
	}
	fmt.Fprintln(w)
}

// shortenRunID returns the first 8 characters of the run ID.
func shortenRunID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// parseCategory maps a CLI category name to the event category.
func parseCategory(s string) (eventlog.Category, error) {
	switch strings.ToLower(s) {
	case "network-up", "network":
		return eventlog.CategoryNetworkUp, nil
	case "time-sync", "sync":
		return eventlog.CategoryTimeSync, nil
	case "probe":
		return eventlog.CategoryProbe, nil
	case "conflict":
		return eventlog.CategoryConflict, nil
	case "confirmed":
		return eventlog.CategoryConfirmed, nil
	case "announce":
		return eventlog.CategoryAnnounce, nil
	case "http":
		return eventlog.CategoryHTTP, nil
	case "error":
		return eventlog.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category: %s", s)
	}
}
