package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/timebeacon/timebeacon-go/pkg/eventlog"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[eventlog.Category]int
	Runs             map[string]*RunStatsEntry
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// RunStatsEntry holds statistics for a single device run.
type RunStatsEntry struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Conflicts int
	Confirmed string
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := eventlog.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[eventlog.Category]int),
		Runs:             make(map[string]*RunStatsEntry),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		collect(stats, event)
	}

	printStats(w, stats)
	return nil
}

// collect folds one event into the aggregate.
func collect(stats *Stats, event eventlog.Event) {
	stats.TotalEvents++
	stats.EventsByCategory[event.Category]++

	if event.Category == eventlog.CategoryError {
		stats.Errors++
	}

	if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
		stats.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(stats.TimeRange.End) {
		stats.TimeRange.End = event.Timestamp
	}

	run := stats.Runs[event.RunID]
	if run == nil {
		run = &RunStatsEntry{FirstSeen: event.Timestamp}
		stats.Runs[event.RunID] = run
	}
	run.Events++
	run.LastSeen = event.Timestamp

	switch event.Category {
	case eventlog.CategoryConflict:
		run.Conflicts++
	case eventlog.CategoryConfirmed:
		run.Confirmed = event.Name
	}
}

// printStats writes the aggregate in a human-readable layout.
func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	if !stats.TimeRange.Start.IsZero() {
		fmt.Fprintf(w, "Time range:   %s - %s (%s)\n",
			stats.TimeRange.Start.UTC().Format(time.RFC3339),
			stats.TimeRange.End.UTC().Format(time.RFC3339),
			stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
	}
	fmt.Fprintf(w, "Errors:       %d\n", stats.Errors)

	fmt.Fprintln(w, "\nEvents by category:")
	categories := make([]eventlog.Category, 0, len(stats.EventsByCategory))
	for c := range stats.EventsByCategory {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, c := range categories {
		fmt.Fprintf(w, "  %-12s %d\n", c, stats.EventsByCategory[c])
	}

	fmt.Fprintf(w, "\nRuns (%d):\n", len(stats.Runs))
	runIDs := make([]string, 0, len(stats.Runs))
	for id := range stats.Runs {
		runIDs = append(runIDs, id)
	}
	sort.Slice(runIDs, func(i, j int) bool {
		return stats.Runs[runIDs[i]].FirstSeen.Before(stats.Runs[runIDs[j]].FirstSeen)
	})
	for _, id := range runIDs {
		run := stats.Runs[id]
		fmt.Fprintf(w, "  %s\n", shortenRunID(id))
		fmt.Fprintf(w, "    Events:    %d\n", run.Events)
		fmt.Fprintf(w, "    Conflicts: %d\n", run.Conflicts)
		if run.Confirmed != "" {
			fmt.Fprintf(w, "    Name:      %s\n", run.Confirmed)
		}
		fmt.Fprintf(w, "    Duration:  %s\n", run.LastSeen.Sub(run.FirstSeen).Round(time.Second))
	}
}
