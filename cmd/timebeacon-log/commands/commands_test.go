package commands

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/timebeacon/timebeacon-go/pkg/eventlog"
)

func writeTestLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := eventlog.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create log: %v", err)
	}
	defer logger.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	events := []eventlog.Event{
		{Timestamp: base, RunID: "run-1", Category: eventlog.CategoryNetworkUp, Detail: "192.168.1.10"},
		{Timestamp: base.Add(time.Second), RunID: "run-1", Category: eventlog.CategoryProbe, Name: "esp8266"},
		{Timestamp: base.Add(2 * time.Second), RunID: "run-1", Category: eventlog.CategoryConflict, Name: "esp8266"},
		{Timestamp: base.Add(3 * time.Second), RunID: "run-1", Category: eventlog.CategoryProbe, Name: "esp8266-2"},
		{Timestamp: base.Add(4 * time.Second), RunID: "run-1", Category: eventlog.CategoryConfirmed, Name: "esp8266-2"},
		{Timestamp: base.Add(5 * time.Second), RunID: "run-1", Category: eventlog.CategoryError, Error: "boom"},
	}
	for _, e := range events {
		logger.Log(e)
	}

	return path
}

func TestRunView(t *testing.T) {
	path := writeTestLog(t)

	var out strings.Builder
	if err := RunView(path, ViewOptions{}, &out); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "6 event(s)") {
		t.Errorf("output missing event count:\n%s", got)
	}
	if !strings.Contains(got, "name=esp8266-2") {
		t.Errorf("output missing confirmed name:\n%s", got)
	}
	if !strings.Contains(got, `error="boom"`) {
		t.Errorf("output missing error detail:\n%s", got)
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := writeTestLog(t)

	var out strings.Builder
	if err := RunView(path, ViewOptions{Category: "probe"}, &out); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	if !strings.Contains(out.String(), "2 event(s)") {
		t.Errorf("expected 2 probe events:\n%s", out.String())
	}
}

func TestRunViewUnknownCategory(t *testing.T) {
	path := writeTestLog(t)

	var out strings.Builder
	if err := RunView(path, ViewOptions{Category: "nope"}, &out); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestRunStats(t *testing.T) {
	path := writeTestLog(t)

	var out strings.Builder
	if err := RunStats(path, &out); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Total events: 6") {
		t.Errorf("output missing total:\n%s", got)
	}
	if !strings.Contains(got, "Errors:       1") {
		t.Errorf("output missing error count:\n%s", got)
	}
	if !strings.Contains(got, "Conflicts: 1") {
		t.Errorf("output missing conflict count:\n%s", got)
	}
	if !strings.Contains(got, "Name:      esp8266-2") {
		t.Errorf("output missing confirmed name:\n%s", got)
	}
}
