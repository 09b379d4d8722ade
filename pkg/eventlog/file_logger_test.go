package eventlog

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLoggerWriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.cbor")

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	events := []Event{
		{Timestamp: time.Now(), RunID: "r", Category: CategoryProbe, Name: "beacon"},
		{Timestamp: time.Now(), RunID: "r", Category: CategoryConflict, Name: "beacon"},
		{Timestamp: time.Now(), RunID: "r", Category: CategoryConfirmed, Name: "beacon-2"},
	}
	for _, e := range events {
		l.Log(e)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	dec := NewDecoder(f)
	var got []Event
	for {
		var e Event
		if err := dec.Decode(&e); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("decode: %v", err)
		}
		got = append(got, e)
	}

	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}
	for i, want := range events {
		if got[i].Category != want.Category || got[i].Name != want.Name {
			t.Errorf("event %d = (%v, %q), want (%v, %q)",
				i, got[i].Category, got[i].Name, want.Category, want.Name)
		}
	}
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.cbor")

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Logging after Close must be a silent no-op.
	l.Log(Event{Category: CategoryError})
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.cbor")

	for i := 0; i < 2; i++ {
		l, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		l.Log(Event{RunID: "r", Category: CategoryAnnounce})
		if err := l.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	dec := NewDecoder(f)
	count := 0
	for {
		var e Event
		if err := dec.Decode(&e); err != nil {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("read %d events after two sessions, want 2", count)
	}
}
