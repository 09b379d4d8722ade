package eventlog

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a CBOR log file. Safe for concurrent
// use; a mutex serializes writes so records never interleave.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

// NewFileLogger opens path for appending, creating it with mode 0644
// when missing. An existing log keeps its earlier records.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Log appends one event. Encoding errors are swallowed; a failing log
// must not take the device down with it.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	_ = l.encoder.Encode(event)
}

// Close flushes and closes the file. Further Log calls become no-ops,
// and calling Close again returns nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
