package eventlog

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors device events to a structured logger. The
// timebeacon command attaches one (via MultiLogger) when running at
// debug level so events show up on the console as they happen.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger as an event sink.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log emits the event at debug level. Empty optional fields are
// dropped so routine events stay on one short line.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("category", event.Category.String()),
	}

	if event.Name != "" {
		attrs = append(attrs, slog.String("name", event.Name))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote_addr", event.RemoteAddr))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "device event", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
