package eventlog

// Logger receives device events. Implementations must be safe for
// concurrent use and should return quickly; Log is called from the
// negotiation and announcement paths.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards events. The zero value is ready to use.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
