package eventlog

// MultiLogger fans each event out to every sink in order. The device
// service uses it to feed the CBOR file log and a console mirror at
// the same time.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger builds a MultiLogger over the given sinks.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	return &MultiLogger{sinks: sinks}
}

// Log forwards the event to every sink.
func (m *MultiLogger) Log(event Event) {
	for _, s := range m.sinks {
		s.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
