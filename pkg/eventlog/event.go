package eventlog

import (
	"time"
)

// Event represents a device event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies the process run that produced the event (UUID).
	RunID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Name is the instance name involved, if any.
	Name string `cbor:"4,keyasint,omitempty"`

	// Detail carries category-specific context (clock value, HTTP path,
	// resolved address).
	Detail string `cbor:"5,keyasint,omitempty"`

	// RemoteAddr is the peer address for HTTP events (IP:port).
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Error holds a failure message when the event records an error.
	Error string `cbor:"7,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryNetworkUp - a usable network address appeared.
	CategoryNetworkUp Category = iota

	// CategoryTimeSync - an NTP synchronization completed.
	CategoryTimeSync

	// CategoryProbe - a name probe was issued.
	CategoryProbe

	// CategoryConflict - a probed name turned out to be in use.
	CategoryConflict

	// CategoryConfirmed - the instance name was locked in.
	CategoryConfirmed

	// CategoryAnnounce - the service was (re-)announced with a fresh
	// clock value.
	CategoryAnnounce

	// CategoryHTTP - an HTTP request was served.
	CategoryHTTP

	// CategoryError - a failure that did not fit another category.
	CategoryError
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryNetworkUp:
		return "NETWORK_UP"
	case CategoryTimeSync:
		return "TIME_SYNC"
	case CategoryProbe:
		return "PROBE"
	case CategoryConflict:
		return "CONFLICT"
	case CategoryConfirmed:
		return "CONFIRMED"
	case CategoryAnnounce:
		return "ANNOUNCE"
	case CategoryHTTP:
		return "HTTP"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
