package eventlog

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Encoder and decoder modes shared by the file logger and the reader.
// They are built once at startup so a bad option set fails loudly
// instead of corrupting a log on the first write.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	// Canonical ordering keeps identical events byte-identical across
	// runs. RFC3339Nano preserves the full timestamp resolution.
	em, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("event CBOR encoder mode: %v", err))
	}
	encMode = em

	// Decoding is lenient: logs written by older builds may carry
	// indefinite-length items or duplicate keys and must still read.
	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("event CBOR decoder mode: %v", err))
	}
	decMode = dm
}

// EncodeEvent encodes an Event to CBOR bytes using integer keys.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a streaming event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a streaming event decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
