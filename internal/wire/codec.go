package wire

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// MaxDatagramSize bounds a single wire-encoded envelope, comfortably above
// the 1024-byte payload floor every reimplementation must meet.
const MaxDatagramSize = 2048

func init() {
	gob.Register(JoinReqArgs{})
	gob.Register(JoinRepArgs{})
	gob.Register(NotifyArgs{})
	gob.Register(StabilizeArgs{})
	gob.Register(PutArgs{})
	gob.Register(GetArgs{})
	gob.Register(AckArgs{})
}

// Encode serializes an Envelope with encoding/gob. The source
// implementation uses a language-native pickler; gob is the standard-
// library equivalent for a single Go-to-Go wire format with no cross-
// implementation interop contract (see DESIGN.md).
func Encode(e Envelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, fmt.Errorf("wire: encode %s: %w", e.Method, err)
	}
	if buf.Len() > MaxDatagramSize {
		return nil, fmt.Errorf("wire: encoded %s envelope is %d bytes, exceeds %d-byte bound", e.Method, buf.Len(), MaxDatagramSize)
	}
	return buf.Bytes(), nil
}

// Decode deserializes a datagram payload into an Envelope.
func Decode(data []byte) (Envelope, error) {
	var e Envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return Envelope{}, fmt.Errorf("wire: decode: %w", err)
	}
	return e, nil
}
