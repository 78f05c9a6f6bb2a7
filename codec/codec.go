// Package codec selects the encoding used for scene files.
//
// Scene files carry no codec marker; the loader picks a codec by name or
// falls back to Default. Both built-in codecs read and write the same JSON
// documents and differ only in speed.
package codec

import (
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// NewEncoder returns a streaming encoder writing to w.
	NewEncoder(w io.Writer) Encoder
	// NewDecoder returns a streaming decoder reading from r.
	NewDecoder(r io.Reader) Decoder
}

// Encoder writes values to a stream.
type Encoder interface {
	Encode(v any) error
}

// Decoder reads values from a stream.
type Decoder interface {
	Decode(v any) error
}

// ByName returns a built-in codec by its stable name ("json" or "go-json").
// The returned codec is lenient and writes compact output.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when a caller does not pick one.
var Default Codec = GoJSON{}

// MustMarshal marshals v with c (or Default when c is nil) and panics on error.
// It is meant for tests and fixtures.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
