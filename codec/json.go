package codec

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSON is the standard-library JSON codec.
//
// Indent, when set, is used for every indentation level of Marshal and
// encoder output. Strict rejects documents with fields the target type does
// not declare, which catches misspelled keys in hand-written scenes.
type JSON struct {
	Indent string
	Strict bool
}

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Marshal encodes the value to JSON.
func (c JSON) Marshal(v any) ([]byte, error) {
	if c.Indent != "" {
		return json.MarshalIndent(v, "", c.Indent)
	}
	return json.Marshal(v)
}

// Unmarshal decodes the JSON data into v.
func (c JSON) Unmarshal(data []byte, v any) error {
	if !c.Strict {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// NewEncoder implements Codec.
func (c JSON) NewEncoder(w io.Writer) Encoder {
	enc := json.NewEncoder(w)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	return enc
}

// NewDecoder implements Codec.
func (c JSON) NewDecoder(r io.Reader) Decoder {
	dec := json.NewDecoder(r)
	if c.Strict {
		dec.DisallowUnknownFields()
	}
	return dec
}
