package codec

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"
)

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
//
// It accepts and produces the same documents as JSON, with the same Indent
// and Strict semantics.
type GoJSON struct {
	Indent string
	Strict bool
}

// Name returns the unique name of the codec ("go-json").
func (GoJSON) Name() string { return "go-json" }

// Marshal encodes the value to JSON.
func (c GoJSON) Marshal(v any) ([]byte, error) {
	if c.Indent != "" {
		return gojson.MarshalIndent(v, "", c.Indent)
	}
	return gojson.Marshal(v)
}

// Unmarshal decodes the JSON data into v.
func (c GoJSON) Unmarshal(data []byte, v any) error {
	if !c.Strict {
		return gojson.Unmarshal(data, v)
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Append encodes the value to JSON and appends it to dst.
func (c GoJSON) Append(dst []byte, v any) ([]byte, error) {
	b, err := c.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

// NewEncoder implements Codec.
func (c GoJSON) NewEncoder(w io.Writer) Encoder {
	enc := gojson.NewEncoder(w)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	return enc
}

// NewDecoder implements Codec.
func (c GoJSON) NewDecoder(r io.Reader) Decoder {
	dec := gojson.NewDecoder(r)
	if c.Strict {
		dec.DisallowUnknownFields()
	}
	return dec
}
