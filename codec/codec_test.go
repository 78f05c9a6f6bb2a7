package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	s := makeBenchScene(8)

	std := MustMarshal(JSON{}, s)
	fast := MustMarshal(GoJSON{}, s)

	var fromStd, fromFast benchScene
	require.NoError(t, GoJSON{}.Unmarshal(std, &fromStd))
	require.NoError(t, JSON{}.Unmarshal(fast, &fromFast))
	assert.Equal(t, s, fromStd)
	assert.Equal(t, s, fromFast)
}

func TestGoJSONAppend(t *testing.T) {
	dst := []byte("prefix:")
	out, err := GoJSON{}.Append(dst, benchShape{Kind: "sphere", Radius: 1})
	require.NoError(t, err)
	assert.Equal(t, `prefix:{"kind":"sphere","radius":1}`, string(out))
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, `{"kind":"sphere"}`, string(MustMarshal(nil, benchShape{Kind: "sphere"})))
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}

func TestStrict(t *testing.T) {
	doc := []byte(`{"kind":"sphere","raduis":1}`)

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		var s benchShape
		require.NoError(t, c.Unmarshal(doc, &s), c.Name())
		assert.Equal(t, "sphere", s.Kind)
	}

	for _, c := range []Codec{JSON{Strict: true}, GoJSON{Strict: true}} {
		var s benchShape
		require.Error(t, c.Unmarshal(doc, &s), c.Name())
		require.Error(t, c.NewDecoder(bytes.NewReader(doc)).Decode(&s), c.Name())
	}
}

func TestIndent(t *testing.T) {
	want := "{\n  \"kind\": \"sphere\",\n  \"radius\": 1\n}"
	v := benchShape{Kind: "sphere", Radius: 1}

	for _, c := range []Codec{JSON{Indent: "  "}, GoJSON{Indent: "  "}} {
		assert.Equal(t, want, string(MustMarshal(c, v)), c.Name())

		var buf bytes.Buffer
		require.NoError(t, c.NewEncoder(&buf).Encode(v))
		assert.Equal(t, want+"\n", buf.String(), c.Name())
	}
}

func TestStreaming(t *testing.T) {
	s := makeBenchScene(4)

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		var buf bytes.Buffer
		require.NoError(t, c.NewEncoder(&buf).Encode(s))

		var out benchScene
		require.NoError(t, c.NewDecoder(&buf).Decode(&out))
		assert.Equal(t, s, out, c.Name())
	}
}
