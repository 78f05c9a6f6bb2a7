package scene

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/physim/codec"
)

// Compression is the framing wrapped around a scene document.
type Compression uint8

const (
	// CompressionNone stores the document as is.
	CompressionNone Compression = 0
	// CompressionLZ4 wraps the document in an lz4 frame.
	CompressionLZ4 Compression = 1
	// CompressionZSTD wraps the document in a zstd frame.
	CompressionZSTD Compression = 2
)

// String returns the file extension used for the compression, or "none".
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return ".lz4"
	case CompressionZSTD:
		return ".zst"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// CompressionFor picks the compression from the path's extension.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Decode reads one uncompressed scene document from r.
// A nil codec means codec.Default; pass a Strict codec to reject unknown keys.
func Decode(r io.Reader, c codec.Codec) (*Scene, error) {
	if c == nil {
		c = codec.Default
	}
	var s Scene
	if err := c.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("scene: decode (%s): %w", c.Name(), err)
	}
	return &s, nil
}

// Encode writes s to w as an uncompressed document.
// A nil codec means codec.Default.
func Encode(w io.Writer, s *Scene, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	if err := c.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("scene: encode (%s): %w", c.Name(), err)
	}
	return nil
}

// Read decodes a scene from r, removing the given compression first.
func Read(r io.Reader, comp Compression, c codec.Codec) (*Scene, error) {
	switch comp {
	case CompressionNone:
		return Decode(r, c)
	case CompressionLZ4:
		return Decode(lz4.NewReader(r), c)
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("scene: zstd: %w", err)
		}
		defer dec.Close()
		return Decode(dec, c)
	default:
		return nil, fmt.Errorf("scene: unsupported compression %s", comp)
	}
}

// Write encodes s to w with the given compression.
func Write(w io.Writer, s *Scene, comp Compression, c codec.Codec) error {
	switch comp {
	case CompressionNone:
		return Encode(w, s, c)
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if err := Encode(zw, s, c); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("scene: lz4: %w", err)
		}
		return nil
	case CompressionZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("scene: zstd: %w", err)
		}
		if err := Encode(enc, s, c); err != nil {
			_ = enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("scene: zstd: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("scene: unsupported compression %s", comp)
	}
}

// Load reads the scene file at path. The compression is picked from the
// extension. A nil codec means codec.Default.
func Load(path string, c codec.Codec) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, CompressionFor(path), c)
}

// Save writes s to path, compressing according to the extension.
func Save(path string, s *Scene, c codec.Codec) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, s, CompressionFor(path), c)
}
