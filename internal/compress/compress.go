// Package compress wraps the zstd and lz4 stream codecs used for batch
// bundles.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies a compression algorithm.
type Algorithm uint8

const (
	// None writes data unchanged.
	None Algorithm = iota
	// LZ4 uses the LZ4 frame format (fast).
	LZ4
	// Zstd uses the Zstandard frame format (better ratio).
	Zstd
)

// ErrUnknownAlgorithm is returned for unrecognised algorithm names or values.
var ErrUnknownAlgorithm = errors.New("compress: unknown algorithm")

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// Extension returns the conventional file suffix, including the dot.
func (a Algorithm) Extension() string {
	switch a {
	case LZ4:
		return ".lz4"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

// Parse returns the algorithm for a name. The empty string means None.
func Parse(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "off":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return Zstd, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Detect inspects the frame magic of data.
func Detect(data []byte) Algorithm {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd
	case bytes.HasPrefix(data, lz4Magic):
		return LZ4
	default:
		return None
	}
}

var zstdEncoderPool sync.Pool

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}

	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns a writer compressing into w. Closing it flushes the
// final frame but does not close w.
func NewWriter(w io.Writer, alg Algorithm) (io.WriteCloser, error) {
	switch alg {
	case None:
		return nopWriteCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, alg)
	}
}

// NewReader returns a reader decompressing from r.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None:
		return io.NopCloser(r), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}

		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, alg)
	}
}

// Compress encodes data in one shot.
func Compress(data []byte, alg Algorithm) ([]byte, error) {
	switch alg {
	case None:
		return data, nil
	case Zstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		defer zstdEncoderPool.Put(enc)

		return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case LZ4:
		var buf bytes.Buffer

		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}

		if err := w.Close(); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, alg)
	}
}

// Decompress decodes data produced by Compress or a writer from NewWriter.
func Decompress(data []byte, alg Algorithm) ([]byte, error) {
	switch alg {
	case None:
		return data, nil
	case Zstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		return dec.DecodeAll(data, nil)
	case LZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, alg)
	}
}
