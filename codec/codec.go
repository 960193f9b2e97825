// Package codec centralizes signature and record encoding.
//
// SignatureCodec is the compact binary form of a signature: a fixed-length,
// headerless byte string. Codec implementations serialize the structured
// records produced by batch extraction.
//
// Changing either encoding is a breaking-change boundary: bytes written by
// older encoders may no longer decode.
package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
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

// MustMarshal is a helper for internal tests/benchmarks.
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

// Record describes one fingerprinted source in batch output.
type Record struct {
	Source string `json:"source"`
	Length int    `json:"length,omitempty"`
	// Packed is the SignatureCodec encoding (base64 in JSON).
	Packed []byte `json:"packed,omitempty"`
	// Key is the blob key the packed signature was stored under, if any.
	Key   string `json:"key,omitempty"`
	Error string `json:"error,omitempty"`
}

// maxRecordLine bounds a single JSON line when reading records.
const maxRecordLine = 1 << 20

// WriteRecords writes records as JSON lines, one record per line.
func WriteRecords(w io.Writer, c Codec, records ...Record) error {
	if c == nil {
		c = Default
	}

	var line []byte

	for _, rec := range records {
		b, err := c.Marshal(rec)
		if err != nil {
			return fmt.Errorf("codec %s: %w", c.Name(), err)
		}

		line = append(append(line[:0], b...), '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}

	return nil
}

// ReadRecords reads JSON lines written by WriteRecords. Blank lines are skipped.
func ReadRecords(r io.Reader, c Codec) ([]Record, error) {
	if c == nil {
		c = Default
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordLine)

	var records []Record

	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := c.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}

		records = append(records, rec)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
