package codec

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

// Default is the default codec used for batch records.
var Default Codec = GoJSON{}

// JSON encodes with encoding/json. Records written with it decode with any
// JSON reader.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                       { return "json" }

// GoJSON encodes with github.com/goccy/go-json. For the record types in
// this package its output matches JSON byte for byte.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error)      { return gojson.Marshal(v) }
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }
func (GoJSON) Name() string                       { return "go-json" }

