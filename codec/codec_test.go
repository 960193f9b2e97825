package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestRecordCodecs(t *testing.T) {
	rec := Record{Source: "cat.jpg", Length: 5, Packed: []byte{0x05, 0x38}, Key: "sigs/cat.jpg.sig"}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(rec)
			require.NoError(t, err)
			assert.JSONEq(t, `{"source":"cat.jpg","length":5,"packed":"BTg=","key":"sigs/cat.jpg.sig"}`, string(data))

			var got Record
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, rec, got)
		})
	}

	t.Run("ErrorRecord", func(t *testing.T) {
		data := MustMarshal(nil, Record{Source: "missing.png", Error: "fail to read file: missing.png"})
		assert.JSONEq(t, `{"source":"missing.png","error":"fail to read file: missing.png"}`, string(data))
	})
}

func TestRecordLines(t *testing.T) {
	records := []Record{
		{Source: "a.jpg", Length: 5, Packed: []byte{0x05, 0x38}, Key: "sigs/a.jpg.sig"},
		{Source: "b.png", Error: "unsupported format: b.png: decode"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, nil, records...))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			got, err := ReadRecords(strings.NewReader("\n"+buf.String()+"\n\n"), c)
			require.NoError(t, err)
			assert.Equal(t, records, got)
		})
	}

	t.Run("BadLine", func(t *testing.T) {
		_, err := ReadRecords(strings.NewReader("{\"source\":\"a\"}\nnot json\n"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("Empty", func(t *testing.T) {
		got, err := ReadRecords(strings.NewReader(""), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
