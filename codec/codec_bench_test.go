package codec

import (
	"testing"

	"github.com/hupe1980/puzzle/testutil"
)

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func benchRecords(b *testing.B) []Record {
	b.Helper()
	rng := testutil.NewRNG(1)
	sc := SignatureCodec{Length: 648}
	records := make([]Record, 64)
	for i := range records {
		packed, err := sc.Pack(rng.Signature(sc.Length))
		if err != nil {
			b.Fatal(err)
		}
		records[i] = Record{Source: "images/photo.jpg", Length: sc.Length, Packed: packed, Key: "sigs/photo.jpg.sig"}
	}
	return records
}

func BenchmarkCodec_Marshal_Records(b *testing.B) {
	records := benchRecords(b)

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, records) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, records) })
}

func BenchmarkCodec_Unmarshal_Records(b *testing.B) {
	jsonData := MustMarshal(JSON{}, benchRecords(b))

	b.Run("stdlib", func(b *testing.B) {
		var sink []Record
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink []Record
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}

func BenchmarkSignatureCodec(b *testing.B) {
	sc := SignatureCodec{Length: 648}
	sig := testutil.NewRNG(2).Signature(sc.Length)
	packed, err := sc.Pack(sig)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("Pack", func(b *testing.B) {
		b.ReportAllocs()
		buf := make([]byte, 0, sc.PackedSize())
		for b.Loop() {
			if _, err := sc.AppendPack(buf[:0], sig); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Unpack", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			if _, err := sc.Unpack(packed); err != nil {
				b.Fatal(err)
			}
		}
	})
}
