package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/puzzle/cvec"
	"github.com/hupe1980/puzzle/testutil"
)

func TestPackedSize(t *testing.T) {
	tests := []struct {
		length, size int
	}{
		{0, 0}, {1, 1}, {2, 1}, {3, 2}, {8, 3}, {9, 4}, {72, 27}, {648, 243},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.size, PackedSize(tt.length), "length %d", tt.length)
		assert.Equal(t, tt.size, SignatureCodec{Length: tt.length}.PackedSize())
	}
}

func TestSignatureCodec_KnownVector(t *testing.T) {
	c := SignatureCodec{Length: 5}
	s, err := cvec.Parse("01234")
	require.NoError(t, err)

	// 000 001 010 011 100 + one padding bit
	b, err := c.Pack(s)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x05, 0x38}, b)

	got, err := c.Unpack(b)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSignatureCodec_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(3)
	for _, length := range []int{0, 1, 2, 3, 5, 7, 8, 9, 16, 72, 200, 648} {
		c := SignatureCodec{Length: length}
		for i := 0; i < 20; i++ {
			s := rng.Signature(length)

			b, err := c.Pack(s)
			require.NoError(t, err)
			require.Len(t, b, c.PackedSize())

			again, err := c.Pack(s)
			require.NoError(t, err)
			assert.Equal(t, b, again, "deterministic")

			got, err := c.Unpack(b)
			require.NoError(t, err)
			assert.True(t, s.Equal(got), "length %d", length)
		}
	}
}

func TestSignatureCodec_AppendPack(t *testing.T) {
	c := SignatureCodec{Length: 3}
	s, err := cvec.Parse("444")
	require.NoError(t, err)

	out, err := c.AppendPack([]byte{0xFF}, s)
	require.NoError(t, err)
	// 100 100 100 + 7 padding bits
	assert.Equal(t, []byte{0xFF, 0x92, 0x00}, out)
}

func TestSignatureCodec_PackErrors(t *testing.T) {
	c := SignatureCodec{Length: 4}

	t.Run("WrongLength", func(t *testing.T) {
		_, err := c.Pack(cvec.Signature{cvec.Same})
		var lengthErr *ErrSignatureLength
		require.True(t, errors.As(err, &lengthErr))
		assert.Equal(t, 4, lengthErr.Expected)
		assert.Equal(t, 1, lengthErr.Actual)
	})

	t.Run("InvalidSymbol", func(t *testing.T) {
		_, err := c.Pack(cvec.Signature{cvec.Same, cvec.Same, 7, cvec.Same})
		var symErr *ErrInvalidSymbol
		require.True(t, errors.As(err, &symErr))
		assert.Equal(t, 2, symErr.Position)
		assert.Equal(t, cvec.Symbol(7), symErr.Symbol)
	})
}

func TestSignatureCodec_UnpackCorrupt(t *testing.T) {
	tests := []struct {
		name   string
		length int
		data   []byte
		reason string
	}{
		{"Empty", 648, nil, "wrong length"},
		{"Short", 648, make([]byte, 242), "wrong length"},
		{"Long", 648, make([]byte, 244), "wrong length"},
		{"ValueOutOfAlphabet", 1, []byte{0xA0}, "outside alphabet"},
		{"SevenInSecondField", 2, []byte{0x1C}, "position 1 outside alphabet"},
		{"NonZeroPadding", 1, []byte{0x41}, "non-zero padding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SignatureCodec{Length: tt.length}.Unpack(tt.data)
			require.Error(t, err)

			var corrupt *ErrCorrupt
			require.True(t, errors.As(err, &corrupt))
			assert.Equal(t, len(tt.data), corrupt.Length)
			assert.Equal(t, PackedSize(tt.length), corrupt.Expected)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}
