package cvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbol(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "MuchDarker", MuchDarker.String())
		assert.Equal(t, "Same", Same.String())
		assert.Equal(t, "MuchLighter", MuchLighter.String())
		assert.Equal(t, "Unknown(9)", Symbol(9).String())
	})

	t.Run("Centered", func(t *testing.T) {
		tests := []struct {
			sym  Symbol
			want int
		}{
			{MuchDarker, -2},
			{Darker, -1},
			{Same, 0},
			{Lighter, 1},
			{MuchLighter, 2},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, tt.sym.Centered())
		}
	})

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, MaxSymbol.Valid())
		assert.False(t, Symbol(AlphabetSize).Valid())
	})
}

func TestSignature(t *testing.T) {
	sig := Signature{Same, Lighter, MuchDarker, MuchLighter, Darker}

	t.Run("StringParse", func(t *testing.T) {
		assert.Equal(t, "23041", sig.String())

		parsed, err := Parse("23041")
		require.NoError(t, err)
		assert.True(t, sig.Equal(parsed))

		_, err = Parse("2359")
		assert.Error(t, err)
	})

	t.Run("Clone", func(t *testing.T) {
		c := sig.Clone()
		assert.True(t, sig.Equal(c))
		c[0] = MuchDarker
		assert.Equal(t, Same, sig[0])
	})

	t.Run("Validate", func(t *testing.T) {
		assert.NoError(t, sig.Validate())
		bad := Signature{Same, Symbol(7)}
		assert.Error(t, bad.Validate())
		assert.Equal(t, "2?", bad.String())
	})

	t.Run("Equal", func(t *testing.T) {
		assert.False(t, sig.Equal(sig[:4]))
		assert.True(t, Signature(nil).Equal(Signature{}))
	})
}
