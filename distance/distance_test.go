package distance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/puzzle/cvec"
	"github.com/hupe1980/puzzle/testutil"
)

func sig(t *testing.T, text string) cvec.Signature {
	t.Helper()
	s, err := cvec.Parse(text)
	require.NoError(t, err)
	return s
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"Identical", "01234", "01234", 0},
		{"Empty", "", "", 0},
		{"OneStep", "2222", "2223", 1.0 / 16},
		{"Opposite", "0000", "4444", 1},
		{"Mixed", "0413", "1402", 3.0 / 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Ordinal(sig(t, tt.a), sig(t, tt.b))
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestNormalizedL2(t *testing.T) {
	tests := []struct {
		name        string
		a, b        string
		fixForTexts bool
		expected    float64
	}{
		{"Identical", "0134", "0134", false, 0},
		{"AllSame", "2222", "2222", false, 0},
		{"Empty", "", "", true, 0},
		// centred: a = (2, 0), b = (-2, 0): ‖a−b‖ = 4, ‖a‖+‖b‖ = 4
		{"Opposite", "42", "02", false, 1},
		// centred: a = (2), b = (0): 2 / 2
		{"ExtremeVsSame", "4", "2", false, 1},
		{"ExtremeVsSameFixed", "4", "2", true, 1.5},
		{"DarkExtremeVsSameFixed", "2", "0", true, 1.5},
		// centred: a = (1, 0), b = (0, 1): √2 / 2
		{"Orthogonal", "32", "23", false, math.Sqrt2 / 2},
		{"OneStepNotFixed", "3", "2", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizedL2(sig(t, tt.a), sig(t, tt.b), tt.fixForTexts)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestProperties(t *testing.T) {
	rng := testutil.NewRNG(7)
	metrics := map[string]Func{
		"Ordinal":         Ordinal,
		"NormalizedL2":    func(a, b cvec.Signature) (float64, error) { return NormalizedL2(a, b, false) },
		"NormalizedL2Fix": func(a, b cvec.Signature) (float64, error) { return NormalizedL2(a, b, true) },
	}

	for name, f := range metrics {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				a, b := rng.Signature(648), rng.Signature(648)

				self, err := f(a, a)
				require.NoError(t, err)
				assert.Equal(t, 0.0, self, "identity")

				ab, err := f(a, b)
				require.NoError(t, err)
				ba, err := f(b, a)
				require.NoError(t, err)
				assert.Equal(t, ab, ba, "symmetry")
				assert.GreaterOrEqual(t, ab, 0.0)
				assert.LessOrEqual(t, ab, 1.5)
			}
		})
	}
}

func TestNearDuplicateOrdering(t *testing.T) {
	rng := testutil.NewRNG(11)
	base := rng.Signature(648)
	near := rng.Perturb(base, 0.05)
	far := rng.Signature(648)

	dNear, err := Ordinal(base, near)
	require.NoError(t, err)
	dFar, err := Ordinal(base, far)
	require.NoError(t, err)
	assert.Less(t, dNear, dFar)
}

func TestLengthMismatch(t *testing.T) {
	a, b := sig(t, "0123"), sig(t, "012")

	for _, f := range []func() error{
		func() error { _, err := Ordinal(a, b); return err },
		func() error { _, err := NormalizedL2(a, b, false); return err },
	} {
		err := f()
		require.Error(t, err)

		var mismatch *ErrLengthMismatch
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, 4, mismatch.Expected)
		assert.Equal(t, 3, mismatch.Actual)
		assert.Equal(t, "signature length mismatch: expected 4, got 3", err.Error())
	}
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "Ordinal", MetricOrdinal.String())
		assert.Equal(t, "NormalizedL2", MetricNormalizedL2.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("Parse", func(t *testing.T) {
		for name, expected := range map[string]Metric{
			"ordinal":      MetricOrdinal,
			"Ordinal":      MetricOrdinal,
			"normalizedl2": MetricNormalizedL2,
			"l2":           MetricNormalizedL2,
		} {
			m, err := ParseMetric(name)
			require.NoError(t, err, name)
			assert.Equal(t, expected, m)
		}
		_, err := ParseMetric("cosine")
		assert.Error(t, err)
	})

	t.Run("Provider", func(t *testing.T) {
		f, err := Provider(MetricOrdinal, false)
		require.NoError(t, err)
		d, err := f(sig(t, "0000"), sig(t, "4444"))
		require.NoError(t, err)
		assert.Equal(t, 1.0, d)

		f, err = Provider(MetricNormalizedL2, true)
		require.NoError(t, err)
		d, err = f(sig(t, "4"), sig(t, "2"))
		require.NoError(t, err)
		assert.InDelta(t, 1.5, d, 1e-12)

		_, err = Provider(Metric(99), false)
		assert.Error(t, err)
	})
}
