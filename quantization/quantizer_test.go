package quantization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/puzzle/cvec"
)

func TestOrdinal_Train(t *testing.T) {
	tests := []struct {
		name     string
		diffs    []float64
		expected Thresholds
	}{
		{"Empty", nil, Thresholds{Darker: -2, Lighter: 2}},
		{"OnlyNoise", []float64{-2, -1, 0, 1, 2}, Thresholds{Darker: -2, Lighter: 2}},
		{"OddCounts", []float64{3, 9, 5, -4, -20, -8}, Thresholds{Darker: -8, Lighter: 5}},
		{"EvenCounts", []float64{3, 9, 5, 7, -4, -20}, Thresholds{Darker: -4, Lighter: 7}},
		{"OneSided", []float64{10, 11, 0}, Thresholds{Darker: -2, Lighter: 11}},
	}

	q := NewOrdinal(DefaultNoiseCutoff)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, q.Train(tt.diffs))
		})
	}
}

func TestOrdinal_Quantize(t *testing.T) {
	q := NewOrdinal(2)
	diffs := []float64{0, 2, -2, 3, 5, 9, -3, -6, -12}
	got := q.Quantize(diffs)

	// Lighter {3,5,9} median 5, darker {-12,-6,-3} median -6.
	expected := cvec.Signature{
		cvec.Same, cvec.Same, cvec.Same,
		cvec.Lighter, cvec.Lighter, cvec.MuchLighter,
		cvec.Darker, cvec.Darker, cvec.MuchDarker,
	}
	assert.Equal(t, expected, got)
	assert.NoError(t, got.Validate())
}

func TestOrdinal_Deterministic(t *testing.T) {
	q := NewOrdinal(DefaultNoiseCutoff)
	diffs := []float64{-30, 4, 17, -3, 0, 8, -9, 25, -1}
	assert.Equal(t, q.Quantize(diffs), q.Quantize(diffs))

	// Train must not reorder the caller's slice.
	assert.Equal(t, []float64{-30, 4, 17, -3, 0, 8, -9, 25, -1}, diffs)
}

func TestOrdinal_ScaleInvariant(t *testing.T) {
	q := NewOrdinal(0)
	diffs := []float64{-30, 4, 17, -3, 8, -9, 25, -1}
	scaled := make([]float64, len(diffs))
	for i, d := range diffs {
		scaled[i] = d * 1.7
	}
	assert.Equal(t, q.Quantize(diffs), q.Quantize(scaled))
}

func TestNewOrdinal_NegativeCutoff(t *testing.T) {
	assert.Equal(t, 0.0, NewOrdinal(-5).NoiseCutoff)
}

func TestFixed_Quantize(t *testing.T) {
	q := Fixed{NoiseCutoff: 2, Strong: 10}
	got := q.Quantize([]float64{1, -2, 5, 11, -5, -10.5, 10})
	expected := cvec.Signature{
		cvec.Same, cvec.Same, cvec.Lighter, cvec.MuchLighter,
		cvec.Darker, cvec.MuchDarker, cvec.Lighter,
	}
	assert.Equal(t, expected, got)
}

func TestOrdinal_ThresholdsFollowImage(t *testing.T) {
	q := NewOrdinal(2)

	// The same difference of 10 lands on either side of the trained median.
	mild := q.Quantize([]float64{10, 4, 5})
	strong := q.Quantize([]float64{10, 30, 40})
	assert.Equal(t, cvec.MuchLighter, mild[0])
	assert.Equal(t, cvec.Lighter, strong[0])

	f := Fixed{NoiseCutoff: 2, Strong: 8}
	assert.Equal(t, f.Quantize([]float64{10, 4, 5})[0], f.Quantize([]float64{10, 30, 40})[0])
}
