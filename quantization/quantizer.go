package quantization

import (
	"math"
	"slices"

	"github.com/hupe1980/puzzle/cvec"
)

// DefaultNoiseCutoff is the difference magnitude below which two regions are
// considered equally bright.
const DefaultNoiseCutoff = 2.0

// Quantizer defines the interface for difference quantization methods.
type Quantizer interface {
	// Quantize maps every difference to a symbol, preserving order.
	Quantize(diffs []float64) cvec.Signature
}

// Thresholds holds the boundaries between the darker and lighter symbol pairs.
type Thresholds struct {
	// Darker separates MuchDarker (below) from Darker.
	Darker float64
	// Lighter separates MuchLighter (above) from Lighter.
	Lighter float64
}

// Ordinal is the adaptive quantizer. Its strong thresholds are trained per
// image from the medians of that image's differences, so they differ between
// images; use Fixed for thresholds that stay constant.
type Ordinal struct {
	NoiseCutoff float64
}

// NewOrdinal creates an Ordinal quantizer with the given noise cutoff.
// A negative cutoff is treated as zero.
func NewOrdinal(noiseCutoff float64) Ordinal {
	return Ordinal{NoiseCutoff: math.Max(0, noiseCutoff)}
}

// Train computes the thresholds for one set of differences.
// A side without any difference past the cutoff gets the cutoff itself.
func (q Ordinal) Train(diffs []float64) Thresholds {
	var lighter, darker []float64
	for _, d := range diffs {
		switch {
		case d > q.NoiseCutoff:
			lighter = append(lighter, d)
		case d < -q.NoiseCutoff:
			darker = append(darker, d)
		}
	}

	t := Thresholds{Darker: -q.NoiseCutoff, Lighter: q.NoiseCutoff}
	if len(lighter) > 0 {
		t.Lighter = median(lighter)
	}
	if len(darker) > 0 {
		t.Darker = median(darker)
	}
	return t
}

// Symbol quantizes a single difference against precomputed thresholds.
func (q Ordinal) Symbol(d float64, t Thresholds) cvec.Symbol {
	switch {
	case math.Abs(d) <= q.NoiseCutoff:
		return cvec.Same
	case d < 0:
		if d < t.Darker {
			return cvec.MuchDarker
		}
		return cvec.Darker
	default:
		if d > t.Lighter {
			return cvec.MuchLighter
		}
		return cvec.Lighter
	}
}

// Quantize trains on diffs and maps each of them.
func (q Ordinal) Quantize(diffs []float64) cvec.Signature {
	t := q.Train(diffs)
	sig := make(cvec.Signature, len(diffs))
	for i, d := range diffs {
		sig[i] = q.Symbol(d, t)
	}
	return sig
}

// Fixed quantizes against constant thresholds.
type Fixed struct {
	// NoiseCutoff is the largest magnitude mapped to Same.
	NoiseCutoff float64
	// Strong is the magnitude above which a difference maps to MuchDarker
	// or MuchLighter.
	Strong float64
}

// Quantize maps each difference independently.
func (q Fixed) Quantize(diffs []float64) cvec.Signature {
	sig := make(cvec.Signature, len(diffs))
	for i, d := range diffs {
		switch {
		case math.Abs(d) <= q.NoiseCutoff:
			sig[i] = cvec.Same
		case d < -q.Strong:
			sig[i] = cvec.MuchDarker
		case d < 0:
			sig[i] = cvec.Darker
		case d > q.Strong:
			sig[i] = cvec.MuchLighter
		default:
			sig[i] = cvec.Lighter
		}
	}
	return sig
}

// median returns the upper median of v. v is reordered.
func median(v []float64) float64 {
	slices.Sort(v)
	return v[len(v)/2]
}

var (
	_ Quantizer = Ordinal{}
	_ Quantizer = Fixed{}
)
