package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/puzzle/cvec"
)

// ErrLengthMismatch is returned when two signatures of different length are compared.
type ErrLengthMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("signature length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func checkLengths(a, b cvec.Signature) error {
	if len(a) != len(b) {
		return &ErrLengthMismatch{Expected: len(a), Actual: len(b)}
	}
	return nil
}

// Ordinal returns Σ|a_i − b_i| divided by the largest possible sum for the
// signature length. Symbols are assumed to be inside the alphabet.
func Ordinal(a, b cvec.Signature) (float64, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}

	var sum int
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(len(a)*int(cvec.MaxSymbol)), nil
}

// NormalizedL2 returns ‖a−b‖ / (‖a‖+‖b‖) over centred symbols.
//
// With fixForTexts, a disagreement between Same and either extreme counts as
// a difference of 3 instead of 2. This penalizes text-like images whose
// signatures are dominated by flat areas.
func NormalizedL2(a, b cvec.Signature, fixForTexts bool) (float64, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}

	var diff2, a2, b2 float64
	for i := range a {
		ca, cb := a[i].Centered(), b[i].Centered()
		d := ca - cb
		if fixForTexts && textual(ca, cb) {
			d = 3
		}
		diff2 += float64(d * d)
		a2 += float64(ca * ca)
		b2 += float64(cb * cb)
	}

	norms := math.Sqrt(a2) + math.Sqrt(b2)
	if norms == 0 {
		return 0, nil
	}
	return math.Sqrt(diff2) / norms, nil
}

// textual reports whether one side is Same and the other an extreme.
func textual(ca, cb int) bool {
	return (ca == 0 && (cb == 2 || cb == -2)) || (cb == 0 && (ca == 2 || ca == -2))
}

// Metric represents the distance metric used for signature comparison.
type Metric int

const (
	MetricOrdinal Metric = iota
	MetricNormalizedL2
)

func (m Metric) String() string {
	switch m {
	case MetricOrdinal:
		return "Ordinal"
	case MetricNormalizedL2:
		return "NormalizedL2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric parses a metric name, case-insensitively.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "ordinal":
		return MetricOrdinal, nil
	case "normalizedl2", "normalized-l2", "l2":
		return MetricNormalizedL2, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", name)
	}
}

// Func is a function type for signature distance calculation.
type Func func(a, b cvec.Signature) (float64, error)

// Provider returns the distance function for the given metric.
// fixForTexts only applies to MetricNormalizedL2.
func Provider(m Metric, fixForTexts bool) (Func, error) {
	switch m {
	case MetricOrdinal:
		return Ordinal, nil
	case MetricNormalizedL2:
		return func(a, b cvec.Signature) (float64, error) {
			return NormalizedL2(a, b, fixForTexts)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
