package puzzle

import (
	"fmt"

	"github.com/hupe1980/puzzle/distance"
)

// Similarity classifies a distance.
type Similarity int

const (
	SimilarityNone Similarity = iota
	SimilarityWeak
	SimilarityStrong
	SimilarityHigh
	SimilarityNearDuplicate
)

func (s Similarity) String() string {
	switch s {
	case SimilarityNone:
		return "none"
	case SimilarityWeak:
		return "weak"
	case SimilarityStrong:
		return "strong"
	case SimilarityHigh:
		return "high"
	case SimilarityNearDuplicate:
		return "near-duplicate"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Thresholds are distance bounds for each similarity class. A distance below
// Default is considered similar.
type Thresholds struct {
	High    float64
	Default float64
	Low     float64
	Lower   float64
}

// DefaultThresholds returns the thresholds for a metric. The NormalizedL2
// values are the long-standing defaults for that metric.
func DefaultThresholds(m distance.Metric) Thresholds {
	if m == distance.MetricNormalizedL2 {
		return Thresholds{High: 0.7, Default: 0.6, Low: 0.3, Lower: 0.2}
	}
	return Thresholds{High: 0.2, Default: 0.12, Low: 0.06, Lower: 0.03}
}

// Validate checks that 0 < Lower <= Low <= Default <= High.
func (t Thresholds) Validate() error {
	if !(0 < t.Lower && t.Lower <= t.Low && t.Low <= t.Default && t.Default <= t.High) {
		return fmt.Errorf("%w: thresholds must satisfy 0 < lower <= low <= default <= high, got %+v", ErrInvalidConfig, t)
	}
	return nil
}

// Classify maps a distance to a similarity class.
func (t Thresholds) Classify(d float64) Similarity {
	switch {
	case d < t.Lower:
		return SimilarityNearDuplicate
	case d < t.Low:
		return SimilarityHigh
	case d < t.Default:
		return SimilarityStrong
	case d < t.High:
		return SimilarityWeak
	default:
		return SimilarityNone
	}
}
