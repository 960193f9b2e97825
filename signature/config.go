package signature

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/puzzle/grid"
	"github.com/hupe1980/puzzle/quantization"
)

const (
	// DefaultLambdas is the number of sample points per axis.
	DefaultLambdas = 9

	// DefaultPRatio divides the point spacing to obtain the region side.
	DefaultPRatio = 2.0

	// Neighbours is the number of comparisons per sample point.
	Neighbours = 8

	minRegionSide = 2
)

// ErrInvalidConfig is returned when the extraction parameters are unusable.
var ErrInvalidConfig = errors.New("invalid extraction config")

// Config holds the extraction parameters.
type Config struct {
	// Size is the expected grid side length D.
	Size int

	// Lambdas is the number of sample points per axis.
	Lambdas int

	// PRatio controls the region size relative to point spacing.
	PRatio float64

	// Quantizer maps differences to symbols.
	// If nil, an Ordinal quantizer with the default noise cutoff is used.
	Quantizer quantization.Quantizer
}

// DefaultConfig returns the default extraction parameters.
func DefaultConfig() Config {
	return Config{
		Size:    grid.DefaultSize,
		Lambdas: DefaultLambdas,
		PRatio:  DefaultPRatio,
	}
}

// Validate checks that the parameters describe a usable lattice.
func (c Config) Validate() error {
	if c.Lambdas < 1 {
		return fmt.Errorf("%w: lambdas must be at least 1, got %d", ErrInvalidConfig, c.Lambdas)
	}
	if c.Size < c.Lambdas+1 {
		return fmt.Errorf("%w: grid size %d too small for %d sample points per axis", ErrInvalidConfig, c.Size, c.Lambdas)
	}
	if !(c.PRatio > 0) || math.IsInf(c.PRatio, 0) {
		return fmt.Errorf("%w: p ratio must be positive and finite, got %v", ErrInvalidConfig, c.PRatio)
	}
	return nil
}

// Length returns the number of symbols a signature will carry.
func (c Config) Length() int {
	return c.Lambdas * c.Lambdas * Neighbours
}

// RegionSide returns the side length of each sampled region.
func (c Config) RegionSide() int {
	spacing := float64(c.Size) / float64(c.Lambdas+1)
	return max(minRegionSide, int(math.Round(spacing/c.PRatio)))
}

func (c Config) quantizer() quantization.Quantizer {
	if c.Quantizer == nil {
		return quantization.NewOrdinal(quantization.DefaultNoiseCutoff)
	}
	return c.Quantizer
}
