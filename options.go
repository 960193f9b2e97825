package puzzle

import (
	"log/slog"

	"github.com/hupe1980/puzzle/distance"
	"github.com/hupe1980/puzzle/grid"
	"github.com/hupe1980/puzzle/internal/fs"
	"github.com/hupe1980/puzzle/quantization"
	"github.com/hupe1980/puzzle/signature"
)

type options struct {
	gridSize         int
	lambdas          int
	pRatio           float64
	noiseCutoff      float64
	quantizer        quantization.Quantizer
	autocrop         bool
	contrastBarrier  float64
	maxCroppingRatio float64
	maxWidth         int
	maxHeight        int
	metric           distance.Metric
	fixForTexts      bool
	thresholds       *Thresholds
	fsys             fs.FileSystem
	metricsCollector MetricsCollector
	logger           *Logger
}

func defaultOptions() options {
	return options{
		gridSize:         grid.DefaultSize,
		lambdas:          signature.DefaultLambdas,
		pRatio:           signature.DefaultPRatio,
		noiseCutoff:      quantization.DefaultNoiseCutoff,
		autocrop:         true,
		contrastBarrier:  grid.DefaultContrastBarrier,
		maxCroppingRatio: grid.DefaultMaxCroppingRatio,
		maxWidth:         grid.DefaultMaxWidth,
		maxHeight:        grid.DefaultMaxHeight,
		metric:           distance.MetricOrdinal,
		fsys:             fs.Default,
	}
}

// Option configures a Puzzle.
type Option func(*options)

// WithGridSize sets the side length D of the normalized grid (default 128).
func WithGridSize(size int) Option {
	return func(o *options) {
		o.gridSize = size
	}
}

// WithLambdas sets the number of sample points per axis (default 9).
// Signatures carry lambdas²×8 symbols.
func WithLambdas(lambdas int) Option {
	return func(o *options) {
		o.lambdas = lambdas
	}
}

// WithPRatio sets the divisor applied to point spacing to obtain the region
// side (default 2.0). Larger values sample smaller regions.
func WithPRatio(ratio float64) Option {
	return func(o *options) {
		o.pRatio = ratio
	}
}

// WithNoiseCutoff sets the difference magnitude treated as equal brightness
// (default 2). Ignored when WithQuantizer is used.
func WithNoiseCutoff(cutoff float64) Option {
	return func(o *options) {
		o.noiseCutoff = cutoff
	}
}

// WithQuantizer replaces the adaptive ordinal quantizer.
func WithQuantizer(q quantization.Quantizer) Option {
	return func(o *options) {
		o.quantizer = q
	}
}

// WithAutocrop enables or disables trimming of low-contrast borders (default on).
func WithAutocrop(enabled bool) Option {
	return func(o *options) {
		o.autocrop = enabled
	}
}

// WithContrastBarrier sets the per-mille share of total contrast a trimmed
// border may hold (default 5).
func WithContrastBarrier(barrier float64) Option {
	return func(o *options) {
		o.contrastBarrier = barrier
	}
}

// WithMaxCroppingRatio bounds the share of lines trimmed from each edge
// (default 0.25).
func WithMaxCroppingRatio(ratio float64) Option {
	return func(o *options) {
		o.maxCroppingRatio = ratio
	}
}

// WithMaxSize bounds the accepted source dimensions (default 3000×3000).
// Larger images fail with ErrUnsupportedFormat.
func WithMaxSize(width, height int) Option {
	return func(o *options) {
		o.maxWidth = width
		o.maxHeight = height
	}
}

// WithMetric selects the distance metric (default distance.MetricOrdinal).
//
// Similarity thresholds follow the metric unless set with WithThresholds.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithFixForTexts enables the text-image correction of the NormalizedL2 metric.
func WithFixForTexts(enabled bool) Option {
	return func(o *options) {
		o.fixForTexts = enabled
	}
}

// WithThresholds overrides the similarity thresholds.
func WithThresholds(t Thresholds) Option {
	return func(o *options) {
		o.thresholds = &t
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &puzzle.BasicMetricsCollector{}
//	p, _ := puzzle.New(puzzle.WithMetricsCollector(metrics))
//	// ... use p ...
//	stats := metrics.GetStats()
//	fmt.Printf("Extractions: %d, Avg latency: %dns\n", stats.ExtractCount, stats.ExtractAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := puzzle.NewJSONLogger(slog.LevelInfo)
//	p, _ := puzzle.New(puzzle.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// withFileSystem replaces the file system used by SignatureFromFile.
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}
