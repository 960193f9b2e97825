package puzzle

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/hupe1980/puzzle/codec"
	"github.com/hupe1980/puzzle/cvec"
	"github.com/hupe1980/puzzle/distance"
	"github.com/hupe1980/puzzle/grid"
	"github.com/hupe1980/puzzle/quantization"
	"github.com/hupe1980/puzzle/signature"
)

// Puzzle is an immutable extraction context. It binds one configuration and
// is safe for concurrent use.
type Puzzle struct {
	normalizer *grid.Normalizer
	extractor  *signature.Extractor
	codec      codec.SignatureCodec
	metric     distance.Metric
	dist       distance.Func
	thresholds Thresholds
	logger     *Logger
	metrics    MetricsCollector
}

// New creates a Puzzle from the given options.
func New(optFns ...Option) (*Puzzle, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	gridOpts := grid.Options{
		Size:             o.gridSize,
		MaxWidth:         o.maxWidth,
		MaxHeight:        o.maxHeight,
		Autocrop:         o.autocrop,
		ContrastBarrier:  o.contrastBarrier,
		MaxCroppingRatio: o.maxCroppingRatio,
	}
	normalizer, err := grid.NewNormalizerFS(gridOpts, o.fsys)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	quantizer := o.quantizer
	if quantizer == nil {
		if o.noiseCutoff < 0 {
			return nil, fmt.Errorf("%w: noise cutoff must not be negative, got %g", ErrInvalidConfig, o.noiseCutoff)
		}
		quantizer = quantization.NewOrdinal(o.noiseCutoff)
	}
	extractor, err := signature.NewExtractor(signature.Config{
		Size:      o.gridSize,
		Lambdas:   o.lambdas,
		PRatio:    o.pRatio,
		Quantizer: quantizer,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	dist, err := distance.Provider(o.metric, o.fixForTexts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	thresholds := DefaultThresholds(o.metric)
	if o.thresholds != nil {
		thresholds = *o.thresholds
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = NoopLogger()
	}
	metrics := o.metricsCollector
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &Puzzle{
		normalizer: normalizer,
		extractor:  extractor,
		codec:      codec.SignatureCodec{Length: extractor.Length()},
		metric:     o.metric,
		dist:       dist,
		thresholds: thresholds,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Length returns the number of symbols in every signature.
func (p *Puzzle) Length() int { return p.extractor.Length() }

// PackedSize returns the size of a packed signature in bytes.
func (p *Puzzle) PackedSize() int { return p.codec.PackedSize() }

// GridSize returns the side length of the normalized grid.
func (p *Puzzle) GridSize() int { return p.extractor.Config().Size }

// Metric returns the configured distance metric.
func (p *Puzzle) Metric() distance.Metric { return p.metric }

// Thresholds returns the similarity thresholds in effect.
func (p *Puzzle) Thresholds() Thresholds { return p.thresholds }

// Logger returns the configured logger.
func (p *Puzzle) Logger() *Logger { return p.logger }

// SignatureFromFile computes the signature of the image file at path.
//
// A missing or unreadable file fails with *ErrUnreadableSource; a file that
// is not a decodable image fails with *ErrUnsupportedFormat.
func (p *Puzzle) SignatureFromFile(ctx context.Context, path string) (cvec.Signature, error) {
	return p.extract(ctx, path, func() (*grid.Grid, error) {
		return p.normalizer.FromFile(path)
	})
}

// SignatureFromReader computes the signature of an encoded image read from r.
// name identifies the source in errors and logs.
func (p *Puzzle) SignatureFromReader(ctx context.Context, r io.Reader, name string) (cvec.Signature, error) {
	return p.extract(ctx, name, func() (*grid.Grid, error) {
		return p.normalizer.FromReader(r, name)
	})
}

// SignatureFromBytes computes the signature of an encoded image held in memory.
func (p *Puzzle) SignatureFromBytes(ctx context.Context, data []byte, name string) (cvec.Signature, error) {
	return p.extract(ctx, name, func() (*grid.Grid, error) {
		return p.normalizer.FromBytes(data, name)
	})
}

// SignatureFromImage computes the signature of a decoded image.
func (p *Puzzle) SignatureFromImage(img image.Image) (cvec.Signature, error) {
	return p.extract(context.Background(), "image", func() (*grid.Grid, error) {
		return p.normalizer.FromImage(img)
	})
}

// SignatureFromGrid computes the signature of an already normalized grid.
// A grid of the wrong size fails with *ErrInvalidInput.
func (p *Puzzle) SignatureFromGrid(g *grid.Grid) (cvec.Signature, error) {
	return p.extract(context.Background(), "grid", func() (*grid.Grid, error) {
		return g, nil
	})
}

func (p *Puzzle) extract(ctx context.Context, source string, load func() (*grid.Grid, error)) (cvec.Signature, error) {
	start := time.Now()
	sig, err := p.doExtract(ctx, load)
	p.metrics.RecordExtract(time.Since(start), err)
	p.logger.LogExtract(ctx, source, len(sig), err)
	return sig, err
}

func (p *Puzzle) doExtract(ctx context.Context, load func() (*grid.Grid, error)) (cvec.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := load()
	if err != nil {
		return nil, translateError(err)
	}
	sig, err := p.extractor.Extract(g)
	if err != nil {
		return nil, translateError(err)
	}
	return sig, nil
}

// Compare returns the distance between two signatures under the configured
// metric. Signatures of different length fail with *ErrDimensionMismatch.
// Signatures of equal but unconfigured length, or holding symbols outside the
// alphabet, fail with *ErrInvalidInput.
func (p *Puzzle) Compare(a, b cvec.Signature) (float64, error) {
	start := time.Now()
	d, err := p.compare(a, b)
	p.metrics.RecordCompare(time.Since(start), err)
	p.logger.LogCompare(context.Background(), p.metric.String(), d, err)
	if err != nil {
		return 0, err
	}
	return d, nil
}

func (p *Puzzle) compare(a, b cvec.Signature) (float64, error) {
	if len(a) == len(b) {
		if err := p.checkSignature(a); err != nil {
			return 0, err
		}
		if err := p.checkSignature(b); err != nil {
			return 0, err
		}
	}

	d, err := p.dist(a, b)
	return d, translateError(err)
}

// checkSignature enforces the configured length and the symbol alphabet.
func (p *Puzzle) checkSignature(s cvec.Signature) error {
	if want := p.Length(); len(s) != want {
		return &ErrInvalidInput{
			Expected: want,
			Actual:   len(s),
			Reason:   fmt.Sprintf("signature length %d, configured %d", len(s), want),
		}
	}

	for i, sym := range s {
		if !sym.Valid() {
			return &ErrInvalidInput{
				Expected: int(cvec.MaxSymbol),
				Actual:   int(sym),
				Reason:   fmt.Sprintf("symbol %d at position %d outside alphabet [0, %d]", sym, i, cvec.MaxSymbol),
			}
		}
	}

	return nil
}

// CompareFiles extracts the signatures of two image files and compares them.
func (p *Puzzle) CompareFiles(ctx context.Context, pathA, pathB string) (float64, error) {
	a, err := p.SignatureFromFile(ctx, pathA)
	if err != nil {
		return 0, err
	}
	b, err := p.SignatureFromFile(ctx, pathB)
	if err != nil {
		return 0, err
	}
	return p.Compare(a, b)
}

// Pack encodes a signature into its compact binary form.
// Signatures of the wrong length or with symbols outside the alphabet fail
// with *ErrInvalidInput.
func (p *Puzzle) Pack(s cvec.Signature) ([]byte, error) {
	start := time.Now()
	b, err := p.codec.Pack(s)
	err = translateError(err)
	p.metrics.RecordPack(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Unpack decodes bytes produced by Pack. Malformed input fails with
// *ErrCorruptData.
func (p *Puzzle) Unpack(b []byte) (cvec.Signature, error) {
	start := time.Now()
	s, err := p.codec.Unpack(b)
	err = translateError(err)
	p.metrics.RecordUnpack(time.Since(start), err)
	p.logger.LogUnpack(context.Background(), len(b), err)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Similar reports whether d is below the default similarity threshold.
func (p *Puzzle) Similar(d float64) bool { return d < p.thresholds.Default }

// Similarity classifies d against the configured thresholds.
func (p *Puzzle) Similarity(d float64) Similarity { return p.thresholds.Classify(d) }
