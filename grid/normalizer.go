package grid

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"

	"github.com/hupe1980/puzzle/internal/fs"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// Default normalization parameters.
const (
	DefaultSize             = 128
	DefaultMaxWidth         = 3000
	DefaultMaxHeight        = 3000
	DefaultContrastBarrier  = 5.0
	DefaultMaxCroppingRatio = 0.25
)

// Options configures a Normalizer.
type Options struct {
	// Size is the side length of the produced grid.
	Size int
	// MaxWidth and MaxHeight bound the accepted source dimensions.
	MaxWidth  int
	MaxHeight int
	// Autocrop enables trimming of low-contrast borders before resampling.
	Autocrop bool
	// ContrastBarrier is the per-mille share of total contrast a border may
	// hold and still be trimmed.
	ContrastBarrier float64
	// MaxCroppingRatio bounds the share of lines trimmed from each edge.
	MaxCroppingRatio float64
}

// DefaultOptions returns the default normalization settings.
func DefaultOptions() Options {
	return Options{
		Size:             DefaultSize,
		MaxWidth:         DefaultMaxWidth,
		MaxHeight:        DefaultMaxHeight,
		Autocrop:         true,
		ContrastBarrier:  DefaultContrastBarrier,
		MaxCroppingRatio: DefaultMaxCroppingRatio,
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	switch {
	case o.Size < 2:
		return fmt.Errorf("grid size must be at least 2, got %d", o.Size)
	case o.MaxWidth <= 0 || o.MaxHeight <= 0:
		return fmt.Errorf("max dimensions must be positive, got %dx%d", o.MaxWidth, o.MaxHeight)
	case o.ContrastBarrier < 0:
		return fmt.Errorf("contrast barrier must not be negative, got %g", o.ContrastBarrier)
	case o.MaxCroppingRatio < 0 || o.MaxCroppingRatio >= 0.5:
		return fmt.Errorf("max cropping ratio must be in [0, 0.5), got %g", o.MaxCroppingRatio)
	}
	return nil
}

// Normalizer produces Grids from image sources. It is immutable and safe
// for concurrent use.
type Normalizer struct {
	opts Options
	fsys fs.FileSystem
}

// NewNormalizer creates a Normalizer reading files from the local file system.
func NewNormalizer(opts Options) (*Normalizer, error) {
	return NewNormalizerFS(opts, fs.Default)
}

// NewNormalizerFS creates a Normalizer reading files through fsys.
func NewNormalizerFS(opts Options, fsys fs.FileSystem) (*Normalizer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{opts: opts, fsys: fsys}, nil
}

// Options returns the normalizer configuration.
func (n *Normalizer) Options() Options { return n.opts }

// FromFile decodes the image at path.
func (n *Normalizer) FromFile(path string) (*Grid, error) {
	data, err := fs.ReadFile(n.fsys, path)
	if err != nil {
		return nil, &ErrUnreadable{Path: path, Err: err}
	}

	return n.FromBytes(data, path)
}

// FromReader decodes an image from r. name identifies the source in errors.
func (n *Normalizer) FromReader(r io.Reader, name string) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ErrUnreadable{Path: name, Err: err}
	}
	return n.FromBytes(data, name)
}

// FromBytes decodes an encoded image held in memory.
func (n *Normalizer) FromBytes(data []byte, name string) (*Grid, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &ErrUnsupported{Source: name, Reason: "cannot decode image header", Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &ErrUnsupported{Source: name, Reason: fmt.Sprintf("empty image %dx%d", cfg.Width, cfg.Height)}
	}
	if cfg.Width > n.opts.MaxWidth || cfg.Height > n.opts.MaxHeight {
		return nil, &ErrUnsupported{
			Source: name,
			Reason: fmt.Sprintf("dimensions %dx%d exceed limit %dx%d", cfg.Width, cfg.Height, n.opts.MaxWidth, n.opts.MaxHeight),
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ErrUnsupported{Source: name, Reason: "cannot decode image", Err: err}
	}

	g, err := n.FromImage(img)
	if err != nil {
		var us *ErrUnsupported
		if errors.As(err, &us) {
			us.Source = name
		}
		return nil, err
	}
	return g, nil
}

// FromImage normalizes an already decoded image.
func (n *Normalizer) FromImage(img image.Image) (*Grid, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, &ErrUnsupported{Source: "image", Reason: "empty image"}
	}
	if b.Dx() > n.opts.MaxWidth || b.Dy() > n.opts.MaxHeight {
		return nil, &ErrUnsupported{
			Source: "image",
			Reason: fmt.Sprintf("dimensions %dx%d exceed limit %dx%d", b.Dx(), b.Dy(), n.opts.MaxWidth, n.opts.MaxHeight),
		}
	}

	gray := Luma(img)
	if n.opts.Autocrop {
		crop := Autocrop(gray, n.opts.ContrastBarrier, n.opts.MaxCroppingRatio)
		if crop != gray.Bounds() {
			gray = Luma(gray.SubImage(crop))
		}
	}

	size := uint(n.opts.Size)
	var scaled image.Image = gray
	if gray.Bounds().Dx() != n.opts.Size || gray.Bounds().Dy() != n.opts.Size {
		scaled = resize.Resize(size, size, gray, resize.Bicubic)
	}

	sg, ok := scaled.(*image.Gray)
	if !ok {
		sg = Luma(scaled)
	}
	return FromGray(sg)
}
