package signature

import (
	"math"

	"github.com/hupe1980/puzzle/cvec"
	"github.com/hupe1980/puzzle/grid"
	"github.com/hupe1980/puzzle/quantization"
)

// neighbourOffsets lists (dy, dx) in emission order: NW, N, NE, W, E, SW, S, SE.
var neighbourOffsets = [Neighbours][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Extractor computes signatures for one configuration.
type Extractor struct {
	cfg       Config
	quantizer quantization.Quantizer
	points    []int
	side      int
}

// NewExtractor validates cfg and precomputes the lattice.
func NewExtractor(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	points := make([]int, cfg.Lambdas)
	spacing := float64(cfg.Size) / float64(cfg.Lambdas+1)
	for i := range points {
		points[i] = int(math.Round(float64(i+1) * spacing))
	}

	return &Extractor{
		cfg:       cfg,
		quantizer: cfg.quantizer(),
		points:    points,
		side:      cfg.RegionSide(),
	}, nil
}

// Config returns the extraction parameters.
func (e *Extractor) Config() Config { return e.cfg }

// Length returns the number of symbols per signature.
func (e *Extractor) Length() int { return e.cfg.Length() }

// Points returns the sample point coordinates along one axis.
func (e *Extractor) Points() []int {
	cp := make([]int, len(e.points))
	copy(cp, e.points)
	return cp
}

// Extract computes the signature of g.
func (e *Extractor) Extract(g *grid.Grid) (cvec.Signature, error) {
	diffs, err := e.Differences(g)
	if err != nil {
		return nil, err
	}
	return e.quantizer.Quantize(diffs), nil
}

// Differences returns the raw neighbour differences in signature order.
func (e *Extractor) Differences(g *grid.Grid) ([]float64, error) {
	if err := e.check(g); err != nil {
		return nil, err
	}

	regions := e.regions(g)
	n := e.cfg.Lambdas
	diffs := make([]float64, 0, e.Length())

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			own := regions[i*n+j]
			for _, off := range neighbourOffsets {
				ni, nj := i+off[0], j+off[1]
				if ni < 0 || ni >= n || nj < 0 || nj >= n {
					diffs = append(diffs, 0)
					continue
				}
				diffs = append(diffs, regions[ni*n+nj].minus(own))
			}
		}
	}
	return diffs, nil
}

func (e *Extractor) check(g *grid.Grid) error {
	if !g.Consistent() {
		return &ErrInvalidGrid{Expected: e.cfg.Size, Reason: "grid is empty or inconsistent"}
	}
	if g.Size() != e.cfg.Size {
		return &ErrInvalidGrid{Expected: e.cfg.Size, Actual: g.Size()}
	}
	return nil
}

// region is the luminance sum and pixel count of one sampled square.
type region struct {
	sum, area int
}

// minus returns the difference of the two region means. The numerator is
// formed in integers so that a uniform brightness offset cancels exactly.
func (r region) minus(o region) float64 {
	if r.area == 0 || o.area == 0 {
		return 0
	}
	return float64(r.sum*o.area-o.sum*r.area) / float64(r.area*o.area)
}

// regions returns the sampled region of every lattice point, row-major.
func (e *Extractor) regions(g *grid.Grid) []region {
	n := e.cfg.Lambdas
	half := e.side / 2
	regions := make([]region, n*n)
	for i, y := range e.points {
		for j, x := range e.points {
			x0, y0 := x-half, y-half
			sum, area := g.BoxSum(x0, y0, x0+e.side, y0+e.side)
			regions[i*n+j] = region{sum: sum, area: area}
		}
	}
	return regions
}

// Extract computes the signature of g using cfg.
func Extract(g *grid.Grid, cfg Config) (cvec.Signature, error) {
	e, err := NewExtractor(cfg)
	if err != nil {
		return nil, err
	}
	return e.Extract(g)
}
