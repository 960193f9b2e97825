package grid

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidGrid is returned when grid dimensions and pixel data disagree.
var ErrInvalidGrid = errors.New("invalid grid")

// Grid is a square, row-major array of 8-bit luminance values.
// A Grid is immutable once constructed.
type Grid struct {
	size int
	pix  []uint8
}

// New creates a size×size grid from a copy of pix.
func New(size int, pix []uint8) (*Grid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidGrid, size)
	}
	if len(pix) != size*size {
		return nil, fmt.Errorf("%w: %d pixels for a %dx%d grid", ErrInvalidGrid, len(pix), size, size)
	}
	cp := make([]uint8, len(pix))
	copy(cp, pix)
	return &Grid{size: size, pix: cp}, nil
}

// FromGray copies a square gray image into a Grid.
func FromGray(img *image.Gray) (*Grid, error) {
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("%w: image is %dx%d, not square", ErrInvalidGrid, b.Dx(), b.Dy())
	}
	size := b.Dx()
	if size == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidGrid)
	}
	pix := make([]uint8, size*size)
	for y := 0; y < size; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*size:(y+1)*size], img.Pix[off:off+size])
	}
	return &Grid{size: size, pix: pix}, nil
}

// Size returns the side length of the grid.
func (g *Grid) Size() int { return g.size }

// At returns the luminance at column x, row y.
func (g *Grid) At(x, y int) uint8 { return g.pix[y*g.size+x] }

// Pix returns a copy of the underlying row-major pixel data.
func (g *Grid) Pix() []uint8 {
	cp := make([]uint8, len(g.pix))
	copy(cp, g.pix)
	return cp
}

// Consistent reports whether the grid's pixel buffer matches its size.
// A zero Grid is not consistent.
func (g *Grid) Consistent() bool {
	return g != nil && g.size > 0 && len(g.pix) == g.size*g.size
}

// BoxSum returns the luminance sum and pixel count of the half-open
// rectangle [x0, x1) × [y0, y1). Coordinates are clamped to the grid.
func (g *Grid) BoxSum(x0, y0, x1, y1 int) (sum, area int) {
	x0, x1 = clamp(x0, 0, g.size), clamp(x1, 0, g.size)
	y0, y1 = clamp(y0, 0, g.size), clamp(y1, 0, g.size)
	if x1 <= x0 || y1 <= y0 {
		return 0, 0
	}
	for y := y0; y < y1; y++ {
		row := g.pix[y*g.size : (y+1)*g.size]
		for x := x0; x < x1; x++ {
			sum += int(row[x])
		}
	}
	return sum, (x1 - x0) * (y1 - y0)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
