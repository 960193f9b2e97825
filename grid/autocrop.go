package grid

import (
	"image"
	"math"
)

// minSizeForCropping is the smallest axis length that is considered for
// border trimming.
const minSizeForCropping = 100

// Autocrop returns the sub-rectangle of img that remains after trimming
// low-contrast borders.
//
// For each axis the contrast of a line is the sum of absolute differences
// between consecutive pixels along it. Lines are trimmed from either edge
// while the accumulated contrast stays below barrier/1000 of the axis total.
// At most maxRatio of the lines are trimmed from each edge. Axes shorter than
// 100 pixels are left untouched.
func Autocrop(img *image.Gray, barrier, maxRatio float64) image.Rectangle {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	colAt := func(line, i int) uint8 { return img.GrayAt(b.Min.X+line, b.Min.Y+i).Y }
	rowAt := func(line, i int) uint8 { return img.GrayAt(b.Min.X+i, b.Min.Y+line).Y }

	x0, x1 := cropAxis(w, h, colAt, barrier, maxRatio)
	y0, y1 := cropAxis(h, w, rowAt, barrier, maxRatio)

	return image.Rect(b.Min.X+x0, b.Min.Y+y0, b.Min.X+x1+1, b.Min.Y+y1+1)
}

// cropAxis returns the first and last line (inclusive) to keep out of lines
// lines of length lineLen.
func cropAxis(lines, lineLen int, at func(line, i int) uint8, barrier, maxRatio float64) (int, int) {
	last := lines - 1
	if lines < minSizeForCropping || lineLen < minSizeForCropping {
		return 0, last
	}

	contrasts := make([]float64, lines)
	var total float64
	for line := 0; line < lines; line++ {
		var c float64
		prev := at(line, 0)
		for i := 1; i < lineLen; i++ {
			cur := at(line, i)
			c += math.Abs(float64(cur) - float64(prev))
			prev = cur
		}
		contrasts[line] = c
		total += c
	}

	threshold := total * barrier / 1000

	lo := 0
	for acc := 0.0; lo < last; lo++ {
		acc += contrasts[lo]
		if acc >= threshold {
			break
		}
	}

	hi := last
	for acc := 0.0; hi > 0; hi-- {
		acc += contrasts[hi]
		if acc >= threshold {
			break
		}
	}

	maxCrop := int(math.Round(float64(last) * maxRatio))
	if lo > maxCrop {
		lo = maxCrop
	}
	if hi < last-maxCrop {
		hi = last - maxCrop
	}
	if lo > hi {
		return 0, last
	}
	return lo, hi
}
