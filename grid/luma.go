package grid

import (
	"image"
	"image/color"
)

// Luma converts img to 8-bit luminance using integer weights
// (77R + 151G + 28B + 128) / 256 on 8-bit channels.
// The result always starts at the origin.
func Luma(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], src.Pix[so:so+b.Dx()])
		}
	case *image.RGBA:
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
			for x := range row {
				p := src.Pix[so+4*x : so+4*x+3]
				row[x] = luma8(p[0], p[1], p[2])
			}
		}
	case *image.YCbCr:
		// The Y plane already is BT.601 luma.
		for y := 0; y < b.Dy(); y++ {
			row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
			for x := range row {
				row[x] = src.Y[src.YOffset(b.Min.X+x, b.Min.Y+y)]
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
			for x := range row {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				row[x] = luma8(c.R, c.G, c.B)
			}
		}
	}
	return out
}

func luma8(r, g, b uint8) uint8 {
	return uint8((77*uint32(r) + 151*uint32(g) + 28*uint32(b) + 128) >> 8)
}
