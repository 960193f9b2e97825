package testutil

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/puzzle/cvec"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Signature returns a random signature of length n with symbols drawn
// uniformly from the alphabet.
func (r *RNG) Signature(n int) cvec.Signature {
	r.mu.Lock()
	defer r.mu.Unlock()
	sig := make(cvec.Signature, n)
	for i := range sig {
		sig[i] = cvec.Symbol(r.rand.Intn(cvec.AlphabetSize))
	}
	return sig
}

// Perturb returns a copy of sig where roughly rate of the positions moved
// one bucket up or down.
func (r *RNG) Perturb(sig cvec.Signature, rate float64) cvec.Signature {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := sig.Clone()
	for i, s := range out {
		if r.rand.Float64() >= rate {
			continue
		}
		switch {
		case s == cvec.MuchDarker:
			out[i] = s + 1
		case s == cvec.MaxSymbol:
			out[i] = s - 1
		case r.rand.Intn(2) == 0:
			out[i] = s + 1
		default:
			out[i] = s - 1
		}
	}
	return out
}

type blob struct {
	cx, cy, sigma, amp float64
}

// Scene renders a smooth grayscale test picture: a diagonal gradient with a
// number of soft light and dark blobs. Values stay inside [40, 200] so that
// brightness shifts up to ±40 do not clip.
func (r *RNG) Scene(w, h, blobs int) *image.Gray {
	r.mu.Lock()
	bs := make([]blob, blobs)
	for i := range bs {
		bs[i] = blob{
			cx:    r.rand.Float64() * float64(w),
			cy:    r.rand.Float64() * float64(h),
			sigma: (0.06 + 0.12*r.rand.Float64()) * float64(min(w, h)),
			amp:   (r.rand.Float64()*2 - 1) * 70,
		}
	}
	tilt := r.rand.Float64()*2 - 1
	r.mu.Unlock()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 120 + 30*tilt*(float64(x)/float64(w)-float64(y)/float64(h))
			for _, b := range bs {
				dx, dy := float64(x)-b.cx, float64(y)-b.cy
				v += b.amp * math.Exp(-(dx*dx+dy*dy)/(2*b.sigma*b.sigma))
			}
			img.Pix[y*img.Stride+x] = uint8(math.Round(clampf(v, 40, 200)))
		}
	}
	return img
}

// Noise returns an image of uniformly random pixels.
func (r *RNG) Noise(w, h int) *image.Gray {
	r.mu.Lock()
	defer r.mu.Unlock()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(r.rand.Intn(256))
	}
	return img
}

// Brighten returns a copy of img with delta added to every pixel, clamped
// to [0, 255].
func Brighten(img *image.Gray, delta int) *image.Gray {
	out := image.NewGray(img.Bounds())
	for i, p := range img.Pix {
		out.Pix[i] = uint8(clampf(float64(int(p)+delta), 0, 255))
	}
	return out
}

// Frame returns a copy of img surrounded by a flat border of the given
// width and luminance.
func Frame(img *image.Gray, border int, level uint8) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()+2*border, b.Dy()+2*border))
	for i := range out.Pix {
		out.Pix[i] = level
	}
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y) : img.PixOffset(b.Min.X, b.Min.Y+y)+b.Dx()]
		copy(out.Pix[out.PixOffset(border, border+y):], src)
	}
	return out
}

// EncodeJPEG encodes img as JPEG at the given quality.
func EncodeJPEG(img image.Image, quality int) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
