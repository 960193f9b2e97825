// Package puzzle computes perceptual image signatures and compares them.
//
// A signature is a short fingerprint of an image's coarse brightness
// structure. Visually similar images (re-encoded, resized, slightly
// brightened or cropped copies) have signatures at a small distance from each
// other; unrelated images are far apart.
//
// # Quick Start
//
//	p, err := puzzle.New()
//	if err != nil { ... }
//
//	a, err := p.SignatureFromFile(ctx, "cat.jpg")
//	b, err := p.SignatureFromFile(ctx, "cat-small.png")
//	d, err := p.Compare(a, b)
//	if p.Similar(d) { ... }
//
// # Pipeline
//
// Extraction runs in three steps:
//
//  1. The image is decoded, converted to luminance, trimmed of flat borders
//     and resampled to a D×D grid (package grid).
//  2. A lattice of regions is sampled over the grid and each region is
//     compared with its eight neighbours (package signature).
//  3. Each difference is quantized to one of five symbols (package quantization).
//
// # Storage
//
// Signatures pack to a fixed-length byte string, 3 bits per symbol:
//
//	b, _ := p.Pack(sig)     // 243 bytes with default settings
//	sig, _ = p.Unpack(b)
//
// The packed form has no header: callers that need to evolve the format must
// version it themselves.
//
// # Errors
//
// Failures are typed so that callers can branch on them with errors.As:
// *ErrUnreadableSource, *ErrUnsupportedFormat, *ErrInvalidInput,
// *ErrDimensionMismatch and *ErrCorruptData.
package puzzle
