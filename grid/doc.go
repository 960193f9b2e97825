// Package grid turns encoded images into the fixed-size luminance grids the
// signature extractor works on.
//
// A Normalizer is the boundary to the image decoding ecosystem. It decodes
// any format registered with the standard image package (JPEG, PNG and GIF
// from the standard library, BMP, TIFF and WebP from golang.org/x/image),
// converts the pixels to 8-bit luminance, optionally trims low-contrast
// borders and resamples the result to a Size×Size Grid.
//
// Decoding failures are reported as typed errors:
//
//   - [*ErrUnreadable]: the source could not be opened or read
//   - [*ErrUnsupported]: the bytes are not a decodable image, or the image
//     dimensions exceed the configured limits
package grid
