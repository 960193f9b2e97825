// Package quantization maps signed brightness differences to signature
// symbols.
//
// Two quantizers are provided:
//
//   - Ordinal: adaptive thresholds taken from the differences of the image
//     being fingerprinted (the default).
//   - Fixed: constant thresholds, independent of the image.
//
// # Ordinal
//
// Differences whose magnitude does not exceed the noise cutoff become Same.
// The remaining lighter differences are split at their median into Lighter
// and MuchLighter, and the darker ones into Darker and MuchDarker:
//
//	q := quantization.Ordinal{NoiseCutoff: 2}
//	sig := q.Quantize(diffs)
//
// Because the thresholds follow the image's own contrast distribution, a
// global brightness or contrast change moves thresholds and differences
// together and most symbols survive it.
package quantization
