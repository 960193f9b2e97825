// Package signature computes image signatures from normalized luminance grids.
//
// # Layout
//
// A lambdas×lambdas lattice of sample points is laid over the D×D grid.
// Each point owns a square region centred on it; the mean luminance of that
// region is the point's statistic. Every point is compared with its eight
// lattice neighbours in the fixed order NW, N, NE, W, E, SW, S, SE, and each
// signed difference is quantized to one symbol. Neighbours outside the
// lattice contribute a zero difference.
//
// Symbols are emitted in raster order of the points, and in neighbour order
// within a point, so a signature has lambdas²×8 symbols (648 by default).
//
// # Usage
//
//	ext, err := signature.NewExtractor(signature.DefaultConfig())
//	if err != nil { ... }
//	sig, err := ext.Extract(g)
//
// An Extractor is immutable and may be shared between goroutines.
package signature
