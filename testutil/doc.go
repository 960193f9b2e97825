// Package testutil provides testing utilities for puzzle.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG, random signatures, synthetic test images and
// helpers to re-encode and store them.
//
// # Synthetic Images
//
//	rng := testutil.NewRNG(seed)
//	img := rng.Scene(320, 240, 6)          // smooth gradient with blobs
//	jpg := testutil.EncodeJPEG(img, 85)     // near-duplicate bytes
//	lit := testutil.Brighten(img, 20)       // uniform brightness shift
//
// # Random Signatures
//
//	sig := rng.Signature(648)
package testutil
