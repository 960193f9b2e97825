// Package cvec defines the compact image signature ("cvec") shared by the
// extractor, the distance functions and the codec.
//
// A Signature is an ordered, fixed-length sequence of Symbols. Each Symbol
// records how a sample region compares to one of its neighbours:
//
//	MuchDarker < Darker < Same < Lighter < MuchLighter
//
// Symbols are ordinal: adjacent values describe closer visual states than
// distant ones, which is what the distance metrics rely on.
package cvec
