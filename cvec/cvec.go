package cvec

import (
	"fmt"
	"slices"
	"strings"
)

// Symbol is a quantized comparison between a region and one neighbour.
type Symbol uint8

const (
	MuchDarker Symbol = iota
	Darker
	Same
	Lighter
	MuchLighter
)

// AlphabetSize is the number of distinct symbols.
const AlphabetSize = 5

// MaxSymbol is the largest valid symbol value.
const MaxSymbol = MuchLighter

// Valid reports whether s is inside the alphabet.
func (s Symbol) Valid() bool { return s <= MaxSymbol }

// Centered returns the symbol shifted to the signed range [-2, 2],
// with Same mapped to 0.
func (s Symbol) Centered() int { return int(s) - int(Same) }

func (s Symbol) String() string {
	switch s {
	case MuchDarker:
		return "MuchDarker"
	case Darker:
		return "Darker"
	case Same:
		return "Same"
	case Lighter:
		return "Lighter"
	case MuchLighter:
		return "MuchLighter"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// Signature is the fingerprint of an image.
//
// Signatures are treated as immutable once produced and may be shared
// read-only between goroutines.
type Signature []Symbol

// Len returns the number of symbols.
func (s Signature) Len() int { return len(s) }

// Equal reports whether both signatures hold the same symbols in the same order.
func (s Signature) Equal(other Signature) bool { return slices.Equal(s, other) }

// Clone returns an independent copy of s.
func (s Signature) Clone() Signature { return slices.Clone(s) }

// Validate returns an error describing the first symbol outside the alphabet.
func (s Signature) Validate() error {
	for i, sym := range s {
		if !sym.Valid() {
			return fmt.Errorf("symbol %d at position %d outside alphabet [0, %d]", sym, i, MaxSymbol)
		}
	}
	return nil
}

// String renders the signature as its digit sequence, e.g. "2201342".
func (s Signature) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, sym := range s {
		if sym.Valid() {
			b.WriteByte('0' + byte(sym))
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

// Parse is the inverse of Signature.String.
func Parse(text string) (Signature, error) {
	sig := make(Signature, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '0'+byte(MaxSymbol) {
			return nil, fmt.Errorf("invalid symbol %q at position %d", c, i)
		}
		sig[i] = Symbol(c - '0')
	}
	return sig, nil
}
