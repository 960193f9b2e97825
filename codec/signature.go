package codec

import (
	"fmt"

	"github.com/hupe1980/puzzle/cvec"
)

// BitsPerSymbol is the width of one packed symbol.
const BitsPerSymbol = 3

// ErrCorrupt is returned when packed bytes do not decode to a valid signature.
type ErrCorrupt struct {
	Length   int
	Expected int
	Reason   string
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("corrupt signature data (%d bytes, expected %d): %s", e.Length, e.Expected, e.Reason)
}

// ErrInvalidSymbol is returned when packing a symbol outside the alphabet.
type ErrInvalidSymbol struct {
	Position int
	Symbol   cvec.Symbol
}

func (e *ErrInvalidSymbol) Error() string {
	return fmt.Sprintf("symbol %d at position %d outside alphabet [0, %d]", uint8(e.Symbol), e.Position, cvec.MaxSymbol)
}

// ErrSignatureLength is returned when packing a signature of the wrong length.
type ErrSignatureLength struct {
	Expected int
	Actual   int
}

func (e *ErrSignatureLength) Error() string {
	return fmt.Sprintf("signature has %d symbols, codec expects %d", e.Actual, e.Expected)
}

// PackedSize returns the encoded size of a signature with length symbols.
func PackedSize(length int) int {
	return (length*BitsPerSymbol + 7) / 8
}

// SignatureCodec packs signatures of a fixed length, 3 bits per symbol,
// most significant bit first. Unused trailing bits are zero.
type SignatureCodec struct {
	Length int
}

// PackedSize returns the encoded size in bytes.
func (c SignatureCodec) PackedSize() int { return PackedSize(c.Length) }

// Pack encodes s.
func (c SignatureCodec) Pack(s cvec.Signature) ([]byte, error) {
	return c.AppendPack(make([]byte, 0, c.PackedSize()), s)
}

// AppendPack encodes s and appends it to dst.
func (c SignatureCodec) AppendPack(dst []byte, s cvec.Signature) ([]byte, error) {
	if len(s) != c.Length {
		return nil, &ErrSignatureLength{Expected: c.Length, Actual: len(s)}
	}

	var acc uint32
	n := 0
	for i, sym := range s {
		if !sym.Valid() {
			return nil, &ErrInvalidSymbol{Position: i, Symbol: sym}
		}
		acc = acc<<BitsPerSymbol | uint32(sym)
		n += BitsPerSymbol
		if n >= 8 {
			n -= 8
			dst = append(dst, byte(acc>>n))
			acc &= 1<<n - 1
		}
	}
	if n > 0 {
		dst = append(dst, byte(acc<<(8-n)))
	}
	return dst, nil
}

// Unpack decodes b. It fails if b has the wrong size, holds a value outside
// the alphabet, or has non-zero padding bits.
func (c SignatureCodec) Unpack(b []byte) (cvec.Signature, error) {
	expected := c.PackedSize()
	if len(b) != expected {
		return nil, &ErrCorrupt{Length: len(b), Expected: expected, Reason: "wrong length"}
	}

	sig := make(cvec.Signature, 0, c.Length)
	var acc uint32
	n := 0
	for _, v := range b {
		acc = acc<<8 | uint32(v)
		n += 8
		for n >= BitsPerSymbol && len(sig) < c.Length {
			n -= BitsPerSymbol
			sym := cvec.Symbol(acc >> n & (1<<BitsPerSymbol - 1))
			if !sym.Valid() {
				return nil, &ErrCorrupt{
					Length:   len(b),
					Expected: expected,
					Reason:   fmt.Sprintf("value %d at position %d outside alphabet", uint8(sym), len(sig)),
				}
			}
			sig = append(sig, sym)
		}
		acc &= 1<<n - 1
	}
	if acc != 0 {
		return nil, &ErrCorrupt{Length: len(b), Expected: expected, Reason: "non-zero padding"}
	}
	return sig, nil
}
