package wide

import (
	"math/big"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/numtext"
)

// Parse reads an unsigned value of nbits. Malformed text fails with
// errors.ErrInvalidFormat, values outside [0, 2^nbits) with errors.ErrOverflow.
func Parse(s string, nbits uint) (Value, error) {
	lit, err := numtext.Normalize(s)
	if err != nil {
		return Value{}, err
	}
	x, _ := new(big.Int).SetString(lit.Digits, lit.Base)
	if lit.Negative {
		x.Neg(x)
	}
	if x.Sign() < 0 || uint(x.BitLen()) > nbits {
		return Value{}, errors.Overflow(errors.PhaseParse, s, New(nbits).typeName())
	}
	return FromBig(nbits, x), nil
}

// ParseSigned reads a signed value of nbits. Decimal text must lie in
// [-2^(nbits-1), 2^(nbits-1)). Hex and binary text without a sign is taken as a
// raw bit pattern of at most nbits bits.
func ParseSigned(s string, nbits uint) (Value, error) {
	lit, err := numtext.Normalize(s)
	if err != nil {
		return Value{}, err
	}
	x, _ := new(big.Int).SetString(lit.Digits, lit.Base)
	name := NewSigned(nbits).typeName()

	if lit.Base != 10 && !lit.Negative {
		if uint(x.BitLen()) > nbits {
			return Value{}, errors.Overflow(errors.PhaseParse, s, name)
		}
		return FromBigSigned(nbits, x), nil
	}

	if lit.Negative {
		x.Neg(x)
	}
	limit := new(big.Int).Lsh(big.NewInt(1), nbits-1)
	minVal := new(big.Int).Neg(limit)
	if x.Cmp(minVal) < 0 || x.Cmp(limit) >= 0 {
		return Value{}, errors.Overflow(errors.PhaseParse, s, name)
	}
	return FromBigSigned(nbits, x), nil
}

// MustParse is Parse that panics on error.
func MustParse(s string, nbits uint) Value {
	v, err := Parse(s, nbits)
	if err != nil {
		panic(err)
	}
	return v
}

// MustParseSigned is ParseSigned that panics on error.
func MustParseSigned(s string, nbits uint) Value {
	v, err := ParseSigned(s, nbits)
	if err != nil {
		panic(err)
	}
	return v
}
