package endian

import (
	stderrors "errors"
	"strconv"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/numtext"
)

// parse reads s as a T. Hex and binary text without a sign is a raw bit
// pattern, so 0xffff is -1 for a 16-bit signed type.
func parse[T Integer](s string) (T, error) {
	lit, err := numtext.Normalize(s)
	if err != nil {
		return 0, err
	}
	bits := size[T]() * 8
	target := typeName[T]()

	if !signed[T]() || (lit.Base != 10 && !lit.Negative) {
		if lit.Negative {
			if isZero(lit.Digits) {
				return 0, nil
			}
			return 0, errors.Overflow(errors.PhaseParse, s, target)
		}
		u, err := strconv.ParseUint(lit.Digits, lit.Base, bits)
		if err != nil {
			return 0, convErr(s, target, err)
		}
		return T(u), nil
	}

	digits := lit.Digits
	if lit.Negative {
		digits = "-" + digits
	}
	i, err := strconv.ParseInt(digits, lit.Base, bits)
	if err != nil {
		return 0, convErr(s, target, err)
	}
	return T(i), nil
}

func convErr(s, target string, err error) error {
	if stderrors.Is(err, strconv.ErrRange) {
		return errors.Overflow(errors.PhaseParse, s, target)
	}
	return errors.InvalidFormat(errors.PhaseParse, s, err.Error())
}

func isZero(digits string) bool {
	for i := 0; i < len(digits); i++ {
		if digits[i] != '0' {
			return false
		}
	}
	return true
}

func typeName[T Integer]() string {
	prefix := "u"
	if signed[T]() {
		prefix = "i"
	}
	return prefix + strconv.Itoa(size[T]()*8)
}

// ParseBE parses text into a big-endian integer. Malformed text fails with
// errors.ErrInvalidFormat, out-of-range values with errors.ErrOverflow.
func ParseBE[T Integer](s string) (BE[T], error) {
	v, err := parse[T](s)
	return BE[T]{v: v}, err
}

// ParseLE parses text into a little-endian integer.
func ParseLE[T Integer](s string) (LE[T], error) {
	v, err := parse[T](s)
	return LE[T]{v: v}, err
}

// MustParseBE is ParseBE that panics on error.
func MustParseBE[T Integer](s string) BE[T] {
	v, err := ParseBE[T](s)
	if err != nil {
		panic(err)
	}
	return v
}

// MustParseLE is ParseLE that panics on error.
func MustParseLE[T Integer](s string) LE[T] {
	v, err := ParseLE[T](s)
	if err != nil {
		panic(err)
	}
	return v
}
