// Package numtext normalizes integer literals shared by the wide and endian parsers.
//
// Accepted grammar: an optional sign, an optional 0x/0X (hex) or 0b/0B (binary)
// prefix, then digits of that base (decimal without a prefix). Underscore digit
// separators are stripped anywhere before parsing; text made only of separators
// is invalid.
package numtext

import (
	"strings"

	"github.com/wippyai/bitfield/errors"
)

// Literal is a validated literal ready for strconv or math/big.
type Literal struct {
	Digits   string
	Base     int
	Negative bool
}

// Normalize validates s and splits it into sign, base and digits.
func Normalize(s string) (Literal, error) {
	if s == "" {
		return Literal{}, errors.InvalidFormat(errors.PhaseParse, s, "empty input")
	}
	t := strings.ReplaceAll(s, "_", "")
	if t == "" {
		return Literal{}, errors.InvalidFormat(errors.PhaseParse, s, "only digit separators")
	}

	var lit Literal
	switch t[0] {
	case '-':
		lit.Negative = true
		t = t[1:]
	case '+':
		t = t[1:]
	}

	lit.Base = 10
	if len(t) >= 2 && t[0] == '0' {
		switch t[1] {
		case 'x', 'X':
			lit.Base = 16
			t = t[2:]
		case 'b', 'B':
			lit.Base = 2
			t = t[2:]
		}
	}

	if t == "" {
		return Literal{}, errors.InvalidFormat(errors.PhaseParse, s, "no digits")
	}
	for i := 0; i < len(t); i++ {
		if digitValue(t[i]) >= lit.Base {
			return Literal{}, errors.InvalidFormat(errors.PhaseParse, s, "invalid digit "+string(t[i]))
		}
	}
	lit.Digits = t
	return lit, nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 99
	}
}
