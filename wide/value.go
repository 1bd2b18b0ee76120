package wide

import (
	"fmt"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
)

// Value is a fixed-width integer stored in 64-bit limbs, least significant first.
type Value struct {
	limbs  []uint64
	bits   uint
	signed bool
}

// New returns an unsigned zero of nbits. nbits must be positive.
func New(nbits uint) Value {
	if nbits == 0 {
		panic(errors.New(errors.PhaseArith, errors.KindZeroWidth).
			Detail("value width must be at least 1 bit").
			Build())
	}
	return Value{limbs: make([]uint64, bitops.LimbCount(nbits)), bits: nbits}
}

// NewSigned returns a signed zero of nbits.
func NewSigned(nbits uint) Value {
	v := New(nbits)
	v.signed = true
	return v
}

// FromUint64 returns x truncated to nbits as an unsigned value.
func FromUint64(nbits uint, x uint64) Value {
	v := New(nbits)
	v.limbs[0] = x
	v.normalize()
	return v
}

// FromInt64 returns x as a signed value of nbits. Negative inputs extend with
// ones across every limb.
func FromInt64(nbits uint, x int64) Value {
	v := NewSigned(nbits)
	v.limbs[0] = uint64(x)
	if x < 0 {
		for i := 1; i < len(v.limbs); i++ {
			v.limbs[i] = ^uint64(0)
		}
	}
	v.normalize()
	return v
}

// FromLimbs copies limbs (least significant first) into an unsigned value of
// nbits, truncating or zero-extending as needed.
func FromLimbs(nbits uint, limbs []uint64) Value {
	v := New(nbits)
	copy(v.limbs, limbs)
	v.normalize()
	return v
}

// Ones returns an unsigned value of nbits with every bit set.
func Ones(nbits uint) Value {
	v := New(nbits)
	for i := range v.limbs {
		v.limbs[i] = ^uint64(0)
	}
	v.normalize()
	return v
}

func (v *Value) normalize() {
	if len(v.limbs) > 0 {
		v.limbs[len(v.limbs)-1] &= bitops.TopMask(v.bits)
	}
}

// Bits returns the declared width.
func (v Value) Bits() uint { return v.bits }

// Len returns the number of limbs.
func (v Value) Len() int { return len(v.limbs) }

// Signed reports whether the value is interpreted as two's complement.
func (v Value) Signed() bool { return v.signed }

// AsSigned reinterprets the same bits as a signed value.
func (v Value) AsSigned() Value {
	c := v.Clone()
	c.signed = true
	return c
}

// AsUnsigned reinterprets the same bits as an unsigned value.
func (v Value) AsUnsigned() Value {
	c := v.Clone()
	c.signed = false
	return c
}

// Limbs returns a copy of the limbs, least significant first.
func (v Value) Limbs() []uint64 {
	out := make([]uint64, len(v.limbs))
	copy(out, v.limbs)
	return out
}

// Limb returns limb i.
func (v Value) Limb(i int) uint64 { return v.limbs[i] }

// Clone returns a deep copy.
func (v Value) Clone() Value {
	c := v
	c.limbs = make([]uint64, len(v.limbs))
	copy(c.limbs, v.limbs)
	return c
}

// IsZero reports whether every bit is clear.
func (v Value) IsZero() bool {
	for _, l := range v.limbs {
		if l != 0 {
			return false
		}
	}
	return true
}

// Equal reports content equality: same width, signedness and bits.
func (v Value) Equal(o Value) bool {
	if v.bits != o.bits || v.signed != o.signed {
		return false
	}
	for i := range v.limbs {
		if v.limbs[i] != o.limbs[i] {
			return false
		}
	}
	return true
}

// Negative reports whether a signed value has its sign bit set.
func (v Value) Negative() bool {
	return v.signed && v.Bit(v.bits-1) == 1
}

// Bit returns bit i (0 = least significant).
func (v Value) Bit(i uint) uint {
	if i >= v.bits {
		return 0
	}
	return uint(v.limbs[i/bitops.LimbBits]>>(i%bitops.LimbBits)) & 1
}

// SetBit sets bit i to b&1 in place. Positions past the width are ignored.
func (v *Value) SetBit(i uint, b uint) {
	if i >= v.bits {
		return
	}
	idx, off := i/bitops.LimbBits, i%bitops.LimbBits
	v.limbs[idx] = v.limbs[idx]&^(1<<off) | uint64(b&1)<<off
}

// Field extracts width bits (1..64) starting at shift. Bits past the value's
// width read as zero.
func (v Value) Field(shift, width uint) uint64 {
	if width == 0 || shift >= v.bits {
		return 0
	}
	if shift+width > v.bits {
		width = v.bits - shift
	}
	if width > bitops.LimbBits {
		width = bitops.LimbBits
	}
	return bitops.Extract(v.limbs, shift, width)
}

// SetField stores the low width bits of x at shift in place. Values wider than
// the field are truncated; the part of the field past the value's width is dropped.
func (v *Value) SetField(shift, width uint, x uint64) {
	if width == 0 || shift >= v.bits {
		return
	}
	if shift+width > v.bits {
		width = v.bits - shift
	}
	if width > bitops.LimbBits {
		width = bitops.LimbBits
	}
	bitops.Insert(v.limbs, shift, width, x)
}

// FieldValue extracts an arbitrary-width field as an unsigned value of width bits.
func (v Value) FieldValue(shift, width uint) Value {
	out := New(width)
	for done := uint(0); done < width; done += bitops.LimbBits {
		n := width - done
		if n > bitops.LimbBits {
			n = bitops.LimbBits
		}
		out.limbs[done/bitops.LimbBits] = v.Field(shift+done, n)
	}
	return out
}

// SetFieldValue stores the low width bits of x at shift in place.
func (v *Value) SetFieldValue(shift, width uint, x Value) {
	for done := uint(0); done < width; done += bitops.LimbBits {
		n := width - done
		if n > bitops.LimbBits {
			n = bitops.LimbBits
		}
		var chunk uint64
		if i := int(done / bitops.LimbBits); i < len(x.limbs) {
			chunk = x.limbs[i]
		}
		v.SetField(shift+done, n, chunk)
	}
}

// Resize returns the value at a new width. Signed values sign-extend, unsigned
// values zero-extend; narrowing truncates.
func (v Value) Resize(nbits uint) Value {
	out := New(nbits)
	out.signed = v.signed
	copy(out.limbs, v.limbs)
	if v.Negative() && nbits > v.bits {
		top := v.bits
		for i := top; i < nbits && i%bitops.LimbBits != 0; i++ {
			out.SetBit(i, 1)
		}
		for i := bitops.LimbCount(top); i < len(out.limbs); i++ {
			out.limbs[i] = ^uint64(0)
		}
	}
	out.normalize()
	return out
}

// Uint64 returns the low 64 bits.
func (v Value) Uint64() uint64 {
	if len(v.limbs) == 0 {
		return 0
	}
	return v.limbs[0]
}

// Int64 returns the low 64 bits, sign-extended from the width for signed values
// narrower than 64 bits.
func (v Value) Int64() int64 {
	if len(v.limbs) == 0 {
		return 0
	}
	if v.signed && v.bits < bitops.LimbBits {
		return bitops.SignExtend(v.limbs[0], v.bits)
	}
	return int64(v.limbs[0])
}

func (v Value) typeName() string {
	if v.signed {
		return fmt.Sprintf("i%d", v.bits)
	}
	return fmt.Sprintf("u%d", v.bits)
}

func (v Value) mustMatch(o Value) {
	if v.bits != o.bits {
		panic(errors.WidthMismatch(errors.PhaseArith, v.bits, o.bits))
	}
}

func (v Value) result() Value {
	out := New(v.bits)
	out.signed = v.signed
	return out
}
