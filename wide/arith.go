package wide

import (
	"math/big"
	"math/bits"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
)

// Add returns v+o modulo 2^width. The carry ripples from the lowest limb up and
// any carry out of the top limb is discarded.
func (v Value) Add(o Value) Value {
	v.mustMatch(o)
	out := v.result()
	var carry uint64
	for i := range v.limbs {
		out.limbs[i], carry = bits.Add64(v.limbs[i], o.limbs[i], carry)
	}
	out.normalize()
	return out
}

// Sub returns v-o modulo 2^width with borrow propagation.
func (v Value) Sub(o Value) Value {
	v.mustMatch(o)
	out := v.result()
	var borrow uint64
	for i := range v.limbs {
		out.limbs[i], borrow = bits.Sub64(v.limbs[i], o.limbs[i], borrow)
	}
	out.normalize()
	return out
}

// Mul returns v*o truncated to the width using schoolbook multiply-accumulate.
func (v Value) Mul(o Value) Value {
	v.mustMatch(o)
	out := v.result()
	n := len(v.limbs)
	for i := 0; i < n; i++ {
		if v.limbs[i] == 0 {
			continue
		}
		var carry uint64
		for j := 0; i+j < n; j++ {
			hi, lo := bits.Mul64(v.limbs[i], o.limbs[j])
			var c uint64
			lo, c = bits.Add64(lo, out.limbs[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			out.limbs[i+j] = lo
			carry = hi
		}
	}
	out.normalize()
	return out
}

// Neg returns the two's complement negation.
func (v Value) Neg() Value {
	return v.result().Sub(v)
}

// AddUint64 adds a native unsigned scalar, zero-extended to the width.
func (v Value) AddUint64(x uint64) Value {
	return v.Add(v.scalar(x))
}

// AddInt64 adds a native signed scalar, sign-extended to the width.
func (v Value) AddInt64(x int64) Value {
	s := FromInt64(v.bits, x)
	s.signed = v.signed
	return v.Add(s)
}

// SubUint64 subtracts a native unsigned scalar.
func (v Value) SubUint64(x uint64) Value {
	return v.Sub(v.scalar(x))
}

// MulUint64 multiplies by a native unsigned scalar.
func (v Value) MulUint64(x uint64) Value {
	return v.Mul(v.scalar(x))
}

func (v Value) scalar(x uint64) Value {
	s := FromUint64(v.bits, x)
	s.signed = v.signed
	return s
}

// Quo returns the quotient v/o. Signed values truncate toward zero.
func (v Value) Quo(o Value) (Value, error) {
	q, _, err := v.QuoRem(o)
	return q, err
}

// Rem returns the remainder of v/o with the sign of v for signed values.
func (v Value) Rem(o Value) (Value, error) {
	_, r, err := v.QuoRem(o)
	return r, err
}

// QuoRem returns quotient and remainder. A zero divisor fails with
// errors.ErrDivideByZero for every width.
func (v Value) QuoRem(o Value) (Value, Value, error) {
	v.mustMatch(o)
	if o.IsZero() {
		return Value{}, Value{}, errors.DivideByZero(v.bits)
	}

	if len(v.limbs) == 1 {
		if v.signed {
			a, b := v.Int64(), o.Int64()
			return FromInt64(v.bits, a/b), FromInt64(v.bits, a%b), nil
		}
		a, b := v.limbs[0], o.limbs[0]
		return FromUint64(v.bits, a/b), FromUint64(v.bits, a%b), nil
	}

	q, r := new(big.Int).QuoRem(v.BigInt(), o.BigInt(), new(big.Int))
	qv, rv := FromBig(v.bits, q), FromBig(v.bits, r)
	qv.signed, rv.signed = v.signed, v.signed
	return qv, rv, nil
}

// And returns the bitwise AND.
func (v Value) And(o Value) Value {
	v.mustMatch(o)
	out := v.result()
	for i := range v.limbs {
		out.limbs[i] = v.limbs[i] & o.limbs[i]
	}
	return out
}

// Or returns the bitwise OR.
func (v Value) Or(o Value) Value {
	v.mustMatch(o)
	out := v.result()
	for i := range v.limbs {
		out.limbs[i] = v.limbs[i] | o.limbs[i]
	}
	return out
}

// Xor returns the bitwise XOR.
func (v Value) Xor(o Value) Value {
	v.mustMatch(o)
	out := v.result()
	for i := range v.limbs {
		out.limbs[i] = v.limbs[i] ^ o.limbs[i]
	}
	return out
}

// AndNot returns v &^ o.
func (v Value) AndNot(o Value) Value {
	v.mustMatch(o)
	out := v.result()
	for i := range v.limbs {
		out.limbs[i] = v.limbs[i] &^ o.limbs[i]
	}
	return out
}

// Not returns the bitwise complement within the width.
func (v Value) Not() Value {
	out := v.result()
	for i := range v.limbs {
		out.limbs[i] = ^v.limbs[i]
	}
	out.normalize()
	return out
}

// Cmp compares v and o and returns -1, 0 or +1. Unsigned values compare limb by
// limb from the top; signed values look at the sign bits first.
func (v Value) Cmp(o Value) int {
	v.mustMatch(o)
	if v.signed {
		vn, on := v.Bit(v.bits-1) == 1, o.Bit(o.bits-1) == 1
		switch {
		case vn && !on:
			return -1
		case !vn && on:
			return 1
		}
	}
	for i := len(v.limbs) - 1; i >= 0; i-- {
		switch {
		case v.limbs[i] < o.limbs[i]:
			return -1
		case v.limbs[i] > o.limbs[i]:
			return 1
		}
	}
	return 0
}

// Less reports v < o.
func (v Value) Less(o Value) bool { return v.Cmp(o) < 0 }

// Lsh returns v << k. Whole limbs move by k/64, then the remaining k%64 bits
// ripple across neighbouring limbs. Shifting by the width or more yields zero.
func (v Value) Lsh(k uint) Value {
	out := v.result()
	if k >= v.bits {
		return out
	}
	limbShift, bitShift := int(k/bitops.LimbBits), k%bitops.LimbBits
	for i := len(v.limbs) - 1; i >= limbShift; i-- {
		src := i - limbShift
		w := v.limbs[src] << bitShift
		if bitShift > 0 && src > 0 {
			w |= v.limbs[src-1] >> (bitops.LimbBits - bitShift)
		}
		out.limbs[i] = w
	}
	out.normalize()
	return out
}

// Rsh returns v >> k. Unsigned values shift in zeros; signed values shift in
// copies of the sign bit.
func (v Value) Rsh(k uint) Value {
	neg := v.Negative()
	out := v.result()
	if k >= v.bits {
		if neg {
			return Ones(v.bits).withSign(v.signed)
		}
		return out
	}
	n := len(v.limbs)
	limbShift, bitShift := int(k/bitops.LimbBits), k%bitops.LimbBits
	for i := 0; i+limbShift < n; i++ {
		src := i + limbShift
		w := v.limbs[src] >> bitShift
		if bitShift > 0 && src+1 < n {
			w |= v.limbs[src+1] << (bitops.LimbBits - bitShift)
		}
		out.limbs[i] = w
	}
	if neg && k > 0 {
		for i := v.bits - k; i < v.bits; i++ {
			out.SetBit(i, 1)
		}
	}
	out.normalize()
	return out
}

func (v Value) withSign(signed bool) Value {
	v.signed = signed
	return v
}
