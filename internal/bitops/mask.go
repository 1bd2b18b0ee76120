package bitops

import "math/bits"

// LimbBits is the size of one storage limb.
const LimbBits = 64

// Mask returns width low bits set. Width 64 and above yields all ones.
func Mask(width uint) uint64 {
	if width >= LimbBits {
		return ^uint64(0)
	}
	return 1<<width - 1
}

// CeilDiv divides rounding up.
func CeilDiv(n, d uint) uint {
	return (n + d - 1) / d
}

// LimbCount returns the number of 64-bit limbs needed for nbits.
func LimbCount(nbits uint) int {
	return int(CeilDiv(nbits, LimbBits))
}

// SafeAdd adds a and b, reporting false when the sum wraps.
func SafeAdd(a, b uint) (uint, bool) {
	s, carry := bits.Add(a, b, 0)
	return s, carry == 0
}

// SignExtend interprets the low width bits of x as two's complement.
func SignExtend(x uint64, width uint) int64 {
	if width == 0 {
		return 0
	}
	if width >= LimbBits {
		return int64(x)
	}
	shift := LimbBits - width
	return int64(x<<shift) >> shift
}

// SwapBytes reverses the width/8 low bytes of x. Width must be a multiple of 8.
func SwapBytes(x uint64, width uint) uint64 {
	if width <= 8 {
		return x
	}
	return bits.ReverseBytes64(x) >> (LimbBits - width)
}
