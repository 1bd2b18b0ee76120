package bitops

// Extract reads width bits (1..64) starting at bit shift of a little-endian limb
// sequence. A field crossing a limb boundary is read as a low part from the first
// limb and a high part from the next one.
func Extract(limbs []uint64, shift, width uint) uint64 {
	idx := shift / LimbBits
	off := shift % LimbBits
	v := limbs[idx] >> off
	if off+width > LimbBits {
		v |= limbs[idx+1] << (LimbBits - off)
	}
	return v & Mask(width)
}

// Insert writes the low width bits of x at bit shift, leaving all other bits
// untouched. Bits of x above width are dropped.
func Insert(limbs []uint64, shift, width uint, x uint64) {
	idx := shift / LimbBits
	off := shift % LimbBits
	m := Mask(width)
	x &= m
	limbs[idx] = limbs[idx]&^(m<<off) | x<<off
	if off+width > LimbBits {
		n := LimbBits - off
		limbs[idx+1] = limbs[idx+1]&^(m>>n) | x>>n
	}
}

// TopMask returns the mask of valid bits in the most significant limb of an
// nbits-wide value.
func TopMask(nbits uint) uint64 {
	if r := nbits % LimbBits; r != 0 {
		return Mask(r)
	}
	return ^uint64(0)
}
