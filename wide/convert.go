package wide

import (
	"fmt"
	"math/big"

	"github.com/wippyai/bitfield/internal/bitops"
)

// BigInt returns the exact integer value. Unsigned values with the top bit set
// stay positive; signed negative values come back negative.
func (v Value) BigInt() *big.Int {
	x := new(big.Int).SetBytes(v.BigEndianBytes())
	if v.Negative() {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), v.bits))
	}
	return x
}

// FromBig returns x modulo 2^nbits as an unsigned value. Negative inputs come
// out in two's complement.
func FromBig(nbits uint, x *big.Int) Value {
	m := new(big.Int).Lsh(big.NewInt(1), nbits)
	r := new(big.Int).Mod(x, m)
	buf := make([]byte, bitops.CeilDiv(nbits, 8))
	r.FillBytes(buf)
	return FromBigEndianBytes(nbits, buf)
}

// FromBigSigned is FromBig returning a signed value.
func FromBigSigned(nbits uint, x *big.Int) Value {
	v := FromBig(nbits, x)
	v.signed = true
	return v
}

// ByteLen returns the number of bytes needed to serialize the value.
func (v Value) ByteLen() int {
	return int(bitops.CeilDiv(v.bits, 8))
}

func (v Value) byteAt(j int) byte {
	return byte(v.limbs[j/8] >> (8 * uint(j%8)))
}

// BigEndianBytes serializes the value most significant byte first.
func (v Value) BigEndianBytes() []byte {
	n := v.ByteLen()
	out := make([]byte, n)
	for j := 0; j < n; j++ {
		out[n-1-j] = v.byteAt(j)
	}
	return out
}

// LittleEndianBytes serializes the value least significant byte first.
func (v Value) LittleEndianBytes() []byte {
	n := v.ByteLen()
	out := make([]byte, n)
	for j := 0; j < n; j++ {
		out[j] = v.byteAt(j)
	}
	return out
}

// FromBigEndianBytes reads b as a big-endian integer truncated to nbits.
func FromBigEndianBytes(nbits uint, b []byte) Value {
	v := New(nbits)
	for j := 0; j < len(b) && j < len(v.limbs)*8; j++ {
		v.limbs[j/8] |= uint64(b[len(b)-1-j]) << (8 * uint(j%8))
	}
	v.normalize()
	return v
}

// FromLittleEndianBytes reads b as a little-endian integer truncated to nbits.
func FromLittleEndianBytes(nbits uint, b []byte) Value {
	v := New(nbits)
	for j := 0; j < len(b) && j < len(v.limbs)*8; j++ {
		v.limbs[j/8] |= uint64(b[j]) << (8 * uint(j%8))
	}
	v.normalize()
	return v
}

// String returns the decimal representation.
func (v Value) String() string {
	if len(v.limbs) == 0 {
		return "0"
	}
	return v.BigInt().String()
}

// Text returns the representation in the given base (2..62).
func (v Value) Text(base int) string {
	return v.BigInt().Text(base)
}

// Format implements fmt.Formatter with the verbs math/big supports.
func (v Value) Format(s fmt.State, ch rune) {
	v.BigInt().Format(s, ch)
}
