// Package wide implements fixed-width multi-word integers.
//
// A Value is an ordered little-endian sequence of 64-bit limbs with a declared
// bit width. Widths that are not a multiple of 64 leave a partial top limb whose
// unused high bits are always zero, so a 72-bit value is one full limb plus one
// 8-bit limb. Single-word values are the one-limb case.
//
// # Arithmetic
//
// All operations are modular over 2^width, mirroring fixed-width integer
// wraparound:
//
//	a := wide.FromUint64(256, math.MaxUint64)
//	b := a.AddUint64(1)          // carry ripples into limb 1
//	c := b.Lsh(190).Rsh(3)       // whole-limb move plus bit ripple
//	q, err := c.Quo(a)           // errors.ErrDivideByZero on zero divisor
//
// Add, Sub and Mul work limb by limb with carry propagation. Division and
// remainder of multi-limb values go through math/big.
//
// # Signedness
//
// A Value is either unsigned or signed (two's complement). Signedness affects
// Cmp, Rsh (arithmetic shift), Quo/Rem (truncated division), Int64, BigInt and
// String. Binary operations take the receiver's signedness and require equal
// widths; mixing widths panics.
//
// # Mutation
//
// Arithmetic methods return new values. SetBit, SetField and SetFieldValue
// mutate the receiver in place; copies of a Value share limbs, so use Clone
// before mutating a value that is also held elsewhere.
package wide
