// Package witlayout derives bit-field layouts from WIT type declarations.
//
// The produced layouts follow the Component Model canonical ABI memory
// representation, so a view built over guest memory reads the same values
// the guest wrote:
//   - Flags: flag i is bit i of a little-endian integer (u8, u16, u32, u64,
//     or a run of u32 words past 64 flags)
//   - Records: fields placed at their aligned canonical offsets
//   - Integers: little-endian, sign as declared
//   - Bools: bit 0 of a byte, the other seven bits held at zero
//   - Enums: an unsigned discriminant of 1, 2 or 4 bytes
//
// Every layout uses little-endian byte order, least significant bit first,
// and ForceZero for padding.
//
// # Usage
//
//	l, err := witlayout.FromType("perms", typedef)
//	v, err := guestMem.View(l, ptr)
//
// Types with out-of-line or variable representations (strings, lists,
// variants, options, results, resources, floats) are rejected with
// errors.KindUnsupported.
package witlayout
