// Package layout describes bit-precise fields and the containers that hold them.
//
// A Layout is built once, either through Builder or by compiling a tagged Go
// struct, and is immutable afterwards. It carries:
//
//   - the container width in bits and its byte size
//   - the default byte order and bit numbering
//   - the undefined-bit policy and the precomputed mask of defined bits
//   - one Field per named bit range, optionally nesting another Layout
//
// All range and type validation happens at construction. Record and view
// accessors trust the Field values they are handed.
//
// # Bit numbering
//
// Field offsets are nominal bit addresses. With Bit0IsLsb, offset 0 is the
// least significant bit of the container (of byte 0 in a view). With
// Bit0IsMsb, offset 0 is the most significant bit (bit 7 of byte 0 in a view).
//
// # Struct tags
//
//	type Header struct {
//	    _       struct{} `bitfield:"width=32,order=big,bitorder=msb,policy=zero"`
//	    Version uint8    `bits:"0:3"`
//	    IHL     uint8    `bits:"4:7"`
//	    Length  uint16   `bits:"16:31" order:"big"`
//	}
//
//	l, err := layout.For[Header]()
//
// Compiled layouts are cached per Go type.
package layout
