package layout

import (
	"fmt"

	"github.com/wippyai/bitfield/internal/bitops"
)

// Field is a named bit range inside a Layout. Fields are created by Builder
// or Compile and must not be modified.
type Field struct {
	Name        string
	Offset      uint
	Width       uint
	Type        Type
	Nested      *Layout
	Description string

	index    int
	shift    uint
	order    ByteOrder
	bitOrder BitOrder
	swap     bool

	// nested placement, see place
	outer   uint
	mirror  bool
	span    uint
	atOuter uint
	atInner uint
}

// End returns the first nominal bit past the field.
func (f *Field) End() uint { return f.Offset + f.Width }

// Index returns the field's declaration position.
func (f *Field) Index() int { return f.index }

// Shift returns the field's least significant bit position in owned storage.
// With Bit0IsMsb numbering this is width-offset-fieldWidth.
func (f *Field) Shift() uint { return f.shift }

// ByteOrder returns the effective byte order: the type's own order when set,
// else the container default, with Native resolved to the host order.
func (f *Field) ByteOrder() ByteOrder { return f.order }

// BitOrder returns the container's bit numbering.
func (f *Field) BitOrder() BitOrder { return f.bitOrder }

// Swapped reports whether owned storage keeps this field byte-swapped because
// its type order differs from the container order.
func (f *Field) Swapped() bool { return f.swap }

// IsNested reports whether the field holds another layout.
func (f *Field) IsNested() bool { return f.Nested != nil }

// Signed reports whether the declared type is two's complement.
func (f *Field) Signed() bool { return f.Type.Kind == KindInt }

// SignExtends reports whether reads sign-extend. Only a field exactly as wide
// as its signed type does; a narrower field reads as its raw bit pattern.
func (f *Field) SignExtends() bool {
	return f.Type.Kind == KindInt && f.Width == f.Type.Bits && f.Width <= bitops.LimbBits
}

// Mask returns the all-ones pattern of the field's width, up to 64 bits.
func (f *Field) Mask() uint64 { return bitops.Mask(f.Width) }

// Get extracts the field from a container held in a single 64-bit word.
// Only valid for layouts no wider than 64 bits.
func (f *Field) Get(word uint64) uint64 {
	x := (word >> f.shift) & bitops.Mask(f.Width)
	if f.swap {
		x = bitops.SwapBytes(x, f.Width)
	}
	return x
}

// Set returns word with the field replaced by the low bits of x.
// Only valid for layouts no wider than 64 bits.
func (f *Field) Set(word, x uint64) uint64 {
	m := bitops.Mask(f.Width)
	x &= m
	if f.swap {
		x = bitops.SwapBytes(x, f.Width)
	}
	return word&^(m<<f.shift) | x<<f.shift
}

func (f *Field) String() string {
	t := f.Type.String()
	if f.Nested != nil {
		t = f.Nested.Name()
	}
	return fmt.Sprintf("%s[%d:%d] %s", f.Name, f.Offset, f.End()-1, t)
}
