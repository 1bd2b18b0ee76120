package layout

import "github.com/wippyai/bitfield/wide"

// A nested field puts inner nominal bit q at the byte address of outer
// nominal bit Offset+q. When both layouts number bits the same way that is
// outer bit Offset+q; otherwise the bit sits at the mirrored position inside
// the same byte, which is why mixed numbering needs whole-byte fields.
func (f *Field) place(q uint) uint {
	if f.mirror {
		q = q&^7 | (7 - q&7)
	}
	return f.Offset + q
}

// Mirrored reports whether the nested layout numbers bits opposite to its
// parent.
func (f *Field) Mirrored() bool { return f.mirror }

// NestedBits returns the nested layout's container, in its owned storage
// order, taken from the parent container v. Inner bits past the field width
// read as zero.
func (f *Field) NestedBits(v wide.Value) wide.Value {
	in := f.Nested
	out := wide.New(in.width)
	if !f.mirror {
		out.SetFieldValue(f.atInner, f.span, v.FieldValue(f.atOuter, f.span))
		return out
	}
	for q := range f.span {
		out.SetBit(in.phys(q), v.Bit(physAt(f.bitOrder, f.outer, f.place(q))))
	}
	return out
}

// PlaceNested returns a parent-width container holding the nested layout's
// container x at the field, with every other bit zero.
func (f *Field) PlaceNested(x wide.Value) wide.Value {
	in := f.Nested
	out := wide.New(f.outer)
	if !f.mirror {
		out.SetFieldValue(f.atOuter, f.span, x.FieldValue(f.atInner, f.span))
		return out
	}
	for q := range f.span {
		out.SetBit(physAt(f.bitOrder, f.outer, f.place(q)), x.Bit(in.phys(q)))
	}
	return out
}

func physAt(o BitOrder, width, p uint) uint {
	if o == Bit0IsMsb {
		return width - 1 - p
	}
	return p
}
