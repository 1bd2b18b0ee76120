package layout

import (
	"sort"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
	"github.com/wippyai/bitfield/wide"
)

// Range is a half-open range [Lo, Hi) of nominal bit addresses.
type Range struct {
	Lo, Hi uint
}

// Len returns Hi-Lo.
func (r Range) Len() uint { return r.Hi - r.Lo }

// Layout is an immutable, validated set of fields over a container of Width
// bits. It is safe for concurrent use.
type Layout struct {
	name     string
	width    uint
	fields   []Field
	byName   map[string]int
	policy   Policy
	order    ByteOrder
	bitOrder BitOrder
	defined  wide.Value
	ranges   []Range

	// zeros and ones are the owned storage bits Normalize forces; claimed,
	// forceZero and forceOne are the same sets by nominal bit.
	zeros     wide.Value
	ones      wide.Value
	claimed   wide.Value
	forceZero wide.Value
	forceOne  wide.Value
	forced    [2][]Range
}

// Name returns the layout name used in errors and rendering.
func (l *Layout) Name() string { return l.name }

// Width returns the container width in bits.
func (l *Layout) Width() uint { return l.width }

// SizeInBytes returns ceil(Width/8), the span a view needs.
func (l *Layout) SizeInBytes() uint { return bitops.CeilDiv(l.width, 8) }

// Policy returns the undefined-bit policy.
func (l *Layout) Policy() Policy { return l.policy }

// ByteOrder returns the declared default byte order, possibly Native.
func (l *Layout) ByteOrder() ByteOrder { return l.order }

// BitOrder returns the bit numbering convention.
func (l *Layout) BitOrder() BitOrder { return l.bitOrder }

// NumFields returns the number of declared fields.
func (l *Layout) NumFields() int { return len(l.fields) }

// FieldAt returns the i-th declared field.
func (l *Layout) FieldAt(i int) *Field { return &l.fields[i] }

// Fields returns the fields in declaration order.
func (l *Layout) Fields() []*Field {
	out := make([]*Field, len(l.fields))
	for i := range l.fields {
		out[i] = &l.fields[i]
	}
	return out
}

// Field looks a field up by name.
func (l *Layout) Field(name string) (*Field, error) {
	i, ok := l.byName[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseAccess, l.name, "field", name)
	}
	return &l.fields[i], nil
}

// MustField is Field that panics when the name is unknown.
func (l *Layout) MustField(name string) *Field {
	f, err := l.Field(name)
	if err != nil {
		panic(err)
	}
	return f
}

// DefinedMask returns the bits claimed by at least one field, in owned
// storage bit positions. Nested fields contribute only the inner layout's
// defined bits.
func (l *Layout) DefinedMask() wide.Value { return l.defined.Clone() }

// DefinedRanges returns the nominal bit ranges claimed by fields, sorted and
// merged.
func (l *Layout) DefinedRanges() []Range {
	out := make([]Range, len(l.ranges))
	copy(out, l.ranges)
	return out
}

// UndefinedRanges returns the nominal bit ranges no field claims.
func (l *Layout) UndefinedRanges() []Range {
	var out []Range
	var at uint
	for _, r := range l.ranges {
		if r.Lo > at {
			out = append(out, Range{Lo: at, Hi: r.Lo})
		}
		at = r.Hi
	}
	if at < l.width {
		out = append(out, Range{Lo: at, Hi: l.width})
	}
	return out
}

// IsDefined reports whether nominal bit p belongs to some field.
func (l *Layout) IsDefined(p uint) bool {
	i := sort.Search(len(l.ranges), func(i int) bool { return l.ranges[i].Hi > p })
	return i < len(l.ranges) && l.ranges[i].Lo <= p
}

// ForcedRanges returns the nominal ranges Normalize clears and sets. Holes
// inside a nested layout follow that layout's policy; bits outside every
// field follow this layout's.
func (l *Layout) ForcedRanges() (zeros, ones []Range) {
	return append([]Range(nil), l.forced[0]...), append([]Range(nil), l.forced[1]...)
}

// Normalize applies the undefined-bit policy to v, which must be Width bits.
// Nested layouts apply their own policy to their holes.
func (l *Layout) Normalize(v wide.Value) wide.Value {
	return v.AndNot(l.zeros).Or(l.ones)
}

func (l *Layout) String() string { return l.name }

func (l *Layout) finish() {
	l.byName = make(map[string]int, len(l.fields))
	footprint := wide.New(l.width)
	claimed := wide.New(l.width)
	zero := wide.New(l.width)
	one := wide.New(l.width)

	for i := range l.fields {
		f := &l.fields[i]
		f.index = i
		f.bitOrder = l.bitOrder
		if l.bitOrder == Bit0IsMsb {
			f.shift = l.width - f.End()
		} else {
			f.shift = f.Offset
		}
		f.order = l.order.Resolve()
		if f.Type.HasOrder {
			f.order = f.Type.Order.Resolve()
		}
		f.swap = f.order != l.order.Resolve() &&
			f.Width%8 == 0 && f.Width > 8 && f.Width <= bitops.LimbBits
		l.byName[f.Name] = i

		if f.Nested == nil {
			footprint.SetFieldValue(f.Offset, f.Width, wide.Ones(f.Width))
			claimed.SetFieldValue(f.Offset, f.Width, wide.Ones(f.Width))
			continue
		}

		in := f.Nested
		f.outer = l.width
		f.mirror = in.bitOrder != l.bitOrder
		f.span = min(in.width, f.Width)
		f.atOuter, f.atInner = f.Offset, 0
		if l.bitOrder == Bit0IsMsb {
			f.atOuter = l.width - f.Offset - f.span
			f.atInner = in.width - f.span
		}
		for q := range f.span {
			p := f.place(q)
			footprint.SetBit(p, 1)
			if in.claimed.Bit(q) == 1 {
				claimed.SetBit(p, 1)
			}
			if in.forceZero.Bit(q) == 1 {
				zero.SetBit(p, 1)
			}
			if in.forceOne.Bit(q) == 1 {
				one.SetBit(p, 1)
			}
		}
	}

	switch free := footprint.Not(); l.policy {
	case ForceZero:
		zero = zero.Or(free)
	case ForceOne:
		one = one.Or(free)
	}
	l.claimed = claimed
	l.forceZero = zero.AndNot(claimed)
	l.forceOne = one.AndNot(claimed)

	l.defined = l.physical(l.claimed)
	l.zeros = l.physical(l.forceZero)
	l.ones = l.physical(l.forceOne)
	l.ranges = rangesOf(l.claimed)
	l.forced = [2][]Range{rangesOf(l.forceZero), rangesOf(l.forceOne)}
}

// phys maps nominal bit p to its owned storage position.
func (l *Layout) phys(p uint) uint { return physAt(l.bitOrder, l.width, p) }

// physical converts a mask indexed by nominal bit into owned storage order.
func (l *Layout) physical(nominal wide.Value) wide.Value {
	if l.bitOrder != Bit0IsMsb {
		return nominal.Clone()
	}
	out := wide.New(l.width)
	for p := range l.width {
		if nominal.Bit(p) == 1 {
			out.SetBit(l.phys(p), 1)
		}
	}
	return out
}

func rangesOf(m wide.Value) []Range {
	var out []Range
	for p := uint(0); p < m.Bits(); p++ {
		if m.Bit(p) == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Hi == p {
			out[n-1].Hi++
			continue
		}
		out = append(out, Range{Lo: p, Hi: p + 1})
	}
	return out
}
