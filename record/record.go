// Package record binds owned multi-word storage to a layout.
//
// A Record holds a wide.Value of exactly Layout.Width bits and re-applies the
// layout's undefined-bit policy after construction, every field write, and
// every arithmetic mutation. Bit positions follow the layout's bit numbering:
// with Bit0IsLsb a field's least significant bit sits at its offset, with
// Bit0IsMsb offset 0 is the container's most significant bit.
//
// Records are not safe for concurrent mutation.
package record

import (
	"fmt"
	"strings"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/wide"
)

// Record is a value laid out by a Layout.
type Record struct {
	layout *layout.Layout
	value  wide.Value
}

// New returns a zero record with the policy applied.
func New(l *layout.Layout) *Record {
	return FromValue(l, wide.New(l.Width()))
}

// FromValue adopts the bits of v, truncated or zero-extended to the layout
// width.
func FromValue(l *layout.Layout, v wide.Value) *Record {
	r := &Record{layout: l, value: v.AsUnsigned().Resize(l.Width())}
	r.normalize()
	return r
}

// FromUint64 builds a record from a native word.
func FromUint64(l *layout.Layout, x uint64) *Record {
	return FromValue(l, wide.FromUint64(l.Width(), x))
}

// FromInt64 builds a record from a native signed word. Negative values extend
// with ones across the whole container before the policy applies.
func FromInt64(l *layout.Layout, x int64) *Record {
	return FromValue(l, wide.FromInt64(l.Width(), x))
}

// FromBytes reads the first SizeInBytes bytes of b in the layout's byte
// order. It is the inverse of Bytes.
func FromBytes(l *layout.Layout, b []byte) (*Record, error) {
	need := int(l.SizeInBytes())
	if len(b) < need {
		return nil, errors.SizeViolation(errors.PhaseAccess, l.Name(), need, len(b))
	}
	b = b[:need]

	var v wide.Value
	if l.ByteOrder().Resolve() == layout.BigEndian {
		v = wide.FromBigEndianBytes(uint(need)*8, b)
		if l.BitOrder() == layout.Bit0IsMsb {
			v = v.Rsh(padding(l))
		}
		v = v.Resize(l.Width())
	} else {
		v = wide.FromLittleEndianBytes(l.Width(), b)
	}
	return FromValue(l, v), nil
}

// Parse reads text in the numeric grammar of wide.Parse as the raw container
// value.
func Parse(l *layout.Layout, s string) (*Record, error) {
	v, err := wide.Parse(s, l.Width())
	if err != nil {
		return nil, err
	}
	return FromValue(l, v), nil
}

// Layout returns the record's layout.
func (r *Record) Layout() *layout.Layout { return r.layout }

// Value returns a copy of the normalized container bits.
func (r *Record) Value() wide.Value { return r.value.Clone() }

// SetValue replaces the container bits, then applies the policy.
func (r *Record) SetValue(v wide.Value) {
	r.value = v.AsUnsigned().Resize(r.layout.Width())
	r.normalize()
}

// Bytes serializes the container in the layout's byte order. Big-endian
// layouts numbered from the MSB put nominal bit 0 in the top bit of byte 0,
// matching the view byte image; little-endian LSB-numbered layouts match it
// too. Mixed schemes serialize the container integer as is.
func (r *Record) Bytes() []byte {
	if r.layout.ByteOrder().Resolve() == layout.BigEndian {
		v := r.value.Resize(r.layout.SizeInBytes() * 8)
		if r.layout.BitOrder() == layout.Bit0IsMsb {
			v = v.Lsh(padding(r.layout))
		}
		return v.BigEndianBytes()
	}
	return r.value.LittleEndianBytes()
}

// Clone returns an independent copy.
func (r *Record) Clone() *Record {
	return &Record{layout: r.layout, value: r.value.Clone()}
}

// Equal reports content equality under the same layout.
func (r *Record) Equal(o *Record) bool {
	return r.layout == o.layout && r.value.Equal(o.value)
}

// Uint reads a field of at most 64 bits as its raw unsigned pattern.
func (r *Record) Uint(f *layout.Field) uint64 {
	x := r.value.Field(f.Shift(), f.Width)
	if f.Swapped() {
		x = bitops.SwapBytes(x, f.Width)
	}
	return x
}

// SetUint writes the low bits of x into a field of at most 64 bits.
// Wider values are truncated.
func (r *Record) SetUint(f *layout.Field, x uint64) {
	x &= bitops.Mask(f.Width)
	if f.Swapped() {
		x = bitops.SwapBytes(x, f.Width)
	}
	r.value.SetField(f.Shift(), f.Width, x)
	r.normalize()
}

// Int reads a field as a signed number. Only a field exactly as wide as its
// signed type sign-extends; any other field reads as its raw pattern.
func (r *Record) Int(f *layout.Field) int64 {
	x := r.Uint(f)
	if f.SignExtends() {
		return bitops.SignExtend(x, f.Width)
	}
	return int64(x)
}

// SetInt writes the two's complement pattern of x, truncated to the field.
func (r *Record) SetInt(f *layout.Field, x int64) {
	r.SetUint(f, uint64(x))
}

// Bool reads a field as a flag: true when any bit is set.
func (r *Record) Bool(f *layout.Field) bool {
	return r.Uint(f) != 0
}

// SetBool writes 1 or 0.
func (r *Record) SetBool(f *layout.Field, b bool) {
	var x uint64
	if b {
		x = 1
	}
	r.SetUint(f, x)
}

// Wide reads a field of any width. Signed fields as wide as their type come
// back as signed values.
func (r *Record) Wide(f *layout.Field) wide.Value {
	var v wide.Value
	if f.Width <= bitops.LimbBits {
		v = wide.FromUint64(f.Width, r.Uint(f))
	} else {
		v = r.value.FieldValue(f.Shift(), f.Width)
	}
	if f.Signed() && f.Width == f.Type.Bits {
		v = v.AsSigned()
	}
	return v
}

// SetWide writes a field of any width. v is truncated or extended to the
// field width first.
func (r *Record) SetWide(f *layout.Field, v wide.Value) {
	if f.Width <= bitops.LimbBits {
		r.SetUint(f, v.Resize(f.Width).Uint64())
		return
	}
	r.value.SetFieldValue(f.Shift(), f.Width, v.Resize(f.Width))
	r.normalize()
}

// Embedded extracts a nested field as a record of the inner layout. The inner
// policy applies to the result.
func (r *Record) Embedded(f *layout.Field) (*Record, error) {
	if f.Nested == nil {
		return nil, errors.TypeMismatch(errors.PhaseAccess, []string{f.Name}, f.Type.String(), "nested layout")
	}
	return FromValue(f.Nested, f.NestedBits(r.value)), nil
}

// SetEmbedded installs the defined bits of inner into a nested field, at the
// positions a sub-view over the same bytes would address. Bits the inner
// layout leaves undefined keep their current parent value until the policy
// runs; inner bits past the field width are dropped.
func (r *Record) SetEmbedded(f *layout.Field, inner *Record) error {
	if f.Nested == nil {
		return errors.TypeMismatch(errors.PhaseAccess, []string{f.Name}, f.Type.String(), "nested layout")
	}
	if inner.layout != f.Nested {
		return errors.TypeMismatch(errors.PhaseAccess, []string{f.Name}, inner.layout.Name(), f.Nested.Name())
	}

	mask := f.PlaceNested(f.Nested.DefinedMask())
	bits := f.PlaceNested(inner.value).And(mask)
	r.value = r.value.AndNot(mask).Or(bits)
	r.normalize()
	return nil
}

// Get reads a field by name.
func (r *Record) Get(name string) (wide.Value, error) {
	f, err := r.layout.Field(name)
	if err != nil {
		return wide.Value{}, err
	}
	if f.Nested != nil {
		return FromValue(f.Nested, f.NestedBits(r.value)).Value(), nil
	}
	return r.Wide(f), nil
}

// Set writes a field by name. Nested fields take the inner container bits.
func (r *Record) Set(name string, v wide.Value) error {
	f, err := r.layout.Field(name)
	if err != nil {
		return err
	}
	if f.Nested != nil {
		return r.SetEmbedded(f, FromValue(f.Nested, v))
	}
	r.SetWide(f, v)
	return nil
}

// String renders the fields as name=value pairs.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.layout.Name())
	b.WriteByte('{')
	for i, f := range r.layout.Fields() {
		if i > 0 {
			b.WriteByte(' ')
		}
		if f.Nested != nil {
			fmt.Fprintf(&b, "%s=%s", f.Name, FromValue(f.Nested, f.NestedBits(r.value)))
			continue
		}
		fmt.Fprintf(&b, "%s=%s", f.Name, r.Wide(f))
	}
	b.WriteByte('}')
	return b.String()
}

func (r *Record) normalize() {
	r.value = r.layout.Normalize(r.value)
}

func padding(l *layout.Layout) uint {
	return l.SizeInBytes()*8 - l.Width()
}
