package view

import (
	"encoding/binary"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/record"
	"github.com/wippyai/bitfield/wide"
)

// chunk is the part of a field that lives in one byte: the byte index, the
// in-byte shift of its lowest bit, its width, and its bit position within the
// field value.
type chunk struct {
	idx   uint
	shift uint
	width uint
	pos   uint
}

// chunks walks the bytes covered by nominal bits [p, p+width) and reports the
// piece of the field value each one holds.
func chunks(p, width uint, msb, bigEndian bool, fn func(c chunk)) {
	end := p + width
	var done uint
	for j := p / 8; j*8 < end; j++ {
		s := max(p, j*8) - j*8
		e := min(end, j*8+8) - j*8
		n := e - s

		c := chunk{idx: j, width: n}
		if msb {
			c.shift = 8 - e
		} else {
			c.shift = s
		}
		if bigEndian {
			c.pos = width - done - n
		} else {
			c.pos = done
		}
		done += n
		fn(c)
	}
}

func (v View) readBits(off, width uint, order layout.ByteOrder) uint64 {
	p := v.bit + off
	if p%8 == 0 {
		b := v.data[p/8:]
		be := order == layout.BigEndian
		switch width {
		case 8:
			return uint64(b[0])
		case 16:
			if be {
				return uint64(binary.BigEndian.Uint16(b))
			}
			return uint64(binary.LittleEndian.Uint16(b))
		case 32:
			if be {
				return uint64(binary.BigEndian.Uint32(b))
			}
			return uint64(binary.LittleEndian.Uint32(b))
		case 64:
			if be {
				return binary.BigEndian.Uint64(b)
			}
			return binary.LittleEndian.Uint64(b)
		}
	}

	var x uint64
	chunks(p, width, v.layout.BitOrder() == layout.Bit0IsMsb, order == layout.BigEndian, func(c chunk) {
		x |= (uint64(v.data[c.idx]>>c.shift) & bitops.Mask(c.width)) << c.pos
	})
	return x
}

func (v View) writeBits(off, width uint, order layout.ByteOrder, x uint64) {
	p := v.bit + off
	x &= bitops.Mask(width)
	if p%8 == 0 {
		b := v.data[p/8:]
		be := order == layout.BigEndian
		switch width {
		case 8:
			b[0] = byte(x)
			return
		case 16:
			if be {
				binary.BigEndian.PutUint16(b, uint16(x))
			} else {
				binary.LittleEndian.PutUint16(b, uint16(x))
			}
			return
		case 32:
			if be {
				binary.BigEndian.PutUint32(b, uint32(x))
			} else {
				binary.LittleEndian.PutUint32(b, uint32(x))
			}
			return
		case 64:
			if be {
				binary.BigEndian.PutUint64(b, x)
			} else {
				binary.LittleEndian.PutUint64(b, x)
			}
			return
		}
	}

	chunks(p, width, v.layout.BitOrder() == layout.Bit0IsMsb, order == layout.BigEndian, func(c chunk) {
		m := byte(bitops.Mask(c.width) << c.shift)
		bits := byte((x>>c.pos)&bitops.Mask(c.width)) << c.shift
		v.data[c.idx] = v.data[c.idx]&^m | bits
	})
}

func (v View) readWide(off, width uint, order layout.ByteOrder) wide.Value {
	out := wide.New(width)
	chunks(v.bit+off, width, v.layout.BitOrder() == layout.Bit0IsMsb, order == layout.BigEndian, func(c chunk) {
		out.SetField(c.pos, c.width, uint64(v.data[c.idx]>>c.shift)&bitops.Mask(c.width))
	})
	return out
}

func (v View) writeWide(off, width uint, order layout.ByteOrder, x wide.Value) {
	chunks(v.bit+off, width, v.layout.BitOrder() == layout.Bit0IsMsb, order == layout.BigEndian, func(c chunk) {
		m := byte(bitops.Mask(c.width) << c.shift)
		bits := byte(x.Field(c.pos, c.width)) << c.shift
		v.data[c.idx] = v.data[c.idx]&^m | bits
	})
}

// Uint reads a field of at most 64 bits as its raw unsigned pattern.
func (v View) Uint(f *layout.Field) uint64 {
	return v.readBits(f.Offset, f.Width, f.ByteOrder())
}

// SetUint writes the low bits of x into a field of at most 64 bits. Bytes
// outside the field are not touched.
func (v View) SetUint(f *layout.Field, x uint64) {
	v.writeBits(f.Offset, f.Width, f.ByteOrder(), x)
}

// Int reads a field as a signed number. Only a field exactly as wide as its
// signed type sign-extends.
func (v View) Int(f *layout.Field) int64 {
	x := v.Uint(f)
	if f.SignExtends() {
		return bitops.SignExtend(x, f.Width)
	}
	return int64(x)
}

// SetInt writes the two's complement pattern of x, truncated to the field.
func (v View) SetInt(f *layout.Field, x int64) {
	v.SetUint(f, uint64(x))
}

// Bool reads a field as a flag.
func (v View) Bool(f *layout.Field) bool {
	return v.Uint(f) != 0
}

// SetBool writes 1 or 0.
func (v View) SetBool(f *layout.Field, b bool) {
	var x uint64
	if b {
		x = 1
	}
	v.SetUint(f, x)
}

// Wide reads a field of any width.
func (v View) Wide(f *layout.Field) wide.Value {
	var out wide.Value
	if f.Width <= bitops.LimbBits {
		out = wide.FromUint64(f.Width, v.Uint(f))
	} else {
		out = v.readWide(f.Offset, f.Width, f.ByteOrder())
	}
	if f.Signed() && f.Width == f.Type.Bits {
		out = out.AsSigned()
	}
	return out
}

// SetWide writes a field of any width, truncating or extending x first.
func (v View) SetWide(f *layout.Field, x wide.Value) {
	x = x.Resize(f.Width)
	if f.Width <= bitops.LimbBits {
		v.SetUint(f, x.Uint64())
		return
	}
	v.writeWide(f.Offset, f.Width, f.ByteOrder(), x)
}

// Get reads a field by name. Nested fields return the inner container bits.
func (v View) Get(name string) (wide.Value, error) {
	f, err := v.layout.Field(name)
	if err != nil {
		return wide.Value{}, err
	}
	if f.Nested != nil {
		r, err := v.Embedded(f)
		if err != nil {
			return wide.Value{}, err
		}
		return r.Value(), nil
	}
	return v.Wide(f), nil
}

// Set writes a field by name. Nested fields take the inner container bits.
func (v View) Set(name string, x wide.Value) error {
	f, err := v.layout.Field(name)
	if err != nil {
		return err
	}
	if f.Nested != nil {
		sub, err := v.Sub(f)
		if err != nil {
			return err
		}
		return sub.Store(record.FromValue(f.Nested, x))
	}
	v.SetWide(f, x)
	return nil
}

// Embedded copies a nested field into a record of the inner layout.
func (v View) Embedded(f *layout.Field) (*record.Record, error) {
	sub, err := v.Sub(f)
	if err != nil {
		return nil, err
	}
	return sub.Record()
}

// Record copies every field into a new record. Bits no field claims start
// from the record policy rather than the buffer.
func (v View) Record() (*record.Record, error) {
	r := record.New(v.layout)
	for _, f := range v.layout.Fields() {
		if f.Nested == nil {
			r.SetWide(f, v.Wide(f))
			continue
		}
		inner, err := v.Embedded(f)
		if err != nil {
			return nil, err
		}
		if err := r.SetEmbedded(f, inner); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Store writes every field of r into the buffer. r must use the view's
// layout. Bits no field claims are left as they are.
func (v View) Store(r *record.Record) error {
	if r.Layout() != v.layout {
		return errors.TypeMismatch(errors.PhaseView, nil, r.Layout().Name(), v.layout.Name())
	}
	for _, f := range v.layout.Fields() {
		if f.Nested == nil {
			v.SetWide(f, r.Wide(f))
			continue
		}
		sub, err := v.Sub(f)
		if err != nil {
			return err
		}
		inner, err := r.Embedded(f)
		if err != nil {
			return err
		}
		if err := sub.Store(inner); err != nil {
			return err
		}
	}
	return nil
}
