package view

import (
	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
	"github.com/wippyai/bitfield/layout"
)

// View is a zero-copy accessor for one layout over a byte span.
type View struct {
	layout *layout.Layout
	data   []byte
	bit    uint
	origin uint
}

// New returns a view of l starting at byteOffset in buf. The buffer must hold
// at least l.SizeInBytes() bytes past the offset.
func New(l *layout.Layout, buf []byte, byteOffset uint) (View, error) {
	return At(l, buf, byteOffset*8)
}

// MustNew is New that panics on error.
func MustNew(l *layout.Layout, buf []byte, byteOffset uint) View {
	v, err := New(l, buf, byteOffset)
	if err != nil {
		panic(err)
	}
	return v
}

// At returns a view of l whose bit 0 is bit bitOffset of buf.
func At(l *layout.Layout, buf []byte, bitOffset uint) (View, error) {
	if l == nil {
		return View{}, errors.NilPointer(errors.PhaseView, nil, "layout")
	}
	start, bit := bitOffset/8, bitOffset%8
	need := spanBytes(bit, l.Width())
	if uint64(start)+uint64(need) > uint64(len(buf)) {
		have := 0
		if start < uint(len(buf)) {
			have = len(buf) - int(start)
		}
		return View{}, errors.SizeViolation(errors.PhaseView, l.Name(), int(need), have)
	}
	end := start + need
	return View{
		layout: l,
		data:   buf[start:end:end],
		bit:    bit,
		origin: bitOffset,
	}, nil
}

// Over returns a view of l at byte offset of a Buffer, such as guest memory.
func Over(l *layout.Layout, b bitfield.Buffer, offset uint32) (View, error) {
	if l == nil || b == nil {
		return View{}, errors.NilPointer(errors.PhaseView, nil, "layout or buffer")
	}
	need := l.SizeInBytes()
	if uint64(offset)+uint64(need) > uint64(b.Size()) {
		have := 0
		if offset < b.Size() {
			have = int(b.Size() - offset)
		}
		return View{}, errors.SizeViolation(errors.PhaseView, l.Name(), int(need), have)
	}
	data, err := b.Bytes(offset, uint32(need))
	if err != nil {
		return View{}, errors.Wrap(errors.PhaseView, errors.KindOutOfBounds, err, "buffer refused view span")
	}
	return View{layout: l, data: data, origin: uint(offset) * 8}, nil
}

// Layout returns the view's layout.
func (v View) Layout() *layout.Layout { return v.layout }

// Origin returns the bit offset of the view's bit 0 from the start of the
// buffer it was built over.
func (v View) Origin() uint { return v.origin }

// Bytes returns the span the view covers. The slice aliases the buffer.
func (v View) Bytes() []byte { return v.data }

// Same reports whether both views address the same bits with the same
// layout. Content is not compared.
func (v View) Same(o View) bool {
	if len(v.data) == 0 || len(o.data) == 0 {
		return false
	}
	return &v.data[0] == &o.data[0] && v.bit == o.bit && v.layout == o.layout
}

// Sub returns a view of the nested layout held by f. The sub-view starts at
// the parent origin plus f.Offset, which may fall inside a byte.
func (v View) Sub(f *layout.Field) (View, error) {
	if f.Nested == nil {
		return View{}, errors.TypeMismatch(errors.PhaseView, []string{f.Name}, f.Type.String(), "nested layout")
	}
	if f.Nested.Width() > f.Width {
		return View{}, errors.New(errors.PhaseView, errors.KindSizeViolation).
			Layout(v.layout.Name()).
			Path(f.Name).
			Detail("field is %d bits, nested layout %s needs %d", f.Width, f.Nested.Name(), f.Nested.Width()).
			Build()
	}
	p := v.bit + f.Offset
	if f.Mirrored() && p%8 != 0 {
		return View{}, errors.New(errors.PhaseView, errors.KindInvalidLayout).
			Layout(v.layout.Name()).
			Path(f.Name).
			Detail("nested layout %s numbers bits as %s and must start on a byte", f.Nested.Name(), f.Nested.BitOrder()).
			Build()
	}
	start, bit := p/8, p%8
	end := start + spanBytes(bit, f.Nested.Width())
	return View{
		layout: f.Nested,
		data:   v.data[start:end:end],
		bit:    bit,
		origin: v.origin + f.Offset,
	}, nil
}

func spanBytes(bit, width uint) uint {
	return bitops.CeilDiv(bit+width, 8)
}
