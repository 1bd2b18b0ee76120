package witlayout

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
)

// Converter turns WIT types into layouts. Layouts derived from the same
// *wit.TypeDef are built once and shared. A Converter is not safe for
// concurrent use.
type Converter struct {
	calc    *calculator
	layouts map[*wit.TypeDef]*layout.Layout
}

// NewConverter returns an empty converter.
func NewConverter() *Converter {
	return &Converter{
		calc:    newCalculator(),
		layouts: make(map[*wit.TypeDef]*layout.Layout),
	}
}

// FromType converts t with a fresh converter.
func FromType(name string, t wit.Type) (*layout.Layout, error) {
	return NewConverter().Layout(name, t)
}

// FromFlags converts a flags declaration.
func FromFlags(name string, f *wit.Flags) (*layout.Layout, error) {
	return NewConverter().flags(name, f)
}

// FromRecord converts a record declaration.
func FromRecord(name string, r *wit.Record) (*layout.Layout, error) {
	return NewConverter().record(name, r)
}

// Info returns the canonical ABI size, alignment and field offsets of t.
func (c *Converter) Info(t wit.Type) (Info, error) {
	return c.calc.calculate(t)
}

// Layout converts t. Records and flags become layouts of their own; any
// other supported type becomes a layout with a single field named "value".
func (c *Converter) Layout(name string, t wit.Type) (*layout.Layout, error) {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return c.scalar(name, t)
	}
	if l, ok := c.layouts[td]; ok {
		return l, nil
	}

	var l *layout.Layout
	var err error
	switch kind := td.Kind.(type) {
	case *wit.Record:
		l, err = c.record(name, kind)
	case *wit.Flags:
		l, err = c.flags(name, kind)
	case wit.Type:
		l, err = c.Layout(name, kind)
	default:
		l, err = c.scalar(name, td)
	}
	if err != nil {
		return nil, err
	}
	c.layouts[td] = l
	return l, nil
}

func newBuilder(name string) *layout.Builder {
	return layout.NewBuilder(name).
		Policy(layout.ForceZero).
		ByteOrder(layout.LittleEndian).
		BitOrder(layout.Bit0IsLsb)
}

func (c *Converter) flags(name string, f *wit.Flags) (*layout.Layout, error) {
	if f == nil {
		return nil, errors.NilPointer(errors.PhaseCompile, []string{name}, "flags")
	}
	info := flagsInfo(len(f.Flags))
	b := newBuilder(name).Width(uint(info.Size) * 8)
	for i, flag := range f.Flags {
		b.Field(flag.Name, uint(i), uint(i), layout.Bool)
	}
	return b.Build()
}

func (c *Converter) record(name string, r *wit.Record) (*layout.Layout, error) {
	if r == nil {
		return nil, errors.NilPointer(errors.PhaseCompile, []string{name}, "record")
	}
	info, err := c.calc.calculateRecord(r)
	if err != nil {
		return nil, err
	}
	b := newBuilder(name).Width(uint(info.Size) * 8)
	for i, field := range r.Fields {
		lo := uint(info.Offsets[i]) * 8
		if err := c.addField(b, field.Name, lo, field.Type); err != nil {
			return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				Layout(name).
				Path(field.Name).
				Cause(err).
				Detail("field %q", field.Name).
				Build()
		}
	}
	return b.Build()
}

// resolve follows type aliases to the defining type.
func resolve(t wit.Type) wit.Type {
	for {
		td, ok := t.(*wit.TypeDef)
		if !ok {
			return t
		}
		alias, ok := td.Kind.(wit.Type)
		if !ok {
			return t
		}
		t = alias
	}
}

func (c *Converter) addField(b *layout.Builder, name string, lo uint, t wit.Type) error {
	t = resolve(t)
	if td, ok := t.(*wit.TypeDef); ok {
		switch td.Kind.(type) {
		case *wit.Record, *wit.Flags:
			inner, err := c.Layout(name, td)
			if err != nil {
				return err
			}
			b.Embed(name, lo, lo+inner.Width()-1, inner)
			return nil
		}
	}
	ft, err := c.fieldType(t)
	if err != nil {
		return err
	}
	info, err := c.calc.calculate(t)
	if err != nil {
		return err
	}
	hi := lo + uint(info.Size)*8 - 1
	if ft.Kind == layout.KindBool {
		hi = lo
	}
	b.Field(name, lo, hi, ft)
	return nil
}

func (c *Converter) scalar(name string, t wit.Type) (*layout.Layout, error) {
	b := newBuilder(name)
	if err := c.addField(b, "value", 0, t); err != nil {
		return nil, err
	}
	info, err := c.calc.calculate(t)
	if err != nil {
		return nil, err
	}
	return b.Width(uint(info.Size) * 8).Build()
}

func (c *Converter) fieldType(t wit.Type) (layout.Type, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return layout.Bool, nil
	case wit.U8:
		return layout.U8, nil
	case wit.S8:
		return layout.I8, nil
	case wit.U16:
		return layout.U16, nil
	case wit.S16:
		return layout.I16, nil
	case wit.U32, wit.Char:
		return layout.U32, nil
	case wit.S32:
		return layout.I32, nil
	case wit.U64:
		return layout.U64, nil
	case wit.S64:
		return layout.I64, nil
	case *wit.TypeDef:
		switch kind := typ.Kind.(type) {
		case *wit.Enum:
			return layout.Uint(uint(discriminantSize(len(kind.Cases))) * 8), nil
		case wit.Type:
			return c.fieldType(resolve(kind))
		}
		return layout.Type{}, unsupported(typ.Kind)
	}
	return layout.Type{}, unsupported(t)
}
