package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/internal/bitops"
)

type pendingField struct {
	name   string
	lo, hi uint
	typ    Type
	nested *Layout
	isNest bool
	desc   string
}

// Builder declares a layout field by field. Validation is deferred to Build,
// which reports the first problem found.
type Builder struct {
	name     string
	width    uint
	policy   Policy
	order    ByteOrder
	bitOrder BitOrder
	fields   []pendingField
}

// NewBuilder starts a layout with AnyPreserve policy, Native byte order and
// Bit0IsLsb numbering.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Field declares a scalar field over the inclusive nominal range [lo, hi].
func (b *Builder) Field(name string, lo, hi uint, t Type, description ...string) *Builder {
	b.fields = append(b.fields, pendingField{
		name: name,
		lo:   lo,
		hi:   hi,
		typ:  t,
		desc: joinDescription(description),
	})
	return b
}

// Embed declares a field over [lo, hi] whose value is another layout.
// When the ranges differ in width, the inner value is truncated or
// zero-extended to the field.
func (b *Builder) Embed(name string, lo, hi uint, inner *Layout, description ...string) *Builder {
	b.fields = append(b.fields, pendingField{
		name:   name,
		lo:     lo,
		hi:     hi,
		typ:    Type{Kind: KindNested},
		nested: inner,
		isNest: true,
		desc:   joinDescription(description),
	})
	return b
}

// Width fixes the container width. Without it the width is the end of the
// furthest field.
func (b *Builder) Width(bits uint) *Builder {
	b.width = bits
	return b
}

// Policy sets the undefined-bit policy.
func (b *Builder) Policy(p Policy) *Builder {
	b.policy = p
	return b
}

// ByteOrder sets the default byte order of multi-byte fields.
func (b *Builder) ByteOrder(o ByteOrder) *Builder {
	b.order = o
	return b
}

// BitOrder sets the bit numbering convention.
func (b *Builder) BitOrder(o BitOrder) *Builder {
	b.bitOrder = o
	return b
}

// Build validates the declaration and returns the layout.
func (b *Builder) Build() (*Layout, error) {
	if b.order > LittleEndian || b.bitOrder > Bit0IsMsb || b.policy > ForceOne {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidLayout).
			Layout(b.name).
			Detail("unknown order or policy (byte order %d, bit order %d, policy %d)", b.order, b.bitOrder, b.policy).
			Build()
	}

	l := &Layout{
		name:     b.name,
		policy:   b.policy,
		order:    b.order,
		bitOrder: b.bitOrder,
		fields:   make([]Field, 0, len(b.fields)),
	}

	seen := make(map[string]struct{}, len(b.fields))
	var extent uint
	for _, p := range b.fields {
		f, err := b.validate(p)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f.Name]; dup {
			return nil, errors.DuplicateField(errors.PhaseLayout, b.name, f.Name)
		}
		seen[f.Name] = struct{}{}
		extent = max(extent, f.End())
		l.fields = append(l.fields, f)
	}

	switch {
	case b.width == 0 && extent == 0:
		return nil, errors.New(errors.PhaseLayout, errors.KindZeroWidth).
			Layout(b.name).
			Detail("layout has no fields and no width").
			Build()
	case b.width == 0:
		l.width = extent
	default:
		l.width = b.width
		for _, f := range l.fields {
			if f.End() > b.width {
				return nil, errors.OutOfRange(errors.PhaseLayout, b.name, []string{f.Name}, f.End(), b.width)
			}
		}
	}

	l.finish()

	Logger().Debug("layout built",
		zap.String("layout", l.name),
		zap.Uint("width", l.width),
		zap.Int("fields", len(l.fields)),
		zap.Stringer("policy", l.policy))
	return l, nil
}

// MustBuild is Build that panics on error.
func (b *Builder) MustBuild() *Layout {
	l, err := b.Build()
	if err != nil {
		panic(err)
	}
	return l
}

func (b *Builder) validate(p pendingField) (Field, error) {
	path := []string{p.name}
	if p.name == "" {
		return Field{}, errors.New(errors.PhaseLayout, errors.KindInvalidLayout).
			Layout(b.name).
			Detail("field at bit %d has no name", p.lo).
			Build()
	}
	if p.hi < p.lo {
		return Field{}, errors.ZeroWidth(errors.PhaseLayout, b.name, path, p.lo, p.hi)
	}
	width := p.hi - p.lo + 1
	if _, ok := bitops.SafeAdd(p.lo, width); !ok || width == 0 {
		return Field{}, errors.New(errors.PhaseLayout, errors.KindOutOfRange).
			Layout(b.name).
			Path(path...).
			Detail("bit range [%d, %d] overflows", p.lo, p.hi).
			Build()
	}

	f := Field{
		Name:        p.name,
		Offset:      p.lo,
		Width:       width,
		Type:        p.typ,
		Description: p.desc,
	}

	switch {
	case p.isNest:
		if p.nested == nil {
			return Field{}, errors.NilPointer(errors.PhaseLayout, path, "embedded layout")
		}
		if p.nested.bitOrder != b.bitOrder && (p.lo%8 != 0 || width%8 != 0) {
			return Field{}, errors.New(errors.PhaseLayout, errors.KindInvalidLayout).
				Layout(b.name).
				Path(path...).
				Detail("layout %s numbers bits as %s inside a %s container; the field must cover whole bytes",
					p.nested.Name(), p.nested.bitOrder, b.bitOrder).
				Build()
		}
		f.Nested = p.nested
		f.Type.Bits = p.nested.Width()
	case p.typ.Kind == KindBool:
		if width != 1 {
			return Field{}, errors.TypeMismatch(errors.PhaseLayout, path, fmt.Sprintf("%d-bit field", width), "bool (1 bit)")
		}
	case p.typ.Kind == KindUint || p.typ.Kind == KindInt:
		if p.typ.Bits == 0 {
			f.Type.Bits = width
		} else if width > p.typ.Bits {
			return Field{}, errors.TypeMismatch(errors.PhaseLayout, path,
				fmt.Sprintf("%d-bit field", width), p.typ.String())
		}
		if p.typ.HasOrder && p.typ.Order > LittleEndian {
			return Field{}, errors.New(errors.PhaseLayout, errors.KindInvalidLayout).
				Layout(b.name).
				Path(path...).
				Detail("unknown byte order %d", p.typ.Order).
				Build()
		}
	default:
		return Field{}, errors.New(errors.PhaseLayout, errors.KindTypeMismatch).
			Layout(b.name).
			Path(path...).
			Detail("kind %s requires Embed", p.typ.Kind).
			Build()
	}
	return f, nil
}

func joinDescription(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	s := parts[0]
	for _, p := range parts[1:] {
		s += " " + p
	}
	return s
}
