package witlayout

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bitfield/errors"
)

// Info is the canonical ABI size and alignment of a type, in bytes.
type Info struct {
	Offsets []uint32 // record field offsets, in declaration order
	Size    uint32
	Align   uint32
}

type calculator struct {
	cache map[*wit.TypeDef]Info
}

func newCalculator() *calculator {
	return &calculator{cache: make(map[*wit.TypeDef]Info)}
}

func (c *calculator) calculate(t wit.Type) (Info, error) {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}, nil
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}, nil
	case wit.U32, wit.S32, wit.Char:
		return Info{Size: 4, Align: 4}, nil
	case wit.U64, wit.S64:
		return Info{Size: 8, Align: 8}, nil
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	}
	return Info{}, unsupported(t)
}

func (c *calculator) calculateTypeDef(t *wit.TypeDef) (Info, error) {
	if cached, ok := c.cache[t]; ok {
		return cached, nil
	}

	var info Info
	var err error
	switch kind := t.Kind.(type) {
	case *wit.Record:
		info, err = c.calculateRecord(kind)
	case *wit.Enum:
		size := discriminantSize(len(kind.Cases))
		info = Info{Size: size, Align: size}
	case *wit.Flags:
		info = flagsInfo(len(kind.Flags))
	case wit.Type:
		info, err = c.calculate(kind)
	default:
		err = unsupported(t.Kind)
	}
	if err != nil {
		return Info{}, err
	}

	c.cache[t] = info
	return info, nil
}

func (c *calculator) calculateRecord(r *wit.Record) (Info, error) {
	offsets := make([]uint32, len(r.Fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for i, field := range r.Fields {
		fi, err := c.calculate(field.Type)
		if err != nil {
			return Info{}, err
		}
		offset = alignTo(offset, fi.Align)
		offsets[i] = offset
		if fi.Align > maxAlign {
			maxAlign = fi.Align
		}
		offset += fi.Size
	}

	return Info{
		Offsets: offsets,
		Size:    alignTo(offset, maxAlign),
		Align:   maxAlign,
	}, nil
}

func flagsInfo(n int) Info {
	switch {
	case n == 0:
		return Info{Size: 0, Align: 1}
	case n <= 8:
		return Info{Size: 1, Align: 1}
	case n <= 16:
		return Info{Size: 2, Align: 2}
	case n <= 32:
		return Info{Size: 4, Align: 4}
	case n <= 64:
		return Info{Size: 8, Align: 8}
	}
	// past 64 flags: a run of u32 words
	return Info{Size: uint32((n+31)/32) * 4, Align: 4}
}

func discriminantSize(n int) uint32 {
	switch {
	case n <= 1<<8:
		return 1
	case n <= 1<<16:
		return 2
	}
	return 4
}

func alignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func unsupported(t any) error {
	return errors.Unsupported(errors.PhaseCompile, fmt.Sprintf("WIT type %T", t))
}
