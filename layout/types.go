package layout

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder selects how multi-byte field values are laid out in bytes.
type ByteOrder uint8

const (
	Native ByteOrder = iota
	BigEndian
	LittleEndian
)

var hostOrder = func() ByteOrder {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// HostOrder returns the byte order of the running machine.
func HostOrder() ByteOrder { return hostOrder }

// Resolve maps Native to the host order and returns other orders unchanged.
func (o ByteOrder) Resolve() ByteOrder {
	if o == Native {
		return hostOrder
	}
	return o
}

func (o ByteOrder) String() string {
	switch o {
	case Native:
		return "native"
	case BigEndian:
		return "big"
	case LittleEndian:
		return "little"
	default:
		return fmt.Sprintf("ByteOrder(%d)", uint8(o))
	}
}

// BitOrder selects which physical bit is bit 0.
type BitOrder uint8

const (
	Bit0IsLsb BitOrder = iota
	Bit0IsMsb
)

func (o BitOrder) String() string {
	switch o {
	case Bit0IsLsb:
		return "lsb"
	case Bit0IsMsb:
		return "msb"
	default:
		return fmt.Sprintf("BitOrder(%d)", uint8(o))
	}
}

// Policy governs bits that no field claims.
type Policy uint8

const (
	// AnyPreserve leaves undefined bits as last stored.
	AnyPreserve Policy = iota
	// ForceZero clears undefined bits after every mutation.
	ForceZero
	// ForceOne sets undefined bits after every mutation.
	ForceOne
)

func (p Policy) String() string {
	switch p {
	case AnyPreserve:
		return "preserve"
	case ForceZero:
		return "zero"
	case ForceOne:
		return "one"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Kind classifies a field's declared value type.
type Kind uint8

const (
	KindUint Kind = iota
	KindInt
	KindBool
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindNested:
		return "nested"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Type is a field's declared value type. Bits is the natural width of the
// type (0 means "as wide as the field"). When HasOrder is set, Order overrides
// the container's byte order for this field only.
type Type struct {
	Kind     Kind
	Bits     uint
	Order    ByteOrder
	HasOrder bool
}

var (
	Bool = Type{Kind: KindBool, Bits: 1}

	U8  = Uint(8)
	U16 = Uint(16)
	U32 = Uint(32)
	U64 = Uint(64)
	I8  = Int(8)
	I16 = Int(16)
	I32 = Int(32)
	I64 = Int(64)

	U16BE = U16.WithOrder(BigEndian)
	U16LE = U16.WithOrder(LittleEndian)
	U32BE = U32.WithOrder(BigEndian)
	U32LE = U32.WithOrder(LittleEndian)
	U64BE = U64.WithOrder(BigEndian)
	U64LE = U64.WithOrder(LittleEndian)
	I16BE = I16.WithOrder(BigEndian)
	I16LE = I16.WithOrder(LittleEndian)
	I32BE = I32.WithOrder(BigEndian)
	I32LE = I32.WithOrder(LittleEndian)
	I64BE = I64.WithOrder(BigEndian)
	I64LE = I64.WithOrder(LittleEndian)
)

// Uint returns an unsigned type of the given natural width. Widths above 64
// are read and written through wide values.
func Uint(bits uint) Type { return Type{Kind: KindUint, Bits: bits} }

// Int returns a signed two's complement type of the given natural width.
func Int(bits uint) Type { return Type{Kind: KindInt, Bits: bits} }

// WithOrder returns t carrying an explicit byte order.
func (t Type) WithOrder(o ByteOrder) Type {
	t.Order = o
	t.HasOrder = true
	return t
}

func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindUint:
		s = fmt.Sprintf("u%d", t.Bits)
	case KindInt:
		s = fmt.Sprintf("i%d", t.Bits)
	default:
		s = t.Kind.String()
	}
	if t.HasOrder {
		switch t.Order {
		case BigEndian:
			s += "be"
		case LittleEndian:
			s += "le"
		case Native:
			s += "ne"
		}
	}
	return s
}
