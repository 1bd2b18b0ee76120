// Package endian provides fixed-width integers with a declared wire byte
// order.
//
// BE and LE hold an ordinary Go integer and convert to and from exactly
// Size() bytes in their order. Arithmetic wraps like the underlying type.
// Each type also reports the layout.Type it stands for, so struct fields of
// these types compile into fields with a byte order override.
package endian

import (
	"encoding/binary"
	"strconv"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
)

// Integer lists the widths the wire types cover.
type Integer interface {
	~uint16 | ~uint32 | ~uint64 | ~int16 | ~int32 | ~int64
}

// BE is a big-endian integer.
type BE[T Integer] struct{ v T }

// LE is a little-endian integer.
type LE[T Integer] struct{ v T }

type (
	U16BE = BE[uint16]
	U32BE = BE[uint32]
	U64BE = BE[uint64]
	I16BE = BE[int16]
	I32BE = BE[int32]
	I64BE = BE[int64]

	U16LE = LE[uint16]
	U32LE = LE[uint32]
	U64LE = LE[uint64]
	I16LE = LE[int16]
	I32LE = LE[int32]
	I64LE = LE[int64]
)

func size[T Integer]() int {
	var z T
	return binary.Size(z)
}

func signed[T Integer]() bool {
	var z T
	return z-1 < z
}

func fieldType[T Integer](o layout.ByteOrder) layout.Type {
	bits := uint(size[T]() * 8)
	if signed[T]() {
		return layout.Int(bits).WithOrder(o)
	}
	return layout.Uint(bits).WithOrder(o)
}

func byteOrder(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func put[T Integer](b []byte, x T, bigEndian bool) {
	o := byteOrder(bigEndian)
	switch size[T]() {
	case 2:
		o.PutUint16(b, uint16(x))
	case 4:
		o.PutUint32(b, uint32(x))
	default:
		o.PutUint64(b, uint64(x))
	}
}

func get[T Integer](b []byte, bigEndian bool) T {
	o := byteOrder(bigEndian)
	switch size[T]() {
	case 2:
		return T(o.Uint16(b))
	case 4:
		return T(o.Uint32(b))
	default:
		return T(o.Uint64(b))
	}
}

func checkLen[T Integer](b []byte) error {
	if n := size[T](); len(b) < n {
		return errors.SizeViolation(errors.PhaseAccess, "", n, len(b))
	}
	return nil
}

func format[T Integer](x T) string {
	if signed[T]() {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatUint(uint64(x), 10)
}

func quo[T Integer](a, b T) (T, error) {
	if b == 0 {
		return 0, errors.DivideByZero(uint(size[T]() * 8))
	}
	return a / b, nil
}

func rem[T Integer](a, b T) (T, error) {
	if b == 0 {
		return 0, errors.DivideByZero(uint(size[T]() * 8))
	}
	return a % b, nil
}

// NewBE wraps x.
func NewBE[T Integer](x T) BE[T] { return BE[T]{v: x} }

// BEFromBytes reads the first Size() bytes of b, most significant first.
func BEFromBytes[T Integer](b []byte) (BE[T], error) {
	if err := checkLen[T](b); err != nil {
		return BE[T]{}, err
	}
	return BE[T]{v: get[T](b, true)}, nil
}

// Get returns the native value.
func (x BE[T]) Get() T { return x.v }

// Set replaces the value.
func (x *BE[T]) Set(v T) { x.v = v }

// Size returns the wire size in bytes.
func (BE[T]) Size() int { return size[T]() }

// Bytes returns the wire bytes, most significant first.
func (x BE[T]) Bytes() []byte {
	b := make([]byte, size[T]())
	put(b, x.v, true)
	return b
}

// Put writes the wire bytes into b, which must hold Size() bytes.
func (x BE[T]) Put(b []byte) { put(b, x.v, true) }

// FieldType returns the layout type with a big-endian override.
func (BE[T]) FieldType() layout.Type { return fieldType[T](layout.BigEndian) }

func (x BE[T]) Add(o BE[T]) BE[T] { return BE[T]{v: x.v + o.v} }
func (x BE[T]) Sub(o BE[T]) BE[T] { return BE[T]{v: x.v - o.v} }
func (x BE[T]) Mul(o BE[T]) BE[T] { return BE[T]{v: x.v * o.v} }

// Quo divides, failing on a zero divisor.
func (x BE[T]) Quo(o BE[T]) (BE[T], error) {
	q, err := quo(x.v, o.v)
	return BE[T]{v: q}, err
}

// Rem returns the remainder, failing on a zero divisor.
func (x BE[T]) Rem(o BE[T]) (BE[T], error) {
	r, err := rem(x.v, o.v)
	return BE[T]{v: r}, err
}

func (x BE[T]) String() string { return format(x.v) }

// LE returns the same value with little-endian wire order.
func (x BE[T]) LE() LE[T] { return LE[T]{v: x.v} }

// NewLE wraps x.
func NewLE[T Integer](x T) LE[T] { return LE[T]{v: x} }

// LEFromBytes reads the first Size() bytes of b, least significant first.
func LEFromBytes[T Integer](b []byte) (LE[T], error) {
	if err := checkLen[T](b); err != nil {
		return LE[T]{}, err
	}
	return LE[T]{v: get[T](b, false)}, nil
}

// Get returns the native value.
func (x LE[T]) Get() T { return x.v }

// Set replaces the value.
func (x *LE[T]) Set(v T) { x.v = v }

// Size returns the wire size in bytes.
func (LE[T]) Size() int { return size[T]() }

// Bytes returns the wire bytes, least significant first.
func (x LE[T]) Bytes() []byte {
	b := make([]byte, size[T]())
	put(b, x.v, false)
	return b
}

// Put writes the wire bytes into b, which must hold Size() bytes.
func (x LE[T]) Put(b []byte) { put(b, x.v, false) }

// FieldType returns the layout type with a little-endian override.
func (LE[T]) FieldType() layout.Type { return fieldType[T](layout.LittleEndian) }

func (x LE[T]) Add(o LE[T]) LE[T] { return LE[T]{v: x.v + o.v} }
func (x LE[T]) Sub(o LE[T]) LE[T] { return LE[T]{v: x.v - o.v} }
func (x LE[T]) Mul(o LE[T]) LE[T] { return LE[T]{v: x.v * o.v} }

// Quo divides, failing on a zero divisor.
func (x LE[T]) Quo(o LE[T]) (LE[T], error) {
	q, err := quo(x.v, o.v)
	return LE[T]{v: q}, err
}

// Rem returns the remainder, failing on a zero divisor.
func (x LE[T]) Rem(o LE[T]) (LE[T], error) {
	r, err := rem(x.v, o.v)
	return LE[T]{v: r}, err
}

func (x LE[T]) String() string { return format(x.v) }

// BE returns the same value with big-endian wire order.
func (x LE[T]) BE() BE[T] { return BE[T]{v: x.v} }
