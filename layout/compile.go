package layout

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/wide"
)

const (
	tagBits      = "bits"
	tagOrder     = "order"
	tagDesc      = "desc"
	tagContainer = "bitfield"
)

var (
	cache     sync.Map // reflect.Type -> *Layout
	wideType  = reflect.TypeOf(wide.Value{})
	emptyType = reflect.TypeOf(struct{}{})
	typedType = reflect.TypeOf((*Typed)(nil)).Elem()
)

// Typed is implemented by Go types that declare their own field type, such as
// the fixed byte-order integers in package endian.
type Typed interface {
	FieldType() Type
}

// For compiles the tagged struct T into a layout, caching the result.
func For[T any]() (*Layout, error) {
	return Compile(reflect.TypeOf((*T)(nil)).Elem())
}

// MustFor is For that panics on error.
func MustFor[T any]() *Layout {
	l, err := For[T]()
	if err != nil {
		panic(err)
	}
	return l
}

// Compile builds a layout from a struct type whose fields carry bits tags.
// Pointer types are dereferenced. Results are cached per type.
//
// Field tags:
//
//	bits:"lo:hi"   inclusive nominal range
//	bits:"n"       single bit
//	order:"big"    byte order override (big, little, native)
//	desc:"..."     description
//
// Container options go on a blank field of type struct{}:
//
//	_ struct{} `bitfield:"name=ipv4,width=160,policy=zero,order=big,bitorder=msb"`
//
// Go field types map to bool, uint8..uint64, int8..int64, wide.Value and any
// Typed implementation. Other struct-typed fields compile recursively into
// embedded layouts.
func Compile(goType reflect.Type) (*Layout, error) {
	if goType == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	if goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}

	if cached, ok := cache.Load(goType); ok {
		Logger().Debug("layout cache hit", zap.Stringer("type", goType))
		return cached.(*Layout), nil
	}

	l, err := compileStruct(goType, nil)
	if err != nil {
		Logger().Debug("layout compile failed", zap.Stringer("type", goType), zap.Error(err))
		return nil, err
	}

	actual, _ := cache.LoadOrStore(goType, l)
	return actual.(*Layout), nil
}

func compileStruct(goType reflect.Type, path []string) (*Layout, error) {
	if goType.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), "struct")
	}

	b := NewBuilder(goType.Name())
	if b.name == "" {
		b.name = goType.String()
	}

	for i := 0; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		fieldPath := append(append([]string(nil), path...), sf.Name)

		if opts, ok := sf.Tag.Lookup(tagContainer); ok {
			if sf.Type != emptyType {
				return nil, errors.TypeMismatch(errors.PhaseCompile, fieldPath, sf.Type.String(), "struct{}")
			}
			if err := applyContainer(b, opts, fieldPath); err != nil {
				return nil, err
			}
			continue
		}

		bits, ok := sf.Tag.Lookup(tagBits)
		if !ok {
			continue
		}
		lo, hi, err := parseRange(bits, fieldPath)
		if err != nil {
			return nil, err
		}
		desc := sf.Tag.Get(tagDesc)

		if sf.Type.Kind() == reflect.Struct && sf.Type != wideType && !sf.Type.Implements(typedType) {
			inner, err := compileNested(sf.Type, fieldPath)
			if err != nil {
				return nil, err
			}
			b.Embed(sf.Name, lo, hi, inner, desc)
			continue
		}

		t, err := typeFor(sf.Type, hi-lo+1, fieldPath)
		if err != nil {
			return nil, err
		}
		if o, ok := sf.Tag.Lookup(tagOrder); ok {
			order, err := parseByteOrder(o, fieldPath)
			if err != nil {
				return nil, err
			}
			t = t.WithOrder(order)
		}
		b.Field(sf.Name, lo, hi, t, desc)
	}

	l, err := b.Build()
	if err != nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidLayout).
			Path(path...).
			Layout(b.name).
			Cause(err).
			Detail("compile %s", goType).
			Build()
	}
	return l, nil
}

func compileNested(goType reflect.Type, path []string) (*Layout, error) {
	if cached, ok := cache.Load(goType); ok {
		return cached.(*Layout), nil
	}
	l, err := compileStruct(goType, path)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(goType, l)
	return actual.(*Layout), nil
}

func typeFor(t reflect.Type, width uint, path []string) (Type, error) {
	if t.Implements(typedType) {
		return reflect.Zero(t).Interface().(Typed).FieldType(), nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool, nil
	case reflect.Uint8:
		return U8, nil
	case reflect.Uint16:
		return U16, nil
	case reflect.Uint32:
		return U32, nil
	case reflect.Uint64, reflect.Uint:
		return U64, nil
	case reflect.Int8:
		return I8, nil
	case reflect.Int16:
		return I16, nil
	case reflect.Int32:
		return I32, nil
	case reflect.Int64, reflect.Int:
		return I64, nil
	}
	if t == wideType {
		return Uint(width), nil
	}
	return Type{}, errors.TypeMismatch(errors.PhaseCompile, path, t.String(),
		"bool, sized integer, wide.Value or struct")
}

func parseRange(tag string, path []string) (uint, uint, error) {
	loText, hiText, isRange := strings.Cut(tag, ":")
	lo, err := strconv.ParseUint(strings.TrimSpace(loText), 10, 0)
	if err != nil {
		return 0, 0, badTag(tagBits, tag, path, err)
	}
	if !isRange {
		return uint(lo), uint(lo), nil
	}
	hi, err := strconv.ParseUint(strings.TrimSpace(hiText), 10, 0)
	if err != nil {
		return 0, 0, badTag(tagBits, tag, path, err)
	}
	return uint(lo), uint(hi), nil
}

func applyContainer(b *Builder, opts string, path []string) error {
	for _, opt := range strings.Split(opts, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key, val, _ := strings.Cut(opt, "=")
		switch key {
		case "name":
			b.name = val
		case "width":
			w, err := strconv.ParseUint(val, 10, 0)
			if err != nil {
				return badTag(tagContainer, opt, path, err)
			}
			b.Width(uint(w))
		case "policy":
			p, err := ParsePolicy(val)
			if err != nil {
				return badTag(tagContainer, opt, path, err)
			}
			b.Policy(p)
		case "order":
			o, err := parseByteOrder(val, path)
			if err != nil {
				return err
			}
			b.ByteOrder(o)
		case "bitorder":
			o, err := ParseBitOrder(val)
			if err != nil {
				return badTag(tagContainer, opt, path, err)
			}
			b.BitOrder(o)
		default:
			return badTag(tagContainer, opt, path, nil)
		}
	}
	return nil
}

func parseByteOrder(s string, path []string) (ByteOrder, error) {
	o, err := ParseByteOrder(s)
	if err != nil {
		return 0, badTag(tagOrder, s, path, err)
	}
	return o, nil
}

// ParseByteOrder accepts big, little and native (or be, le, ne).
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(s) {
	case "big", "be":
		return BigEndian, nil
	case "little", "le":
		return LittleEndian, nil
	case "native", "ne", "":
		return Native, nil
	}
	return 0, errors.InvalidFormat(errors.PhaseParse, s, "byte order must be big, little or native")
}

// ParseBitOrder accepts lsb and msb.
func ParseBitOrder(s string) (BitOrder, error) {
	switch strings.ToLower(s) {
	case "lsb", "":
		return Bit0IsLsb, nil
	case "msb":
		return Bit0IsMsb, nil
	}
	return 0, errors.InvalidFormat(errors.PhaseParse, s, "bit order must be lsb or msb")
}

// ParsePolicy accepts preserve, zero and one.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "preserve", "any", "":
		return AnyPreserve, nil
	case "zero":
		return ForceZero, nil
	case "one":
		return ForceOne, nil
	}
	return 0, errors.InvalidFormat(errors.PhaseParse, s, "policy must be preserve, zero or one")
}

func badTag(tag, text string, path []string, cause error) error {
	return errors.New(errors.PhaseCompile, errors.KindInvalidFormat).
		Path(path...).
		Value(text).
		Cause(cause).
		Detail("bad %s tag", tag).
		Build()
}
