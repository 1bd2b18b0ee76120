package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout  Phase = "layout"  // layout construction and validation
	PhaseCompile Phase = "compile" // struct tag compilation
	PhaseAccess  Phase = "access"  // field reads and writes on owned storage
	PhaseArith   Phase = "arith"   // multi-word arithmetic
	PhaseView    Phase = "view"    // zero-copy views over borrowed buffers
	PhaseParse   Phase = "parse"   // text parsing
	PhaseMemory  Phase = "memory"  // buffer and guest memory access
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidLayout  Kind = "invalid_layout"
	KindOutOfRange     Kind = "out_of_range"
	KindZeroWidth      Kind = "zero_width"
	KindDuplicateField Kind = "duplicate_field"
	KindTypeMismatch   Kind = "type_mismatch"
	KindWidthMismatch  Kind = "width_mismatch"
	KindSizeViolation  Kind = "size_violation"
	KindDivideByZero   Kind = "divide_by_zero"
	KindInvalidFormat  Kind = "invalid_format"
	KindOverflow       Kind = "overflow"
	KindNotFound       Kind = "not_found"
	KindUnsupported    Kind = "unsupported"
	KindNilPointer     Kind = "nil_pointer"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindAllocFailed    Kind = "alloc_failed"
)

// Sentinels for errors.Is. They match any *Error with the same Phase and Kind.
var (
	ErrInvalidLayout = &Error{Phase: PhaseLayout, Kind: KindInvalidLayout}
	ErrSizeViolation = &Error{Phase: PhaseView, Kind: KindSizeViolation}
	ErrDivideByZero  = &Error{Phase: PhaseArith, Kind: KindDivideByZero}
	ErrInvalidFormat = &Error{Phase: PhaseParse, Kind: KindInvalidFormat}
	ErrOverflow      = &Error{Phase: PhaseParse, Kind: KindOverflow}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Layout string
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Layout != "" || e.Type != "" {
		b.WriteString(": ")
		if e.Layout != "" && e.Type != "" {
			b.WriteString("layout ")
			b.WriteString(e.Layout)
			b.WriteString(", type ")
			b.WriteString(e.Type)
		} else if e.Layout != "" {
			b.WriteString("layout ")
			b.WriteString(e.Layout)
		} else {
			b.WriteString("type ")
			b.WriteString(e.Type)
		}
	}

	if e.Detail != "" {
		if e.Layout != "" || e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Layout sets the layout name
func (b *Builder) Layout(name string) *Builder {
	b.err.Layout = name
	return b
}

// Type sets the declared type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfRange creates an error for a field whose bit range leaves its container
func OutOfRange(phase Phase, layout string, path []string, end, width uint) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Layout: layout,
		Path:   path,
		Detail: fmt.Sprintf("field ends at bit %d, container width is %d", end, width),
		Value:  end,
	}
}

// ZeroWidth creates an error for an empty or inverted bit range
func ZeroWidth(phase Phase, layout string, path []string, lo, hi uint) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindZeroWidth,
		Layout: layout,
		Path:   path,
		Detail: fmt.Sprintf("bit range %d..%d is empty", lo, hi),
	}
}

// DuplicateField creates an error for a field name declared twice
func DuplicateField(phase Phase, layout, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateField,
		Layout: layout,
		Path:   []string{name},
		Detail: fmt.Sprintf("field %q declared more than once", name),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   got,
		Detail: fmt.Sprintf("expected %s", want),
	}
}

// WidthMismatch creates an error for operands of different bit widths
func WidthMismatch(phase Phase, a, b uint) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWidthMismatch,
		Detail: fmt.Sprintf("operand widths differ: %d and %d bits", a, b),
	}
}

// SizeViolation creates an error for a buffer too short to hold a layout
func SizeViolation(phase Phase, layout string, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSizeViolation,
		Layout: layout,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
		Value:  have,
	}
}

// DivideByZero creates a division by zero error
func DivideByZero(bits uint) *Error {
	return &Error{
		Phase:  PhaseArith,
		Kind:   KindDivideByZero,
		Type:   fmt.Sprintf("u%d", bits),
		Detail: "division by zero",
	}
}

// InvalidFormat creates a malformed text error
func InvalidFormat(phase Phase, text, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidFormat,
		Detail: fmt.Sprintf("%q: %s", text, detail),
		Value:  text,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Type:   targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, layout, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Layout: layout,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Unsupported creates an unsupported feature error
func Unsupported(phase Phase, feature string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: fmt.Sprintf("%s not supported", feature),
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Type:   what,
		Detail: "nil pointer",
	}
}

// OutOfBounds creates an out of bounds error for buffer access
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) outside buffer of %d bytes", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
