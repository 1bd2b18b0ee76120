// Package errors provides structured error types for the bitfield library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the layout and field path involved, the declared type name,
// and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindOutOfRange).
//		Layout("ipv4").
//		Path("flags", "df").
//		Type("bool").
//		Detail("bits %d..%d exceed container width %d", 200, 200, 160).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SizeViolation(errors.PhaseView, "udp", 8, 4)
//	err := errors.Overflow(errors.PhaseParse, "0x1FF", "u8")
//
// Sentinels such as ErrDivideByZero and ErrSizeViolation match any error of the same
// Phase and Kind through the standard errors.Is.
package errors
