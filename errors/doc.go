// Package errors provides structured error types for the native bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the structure name, field path, offending value and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
//		Type("cs_insn").
//		Detail("block holds %d bytes, need %d", 240, 248).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldNotFound("cs_insn", "opstr")
//	err := errors.AllocationFailed(248, 8)
//
// All errors implement the standard error interface and support errors.Is/As.
// A target with an empty Phase matches errors of its Kind in any phase.
package errors
