// Package errors provides structured error types for the heap and handle
// table packages.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the offending value, an optional Go type
// name, a dotted path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAccess, errors.KindDangling).
//		Value(ptr).
//		Detail("read of %d bytes after free", 4).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DoubleFree(ptr)
//	err := errors.OutOfMemory(size, align)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two errors match under errors.Is when their Phase and Kind are equal.
package errors
