package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc     Phase = "alloc"     // heap allocation
	PhaseFree      Phase = "free"      // heap release
	PhaseAccess    Phase = "access"    // reads and writes through a pointer
	PhaseOwnership Phase = "ownership" // handle table operations
	PhaseRuntime   Phase = "runtime"   // wazero runtime setup
	PhaseTypeCheck Phase = "typecheck" // static checking of snippets
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfMemory       Kind = "out_of_memory"
	KindDoubleFree        Kind = "double_free"
	KindInvalidPointer    Kind = "invalid_pointer"
	KindDangling          Kind = "dangling"
	KindNilPointer        Kind = "nil_pointer"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindInvalidHandle     Kind = "invalid_handle"
	KindOutstandingBorrow Kind = "outstanding_borrow"
	KindClosed            Kind = "closed"
	KindInvalidInput      Kind = "invalid_input"
	KindTypeMismatch      Kind = "type_mismatch"
	KindInstantiation     Kind = "instantiation"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
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

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
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

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
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

// OutOfMemory creates an allocation failure error
func OutOfMemory(size, align uint32) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Value:  size,
	}
}

// DoubleFree creates an error for releasing a block that was already released
func DoubleFree(ptr uint32) *Error {
	return &Error{
		Phase:  PhaseFree,
		Kind:   KindDoubleFree,
		Detail: fmt.Sprintf("block 0x%08x already released", ptr),
		Value:  ptr,
	}
}

// InvalidPointer creates an error for an address that was never allocated
func InvalidPointer(phase Phase, ptr uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidPointer,
		Detail: fmt.Sprintf("0x%08x is not the start of a live block", ptr),
		Value:  ptr,
	}
}

// Dangling creates an error for access through a pointer to released memory
func Dangling(ptr uint32) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindDangling,
		Detail: fmt.Sprintf("0x%08x points into released memory", ptr),
		Value:  ptr,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, ptr, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("%d bytes at 0x%08x outside any live block", length, ptr),
		Value:  ptr,
	}
}

// InvalidHandle creates an error for an unknown or released table handle
func InvalidHandle(handle uint32) *Error {
	return &Error{
		Phase:  PhaseOwnership,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("handle %d is not live", handle),
		Value:  handle,
	}
}

// OutstandingBorrow creates an error for dropping a borrowed handle
func OutstandingBorrow(handle, borrows uint32) *Error {
	return &Error{
		Phase:  PhaseOwnership,
		Kind:   KindOutstandingBorrow,
		Detail: fmt.Sprintf("handle %d has %d outstanding borrow(s)", handle, borrows),
		Value:  handle,
	}
}

// Closed creates an error for operations on a closed heap or table
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Detail: detail,
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

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate heap module",
		Cause:  cause,
	}
}
