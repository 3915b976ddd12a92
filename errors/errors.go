package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout  Phase = "layout"  // size/offset lookup
	PhaseAlloc   Phase = "alloc"   // acquiring a block
	PhaseDecode  Phase = "decode"  // foreign bytes to Go
	PhaseEncode  Phase = "encode"  // Go to foreign bytes
	PhaseRelease Phase = "release" // returning a block
	PhaseLoad    Phase = "load"    // backend setup
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation   Kind = "allocation"
	KindNotFound     Kind = "not_found"
	KindOwnership    Kind = "ownership"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindCorrupted    Kind = "corrupted"
	KindOverflow     Kind = "overflow"
	KindInvalidInput Kind = "invalid_input"
	KindUnsupported  Kind = "unsupported"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
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

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
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

// Is reports whether target matches this error.
// An empty target Phase matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
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

// Type sets the structure name
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

// AllocationFailed creates an allocation failure error
func AllocationFailed(size, align uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// FieldNotFound creates a lookup error for a field the structure does not declare
func FieldNotFound(typeName, field string) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindNotFound,
		Type:   typeName,
		Path:   []string{field},
		Detail: fmt.Sprintf("no field %q", field),
		Value:  field,
	}
}

// Released creates an ownership error for a block used after release
func Released(phase Phase, typeName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOwnership,
		Type:   typeName,
		Detail: "block already released",
	}
}

// ForeignBlock creates an ownership error for a block owned by another manager
func ForeignBlock(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOwnership,
		Detail: "block not obtained from this manager",
	}
}

// OutOfBounds creates a length assertion error
func OutOfBounds(phase Phase, typeName string, need, have uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Type:   typeName,
		Detail: fmt.Sprintf("need %d bytes, block holds %d", need, have),
		Value:  need,
	}
}

// Corrupted creates an error for a guard region overwritten past a block's end
func Corrupted(addr uintptr, size uint32) *Error {
	return &Error{
		Phase:  PhaseRelease,
		Kind:   KindCorrupted,
		Detail: fmt.Sprintf("guard after block 0x%x (+%d bytes) overwritten", addr, size),
		Value:  addr,
	}
}

// Overflow creates an overflow error for a size computation
func Overflow(phase Phase, typeName string, size uint32, count int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Type:   typeName,
		Detail: fmt.Sprintf("%d elements of %d bytes overflow the allocation limit", count, size),
		Value:  count,
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

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Load creates a backend setup error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}
