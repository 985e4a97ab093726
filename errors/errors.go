package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // signature encoding
	PhaseCreate   Phase = "create"   // instance creation
	PhaseExecute  Phase = "execute"  // exported function call
	PhaseDispatch Phase = "dispatch" // host-function routing
	PhaseMemory   Phase = "memory"   // linear memory access
	PhaseClose    Phase = "close"    // instance teardown
)

// Kind categorizes the error
type Kind string

const (
	KindCapacityExhausted    Kind = "capacity_exhausted"
	KindDuplicateIdentity    Kind = "duplicate_identity"
	KindUnknownInstance      Kind = "unknown_instance"
	KindUnknownHostFunction  Kind = "unknown_host_function"
	KindUnsupportedSignature Kind = "unsupported_signature"
	KindInvalidRange         Kind = "invalid_range"
	KindUnknownExport        Kind = "unknown_export"
	KindArityMismatch        Kind = "arity_mismatch"
	KindExecutionTrap        Kind = "execution_trap"
	KindUnsupported          Kind = "unsupported"
	KindEngine               Kind = "engine"
)

// Error is the structured error type used throughout the bridge.
//
// Handle is the instance handle the error relates to, or -1 when the error
// is not tied to a particular instance. Identity is the qualified
// host-function name ("module.field") or export name, when relevant.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Identity string
	Detail   string
	Handle   int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Identity != "" {
		b.WriteString(": ")
		b.WriteString(e.Identity)
	}

	if e.Detail != "" {
		if e.Identity != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Handle >= 0 {
		fmt.Fprintf(&b, " (handle %d)", e.Handle)
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

// Is reports whether target matches this error. Two *Error values match
// when Phase and Kind agree, so constructors double as sentinels.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for the bridge error taxonomy

// CapacityExhausted is returned when the instance registry has no free slot.
func CapacityExhausted(capacity int) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindCapacityExhausted,
		Detail: fmt.Sprintf("all %d instance slots in use, close idle instances before creating more", capacity),
		Handle: -1,
	}
}

// DuplicateIdentity is returned when two host functions share a qualified
// name within one instance.
func DuplicateIdentity(identity string) *Error {
	return &Error{
		Phase:    PhaseCreate,
		Kind:     KindDuplicateIdentity,
		Identity: identity,
		Detail:   "host function registered twice",
		Handle:   -1,
	}
}

// UnknownInstance is returned when a handle is stale or was never allocated.
func UnknownInstance(phase Phase, handle int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownInstance,
		Detail: "no live instance for handle",
		Handle: handle,
	}
}

// UnknownHostFunction is returned when dispatch cannot resolve an identity
// registered for the handle.
func UnknownHostFunction(handle int, identity string) *Error {
	return &Error{
		Phase:    PhaseDispatch,
		Kind:     KindUnknownHostFunction,
		Identity: identity,
		Detail:   "host function not registered for instance",
		Handle:   handle,
	}
}

// UnsupportedSignature is returned when a signature cannot be expressed in
// the wire format, e.g. more than one return value.
func UnsupportedSignature(detail string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnsupportedSignature,
		Detail: detail,
		Handle: -1,
	}
}

// InvalidRange is returned for negative memory offsets or lengths, before
// the engine is contacted.
func InvalidRange(offset, length int32) *Error {
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindInvalidRange,
		Detail: fmt.Sprintf("offset %d length %d must not be negative", offset, length),
		Handle: -1,
	}
}

// UnknownExport is returned when the named function is not exported by the
// guest module.
func UnknownExport(name string) *Error {
	return &Error{
		Phase:    PhaseExecute,
		Kind:     KindUnknownExport,
		Identity: name,
		Detail:   "function not exported by module",
		Handle:   -1,
	}
}

// ArityMismatch is returned when the argument count disagrees with the
// export's declared signature.
func ArityMismatch(export string, want, got int) *Error {
	return &Error{
		Phase:    PhaseExecute,
		Kind:     KindArityMismatch,
		Identity: export,
		Detail:   fmt.Sprintf("export takes %d arguments, got %d", want, got),
		Handle:   -1,
	}
}

// ExecutionTrap wraps a guest trap surfaced by the engine.
func ExecutionTrap(export string, cause error) *Error {
	return &Error{
		Phase:    PhaseExecute,
		Kind:     KindExecutionTrap,
		Identity: export,
		Detail:   "guest trapped",
		Cause:    cause,
		Handle:   -1,
	}
}

// Unsupported is returned for features the engine cannot provide.
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
		Handle: -1,
	}
}

// Engine wraps an engine-reported failure with bridge context.
func Engine(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEngine,
		Detail: detail,
		Cause:  cause,
		Handle: -1,
	}
}
