// Package errors provides structured error types for the wasm-bridge
// library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category), and carry enough context to diagnose a failure without
// inspecting internals: the instance handle, the host-function identity, or
// the offending offset/length.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.UnknownInstance(errors.PhaseDispatch, handle)
//	err := errors.InvalidRange(offset, length)
//
// All errors implement the standard error interface and support
// errors.Is/As. Two *Error values match when Phase and Kind agree, so
// sentinel comparisons look like:
//
//	if errors.Is(err, errors.CapacityExhausted(0)) { ... }
//
// Every failure in this layer is a deterministic precondition violation;
// nothing here is transient and nothing is ever retried.
package errors
