package engine

import "context"

// ResourceID identifies one native engine instance. It is meaningful only
// to the engine that issued it; the bridge treats it as opaque.
type ResourceID uint64

// HostDescriptor describes one host function the guest may import: its
// qualified name and the wire-encoded signature (abi.EncodeSignature).
type HostDescriptor struct {
	Module    string
	Field     string
	Signature []byte
}

// Dispatcher routes a guest-initiated import call back to the registered
// host function. The engine invokes it synchronously, on the goroutine
// running Execute, while the guest is suspended mid-call. An error return
// aborts the in-flight guest invocation as a trap.
type Dispatcher interface {
	OnHostFunction(ctx context.Context, handle uint32, module, field string, args []uint64) ([]uint64, error)
}

// Engine is the execution engine boundary. Implementations must be safe
// for concurrent use across distinct resource IDs; operations on one
// resource are not required to be concurrency-safe with each other.
type Engine interface {
	// CreateInstance compiles and instantiates module bytes. The handle is
	// echoed back on every host-function dispatch for this instance, and
	// hosts lists the importable functions in registration order. The
	// module's start section (unless suppressed via options) runs during
	// this call, so dispatches can arrive before CreateInstance returns.
	CreateInstance(ctx context.Context, module []byte, options uint64, handle uint32, hosts []HostDescriptor) (ResourceID, error)

	// Execute invokes an exported function. Argument count is validated
	// against the export's declared signature.
	Execute(ctx context.Context, rid ResourceID, export string, args []uint64) ([]uint64, error)

	// ReadMemory copies length bytes at offset out of the instance's
	// exported linear memory. Bounds are checked against the actual
	// memory size.
	ReadMemory(rid ResourceID, offset, length uint32) ([]byte, error)

	// WriteMemory copies data into linear memory at offset.
	WriteMemory(rid ResourceID, offset uint32, data []byte) error

	// CloseInstance releases the native resources of one instance. It is
	// idempotent: closing an unknown or already-closed resource is a no-op.
	CloseInstance(ctx context.Context, rid ResourceID) error

	// Close releases the engine and any instances still open.
	Close(ctx context.Context) error
}
