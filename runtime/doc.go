// Package runtime is the high-level bridge API: create instances, execute
// exports, access guest memory, and register host functions.
//
// # Runtime
//
// A Runtime owns the engine and the bounded instance registry. It is safe
// for concurrent use; distinct instances can be created, executed and
// closed from different goroutines.
//
//	rt, err := runtime.New(ctx)
//	defer rt.Close(ctx)
//
//	ins, err := rt.Instantiate(ctx, wasmBytes, engine.NewOptions(), hosts)
//	defer ins.Close(ctx)
//
//	results, err := ins.Execute(ctx, "add", []uint64{40, 2})
//
// # Host Functions
//
// A HostFunction is a capability the guest imports and calls. Registration
// happens at instance creation: identities (module.field) must be unique
// within the instance, and every signature is wire-encoded and handed to
// the engine, so the guest's import types are checked at link time.
//
// During a guest call, the engine suspends the guest and routes the import
// through the Runtime's dispatch path: the registered entry is resolved
// under a read lock, then invoked with no lock held. The callback may
// re-enter the same instance (read or write memory, execute another
// export); that re-entry is synchronous, on the same goroutine, and is
// fully supported. What is NOT supported is sharing one Instance between
// goroutines without external synchronization.
//
// # Lifecycle
//
// Close releases the engine resources, tears down the host-function table
// and frees the registry slot, in that order, so a dispatch can never
// observe a half-closed instance. Closing an instance twice is a caller
// error and reports an unknown instance.
package runtime
