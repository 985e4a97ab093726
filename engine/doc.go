// Package engine defines the boundary to the WebAssembly execution engine
// and provides the wazero-backed production implementation.
//
// The bridge core (registry, dispatch, façade) talks to the engine only
// through the Engine interface, which mirrors the five native operations:
// create an instance from module bytes plus host-function descriptors,
// execute an export, read/write linear memory, and close. The callback
// direction is the Dispatcher interface: while an Execute call is running,
// the engine invokes OnHostFunction synchronously on the same goroutine
// whenever the guest calls an imported function.
//
// Options collects named engine feature toggles into a single bitmask,
// consumed once at instance creation. The bridge does not interpret the
// flags beyond forwarding them; conflicts and unsupported combinations are
// the engine's concern.
//
// WazeroEngine gives every instance its own wazero runtime, so each
// instance's host module namespace ("env" and friends) is isolated and
// instances never share compiled state. All values cross the boundary as
// uint64 slots, which is wazero's native calling convention.
package engine
