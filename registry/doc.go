// Package registry implements the bounded instance table and the
// per-instance host-function tables consulted during dispatch.
//
// # Handles
//
// A Handle is a small-integer slot index into a fixed-capacity table whose
// size is set once at construction. Allocation scans for a free slot;
// release clears it for reuse. The registry guarantees slot exclusivity:
// no two live handles ever share an index. It does not serialize release
// against an in-flight dispatch for the old occupant - that discipline
// belongs to the caller (the runtime closes the engine resource before
// releasing the slot, so no new guest call can reach a dying handle).
//
// # Locking
//
// One RWMutex guards the whole table. Structural operations (Allocate,
// Install, Bind, Release) take the write lock; Lookup and Resolve take the
// read lock, so dispatch resolution for different instances proceeds
// concurrently. Resolve returns the entry by pointer and callers invoke
// the callback only after the lock is dropped, which is what makes
// re-entrant dispatch deadlock-free.
//
// # Lifecycle Ordering
//
// Install runs once per handle, before the handle is exposed to any other
// caller; lock acquisition gives every later Resolve a happens-before edge
// to the install. Release tears down the host-function table and frees the
// slot in a single critical section, so no dispatch can observe a
// half-torn-down instance.
package registry
