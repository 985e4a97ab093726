package registry

import (
	"sync"

	"github.com/wippyai/wasm-bridge/errors"
)

// DefaultCapacity is the slot count used when none is configured.
const DefaultCapacity = 1024

// Handle is the opaque slot index identifying one live instance.
type Handle uint32

type slot struct {
	table    map[string]*Entry
	resource uint64
	live     bool
	bound    bool
}

// Registry is the fixed-capacity instance table. All methods are safe for
// concurrent use; see the package documentation for the locking rules.
type Registry struct {
	mu    sync.RWMutex
	slots []slot
}

// New creates a registry with the given capacity. Non-positive capacities
// fall back to DefaultCapacity. The capacity is immutable afterwards.
func New(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{slots: make([]slot, capacity)}
}

// Capacity returns the fixed slot count.
func (r *Registry) Capacity() int {
	return len(r.slots)
}

// Live returns the number of slots currently in use.
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for i := range r.slots {
		if r.slots[i].live {
			n++
		}
	}
	return n
}

// Allocate reserves a free slot and returns its handle. It fails with a
// capacity-exhausted error when every slot is live.
func (r *Registry) Allocate() (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if !r.slots[i].live {
			r.slots[i] = slot{live: true}
			return Handle(i), nil
		}
	}
	return 0, errors.CapacityExhausted(len(r.slots))
}

// Install records the host-function table for h. It is called once, at
// instance-creation time, before the handle escapes to any other caller.
func (r *Registry) Install(h Handle, entries []Entry) error {
	table, dup := newTable(entries)
	if dup != "" {
		return errors.DuplicateIdentity(dup)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.slot(h)
	if s == nil || !s.live {
		return errors.UnknownInstance(errors.PhaseCreate, int(h))
	}
	s.table = table
	return nil
}

// Bind records the native resource identifier once the engine has
// instantiated the module for h.
func (r *Registry) Bind(h Handle, resource uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.slot(h)
	if s == nil || !s.live {
		return errors.UnknownInstance(errors.PhaseCreate, int(h))
	}
	s.resource = resource
	s.bound = true
	return nil
}

// Lookup returns the native resource bound to h.
func (r *Registry) Lookup(h Handle) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.slot(h)
	if s == nil || !s.live || !s.bound {
		return 0, false
	}
	return s.resource, true
}

// Resolve finds the host function registered for h under module.field.
// It holds only the read lock; the returned entry remains valid after the
// lock is dropped, and callers must invoke the callback without any
// registry lock held.
func (r *Registry) Resolve(h Handle, module, field string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.slot(h)
	if s == nil || !s.live {
		return nil, errors.UnknownInstance(errors.PhaseDispatch, int(h))
	}
	e, ok := s.table[Identity(module, field)]
	if !ok {
		return nil, errors.UnknownHostFunction(int(h), Identity(module, field))
	}
	return e, nil
}

// Release tears down the host-function table and frees the slot in one
// critical section, making the index available to a future Allocate.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.slot(h)
	if s == nil || !s.live {
		return errors.UnknownInstance(errors.PhaseClose, int(h))
	}
	*s = slot{}
	return nil
}

// slot returns the slot for h, or nil when h is out of range. Callers hold
// the lock.
func (r *Registry) slot(h Handle) *slot {
	if int(h) >= len(r.slots) {
		return nil
	}
	return &r.slots[h]
}
