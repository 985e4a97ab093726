package registry

import "context"

// Callback is the stored form of a host function: the runtime wraps the
// user-facing capability into a closure over the instance façade, so the
// registry stays free of instance-level types.
type Callback func(ctx context.Context, args []uint64) ([]uint64, error)

// Entry is one registered host function for one instance.
type Entry struct {
	Module    string // qualifying namespace, e.g. "env"
	Field     string // name within the namespace
	Signature []byte // wire-encoded signature (abi.EncodeSignature)
	Fn        Callback
}

// Identity returns the qualified name used as the dispatch key.
func (e *Entry) Identity() string {
	return Identity(e.Module, e.Field)
}

// Identity joins a namespace and field into the dispatch key form.
func Identity(module, field string) string {
	return module + "." + field
}

// newTable builds the per-slot identity map, rejecting duplicates.
func newTable(entries []Entry) (map[string]*Entry, string) {
	table := make(map[string]*Entry, len(entries))
	for i := range entries {
		e := entries[i]
		id := e.Identity()
		if _, dup := table[id]; dup {
			return nil, id
		}
		table[id] = &e
	}
	return table, ""
}
