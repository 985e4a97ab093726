package runtime

import (
	"context"

	"github.com/wippyai/wasm-bridge/abi"
)

// HostFunction is a capability the guest module imports and calls.
//
// Call receives the instance the guest call arrived on, so the callback
// can read guest memory or execute another export mid-call. Arguments and
// results use the uniform uint64 representation; the declared Params and
// Results tell the engine how to reinterpret each slot. At most one result
// is supported.
type HostFunction interface {
	// Module returns the qualifying namespace, e.g. "env".
	Module() string

	// Name returns the field name, unique within the namespace for one
	// instance.
	Name() string

	Params() []abi.ValType
	Results() []abi.ValType

	Call(ctx context.Context, ins *Instance, args []uint64) ([]uint64, error)
}

// Func adapts a closure to HostFunction. The zero ModuleName defaults to
// "env", the conventional namespace for embedder-provided imports.
type Func struct {
	Fn          func(ctx context.Context, ins *Instance, args []uint64) ([]uint64, error)
	ModuleName  string
	FieldName   string
	ParamTypes  []abi.ValType
	ResultTypes []abi.ValType
}

func (f *Func) Module() string {
	if f.ModuleName == "" {
		return "env"
	}
	return f.ModuleName
}

func (f *Func) Name() string {
	return f.FieldName
}

func (f *Func) Params() []abi.ValType {
	return f.ParamTypes
}

func (f *Func) Results() []abi.ValType {
	return f.ResultTypes
}

func (f *Func) Call(ctx context.Context, ins *Instance, args []uint64) ([]uint64, error) {
	return f.Fn(ctx, ins, args)
}
