package runtime

import (
	"context"

	"github.com/wippyai/wasm-bridge/engine"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/registry"
)

// Instance is a live module instance. It is not safe for unsynchronized
// use from multiple goroutines; distinct instances are independent.
type Instance struct {
	rt     *Runtime
	handle registry.Handle
	rid    engine.ResourceID
	mem    *Memory
	closed bool
}

// Handle returns the registry slot index backing this instance. Handles
// are recycled after Close.
func (i *Instance) Handle() uint32 {
	return uint32(i.handle)
}

// Execute calls an exported function with arguments in the uniform uint64
// representation and returns the results the same way.
func (i *Instance) Execute(ctx context.Context, export string, args []uint64) ([]uint64, error) {
	if i.closed {
		return nil, errors.UnknownInstance(errors.PhaseExecute, int(i.handle))
	}
	return i.rt.engine.Execute(ctx, i.rid, export, args)
}

// Memory returns the accessor for the instance's exported linear memory.
func (i *Instance) Memory() *Memory {
	return i.mem
}

// Close tears down the engine resources and frees the registry slot. The
// slot is released last, so a dispatch racing the close still resolves or
// fails cleanly. Closing twice reports an unknown instance.
func (i *Instance) Close(ctx context.Context) error {
	if i.closed {
		return errors.UnknownInstance(errors.PhaseClose, int(i.handle))
	}
	i.closed = true

	err := i.rt.engine.CloseInstance(ctx, i.rid)
	if rerr := i.rt.reg.Release(i.handle); err == nil {
		err = rerr
	}
	return err
}
