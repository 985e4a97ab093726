package runtime

import (
	wasmbridge "github.com/wippyai/wasm-bridge"
	"github.com/wippyai/wasm-bridge/errors"
)

// Memory reads and writes the instance's exported linear memory. Offsets
// and lengths are signed; negative values are rejected before reaching
// the engine.
type Memory struct {
	ins *Instance
}

var _ wasmbridge.Memory = (*Memory)(nil)

// Read copies length bytes starting at offset out of guest memory. The
// returned slice is a copy and stays valid after the guest runs again.
func (m *Memory) Read(offset, length int32) ([]byte, error) {
	if offset < 0 || length < 0 {
		return nil, errors.InvalidRange(offset, length)
	}
	if m.ins.closed {
		return nil, errors.UnknownInstance(errors.PhaseMemory, int(m.ins.handle))
	}
	return m.ins.rt.engine.ReadMemory(m.ins.rid, uint32(offset), uint32(length))
}

// Write copies data into guest memory starting at offset.
func (m *Memory) Write(offset int32, data []byte) error {
	if offset < 0 {
		return errors.InvalidRange(offset, int32(len(data)))
	}
	if m.ins.closed {
		return errors.UnknownInstance(errors.PhaseMemory, int(m.ins.handle))
	}
	return m.ins.rt.engine.WriteMemory(m.ins.rid, uint32(offset), data)
}
