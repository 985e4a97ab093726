package wasmbridge

// Memory is byte-level access to a guest's linear memory.
//
// Offsets and lengths are signed so that negative values coming from guest
// arithmetic are rejected on this side of the boundary instead of wrapping
// into huge unsigned offsets. Bounds checking against the actual memory
// size is the engine's job.
type Memory interface {
	Read(offset, length int32) ([]byte, error)
	Write(offset int32, data []byte) error
}
