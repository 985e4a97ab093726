package abi

import "math"

// Conversions between Go values and their uniform uint64 boundary
// representation. These mirror the engine's conventions: integers are
// reinterpreted bit-for-bit, floats travel as raw bit patterns.

func EncodeI32(v int32) uint64 {
	return uint64(uint32(v))
}

func DecodeI32(v uint64) int32 {
	return int32(uint32(v))
}

func EncodeI64(v int64) uint64 {
	return uint64(v)
}

func DecodeI64(v uint64) int64 {
	return int64(v)
}

func EncodeF32(v float32) uint64 {
	return uint64(math.Float32bits(v))
}

func DecodeF32(v uint64) float32 {
	return math.Float32frombits(uint32(v))
}

func EncodeF64(v float64) uint64 {
	return math.Float64bits(v)
}

func DecodeF64(v uint64) float64 {
	return math.Float64frombits(v)
}
