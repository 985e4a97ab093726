// Package abi defines the value model and signature wire format shared
// between the bridge and the engine.
//
// # Value Types
//
// Four primitive kinds cross the boundary: 32/64-bit integers and 32/64-bit
// floats. Their wire bytes are fixed for compatibility with existing
// engines:
//
//	I32 = 0
//	I64 = 1
//	F32 = 2
//	F64 = 4
//
// Byte 3 is intentionally unused in this encoding; do not reassign it.
//
// # Signatures
//
// A host function's signature is encoded as a fixed-layout byte sequence:
// byte 0 is the return type, or the NoReturn sentinel (0xFF) when the
// function returns nothing; bytes 1..N are the parameter types in order.
// At most one return value is supported by the engine's calling
// convention; EncodeSignature rejects more.
//
// # Uniform Value Representation
//
// Every argument and return value crosses the boundary as a uint64. Floats
// travel as their raw bit patterns; the signature tells the engine how to
// reinterpret each slot. Encode/Decode helpers convert between Go values
// and their boundary representation.
package abi
