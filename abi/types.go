package abi

import "fmt"

// ValType is the wire byte for one primitive value type.
type ValType byte

const (
	I32 ValType = 0
	I64 ValType = 1
	F32 ValType = 2
	// 3 is unused in the wire encoding, kept free for compatibility.
	F64 ValType = 4
)

// NoReturn is the sentinel byte denoting "no return value" in an encoded
// signature.
const NoReturn byte = 0xFF

func (v ValType) String() string {
	switch v {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	}
	return fmt.Sprintf("valtype(%d)", byte(v))
}

// Valid reports whether v is one of the four primitive kinds.
func (v ValType) Valid() bool {
	switch v {
	case I32, I64, F32, F64:
		return true
	}
	return false
}
