package abi

import (
	"fmt"

	"github.com/wippyai/wasm-bridge/errors"
)

// EncodeSignature produces the wire form of a host-function signature:
// byte 0 is the return type or NoReturn, bytes 1..N the parameter types in
// order. It is pure and deterministic.
//
// Encoding fails when more than one return value is requested or when a
// type is not one of the four primitive kinds.
func EncodeSignature(params []ValType, results []ValType) ([]byte, error) {
	if len(results) > 1 {
		return nil, errors.UnsupportedSignature(
			fmt.Sprintf("%d return values requested, the engine calling convention supports at most one", len(results)))
	}

	sig := make([]byte, 1+len(params))

	if len(results) == 0 {
		sig[0] = NoReturn
	} else {
		if !results[0].Valid() {
			return nil, errors.UnsupportedSignature(fmt.Sprintf("invalid return type byte %d", byte(results[0])))
		}
		sig[0] = byte(results[0])
	}

	for i, p := range params {
		if !p.Valid() {
			return nil, errors.UnsupportedSignature(fmt.Sprintf("invalid parameter type byte %d at index %d", byte(p), i))
		}
		sig[i+1] = byte(p)
	}

	return sig, nil
}

// DecodeSignature is the inverse of EncodeSignature. The engine uses it to
// reconstruct the import's type from the wire bytes.
func DecodeSignature(sig []byte) (params []ValType, results []ValType, err error) {
	if len(sig) == 0 {
		return nil, nil, errors.UnsupportedSignature("empty signature")
	}

	if sig[0] != NoReturn {
		r := ValType(sig[0])
		if !r.Valid() {
			return nil, nil, errors.UnsupportedSignature(fmt.Sprintf("invalid return type byte %d", sig[0]))
		}
		results = []ValType{r}
	}

	if len(sig) > 1 {
		params = make([]ValType, len(sig)-1)
		for i, b := range sig[1:] {
			p := ValType(b)
			if !p.Valid() {
				return nil, nil, errors.UnsupportedSignature(fmt.Sprintf("invalid parameter type byte %d at index %d", b, i))
			}
			params[i] = p
		}
	}

	return params, results, nil
}
