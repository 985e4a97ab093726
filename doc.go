// Package wasmbridge provides an embedding bridge between Go callers and a
// WebAssembly execution engine.
//
// The bridge lets an embedder create module instances, invoke exported
// functions, read and write guest linear memory, and receive synchronous
// callbacks when the guest calls an imported host function. The engine
// itself (parsing, validation, compilation, execution) sits behind the
// engine.Engine interface; the production implementation runs on wazero.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	wasmbridge/      Root package with the shared Memory interface
//	├── runtime/     High-level API: Runtime, Instance, host functions
//	├── engine/      Engine boundary, option flags, wazero implementation
//	├── registry/    Bounded instance registry and host-function tables
//	├── abi/         Value types and the signature wire codec
//	├── errors/      Structured error types for debugging
//	└── wasm/        Core binary helpers: LEB128, module builder, patches
//
// # Quick Start
//
// Instantiate a module with one host function and call an export:
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	alert := &runtime.Func{
//	    FieldName:  "alert",
//	    ParamTypes: []abi.ValType{abi.I64},
//	    Fn: func(ctx context.Context, ins *runtime.Instance, args []uint64) ([]uint64, error) {
//	        fmt.Println("guest says:", int64(args[0]))
//	        return nil, nil
//	    },
//	}
//
//	ins, err := rt.Instantiate(ctx, wasmBytes, engine.NewOptions(), []runtime.HostFunction{alert})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ins.Close(ctx)
//
//	results, err := ins.Execute(ctx, "init", []uint64{1, 2})
//
// # Value Representation
//
// Every value crossing the boundary is a uint64. 32-bit and 64-bit floats
// travel as their raw bit patterns; the signature registered for a function
// tells the engine how to reinterpret each slot. The abi package provides
// the conversion helpers.
//
// # Thread Safety
//
// Runtime and the registry it owns are safe for concurrent use. An
// Instance is NOT safe for concurrent use by multiple goroutines; callback
// reentrancy (a host function calling back into the same instance during
// one Execute) is single-threaded re-entry and is supported.
package wasmbridge
