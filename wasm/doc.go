// Package wasm provides minimal core-binary helpers: LEB128 codecs, a
// programmatic module builder, and targeted binary patches.
//
// This is not a decoder or validator; the engine owns those concerns. The
// package covers exactly what the bridge needs:
//
//   - ModuleBuilder emits small core modules (types, imports, functions,
//     memory, exports, start, code) used as test fixtures and CLI demos.
//   - StripStartSection and EnsureMemoryExport rewrite a binary before
//     compilation, implementing the start-section-suppression and
//     forced-memory-export option flags.
//   - Exports and ExportedFunctions enumerate a binary's export entries
//     (the latter with resolved signatures) so tooling can list callable
//     functions without instantiating.
//
// All functions treat the input as opaque except for the section framing
// they need; unknown and custom sections pass through untouched.
package wasm
