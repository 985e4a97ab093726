package wasm

// ModuleBuilder assembles a small core module section by section. It is a
// fixture and tooling aid, not a general-purpose emitter: declare every
// import before the first AddFunc call so function indices line up with
// the final index space.
type ModuleBuilder struct {
	types    [][]byte // encoded functype entries
	imports  [][]byte // encoded import entries
	funcs    []uint32 // type index per defined function
	bodies   [][]byte // code entries, already size-prefixed
	memories [][]byte // encoded limits
	exports  [][]byte // encoded export entries
	start    *uint32

	numImportedFuncs uint32
}

func NewModuleBuilder() *ModuleBuilder {
	return &ModuleBuilder{}
}

// AddType declares a function type and returns its index. Param and result
// bytes use the binary-format value types (TypeI32 etc).
func (b *ModuleBuilder) AddType(params, results []byte) uint32 {
	var e []byte
	e = append(e, FuncTypeForm)
	e = AppendUint32(e, uint32(len(params)))
	e = append(e, params...)
	e = AppendUint32(e, uint32(len(results)))
	e = append(e, results...)
	b.types = append(b.types, e)
	return uint32(len(b.types) - 1)
}

// ImportFunc declares a function import and returns its function index.
func (b *ModuleBuilder) ImportFunc(module, field string, typeIdx uint32) uint32 {
	var e []byte
	e = appendName(e, module)
	e = appendName(e, field)
	e = append(e, KindFunc)
	e = AppendUint32(e, typeIdx)
	b.imports = append(b.imports, e)

	idx := b.numImportedFuncs
	b.numImportedFuncs++
	return idx
}

// AddFunc defines a function with the given body instructions and returns
// its function index. The terminating end opcode is appended automatically.
func (b *ModuleBuilder) AddFunc(typeIdx uint32, body ...byte) uint32 {
	b.funcs = append(b.funcs, typeIdx)

	var code []byte
	code = AppendUint32(code, 0) // no locals
	code = append(code, body...)
	code = append(code, OpEnd)

	var e []byte
	e = AppendUint32(e, uint32(len(code)))
	e = append(e, code...)
	b.bodies = append(b.bodies, e)

	return b.numImportedFuncs + uint32(len(b.funcs)-1)
}

// AddMemory declares a memory of min pages (64KiB each) with no maximum
// and returns its index.
func (b *ModuleBuilder) AddMemory(minPages uint32) uint32 {
	var e []byte
	e = append(e, 0x00) // limits: min only
	e = AppendUint32(e, minPages)
	b.memories = append(b.memories, e)
	return uint32(len(b.memories) - 1)
}

// ExportFunc exports the function index under name.
func (b *ModuleBuilder) ExportFunc(name string, funcIdx uint32) {
	b.exports = append(b.exports, appendExport(nil, name, KindFunc, funcIdx))
}

// ExportMemory exports the memory index under name.
func (b *ModuleBuilder) ExportMemory(name string, memIdx uint32) {
	b.exports = append(b.exports, appendExport(nil, name, KindMemory, memIdx))
}

// SetStart marks funcIdx as the module's start function.
func (b *ModuleBuilder) SetStart(funcIdx uint32) {
	idx := funcIdx
	b.start = &idx
}

// Build emits the module binary.
func (b *ModuleBuilder) Build() []byte {
	out := append([]byte{}, Magic...)
	out = append(out, Version...)

	out = appendVecSection(out, SectionType, b.types)
	out = appendVecSection(out, SectionImport, b.imports)

	if len(b.funcs) > 0 {
		var p []byte
		p = AppendUint32(p, uint32(len(b.funcs)))
		for _, t := range b.funcs {
			p = AppendUint32(p, t)
		}
		out = appendSection(out, SectionFunction, p)
	}

	out = appendVecSection(out, SectionMemory, b.memories)
	out = appendVecSection(out, SectionExport, b.exports)

	if b.start != nil {
		out = appendSection(out, SectionStart, AppendUint32(nil, *b.start))
	}

	out = appendVecSection(out, SectionCode, b.bodies)

	return out
}

func appendName(dst []byte, name string) []byte {
	dst = AppendUint32(dst, uint32(len(name)))
	return append(dst, name...)
}

func appendExport(dst []byte, name string, kind byte, idx uint32) []byte {
	dst = appendName(dst, name)
	dst = append(dst, kind)
	return AppendUint32(dst, idx)
}

func appendSection(dst []byte, id byte, payload []byte) []byte {
	dst = append(dst, id)
	dst = AppendUint32(dst, uint32(len(payload)))
	return append(dst, payload...)
}

// appendVecSection emits a section whose payload is a count-prefixed vector
// of pre-encoded entries, skipping the section entirely when empty.
func appendVecSection(dst []byte, id byte, entries [][]byte) []byte {
	if len(entries) == 0 {
		return dst
	}
	var p []byte
	p = AppendUint32(p, uint32(len(entries)))
	for _, e := range entries {
		p = append(p, e...)
	}
	return appendSection(dst, id, p)
}
