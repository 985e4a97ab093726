package wasm

import "bytes"

// FuncSignature is the resolved type of one exported function, as
// binary-format value type bytes (TypeI32 etc).
type FuncSignature struct {
	Name    string
	Params  []byte
	Results []byte
}

// ExportedFunctions resolves the name and signature of every exported
// function in a module binary, in export-section order.
func ExportedFunctions(bin []byte) ([]FuncSignature, error) {
	sections, err := splitSections(bin)
	if err != nil {
		return nil, err
	}

	var (
		types       [][2][]byte
		importTypes []uint32
		funcTypes   []uint32
		exports     []Export
	)
	for _, s := range sections {
		switch s.id {
		case SectionType:
			if types, err = parseTypes(s.payload); err != nil {
				return nil, err
			}
		case SectionImport:
			if importTypes, err = parseImportFuncTypes(s.payload); err != nil {
				return nil, err
			}
		case SectionFunction:
			if funcTypes, err = parseFuncTypes(s.payload); err != nil {
				return nil, err
			}
		case SectionExport:
			if exports, err = parseExports(s.payload); err != nil {
				return nil, err
			}
		}
	}

	var out []FuncSignature
	for _, e := range exports {
		if e.Kind != KindFunc {
			continue
		}

		var typeIdx uint32
		switch {
		case e.Index < uint32(len(importTypes)):
			typeIdx = importTypes[e.Index]
		case e.Index-uint32(len(importTypes)) < uint32(len(funcTypes)):
			typeIdx = funcTypes[e.Index-uint32(len(importTypes))]
		default:
			return nil, ErrInvalidModule
		}
		if typeIdx >= uint32(len(types)) {
			return nil, ErrInvalidModule
		}

		out = append(out, FuncSignature{
			Name:    e.Name,
			Params:  types[typeIdx][0],
			Results: types[typeIdx][1],
		})
	}
	return out, nil
}

func parseTypes(payload []byte) ([][2][]byte, error) {
	r := bytes.NewReader(payload)
	count, err := ReadUint32(r)
	if err != nil {
		return nil, ErrInvalidModule
	}

	types := make([][2][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadByte()
		if err != nil || form != FuncTypeForm {
			return nil, ErrInvalidModule
		}
		params, err := readValTypes(r)
		if err != nil {
			return nil, err
		}
		results, err := readValTypes(r)
		if err != nil {
			return nil, err
		}
		types = append(types, [2][]byte{params, results})
	}
	return types, nil
}

func readValTypes(r *bytes.Reader) ([]byte, error) {
	n, err := ReadUint32(r)
	if err != nil || uint32(r.Len()) < n {
		return nil, ErrInvalidModule
	}
	if n == 0 {
		// bytes.Reader reports EOF even for empty reads once exhausted.
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := r.Read(buf); err != nil {
		return nil, ErrInvalidModule
	}
	return buf, nil
}

// parseImportFuncTypes walks the import section and returns the type index
// of each imported function, in function-index order.
func parseImportFuncTypes(payload []byte) ([]uint32, error) {
	r := bytes.NewReader(payload)
	count, err := ReadUint32(r)
	if err != nil {
		return nil, ErrInvalidModule
	}

	var typeIdxs []uint32
	for i := uint32(0); i < count; i++ {
		if _, err := readName(r); err != nil { // module
			return nil, err
		}
		if _, err := readName(r); err != nil { // field
			return nil, err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, ErrInvalidModule
		}

		switch kind {
		case KindFunc:
			idx, err := ReadUint32(r)
			if err != nil {
				return nil, ErrInvalidModule
			}
			typeIdxs = append(typeIdxs, idx)
		case KindTable:
			if _, err := r.ReadByte(); err != nil {
				return nil, ErrInvalidModule
			}
			if err := skipLimits(r); err != nil {
				return nil, err
			}
		case KindMemory:
			if err := skipLimits(r); err != nil {
				return nil, err
			}
		case KindGlobal:
			if _, err := r.ReadByte(); err != nil {
				return nil, ErrInvalidModule
			}
			if _, err := r.ReadByte(); err != nil {
				return nil, ErrInvalidModule
			}
		default:
			return nil, ErrInvalidModule
		}
	}
	return typeIdxs, nil
}

func parseFuncTypes(payload []byte) ([]uint32, error) {
	r := bytes.NewReader(payload)
	count, err := ReadUint32(r)
	if err != nil {
		return nil, ErrInvalidModule
	}
	idxs := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		idx, err := ReadUint32(r)
		if err != nil {
			return nil, ErrInvalidModule
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}
