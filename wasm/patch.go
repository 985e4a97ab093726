package wasm

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrInvalidModule is returned when the input lacks the core preamble or a
// section is truncated.
var ErrInvalidModule = errors.New("wasm: invalid module binary")

type section struct {
	id      byte
	payload []byte
}

func splitSections(bin []byte) ([]section, error) {
	if len(bin) < 8 || !bytes.Equal(bin[:4], Magic) || !bytes.Equal(bin[4:8], Version) {
		return nil, ErrInvalidModule
	}

	r := bytes.NewReader(bin[8:])
	var sections []section
	for r.Len() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, ErrInvalidModule
		}
		size, err := ReadUint32(r)
		if err != nil || uint32(r.Len()) < size {
			return nil, ErrInvalidModule
		}
		payload := make([]byte, size)
		if size > 0 {
			if _, err := r.Read(payload); err != nil {
				return nil, ErrInvalidModule
			}
		}
		sections = append(sections, section{id: id, payload: payload})
	}
	return sections, nil
}

func joinSections(sections []section) []byte {
	out := append([]byte{}, Magic...)
	out = append(out, Version...)
	for _, s := range sections {
		out = appendSection(out, s.id, s.payload)
	}
	return out
}

// StripStartSection returns bin with its start section removed, so that
// instantiation does not run the module's start function. The binary is
// returned unchanged when no start section is present.
func StripStartSection(bin []byte) ([]byte, error) {
	sections, err := splitSections(bin)
	if err != nil {
		return nil, err
	}

	kept := sections[:0]
	changed := false
	for _, s := range sections {
		if s.id == SectionStart {
			changed = true
			continue
		}
		kept = append(kept, s)
	}
	if !changed {
		return bin, nil
	}
	return joinSections(kept), nil
}

// EnsureMemoryExport returns bin with memory 0 exported under the name
// "memory". The binary is returned unchanged when it already exports a
// memory or declares none at all.
func EnsureMemoryExport(bin []byte) ([]byte, error) {
	sections, err := splitSections(bin)
	if err != nil {
		return nil, err
	}

	hasMemory := false
	exportIdx := -1
	for i, s := range sections {
		switch s.id {
		case SectionMemory:
			count, err := ReadUint32(bytes.NewReader(s.payload))
			if err != nil {
				return nil, ErrInvalidModule
			}
			hasMemory = hasMemory || count > 0
		case SectionImport:
			imported, err := importsMemory(s.payload)
			if err != nil {
				return nil, err
			}
			hasMemory = hasMemory || imported
		case SectionExport:
			exportIdx = i
			entries, err := parseExports(s.payload)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if e.Kind == KindMemory {
					return bin, nil
				}
			}
		}
	}

	if !hasMemory {
		return bin, nil
	}

	entry := appendExport(nil, "memory", KindMemory, 0)

	if exportIdx >= 0 {
		r := bytes.NewReader(sections[exportIdx].payload)
		count, _ := ReadUint32(r)
		rest := sections[exportIdx].payload[len(sections[exportIdx].payload)-r.Len():]

		var p []byte
		p = AppendUint32(p, count+1)
		p = append(p, rest...)
		p = append(p, entry...)
		sections[exportIdx].payload = p
		return joinSections(sections), nil
	}

	// No export section: insert one before the first section that must
	// follow it (start, element, code, data).
	var p []byte
	p = AppendUint32(p, 1)
	p = append(p, entry...)
	newSec := section{id: SectionExport, payload: p}

	insertAt := len(sections)
	for i, s := range sections {
		if s.id == SectionStart || s.id == SectionElement || s.id == SectionCode || s.id == SectionData {
			insertAt = i
			break
		}
	}
	sections = append(sections[:insertAt], append([]section{newSec}, sections[insertAt:]...)...)
	return joinSections(sections), nil
}

// Export is one entry of a module's export section.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// Exports lists the export entries of a module binary.
func Exports(bin []byte) ([]Export, error) {
	sections, err := splitSections(bin)
	if err != nil {
		return nil, err
	}
	for _, s := range sections {
		if s.id == SectionExport {
			return parseExports(s.payload)
		}
	}
	return nil, nil
}

func parseExports(payload []byte) ([]Export, error) {
	r := bytes.NewReader(payload)
	count, err := ReadUint32(r)
	if err != nil {
		return nil, ErrInvalidModule
	}

	exports := make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := readName(r)
		if err != nil {
			return nil, err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, ErrInvalidModule
		}
		idx, err := ReadUint32(r)
		if err != nil {
			return nil, ErrInvalidModule
		}
		exports = append(exports, Export{Name: name, Kind: kind, Index: idx})
	}
	return exports, nil
}

// importsMemory walks an import section payload looking for a memory
// import. Each entry kind has its own descriptor layout, so the walk must
// decode all of them to stay aligned.
func importsMemory(payload []byte) (bool, error) {
	r := bytes.NewReader(payload)
	count, err := ReadUint32(r)
	if err != nil {
		return false, ErrInvalidModule
	}

	found := false
	for i := uint32(0); i < count; i++ {
		if _, err := readName(r); err != nil { // module
			return false, err
		}
		if _, err := readName(r); err != nil { // field
			return false, err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return false, ErrInvalidModule
		}

		switch kind {
		case KindFunc:
			if _, err := ReadUint32(r); err != nil {
				return false, ErrInvalidModule
			}
		case KindTable:
			if _, err := r.ReadByte(); err != nil { // reftype
				return false, ErrInvalidModule
			}
			if err := skipLimits(r); err != nil {
				return false, err
			}
		case KindMemory:
			found = true
			if err := skipLimits(r); err != nil {
				return false, err
			}
		case KindGlobal:
			if _, err := r.ReadByte(); err != nil { // valtype
				return false, ErrInvalidModule
			}
			if _, err := r.ReadByte(); err != nil { // mutability
				return false, ErrInvalidModule
			}
		default:
			return false, fmt.Errorf("%w: import kind %d", ErrInvalidModule, kind)
		}
	}
	return found, nil
}

func skipLimits(r *bytes.Reader) error {
	flags, err := r.ReadByte()
	if err != nil {
		return ErrInvalidModule
	}
	if _, err := ReadUint32(r); err != nil { // min
		return ErrInvalidModule
	}
	if flags&0x01 != 0 {
		if _, err := ReadUint32(r); err != nil { // max
			return ErrInvalidModule
		}
	}
	return nil
}

func readName(r *bytes.Reader) (string, error) {
	n, err := ReadUint32(r)
	if err != nil || uint32(r.Len()) < n {
		return "", ErrInvalidModule
	}
	if n == 0 {
		// bytes.Reader reports EOF even for empty reads once exhausted.
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := r.Read(buf); err != nil {
		return "", ErrInvalidModule
	}
	return string(buf), nil
}
