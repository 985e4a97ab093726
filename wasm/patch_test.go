package wasm

import (
	"testing"
)

func buildWithStart(t *testing.T) []byte {
	t.Helper()
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)
	f := b.AddFunc(t0, OpNop)
	b.SetStart(f)
	b.ExportFunc("noop", f)
	return b.Build()
}

func TestStripStartSection(t *testing.T) {
	bin := buildWithStart(t)

	patched, err := StripStartSection(bin)
	if err != nil {
		t.Fatal(err)
	}

	sections, err := splitSections(patched)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range sections {
		if s.id == SectionStart {
			t.Fatal("start section still present")
		}
	}

	// Other sections survive.
	exports, err := Exports(patched)
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 1 || exports[0].Name != "noop" {
		t.Errorf("exports damaged by patch: %+v", exports)
	}
}

func TestStripStartSection_NoStart(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)
	b.AddFunc(t0, OpNop)
	bin := b.Build()

	patched, err := StripStartSection(bin)
	if err != nil {
		t.Fatal(err)
	}
	if &patched[0] != &bin[0] {
		t.Error("binary without start section should be returned as-is")
	}
}

func TestEnsureMemoryExport_AddsExport(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)
	f := b.AddFunc(t0, OpNop)
	b.ExportFunc("noop", f)
	b.AddMemory(1) // declared but not exported

	patched, err := EnsureMemoryExport(b.Build())
	if err != nil {
		t.Fatal(err)
	}

	exports, err := Exports(patched)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, e := range exports {
		if e.Name == "memory" && e.Kind == KindMemory && e.Index == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("memory export not added: %+v", exports)
	}
	// Existing exports intact.
	if exports[0].Name != "noop" {
		t.Errorf("existing export damaged: %+v", exports[0])
	}
}

func TestEnsureMemoryExport_NoExportSection(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)
	f := b.AddFunc(t0, OpNop)
	b.SetStart(f)
	b.AddMemory(1)

	patched, err := EnsureMemoryExport(b.Build())
	if err != nil {
		t.Fatal(err)
	}

	sections, err := splitSections(patched)
	if err != nil {
		t.Fatal(err)
	}
	// Export section must precede the start section.
	last := byte(0)
	for _, s := range sections {
		if s.id <= last {
			t.Fatalf("sections out of order after patch: %d after %d", s.id, last)
		}
		last = s.id
	}

	exports, err := Exports(patched)
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 1 || exports[0].Kind != KindMemory {
		t.Fatalf("expected single memory export, got %+v", exports)
	}
}

func TestEnsureMemoryExport_AlreadyExported(t *testing.T) {
	b := NewModuleBuilder()
	mem := b.AddMemory(1)
	b.ExportMemory("mem", mem)
	bin := b.Build()

	patched, err := EnsureMemoryExport(bin)
	if err != nil {
		t.Fatal(err)
	}
	if &patched[0] != &bin[0] {
		t.Error("already-exported memory should leave the binary untouched")
	}
}

func TestEnsureMemoryExport_NoMemory(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)
	b.AddFunc(t0, OpNop)
	bin := b.Build()

	patched, err := EnsureMemoryExport(bin)
	if err != nil {
		t.Fatal(err)
	}
	if &patched[0] != &bin[0] {
		t.Error("module without memory cannot gain an export")
	}
}

func TestEnsureMemoryExport_ImportedMemory(t *testing.T) {
	// Hand-assembled import section: one memory import env.memory.
	var imp []byte
	imp = AppendUint32(imp, 1)
	imp = appendName(imp, "env")
	imp = appendName(imp, "memory")
	imp = append(imp, KindMemory)
	imp = append(imp, 0x00) // limits: min only
	imp = AppendUint32(imp, 1)

	bin := append([]byte{}, Magic...)
	bin = append(bin, Version...)
	bin = appendSection(bin, SectionImport, imp)

	patched, err := EnsureMemoryExport(bin)
	if err != nil {
		t.Fatal(err)
	}
	exports, err := Exports(patched)
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 1 || exports[0].Kind != KindMemory {
		t.Fatalf("imported memory should be re-exported, got %+v", exports)
	}
}

func TestSplitSections_EmptyTrailingSection(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)
	f := b.AddFunc(t0, OpNop)
	b.ExportFunc("noop", f)
	bin := b.Build()

	// A zero-size custom section at the very end of the binary is legal
	// and must not read past EOF.
	bin = append(bin, SectionCustom, 0)

	exports, err := Exports(bin)
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 1 || exports[0].Name != "noop" {
		t.Errorf("exports = %+v", exports)
	}

	patched, err := StripStartSection(bin)
	if err != nil {
		t.Fatal(err)
	}
	if &patched[0] != &bin[0] {
		t.Error("binary without start section should be returned as-is")
	}
}

func TestSplitSections_Invalid(t *testing.T) {
	if _, err := splitSections([]byte("not wasm")); err == nil {
		t.Error("expected error for bad preamble")
	}
	// Truncated section payload.
	bad := append([]byte{}, Magic...)
	bad = append(bad, Version...)
	bad = append(bad, SectionType, 10, 0x60)
	if _, err := splitSections(bad); err == nil {
		t.Error("expected error for truncated section")
	}
}
