package wasm

import (
	"bytes"
	"testing"
)

func TestModuleBuilder_Preamble(t *testing.T) {
	bin := NewModuleBuilder().Build()
	if !bytes.Equal(bin[:4], Magic) || !bytes.Equal(bin[4:8], Version) {
		t.Fatalf("bad preamble: %x", bin[:8])
	}
	if len(bin) != 8 {
		t.Errorf("empty module should contain no sections, got %d bytes", len(bin))
	}
}

func TestModuleBuilder_FunctionIndexSpace(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)

	imp0 := b.ImportFunc("env", "a", t0)
	imp1 := b.ImportFunc("env", "b", t0)
	def0 := b.AddFunc(t0, OpNop)

	if imp0 != 0 || imp1 != 1 {
		t.Errorf("import indices: got %d, %d", imp0, imp1)
	}
	if def0 != 2 {
		t.Errorf("defined function should follow imports, got index %d", def0)
	}
}

func TestModuleBuilder_ExportsVisible(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType([]byte{TypeI64, TypeI64}, []byte{TypeI64})
	f := b.AddFunc(t0, OpLocalGet, 0, OpLocalGet, 1, OpI64Add)
	b.ExportFunc("add", f)
	mem := b.AddMemory(1)
	b.ExportMemory("memory", mem)

	exports, err := Exports(b.Build())
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	if exports[0].Name != "add" || exports[0].Kind != KindFunc {
		t.Errorf("unexpected first export: %+v", exports[0])
	}
	if exports[1].Name != "memory" || exports[1].Kind != KindMemory {
		t.Errorf("unexpected second export: %+v", exports[1])
	}
}

func TestModuleBuilder_StartSection(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)
	f := b.AddFunc(t0, OpNop)
	b.SetStart(f)

	sections, err := splitSections(b.Build())
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, s := range sections {
		if s.id == SectionStart {
			found = true
			idx, err := ReadUint32(bytes.NewReader(s.payload))
			if err != nil || idx != f {
				t.Errorf("start payload: idx=%d err=%v", idx, err)
			}
		}
	}
	if !found {
		t.Error("start section missing")
	}
}

func TestModuleBuilder_SectionOrder(t *testing.T) {
	b := NewModuleBuilder()
	t0 := b.AddType(nil, nil)
	b.ImportFunc("env", "f", t0)
	g := b.AddFunc(t0, OpNop)
	b.AddMemory(1)
	b.ExportFunc("g", g)
	b.SetStart(g)

	sections, err := splitSections(b.Build())
	if err != nil {
		t.Fatal(err)
	}
	last := byte(0)
	for _, s := range sections {
		if s.id <= last {
			t.Fatalf("sections out of order: %d after %d", s.id, last)
		}
		last = s.id
	}
}
