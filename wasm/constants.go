package wasm

// Core binary preamble.
var (
	Magic   = []byte{0x00, 0x61, 0x73, 0x6D}
	Version = []byte{0x01, 0x00, 0x00, 0x00}
)

// Section IDs.
const (
	SectionCustom   byte = 0
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionTable    byte = 4
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionStart    byte = 8
	SectionElement  byte = 9
	SectionCode     byte = 10
	SectionData     byte = 11
)

// Value type bytes as they appear in the binary format.
const (
	TypeI32 byte = 0x7F
	TypeI64 byte = 0x7E
	TypeF32 byte = 0x7D
	TypeF64 byte = 0x7C

	// FuncTypeForm prefixes every entry in the type section.
	FuncTypeForm byte = 0x60
)

// Import/export kind bytes.
const (
	KindFunc   byte = 0x00
	KindTable  byte = 0x01
	KindMemory byte = 0x02
	KindGlobal byte = 0x03
)

// The handful of opcodes the builder's users need for fixture bodies.
const (
	OpUnreachable byte = 0x00
	OpNop         byte = 0x01
	OpEnd         byte = 0x0B
	OpCall        byte = 0x10
	OpDrop        byte = 0x1A
	OpLocalGet    byte = 0x20
	OpI32Load     byte = 0x28
	OpI64Load     byte = 0x29
	OpI32Store    byte = 0x36
	OpI64Store    byte = 0x37
	OpI32Const    byte = 0x41
	OpI64Const    byte = 0x42
	OpF32Const    byte = 0x43
	OpF64Const    byte = 0x44
	OpI32Add      byte = 0x6A
	OpI64Add      byte = 0x7C
	OpI64Mul      byte = 0x7E
)
