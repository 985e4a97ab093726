package wasm

import (
	"bytes"
	"math"
	"testing"
)

func TestAppendUint32_RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 624485, math.MaxUint32} {
		enc := AppendUint32(nil, v)
		got, err := ReadUint32(bytes.NewReader(enc))
		if err != nil {
			t.Fatalf("ReadUint32(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestAppendUint32_KnownEncodings(t *testing.T) {
	if got := AppendUint32(nil, 624485); !bytes.Equal(got, []byte{0xE5, 0x8E, 0x26}) {
		t.Errorf("624485: got %x", got)
	}
	if got := AppendUint32(nil, 0); !bytes.Equal(got, []byte{0x00}) {
		t.Errorf("0: got %x", got)
	}
}

func TestAppendInt64_KnownEncodings(t *testing.T) {
	tests := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x7F}},
		{63, []byte{0x3F}},
		{64, []byte{0xC0, 0x00}},
		{-64, []byte{0x40}},
		{-123456, []byte{0xC0, 0xBB, 0x78}},
	}
	for _, tt := range tests {
		if got := AppendInt64(nil, tt.v); !bytes.Equal(got, tt.want) {
			t.Errorf("AppendInt64(%d) = %x, want %x", tt.v, got, tt.want)
		}
	}
}

func TestReadUint32_Overflow(t *testing.T) {
	// Six continuation bytes exceed the 32-bit width.
	if _, err := ReadUint32(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})); err != ErrOverflow {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestReadUint32_FinalBytePayloadOverflow(t *testing.T) {
	// The 5th byte may only carry bits 28..31; payload above bit 31 must
	// be reported, not truncated.
	if _, err := ReadUint32(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F})); err != ErrOverflow {
		t.Errorf("expected ErrOverflow, got %v", err)
	}

	// MaxUint32 itself still decodes.
	v, err := ReadUint32(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}))
	if err != nil || v != math.MaxUint32 {
		t.Errorf("MaxUint32: got %d, %v", v, err)
	}
}
