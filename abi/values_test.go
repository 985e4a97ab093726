package abi

import (
	"math"
	"testing"
)

func TestFloatBitPatterns(t *testing.T) {
	if got := DecodeF64(EncodeF64(-1.5)); got != -1.5 {
		t.Errorf("f64 round trip: got %v", got)
	}
	if got := DecodeF32(EncodeF32(float32(3.25))); got != 3.25 {
		t.Errorf("f32 round trip: got %v", got)
	}

	// NaN payloads must survive untouched, the transport is bit-exact.
	nan := math.Float64frombits(0x7FF8000000000001)
	if EncodeF64(nan) != 0x7FF8000000000001 {
		t.Error("f64 NaN payload altered in transit")
	}
}

func TestIntegerWidening(t *testing.T) {
	// Negative i32 is zero-extended, not sign-extended, into the slot.
	if EncodeI32(-1) != uint64(0xFFFFFFFF) {
		t.Errorf("EncodeI32(-1) = %x", EncodeI32(-1))
	}
	if DecodeI32(EncodeI32(-42)) != -42 {
		t.Error("i32 round trip failed")
	}
	if DecodeI64(EncodeI64(math.MinInt64)) != math.MinInt64 {
		t.Error("i64 round trip failed")
	}
}

func TestValTypeString(t *testing.T) {
	for vt, want := range map[ValType]string{I32: "i32", I64: "i64", F32: "f32", F64: "f64"} {
		if vt.String() != want {
			t.Errorf("%d.String() = %q, want %q", byte(vt), vt.String(), want)
		}
	}
	if ValType(3).Valid() {
		t.Error("type byte 3 must not be valid")
	}
}
