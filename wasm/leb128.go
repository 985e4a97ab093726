package wasm

import (
	"errors"
	"io"
)

// ErrOverflow is returned when a LEB128 value exceeds its bit width.
var ErrOverflow = errors.New("leb128: overflow")

// AppendUint32 appends v in unsigned LEB128 form.
func AppendUint32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// AppendInt64 appends v in signed LEB128 form, as used by const operands.
func AppendInt64(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// AppendInt32 appends v in signed LEB128 form.
func AppendInt32(dst []byte, v int32) []byte {
	return AppendInt64(dst, int64(v))
}

// ReadUint32 reads an unsigned LEB128 value.
func ReadUint32(r io.ByteReader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			// The 5th byte contributes bits 28..34; anything past bit 31
			// does not fit.
			if shift == 28 && b&0x70 != 0 {
				return 0, ErrOverflow
			}
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, ErrOverflow
		}
	}
}
