package encoder

import (
	"github.com/wippyai/wasm-bench/wat/internal/ast"
)

type Buffer struct {
	Bytes []byte
}

func (b *Buffer) AppendByte(v byte) {
	b.Bytes = append(b.Bytes, v)
}

func (b *Buffer) WriteBytes(v []byte) {
	b.Bytes = append(b.Bytes, v...)
}

// WriteU32 writes unsigned LEB128 encoding.
func (b *Buffer) WriteU32(v uint32) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			byt |= 0x80
		}
		b.AppendByte(byt)
		if v == 0 {
			break
		}
	}
}

// WriteI32 writes signed LEB128 encoding.
func (b *Buffer) WriteI32(v int32) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && byt&0x40 == 0) || (v == -1 && byt&0x40 != 0) {
			b.AppendByte(byt)
			break
		}
		b.AppendByte(byt | 0x80)
	}
}

// WriteName writes a length-prefixed UTF-8 name.
func (b *Buffer) WriteName(s string) {
	b.WriteU32(uint32(len(s)))
	b.Bytes = append(b.Bytes, s...)
}

func (b *Buffer) WriteLimits(minVal uint32, maxVal *uint32) {
	if maxVal != nil {
		b.AppendByte(ast.LimitsHasMax)
		b.WriteU32(minVal)
		b.WriteU32(*maxVal)
	} else {
		b.AppendByte(ast.LimitsNoMax)
		b.WriteU32(minVal)
	}
}
