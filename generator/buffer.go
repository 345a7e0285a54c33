package generator

import (
	"strconv"
)

// indentWidth is the number of spaces per nesting level.
const indentWidth = 4

// Buffer is the append-only text buffer a single generation writes into.
type Buffer struct {
	bytes []byte
}

func newBuffer(sizeHint int) *Buffer {
	return &Buffer{bytes: make([]byte, 0, sizeHint)}
}

// Line writes s indented to depth and terminated by a newline.
func (b *Buffer) Line(depth int, s string) {
	b.indent(depth)
	b.bytes = append(b.bytes, s...)
	b.bytes = append(b.bytes, '\n')
}

// Instr writes an instruction with a single integer immediate.
func (b *Buffer) Instr(depth int, op string, imm int64) {
	b.indent(depth)
	b.bytes = append(b.bytes, op...)
	b.bytes = append(b.bytes, ' ')
	b.bytes = strconv.AppendInt(b.bytes, imm, 10)
	b.bytes = append(b.bytes, '\n')
}

// WriteString writes s verbatim.
func (b *Buffer) WriteString(s string) {
	b.bytes = append(b.bytes, s...)
}

func (b *Buffer) Len() int {
	return len(b.bytes)
}

// Bytes returns the buffer contents. The buffer must not be written to
// afterwards.
func (b *Buffer) Bytes() []byte {
	return b.bytes
}

func (b *Buffer) indent(depth int) {
	for i := 0; i < depth*indentWidth; i++ {
		b.bytes = append(b.bytes, ' ')
	}
}
