package encoder

import (
	"github.com/wippyai/wasm-bench/wat/internal/ast"
)

func EncodeInstr(buf *Buffer, ins ast.Instr) {
	buf.AppendByte(ins.Opcode)

	switch ins.Opcode {
	case ast.OpBr, ast.OpBrIf, ast.OpCall,
		ast.OpLocalGet, ast.OpLocalSet, ast.OpLocalTee,
		ast.OpGlobalGet, ast.OpGlobalSet:
		buf.WriteU32(ins.Imm.(uint32))

	case ast.OpI32Const:
		buf.WriteI32(ins.Imm.(int32))

	case ast.OpBlock, ast.OpLoop:
		buf.AppendByte(ins.Imm.(byte))
	}
}
