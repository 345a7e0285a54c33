package encoder

import (
	"github.com/wippyai/wasm-bench/wat/internal/ast"
)

func writeSection(buf *Buffer, id byte, content *Buffer) {
	buf.AppendByte(id)
	buf.WriteU32(uint32(len(content.Bytes)))
	buf.WriteBytes(content.Bytes)
}

func encodeTypeSection(buf *Buffer, m *ast.Module) {
	sec := &Buffer{}
	sec.WriteU32(uint32(len(m.Types)))
	for _, ft := range m.Types {
		sec.AppendByte(ast.FuncTypeMarker)
		sec.WriteU32(uint32(len(ft.Params)))
		for _, p := range ft.Params {
			sec.AppendByte(byte(p))
		}
		sec.WriteU32(uint32(len(ft.Results)))
		for _, r := range ft.Results {
			sec.AppendByte(byte(r))
		}
	}
	writeSection(buf, ast.SectionType, sec)
}

func encodeImportSection(buf *Buffer, m *ast.Module) {
	sec := &Buffer{}
	sec.WriteU32(uint32(len(m.Imports)))
	for _, imp := range m.Imports {
		sec.WriteName(imp.Module)
		sec.WriteName(imp.Name)
		sec.AppendByte(imp.Desc.Kind)
		switch imp.Desc.Kind {
		case ast.KindFunc:
			sec.WriteU32(imp.Desc.TypeIdx)
		case ast.KindMemory:
			lim := imp.Desc.MemLimits
			sec.WriteLimits(lim.Min, lim.Max)
		case ast.KindGlobal:
			writeGlobalType(sec, *imp.Desc.GlobalTyp)
		}
	}
	writeSection(buf, ast.SectionImport, sec)
}

func encodeFuncSection(buf *Buffer, m *ast.Module) {
	sec := &Buffer{}
	sec.WriteU32(uint32(len(m.Funcs)))
	for _, f := range m.Funcs {
		sec.WriteU32(f.TypeIdx)
	}
	writeSection(buf, ast.SectionFunc, sec)
}

func encodeMemorySection(buf *Buffer, m *ast.Module) {
	sec := &Buffer{}
	sec.WriteU32(uint32(len(m.Memories)))
	for _, mem := range m.Memories {
		sec.WriteLimits(mem.Limits.Min, mem.Limits.Max)
	}
	writeSection(buf, ast.SectionMemory, sec)
}

func encodeGlobalSection(buf *Buffer, m *ast.Module) {
	sec := &Buffer{}
	sec.WriteU32(uint32(len(m.Globals)))
	for _, g := range m.Globals {
		writeGlobalType(sec, g.Type)
		encodeExpr(sec, g.Init)
	}
	writeSection(buf, ast.SectionGlobal, sec)
}

func writeGlobalType(buf *Buffer, gt ast.GlobalType) {
	buf.AppendByte(byte(gt.ValType))
	if gt.Mutable {
		buf.AppendByte(0x01)
	} else {
		buf.AppendByte(0x00)
	}
}

func encodeExportSection(buf *Buffer, m *ast.Module) {
	sec := &Buffer{}
	sec.WriteU32(uint32(len(m.Exports)))
	for _, e := range m.Exports {
		sec.WriteName(e.Name)
		sec.AppendByte(e.Kind)
		sec.WriteU32(e.Idx)
	}
	writeSection(buf, ast.SectionExport, sec)
}

func encodeCodeSection(buf *Buffer, m *ast.Module) {
	sec := &Buffer{}
	sec.WriteU32(uint32(len(m.Code)))
	for _, body := range m.Code {
		fn := &Buffer{}
		encodeLocals(fn, body.Locals)
		encodeExpr(fn, body.Code)
		sec.WriteU32(uint32(len(fn.Bytes)))
		sec.WriteBytes(fn.Bytes)
	}
	writeSection(buf, ast.SectionCode, sec)
}

// encodeLocals writes locals as runs of (count, type).
func encodeLocals(buf *Buffer, locals []ast.ValType) {
	type run struct {
		typ   ast.ValType
		count uint32
	}
	var runs []run
	for _, l := range locals {
		if n := len(runs); n > 0 && runs[n-1].typ == l {
			runs[n-1].count++
			continue
		}
		runs = append(runs, run{typ: l, count: 1})
	}
	buf.WriteU32(uint32(len(runs)))
	for _, r := range runs {
		buf.WriteU32(r.count)
		buf.AppendByte(byte(r.typ))
	}
}

// encodeExpr writes instrs followed by the terminating end.
func encodeExpr(buf *Buffer, instrs []ast.Instr) {
	for _, ins := range instrs {
		EncodeInstr(buf, ins)
	}
	buf.AppendByte(ast.OpEnd)
}
