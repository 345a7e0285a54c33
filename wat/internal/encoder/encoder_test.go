package encoder

import (
	"bytes"
	"testing"

	"github.com/wippyai/wasm-bench/wat/internal/ast"
)

func TestWriteU32(t *testing.T) {
	tests := []struct {
		want []byte
		v    uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7F}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xE5, 0x8E, 0x26}, 624485},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		b := &Buffer{}
		b.WriteU32(tt.v)
		if !bytes.Equal(b.Bytes, tt.want) {
			t.Errorf("WriteU32(%d) = % X, want % X", tt.v, b.Bytes, tt.want)
		}
	}
}

func TestWriteI32(t *testing.T) {
	tests := []struct {
		want []byte
		v    int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7F}, -1},
		{[]byte{0x3F}, 63},
		{[]byte{0xC0, 0x00}, 64},
		{[]byte{0xC0, 0xBB, 0x78}, -123456},
		{[]byte{0xD0, 0x0F}, 2000},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x78}, -2147483648},
	}
	for _, tt := range tests {
		b := &Buffer{}
		b.WriteI32(tt.v)
		if !bytes.Equal(b.Bytes, tt.want) {
			t.Errorf("WriteI32(%d) = % X, want % X", tt.v, b.Bytes, tt.want)
		}
	}
}

func TestWriteLimits(t *testing.T) {
	zero := uint32(0)
	b := &Buffer{}
	b.WriteLimits(0, &zero)
	b.WriteLimits(1, nil)
	want := []byte{0x01, 0x00, 0x00, 0x00, 0x01}
	if !bytes.Equal(b.Bytes, want) {
		t.Errorf("got % X, want % X", b.Bytes, want)
	}
}

func TestEncode_Empty(t *testing.T) {
	got := Encode(&ast.Module{})
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestEncode_ExportedConstFunc(t *testing.T) {
	// (module (func (export "f") (result i32) i32.const 7))
	m := &ast.Module{
		Types:   []ast.FuncType{{Results: []ast.ValType{ast.ValTypeI32}}},
		Funcs:   []ast.FuncEntry{{TypeIdx: 0}},
		Exports: []ast.Export{{Name: "f", Kind: ast.KindFunc, Idx: 0}},
		Code: []ast.FuncBody{{
			Code: []ast.Instr{{Opcode: ast.OpI32Const, Imm: int32(7)}},
		}},
	}

	want := []byte{
		0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7F, // type
		0x03, 0x02, 0x01, 0x00, // func
		0x07, 0x05, 0x01, 0x01, 'f', 0x00, 0x00, // export
		0x0A, 0x06, 0x01, 0x04, 0x00, 0x41, 0x07, 0x0B, // code
	}
	if got := Encode(m); !bytes.Equal(got, want) {
		t.Errorf("got  % X\nwant % X", got, want)
	}
}

func TestEncode_ImportsMemoryGlobal(t *testing.T) {
	zero := uint32(0)
	m := &ast.Module{
		Types: []ast.FuncType{{}},
		Imports: []ast.Import{{
			Module: "debug",
			Name:   "start_benchmark",
			Desc:   ast.ImportDesc{Kind: ast.KindFunc, TypeIdx: 0},
		}},
		Memories: []ast.Memory{{Limits: ast.Limits{Min: 0, Max: &zero}}},
		Globals: []ast.Global{{
			Type: ast.GlobalType{ValType: ast.ValTypeI32, Mutable: true},
			Init: []ast.Instr{{Opcode: ast.OpI32Const, Imm: int32(0)}},
		}},
	}

	got := Encode(m)

	importSec := []byte{0x02, 0x19, 0x01,
		0x05, 'd', 'e', 'b', 'u', 'g',
		0x0F, 's', 't', 'a', 'r', 't', '_', 'b', 'e', 'n', 'c', 'h', 'm', 'a', 'r', 'k',
		0x00, 0x00}
	memorySec := []byte{0x05, 0x04, 0x01, 0x01, 0x00, 0x00}
	globalSec := []byte{0x06, 0x06, 0x01, 0x7F, 0x01, 0x41, 0x00, 0x0B}

	for name, sec := range map[string][]byte{"import": importSec, "memory": memorySec, "global": globalSec} {
		if !bytes.Contains(got, sec) {
			t.Errorf("%s section % X not found in % X", name, sec, got)
		}
	}
}

func TestEncodeLocals(t *testing.T) {
	b := &Buffer{}
	encodeLocals(b, []ast.ValType{ast.ValTypeI32, ast.ValTypeI32, ast.ValTypeI64, ast.ValTypeI32})
	want := []byte{0x03, 0x02, 0x7F, 0x01, 0x7E, 0x01, 0x7F}
	if !bytes.Equal(b.Bytes, want) {
		t.Errorf("got % X, want % X", b.Bytes, want)
	}
}

func TestEncodeInstr(t *testing.T) {
	tests := []struct {
		name string
		want []byte
		ins  ast.Instr
	}{
		{"loop", []byte{0x03, 0x40}, ast.Instr{Opcode: ast.OpLoop, Imm: ast.BlockTypeEmpty}},
		{"br_if", []byte{0x0D, 0x00}, ast.Instr{Opcode: ast.OpBrIf, Imm: uint32(0)}},
		{"call", []byte{0x10, 0x01}, ast.Instr{Opcode: ast.OpCall, Imm: uint32(1)}},
		{"global.get", []byte{0x23, 0x00}, ast.Instr{Opcode: ast.OpGlobalGet, Imm: uint32(0)}},
		{"i32.const", []byte{0x41, 0xD0, 0x0F}, ast.Instr{Opcode: ast.OpI32Const, Imm: int32(2000)}},
		{"i32.add", []byte{0x6A}, ast.Instr{Opcode: 0x6A}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Buffer{}
			EncodeInstr(b, tt.ins)
			if !bytes.Equal(b.Bytes, tt.want) {
				t.Errorf("got % X, want % X", b.Bytes, tt.want)
			}
		})
	}
}
