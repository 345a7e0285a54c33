package parser

import (
	"errors"
	"strings"
	"testing"

	bencherrors "github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/wat/internal/ast"
	"github.com/wippyai/wasm-bench/wat/internal/token"
)

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, err := New(token.Tokenize(src)).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return mod
}

const benchModule = `(module
    (import "debug" "start_benchmark" (func $start_benchmark))
    (import "debug" "end_benchmark" (func $end_benchmark))
    (memory (export "memory") 0 0)
    (global $ops_counter (mut i32) (i32.const 0))
    (func (export "user_entrypoint") (param i32) (result i32)
        call $start_benchmark
        (loop $loop
            i32.const 0
            i32.const 1
            i32.add
            drop
            global.get $ops_counter
            i32.const 1
            i32.add
            global.set $ops_counter
            global.get $ops_counter
            i32.const 3
            i32.lt_s
            br_if $loop)
        call $end_benchmark
        i32.const 0)
)`

func TestParse_BenchModule(t *testing.T) {
	mod := parse(t, benchModule)

	if len(mod.Types) != 2 {
		t.Fatalf("types = %d, want 2 (imports share one)", len(mod.Types))
	}
	if len(mod.Imports) != 2 || mod.Imports[0].Name != "start_benchmark" || mod.Imports[1].Name != "end_benchmark" {
		t.Errorf("imports = %+v", mod.Imports)
	}
	if mod.Imports[0].Desc.TypeIdx != mod.Imports[1].Desc.TypeIdx {
		t.Error("marker imports should share a type")
	}

	if len(mod.Memories) != 1 {
		t.Fatalf("memories = %d", len(mod.Memories))
	}
	lim := mod.Memories[0].Limits
	if lim.Min != 0 || lim.Max == nil || *lim.Max != 0 {
		t.Errorf("memory limits = %+v", lim)
	}

	if len(mod.Globals) != 1 || !mod.Globals[0].Type.Mutable || mod.Globals[0].Type.ValType != ast.ValTypeI32 {
		t.Errorf("globals = %+v", mod.Globals)
	}

	wantExports := []ast.Export{
		{Name: "memory", Kind: ast.KindMemory, Idx: 0},
		{Name: "user_entrypoint", Kind: ast.KindFunc, Idx: 2},
	}
	if len(mod.Exports) != len(wantExports) {
		t.Fatalf("exports = %+v", mod.Exports)
	}
	for i, e := range wantExports {
		if mod.Exports[i] != e {
			t.Errorf("export %d = %+v, want %+v", i, mod.Exports[i], e)
		}
	}

	ft := mod.Types[mod.Funcs[0].TypeIdx]
	if len(ft.Params) != 1 || len(ft.Results) != 1 {
		t.Errorf("entrypoint type = %+v", ft)
	}

	code := mod.Code[0].Code
	if code[0].Opcode != ast.OpCall || code[0].Imm.(uint32) != 0 {
		t.Errorf("first instr = %+v, want call 0", code[0])
	}
	if code[1].Opcode != ast.OpLoop || code[1].Imm.(byte) != ast.BlockTypeEmpty {
		t.Errorf("second instr = %+v, want loop", code[1])
	}

	var brIf *ast.Instr
	for i := range code {
		if code[i].Opcode == ast.OpBrIf {
			brIf = &code[i]
		}
	}
	if brIf == nil || brIf.Imm.(uint32) != 0 {
		t.Errorf("br_if $loop should target depth 0, got %+v", brIf)
	}

	n := len(code)
	if code[n-1].Opcode != ast.OpI32Const || code[n-2].Opcode != ast.OpCall || code[n-2].Imm.(uint32) != 1 || code[n-3].Opcode != ast.OpEnd {
		t.Errorf("tail = %+v", code[n-3:])
	}
}

func TestParse_FoldedOperandOrder(t *testing.T) {
	mod := parse(t, `(module (func (result i32) (i32.xor (i32.const 1231) (i32.const 12312313))))`)
	code := mod.Code[0].Code
	if len(code) != 3 {
		t.Fatalf("got %d instrs", len(code))
	}
	if code[0].Imm.(int32) != 1231 || code[1].Imm.(int32) != 12312313 || code[2].Opcode != 0x73 {
		t.Errorf("folded operands out of order: %+v", code)
	}
}

func TestParse_FlatBlocks(t *testing.T) {
	mod := parse(t, `(module (func
		block $outer
			loop $inner
				br $outer
				br_if 1
			end $inner
		end))`)
	code := mod.Code[0].Code
	want := []byte{ast.OpBlock, ast.OpLoop, ast.OpBr, ast.OpBrIf, ast.OpEnd, ast.OpEnd}
	if len(code) != len(want) {
		t.Fatalf("got %d instrs: %+v", len(code), code)
	}
	for i, op := range want {
		if code[i].Opcode != op {
			t.Errorf("instr %d opcode 0x%02X, want 0x%02X", i, code[i].Opcode, op)
		}
	}
	if code[2].Imm.(uint32) != 1 {
		t.Errorf("br $outer depth = %d, want 1", code[2].Imm)
	}
}

func TestParse_LocalsAndForwardCall(t *testing.T) {
	mod := parse(t, `(module
		(func $a (param $x i32) (local $y i32) (local i32 i32)
			local.get $x
			local.set $y
			call $b)
		(func $b))`)

	if got := mod.Code[0].Locals; len(got) != 3 {
		t.Errorf("locals = %v, want 3", got)
	}
	code := mod.Code[0].Code
	if code[0].Imm.(uint32) != 0 || code[1].Imm.(uint32) != 1 {
		t.Errorf("local indices = %v %v", code[0].Imm, code[1].Imm)
	}
	if code[2].Imm.(uint32) != 1 {
		t.Errorf("call $b = %v, want 1", code[2].Imm)
	}
}

func TestParse_I32Literals(t *testing.T) {
	tests := []struct {
		lit  string
		want int32
	}{
		{"0", 0},
		{"-1", -1},
		{"0x10", 16},
		{"0xFFFFFFFF", -1},
		{"4294967295", -1},
		{"-2147483648", -2147483648},
		{"400_000_000", 400000000},
		{"010", 10},
	}
	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			mod := parse(t, "(module (func i32.const "+tt.lit+" drop))")
			if got := mod.Code[0].Code[0].Imm.(int32); got != tt.want {
				t.Errorf("i32.const %s = %d, want %d", tt.lit, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		target  error
		name    string
		src     string
		wantErr string
	}{
		{bencherrors.ErrSyntax, "missing_module", "(func)", "expected 'module'"},
		{bencherrors.ErrSyntax, "unclosed", "(module", "unexpected end"},
		{bencherrors.ErrUnknownName, "unknown_instr", "(module (func bogus))", "unknown instruction: bogus"},
		{bencherrors.ErrUnknownName, "unknown_type", "(module (func (param v128)))", "unknown value type"},
		{bencherrors.ErrUnknownName, "unknown_label", "(module (func (loop $l br $x)))", "unknown label: $x"},
		{bencherrors.ErrUnknownName, "unknown_global", "(module (func global.get $g drop))", "unknown global"},
		{bencherrors.ErrUnknownName, "unknown_func", "(module (func call $nope))", "unknown function"},
		{bencherrors.ErrSyntax, "func_index_range", "(module (func call 3))", "out of range"},
		{bencherrors.ErrSyntax, "missing_end", "(module (func block nop))", "without 'end'"},
		{bencherrors.ErrSyntax, "stray_end", "(module (func nop end))", "outside of a block"},
		{bencherrors.ErrSyntax, "import_after_def", `(module (func) (import "m" "f" (func)))`, "after a definition"},
		{bencherrors.ErrSyntax, "bad_limits", "(module (memory 2 1))", "below min"},
		{bencherrors.ErrSyntax, "trailing", "(module) (module)", "after module"},
		{bencherrors.ErrSyntax, "non_const_global", "(module (global i32 (i32.add (i32.const 1) (i32.const 2))))", "constant expression"},
		{bencherrors.ErrSyntax, "illegal_char", "(module (func #))", "illegal character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(token.Tokenize(tt.src)).Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q missing %q", err, tt.wantErr)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("error %v does not match %v", err, tt.target)
			}
		})
	}
}

func TestParse_Unsupported(t *testing.T) {
	for _, src := range []string{
		"(module (table 1 funcref))",
		`(module (import "m" "t" (table 1 funcref)))`,
		"(module (func (block (param i32))))",
	} {
		_, err := New(token.Tokenize(src)).Parse()
		var e *bencherrors.Error
		if !errors.As(err, &e) || e.Kind != bencherrors.KindUnsupported {
			t.Errorf("%s: error = %v, want unsupported", src, err)
		}
	}
}

func TestParse_ErrorLine(t *testing.T) {
	_, err := New(token.Tokenize("(module\n(func\nnop\nbogus))")).Parse()
	var e *bencherrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not structured", err)
	}
	if e.Line != 4 {
		t.Errorf("line = %d, want 4", e.Line)
	}
}
