package ast

type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []FuncEntry
	Memories []Memory
	Globals  []Global
	Exports  []Export
	Code     []FuncBody
}

type FuncType struct {
	Params  []ValType
	Results []ValType
}

func (ft FuncType) Equal(other FuncType) bool {
	if len(ft.Params) != len(other.Params) || len(ft.Results) != len(other.Results) {
		return false
	}
	for i, p := range ft.Params {
		if p != other.Params[i] {
			return false
		}
	}
	for i, r := range ft.Results {
		if r != other.Results[i] {
			return false
		}
	}
	return true
}

type Import struct {
	Module string
	Name   string
	Desc   ImportDesc
}

type ImportDesc struct {
	GlobalTyp *GlobalType
	MemLimits *Limits
	TypeIdx   uint32
	Kind      byte
}

type FuncEntry struct {
	TypeIdx uint32
}

type Memory struct {
	Limits Limits
}

type Limits struct {
	Max *uint32
	Min uint32
}

type Global struct {
	Init []Instr
	Type GlobalType
}

type GlobalType struct {
	ValType ValType
	Mutable bool
}

type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

type FuncBody struct {
	Locals []ValType
	Code   []Instr
}

// Instr is one instruction. Imm is nil, uint32 (indices and labels), int32
// (i32.const) or byte (block type).
type Instr struct {
	Imm    any
	Opcode byte
}
