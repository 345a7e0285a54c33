package ast

type ValType byte

const (
	ValTypeI32 ValType = 0x7F
	ValTypeI64 ValType = 0x7E
	ValTypeF32 ValType = 0x7D
	ValTypeF64 ValType = 0x7C
)

const BlockTypeEmpty byte = 0x40

const (
	KindFunc   byte = 0
	KindTable  byte = 1
	KindMemory byte = 2
	KindGlobal byte = 3
)

const (
	SectionType   byte = 1
	SectionImport byte = 2
	SectionFunc   byte = 3
	SectionMemory byte = 5
	SectionGlobal byte = 6
	SectionExport byte = 7
	SectionCode   byte = 10
)

const (
	FuncTypeMarker byte = 0x60
	LimitsNoMax    byte = 0x00
	LimitsHasMax   byte = 0x01
)

// Opcodes with immediates or structure the parser and encoder special-case.
// Plain stack instructions live in the opcode table.
const (
	OpBlock     byte = 0x02
	OpLoop      byte = 0x03
	OpEnd       byte = 0x0B
	OpBr        byte = 0x0C
	OpBrIf      byte = 0x0D
	OpCall      byte = 0x10
	OpLocalGet  byte = 0x20
	OpLocalSet  byte = 0x21
	OpLocalTee  byte = 0x22
	OpGlobalGet byte = 0x23
	OpGlobalSet byte = 0x24
	OpI32Const  byte = 0x41
)
