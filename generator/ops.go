package generator

import (
	"github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/scenario"
)

// Emitter writes one loop body's worth of a scenario's workload.
//
// EmitOps must leave the operand stack as it found it and must apply the
// scenario's operator exactly ops times.
type Emitter interface {
	EmitOps(b *Buffer, ops int)
}

// EmitterFor returns the emitter bound to s.
func EmitterFor(s scenario.Scenario) (Emitter, error) {
	switch s {
	case scenario.AddI32:
		return addI32Ops{}, nil
	case scenario.XorI32:
		return xorI32Ops{}, nil
	default:
		return nil, errors.UnknownScenario(s.String())
	}
}

// addI32Ops: 0 + 1 + 1 + ...
type addI32Ops struct{}

func (addI32Ops) EmitOps(b *Buffer, ops int) {
	emitBinaryOps(b, ops, 0, 1, "i32.add")
}

// xorI32Ops: 1231 ^ 12312313 ^ 12312313 ^ ...
type xorI32Ops struct{}

func (xorI32Ops) EmitOps(b *Buffer, ops int) {
	emitBinaryOps(b, ops, 1231, 12312313, "i32.xor")
}

// emitBinaryOps pushes seed, folds operand into it ops times with op, and
// drops the result.
func emitBinaryOps(b *Buffer, ops int, seed, operand int64, op string) {
	b.Instr(bodyDepth, "i32.const", seed)
	for range ops {
		b.Instr(bodyDepth, "i32.const", operand)
		b.Line(bodyDepth, op)
	}
	b.Line(bodyDepth, "drop")
}
