package generator

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/scenario"
	"github.com/wippyai/wasm-bench/wat"
)

// Nesting depths of the emitted text.
const (
	fieldDepth = 1 // module fields
	funcDepth  = 2 // function body
	bodyDepth  = 3 // loop body
)

// Names the generated module exposes to the harness.
const (
	ImportModule    = "debug"
	StartMarker     = "start_benchmark"
	EndMarker       = "end_benchmark"
	MemoryExport    = "memory"
	EntrypointName  = "user_entrypoint"
	CounterGlobal   = "$ops_counter"
	TextExtension   = ".wat"
	BinaryExtension = ".wasm"
)

// approximate bytes of text per unrolled operation
const bytesPerOp = 48

// Generator builds benchmark modules for one Config.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	cfg Config
}

// New creates a generator for cfg.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

var defaultGenerator = &Generator{cfg: DefaultConfig()}

// Generate builds the module for s with the default configuration.
// See (*Generator).Generate.
func Generate(s scenario.Scenario, outputDir string) ([]byte, error) {
	return defaultGenerator.Generate(s, outputDir)
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Text returns the WAT source for s without touching the filesystem.
func (g *Generator) Text(s scenario.Scenario) ([]byte, error) {
	emitter, err := EmitterFor(s)
	if err != nil {
		return nil, err
	}

	b := newBuffer(g.cfg.OpsPerIteration*bytesPerOp + 1024)
	writePrologue(b)
	emitter.EmitOps(b, g.cfg.OpsPerIteration)
	writeEpilogue(b, g.cfg)

	Logger().Debug("generated module",
		zap.Stringer("scenario", s),
		zap.Int("bytes", b.Len()),
		zap.Int("ops_per_iteration", g.cfg.OpsPerIteration),
		zap.Int("total_ops", g.cfg.TotalOps()))

	return b.Bytes(), nil
}

// Generate returns the WAT source for s. When outputDir is not empty the
// source is also written to <outputDir>/<scenario>.wat, replacing any
// existing file. A failed write fails the whole call and no bytes are
// returned.
func (g *Generator) Generate(s scenario.Scenario, outputDir string) ([]byte, error) {
	text, err := g.Text(s)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		if _, err := writeOutput(s, outputDir, TextExtension, text); err != nil {
			return nil, err
		}
	}
	return text, nil
}

// GenerateBinary compiles the WAT source for s to the WebAssembly binary
// format. When outputDir is not empty the binary is written to
// <outputDir>/<scenario>.wasm.
func (g *Generator) GenerateBinary(s scenario.Scenario, outputDir string) ([]byte, error) {
	text, err := g.Text(s)
	if err != nil {
		return nil, err
	}
	bin, err := compileText(s, text)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		if _, err := writeOutput(s, outputDir, BinaryExtension, bin); err != nil {
			return nil, err
		}
	}
	return bin, nil
}

func compileText(s scenario.Scenario, text []byte) ([]byte, error) {
	bin, err := wat.Compile(string(text))
	if err != nil {
		e := errors.Wrap(errors.PhaseGenerate, errors.KindInvalidSyntax, err, "generated text does not compile")
		e.Scenario = s.String()
		return nil, e
	}
	return bin, nil
}

func writePrologue(b *Buffer) {
	b.Line(0, "(module")
	b.Line(fieldDepth, `(import "`+ImportModule+`" "`+StartMarker+`" (func $`+StartMarker+`))`)
	b.Line(fieldDepth, `(import "`+ImportModule+`" "`+EndMarker+`" (func $`+EndMarker+`))`)
	b.Line(fieldDepth, `(memory (export "`+MemoryExport+`") 0 0)`)
	b.Line(fieldDepth, `(global `+CounterGlobal+` (mut i32) (i32.const 0))`)
	b.Line(fieldDepth, `(func (export "`+EntrypointName+`") (param i32) (result i32)`)
	b.Line(funcDepth, "call $"+StartMarker)
	b.Line(funcDepth, "(loop $loop")
}

func writeEpilogue(b *Buffer, cfg Config) {
	// counter += ops per iteration
	b.Line(bodyDepth, "global.get "+CounterGlobal)
	b.Instr(bodyDepth, "i32.const", int64(cfg.OpsPerIteration))
	b.Line(bodyDepth, "i32.add")
	b.Line(bodyDepth, "global.set "+CounterGlobal)

	// branch back while counter < total
	b.Line(bodyDepth, "global.get "+CounterGlobal)
	b.Instr(bodyDepth, "i32.const", int64(cfg.TotalOps()))
	b.Line(bodyDepth, "i32.lt_s")
	b.Line(bodyDepth, "br_if $loop)")

	b.Line(funcDepth, "call $"+EndMarker)
	b.Line(funcDepth, "i32.const 0)")
	b.WriteString(")")
}
