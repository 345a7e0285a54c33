// Package wasmbench generates synthetic WebAssembly modules for measuring the
// instruction throughput of a WebAssembly engine.
//
// Each benchmark scenario produces one text module whose entry point runs a
// precisely counted number of a single instruction, bracketed by calls to
// imported timing markers so an external harness can time the workload alone.
//
// # Architecture Overview
//
//	wasmbench/
//	├── scenario/        Closed set of benchmark scenarios and their names
//	├── generator/       Module assembly, loop parameters and file output
//	├── wat/             WAT text format to WASM binary compiler
//	├── errors/          Structured error types
//	└── cmd/wasmbench/   Command line tool and interactive TUI
//
// # Quick Start
//
//	text, err := generator.Generate(scenario.XorI32, "out")
//	if err != nil {
//	    return err
//	}
//
// With a custom loop shape and binary output:
//
//	g, err := generator.New(generator.Config{LoopIterations: 1000, OpsPerIteration: 500})
//	if err != nil {
//	    return err
//	}
//	wasm, err := g.GenerateBinary(scenario.AddI32, "out")
//
// # Harness Contract
//
// A generated module imports debug.start_benchmark and debug.end_benchmark,
// both with no parameters or results, exports a zero page memory named
// "memory", and exports user_entrypoint(i32) -> i32. The harness supplies the
// markers, calls the entry point and measures the time between the markers.
// The entry point always returns 0.
package wasmbench
