// Package generator emits synthetic WebAssembly text modules that execute a
// precisely counted number of one instruction.
//
// Every module has the same shape:
//
//	(module
//	    (import "debug" "start_benchmark" (func $start_benchmark))
//	    (import "debug" "end_benchmark" (func $end_benchmark))
//	    (memory (export "memory") 0 0)
//	    (global $ops_counter (mut i32) (i32.const 0))
//	    (func (export "user_entrypoint") (param i32) (result i32)
//	        call $start_benchmark
//	        (loop $loop
//	            ;; OpsPerIteration unrolled operations
//	            ;; $ops_counter += OpsPerIteration
//	            ;; br_if $loop while $ops_counter < LoopIterations*OpsPerIteration
//	        call $end_benchmark
//	        i32.const 0)
//	)
//
// A harness provides the two debug imports, calls user_entrypoint and
// measures the time between the marker calls.
//
// Basic usage:
//
//	text, err := generator.Generate(scenario.AddI32, "")
//
// Pass a directory to also write <dir>/add_i32.wat.
package generator
