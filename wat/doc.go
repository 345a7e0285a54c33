// Package wat compiles WebAssembly Text format into binary WASM.
//
// It covers the part of the text format that benchmark modules are written
// in, so generated sources can be checked and shipped to engines that only
// accept binaries.
//
// Basic usage:
//
//	wasm, err := wat.Compile(`(module
//		(func (export "add") (param i32 i32) (result i32)
//			(i32.add (local.get 0) (local.get 1)))
//	)`)
//
// Supported:
//   - Imports of functions, globals and memories, with inline $names
//   - Memory and global definitions with inline exports; export fields
//   - Functions with params, results, locals (named and indexed)
//   - Flat and folded instructions, block and loop with labels
//   - br, br_if, call, local.*, global.*, drop, select, nop, return
//   - i32.const and the i32 comparison, arithmetic and bitwise family
//   - Comments: line (;;) and block (; ;)
//
// Errors come from the errors package with PhaseParse and carry the source
// line.
package wat
