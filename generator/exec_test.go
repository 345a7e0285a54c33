package generator

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-bench/scenario"
	"github.com/wippyai/wasm-bench/wat"
)

// exportCounter exposes the ops counter so a test can read it after the run.
func exportCounter(text []byte) []byte {
	return bytes.Replace(text,
		[]byte("(global "+CounterGlobal+" (mut i32)"),
		[]byte("(global "+CounterGlobal+` (export "ops_counter") (mut i32)`), 1)
}

type markers struct {
	starts, ends int
}

func instantiateHost(ctx context.Context, t *testing.T, r wazero.Runtime) *markers {
	t.Helper()
	m := &markers{}
	_, err := r.NewHostModuleBuilder(ImportModule).
		NewFunctionBuilder().WithFunc(func(context.Context) { m.starts++ }).Export(StartMarker).
		NewFunctionBuilder().WithFunc(func(context.Context) { m.ends++ }).Export(EndMarker).
		Instantiate(ctx)
	if err != nil {
		t.Fatalf("host module: %v", err)
	}
	return m
}

func TestExecute_CounterReachesTotal(t *testing.T) {
	configs := []Config{
		{LoopIterations: 1, OpsPerIteration: 1},
		{LoopIterations: 5, OpsPerIteration: 7},
		{LoopIterations: 100, OpsPerIteration: 20},
	}

	for _, s := range scenario.All() {
		for _, cfg := range configs {
			t.Run(fmt.Sprintf("%s/%dx%d", s, cfg.LoopIterations, cfg.OpsPerIteration), func(t *testing.T) {
				ctx := context.Background()
				r := wazero.NewRuntime(ctx)
				defer r.Close(ctx)

				m := instantiateHost(ctx, t, r)

				text, err := mustNew(t, cfg).Text(s)
				if err != nil {
					t.Fatal(err)
				}
				bin, err := wat.Compile(string(exportCounter(text)))
				if err != nil {
					t.Fatalf("Compile failed: %v", err)
				}

				mod, err := r.Instantiate(ctx, bin)
				if err != nil {
					t.Fatalf("Instantiate failed: %v", err)
				}
				if mod.ExportedMemory(MemoryExport) == nil {
					t.Error("memory export missing")
				}

				res, err := mod.ExportedFunction(EntrypointName).Call(ctx, 0)
				if err != nil {
					t.Fatalf("%s failed: %v", EntrypointName, err)
				}
				if got := api.DecodeI32(res[0]); got != 0 {
					t.Errorf("result = %d, want 0", got)
				}
				if m.starts != 1 || m.ends != 1 {
					t.Errorf("markers called start=%d end=%d, want 1 each", m.starts, m.ends)
				}

				counter := api.DecodeI32(mod.ExportedGlobal("ops_counter").Get())
				if int(counter) != cfg.TotalOps() {
					t.Errorf("%+v: counter = %d, want %d", cfg, counter, cfg.TotalOps())
				}
			})
		}
	}
}

// The default modules are too slow to run in a unit test, but must still
// validate.
func TestDefaultModulesValidate(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	for _, s := range scenario.All() {
		bin, err := defaultGenerator.GenerateBinary(s, "")
		if err != nil {
			t.Fatalf("%s: GenerateBinary failed: %v", s, err)
		}
		compiled, err := r.CompileModule(ctx, bin)
		if err != nil {
			t.Fatalf("%s: wazero rejected module: %v", s, err)
		}

		imports := compiled.ImportedFunctions()
		if len(imports) != 2 {
			t.Errorf("%s: %d imported functions, want 2", s, len(imports))
		}
		for _, def := range imports {
			mod, name, _ := def.Import()
			if mod != ImportModule || (name != StartMarker && name != EndMarker) {
				t.Errorf("%s: unexpected import %s.%s", s, mod, name)
			}
		}
		fn, ok := compiled.ExportedFunctions()[EntrypointName]
		if !ok {
			t.Fatalf("%s: %s not exported", s, EntrypointName)
		}
		if len(fn.ParamTypes()) != 1 || len(fn.ResultTypes()) != 1 {
			t.Errorf("%s: entrypoint signature %v -> %v", s, fn.ParamTypes(), fn.ResultTypes())
		}
		if _, ok := compiled.ExportedMemories()[MemoryExport]; !ok {
			t.Errorf("%s: memory not exported", s)
		}
	}
}
