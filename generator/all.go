package generator

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/wippyai/wasm-bench/scenario"
)

// Result is the outcome of generating one scenario.
type Result struct {
	Text     []byte
	Binary   []byte // nil unless binaries were requested
	Paths    []string
	Scenario scenario.Scenario
}

// GenerateAll generates every registered scenario concurrently, one
// goroutine per scenario. Results are returned in scenario.All order.
//
// When outputDir is not empty each module is written there; with binary set
// the compiled .wasm is produced (and written) as well. The first failure
// cancels scenarios that have not started yet; all failures are joined into
// the returned error.
func (g *Generator) GenerateAll(ctx context.Context, outputDir string, binary bool) ([]Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	all := scenario.All()
	results := make([]Result, len(all))
	errs := make([]error, len(all))

	var wg sync.WaitGroup
	for i, s := range all {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			res, err := g.generateOne(s, outputDir, binary)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()

	if err := stderrors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Generator) generateOne(s scenario.Scenario, outputDir string, binary bool) (Result, error) {
	res := Result{Scenario: s}

	text, err := g.Generate(s, outputDir)
	if err != nil {
		return res, err
	}
	res.Text = text
	if outputDir != "" {
		res.Paths = append(res.Paths, OutputPath(outputDir, s, TextExtension))
	}

	if binary {
		bin, err := g.GenerateBinary(s, outputDir)
		if err != nil {
			return res, err
		}
		res.Binary = bin
		if outputDir != "" {
			res.Paths = append(res.Paths, OutputPath(outputDir, s, BinaryExtension))
		}
	}
	return res, nil
}
