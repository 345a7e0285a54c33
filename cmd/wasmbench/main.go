package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/generator"
	"github.com/wippyai/wasm-bench/scenario"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if stderrors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	scenarios   scenarioList
	outDir      string
	loops       int
	ops         int
	all         bool
	wasm        bool
	list        bool
	verbose     bool
	interactive bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var o options

	fs := flag.NewFlagSet("wasmbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.TextVar(&o.scenarios, "scenario", scenarioList(nil), "Scenario to generate (comma-separated for several)")
	fs.BoolVar(&o.all, "all", false, "Generate every scenario")
	fs.StringVar(&o.outDir, "out", "", "Directory to write modules into (must exist)")
	fs.BoolVar(&o.wasm, "wasm", false, "Also compile and write .wasm binaries")
	fs.BoolVar(&o.list, "list", false, "List scenarios and exit")
	fs.IntVar(&o.loops, "loops", generator.DefaultLoopIterations, "Loop iterations")
	fs.IntVar(&o.ops, "ops", generator.DefaultOpsPerIteration, "Operations per loop iteration")
	fs.BoolVar(&o.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.interactive, "i", false, "Interactive mode with TUI")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: wasmbench -scenario <name> [-out dir] [-wasm]")
		fmt.Fprintln(stderr, "       wasmbench -all -out <dir> [-wasm]")
		fmt.Fprintln(stderr, "       wasmbench -list")
		fmt.Fprintln(stderr, "       wasmbench -i  (interactive mode)")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.InvalidConfig("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return &o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if o.verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
	}
	defer func() { _ = log.Sync() }()
	generator.SetLogger(log)
	defer generator.SetLogger(nil)

	if o.list {
		for _, name := range scenario.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	g, err := generator.New(generator.Config{LoopIterations: o.loops, OpsPerIteration: o.ops})
	if err != nil {
		return err
	}

	if o.interactive {
		return runInteractive(g, o.outDir, o.wasm)
	}

	if o.all {
		if o.outDir == "" {
			return errors.InvalidConfig("-all requires -out")
		}
		results, err := g.GenerateAll(ctx, o.outDir, o.wasm)
		if err != nil {
			return err
		}
		for _, res := range results {
			report(stdout, res.Paths)
		}
		return nil
	}

	selected := o.scenarios
	if len(selected) == 0 {
		return errors.InvalidConfig("no scenario given (use -scenario, -all or -list)")
	}

	if o.outDir == "" {
		if len(selected) > 1 {
			return errors.InvalidConfig("-out is required for more than one scenario")
		}
		if o.wasm {
			return errors.InvalidConfig("-wasm requires -out")
		}
		text, err := g.Generate(selected[0], "")
		if err != nil {
			return err
		}
		_, err = stdout.Write(text)
		return err
	}

	for _, s := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := g.Generate(s, o.outDir); err != nil {
			return err
		}
		paths := []string{generator.OutputPath(o.outDir, s, generator.TextExtension)}
		if o.wasm {
			if _, err := g.GenerateBinary(s, o.outDir); err != nil {
				return err
			}
			paths = append(paths, generator.OutputPath(o.outDir, s, generator.BinaryExtension))
		}
		report(stdout, paths)
	}
	return nil
}

// scenarioList is a comma-separated list of scenario names. Duplicates are
// dropped.
type scenarioList []scenario.Scenario

func (l scenarioList) MarshalText() ([]byte, error) {
	names := make([]string, 0, len(l))
	for _, s := range l {
		name, err := s.MarshalText()
		if err != nil {
			return nil, err
		}
		names = append(names, string(name))
	}
	return []byte(strings.Join(names, ",")), nil
}

func (l *scenarioList) UnmarshalText(text []byte) error {
	var out scenarioList
	seen := make(map[scenario.Scenario]bool)
	for _, name := range strings.Split(string(text), ",") {
		var s scenario.Scenario
		if err := s.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
			return err
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

func report(w io.Writer, paths []string) {
	for _, p := range paths {
		fmt.Fprintf(w, "wrote %s\n", p)
	}
}
