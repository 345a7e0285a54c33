package generator

import (
	"math"

	"github.com/wippyai/wasm-bench/errors"
)

const (
	// DefaultLoopIterations is the number of times the loop branches back.
	DefaultLoopIterations = 200_000

	// DefaultOpsPerIteration is the unroll factor. Large enough that the
	// counter update and branch are noise next to the workload, small enough
	// that the loop body stays resident in instruction cache.
	DefaultOpsPerIteration = 2_000
)

// Config holds the loop parameters of a generated module.
type Config struct {
	// LoopIterations is the number of passes through the loop body.
	LoopIterations int

	// OpsPerIteration is how many times the scenario's operator is unrolled
	// inside one pass. The ops counter advances by this much per pass.
	OpsPerIteration int
}

// DefaultConfig returns the reference configuration: 200,000 passes of
// 2,000 operations, 400,000,000 operations in total.
func DefaultConfig() Config {
	return Config{
		LoopIterations:  DefaultLoopIterations,
		OpsPerIteration: DefaultOpsPerIteration,
	}
}

// TotalOps is the value the ops counter must reach for the loop to exit.
func (c Config) TotalOps() int {
	return c.LoopIterations * c.OpsPerIteration
}

// Validate checks that both counts are positive and that the total fits the
// module's signed i32 counter.
func (c Config) Validate() error {
	if c.LoopIterations < 1 {
		return errors.InvalidConfig("loop iterations must be positive, got %d", c.LoopIterations)
	}
	if c.OpsPerIteration < 1 {
		return errors.InvalidConfig("ops per iteration must be positive, got %d", c.OpsPerIteration)
	}
	if c.LoopIterations > math.MaxInt32/c.OpsPerIteration {
		return errors.InvalidConfig("total ops %d x %d overflows i32 counter", c.LoopIterations, c.OpsPerIteration)
	}
	return nil
}
