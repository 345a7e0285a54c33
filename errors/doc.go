// Package errors defines the structured error type shared by the scenario
// registry, the module generator and the WAT compiler.
//
// Every error carries a Phase (where it happened) and a Kind (what went
// wrong). Sentinel values such as ErrUnknownScenario and ErrOutputIO match
// any error with the same Phase and Kind, so callers test with errors.Is:
//
//	if errors.Is(err, errors.ErrUnknownScenario) {
//		...
//	}
package errors
