package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLookup   Phase = "lookup"   // scenario name resolution
	PhaseConfig   Phase = "config"   // generator configuration
	PhaseGenerate Phase = "generate" // text emission
	PhaseOutput   Phase = "output"   // writing generated files
	PhaseParse    Phase = "parse"    // WAT parsing
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownScenario Kind = "unknown_scenario"
	KindInvalidInput    Kind = "invalid_input"
	KindOutputIO        Kind = "output_io"
	KindInvalidSyntax   Kind = "invalid_syntax"
	KindUnknownName     Kind = "unknown_name"
	KindUnsupported     Kind = "unsupported"
	KindOverflow        Kind = "overflow"
)

// Sentinels for errors.Is. Matching compares Phase and Kind only.
var (
	ErrUnknownScenario = &Error{Phase: PhaseLookup, Kind: KindUnknownScenario}
	ErrInvalidConfig   = &Error{Phase: PhaseConfig, Kind: KindInvalidInput}
	ErrOutputIO        = &Error{Phase: PhaseOutput, Kind: KindOutputIO}
	ErrSyntax          = &Error{Phase: PhaseParse, Kind: KindInvalidSyntax}
	ErrUnknownName     = &Error{Phase: PhaseParse, Kind: KindUnknownName}
)

// Error is the structured error type used throughout the module
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Scenario string
	Path     string
	Detail   string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Scenario != "" {
		b.WriteString(" scenario ")
		b.WriteString(e.Scenario)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Scenario sets the scenario name
func (b *Builder) Scenario(name string) *Builder {
	b.err.Scenario = name
	return b
}

// Path sets the filesystem path
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Line sets the source line
func (b *Builder) Line(line int) *Builder {
	b.err.Line = line
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string) *Builder {
	b.err.Detail = msg
	return b
}

// Detailf sets a formatted detail message
func (b *Builder) Detailf(format string, args ...any) *Builder {
	b.err.Detail = fmt.Sprintf(format, args...)
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownScenario creates a lookup miss for a scenario name
func UnknownScenario(name string) *Error {
	return &Error{
		Phase:  PhaseLookup,
		Kind:   KindUnknownScenario,
		Detail: fmt.Sprintf("no scenario named %q", name),
	}
}

// InvalidConfig creates a configuration error
func InvalidConfig(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// OutputIO wraps a failed write of a generated file
func OutputIO(scenario, path string, cause error) *Error {
	return &Error{
		Phase:    PhaseOutput,
		Kind:     KindOutputIO,
		Scenario: scenario,
		Path:     path,
		Cause:    cause,
	}
}

// Syntax creates a WAT syntax error at the given line
func Syntax(line int, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidSyntax,
		Line:   line,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// UnknownName creates an unresolved identifier or instruction error
func UnknownName(line int, what, name string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnknownName,
		Line:   line,
		Detail: fmt.Sprintf("unknown %s: %s", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Cause:  cause,
		Detail: detail,
	}
}
