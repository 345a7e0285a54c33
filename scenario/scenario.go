// Package scenario is the closed registry of benchmark workloads.
//
// A Scenario names one instruction pattern that the generator knows how to
// unroll. The set is fixed at build time; each member has a canonical name
// used on the command line and as the output file stem.
package scenario

import (
	"strconv"

	"github.com/wippyai/wasm-bench/errors"
)

// Scenario identifies a benchmark workload.
type Scenario uint8

const (
	// AddI32 repeatedly adds a constant to a running i32.
	AddI32 Scenario = iota
	// XorI32 repeatedly xors a constant into a running i32.
	XorI32

	count
)

var names = [count]string{
	AddI32: "add_i32",
	XorI32: "xor_i32",
}

var byName = func() map[string]Scenario {
	m := make(map[string]Scenario, len(names))
	for i, n := range names {
		m[n] = Scenario(i)
	}
	return m
}()

// Parse returns the scenario whose canonical name is exactly name.
func Parse(name string) (Scenario, error) {
	if s, ok := byName[name]; ok {
		return s, nil
	}
	return 0, errors.UnknownScenario(name)
}

// All returns every scenario in declaration order.
func All() []Scenario {
	all := make([]Scenario, count)
	for i := range all {
		all[i] = Scenario(i)
	}
	return all
}

// Names returns the canonical names of All, in the same order.
func Names() []string {
	return append([]string(nil), names[:]...)
}

// Valid reports whether s is a registered scenario.
func (s Scenario) Valid() bool {
	return s < count
}

// String returns the canonical name.
func (s Scenario) String() string {
	if s.Valid() {
		return names[s]
	}
	return "Scenario(" + strconv.Itoa(int(s)) + ")"
}

func (s Scenario) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.UnknownScenario(s.String())
	}
	return []byte(names[s]), nil
}

func (s *Scenario) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
