// Copyright 2017 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package registry collects test descriptors declared by package
// init() functions and enumerates them, preserving declaration order,
// for the main runner to group into suites and dispatch to the
// process supervisor.
package registry

import (
	"syscall"
	"time"
)

// TestFunc is the body of a single test case.
type TestFunc func(T)

// T is the minimal interface a test body needs from its execution
// context; it is satisfied by *rtest.T. Kept as an interface here so
// registry has no dependency on the rtest package (which itself
// depends on registry), avoiding an import cycle.
type T interface {
	Failed() bool
}

// DeathExpectation describes the termination a death test is expected
// to produce.
type DeathExpectation struct {
	// Signal is the expected terminating signal; 0 means "don't care".
	Signal syscall.Signal
	// ExitCode is the expected exit code; -1 means "don't care".
	ExitCode int
	// MinSimilarity is the minimum Levenshtein similarity ratio
	// required when ExactMessage is false. Defaults to 0.95.
	MinSimilarity float64
	// Message is the optional expected custom assertion message.
	Message string
	// ExactMessage requires Message to match exactly rather than
	// within MinSimilarity.
	ExactMessage bool
}

// DefaultMinSimilarity is used when a DeathExpectation doesn't set
// MinSimilarity explicitly.
const DefaultMinSimilarity = 0.95

// DeathOption configures a DeathExpectation built by NewDeathExpectation.
type DeathOption func(*DeathExpectation)

// ExpectSignal sets the expected terminating signal.
func ExpectSignal(sig syscall.Signal) DeathOption {
	return func(d *DeathExpectation) { d.Signal = sig }
}

// ExpectExitCode sets the expected exit code.
func ExpectExitCode(code int) DeathOption {
	return func(d *DeathExpectation) { d.ExitCode = code }
}

// ExpectMessage sets the expected custom assertion message and its
// comparison mode.
func ExpectMessage(msg string, exact bool) DeathOption {
	return func(d *DeathExpectation) {
		d.Message = msg
		d.ExactMessage = exact
	}
}

// MinSimilarity overrides the default 0.95 similarity threshold used
// when ExpectMessage's exact flag is false.
func MinSimilarity(ratio float64) DeathOption {
	return func(d *DeathExpectation) { d.MinSimilarity = ratio }
}

// NewDeathExpectation builds a DeathExpectation with spec.md's
// defaults (signal/code "don't care", similarity 0.95) and applies
// opts on top. Go's struct zero value cannot represent the -1
// "don't care" sentinel for ExitCode, so construction always goes
// through here rather than a bare struct literal.
func NewDeathExpectation(opts ...DeathOption) *DeathExpectation {
	d := &DeathExpectation{
		ExitCode:      -1,
		MinSimilarity: DefaultMinSimilarity,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Descriptor is a single registered test case.
type Descriptor struct {
	Suite   string
	Name    string
	Func    TestFunc
	Death   *DeathExpectation
	Timeout time.Duration // 0 means "use the run's default timeout"
}
