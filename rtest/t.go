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

// Package rtest is the entrypoint package an embedding binary imports:
// it registers nothing itself, but provides the assertion surface (T)
// test bodies call, and the Main function that dispatches between
// child mode (run one test, report its result on stdout) and parent
// mode (spawn, supervise, and report every registered test). See
// SPEC_FULL.md §3.6/§4.4/§4.9.
package rtest

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/ppgllrd/rtest/alloc"
	"github.com/ppgllrd/rtest/result"
	"github.com/ppgllrd/rtest/similarity"
)

// minStdoutSimilarity is the default acceptance threshold for
// StdoutSimilar, matching registry.DefaultMinSimilarity so stdout and
// death-message comparisons use the same default (spec.md §8).
const minStdoutSimilarity = 0.95

// T is the minimal Go-idiomatic assertion surface described in
// SPEC_FULL.md §3.6, modeled on the *H type mantle/harness exposes to
// test bodies: one method per assertion shape, every one of them
// reducing to a single call into the embedded recorder.
type T struct {
	rec     *recorder
	tracker *alloc.Tracker

	leakCheckDisabled bool
}

func newT(tracker *alloc.Tracker) *T {
	return &T{rec: &recorder{}, tracker: tracker}
}

// Failed reports whether any assertion has recorded a failure,
// satisfying registry.T so *T can be passed to a registry.TestFunc.
func (t *T) Failed() bool { return t.rec.Failed() }

// Tracker returns the per-test allocation tracker a test body should
// call Alloc/Realloc/Free/Baseline through.
func (t *T) Tracker() *alloc.Tracker { return t.tracker }

// DisableLeakCheck skips the automatic CheckLeaks call Main otherwise
// runs after the test function returns (spec.md §4.9 step 6: "if
// leak-check is still enabled").
func (t *T) DisableLeakCheck() { t.leakCheckDisabled = true }

// Baseline marks the given allocations (or, with none given, every
// currently live one) so the leak checker ignores them.
func (t *T) Baseline(ids ...alloc.ID) { t.tracker.Baseline(ids...) }

func (t *T) recordFailure(file string, line int, condition, expected, actual string) {
	t.rec.record(result.Failure{
		File:      file,
		Line:      line,
		Condition: condition,
		Expected:  expected,
		Actual:    actual,
	})
}

// Equal records a failure and returns false unless reflect.DeepEqual
// considers expected and actual equal.
func (t *T) Equal(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	if reflect.DeepEqual(expected, actual) {
		return true
	}
	file, line := callerLoc(2)
	t.recordFailure(file, line, describe("values are equal", msgAndArgs), fmt.Sprint(expected), fmt.Sprint(actual))
	return false
}

// True records a failure and returns false unless cond is true.
func (t *T) True(cond bool, msgAndArgs ...interface{}) bool {
	if cond {
		return true
	}
	file, line := callerLoc(2)
	t.recordFailure(file, line, describe("condition is true", msgAndArgs), "true", "false")
	return false
}

// False records a failure and returns false unless cond is false.
func (t *T) False(cond bool, msgAndArgs ...interface{}) bool {
	if !cond {
		return true
	}
	file, line := callerLoc(2)
	t.recordFailure(file, line, describe("condition is false", msgAndArgs), "false", "true")
	return false
}

// StdoutEquals records a [STDOUT]-tagged failure and returns false
// unless got is byte-for-byte equal to want (scenario S6, spec.md
// §8).
func (t *T) StdoutEquals(got, want string) bool {
	if got == want {
		return true
	}
	file, line := callerLoc(2)
	t.recordFailure(file, line, "[STDOUT] output does not match", want, got)
	return false
}

// StdoutEqualsNormalized is StdoutEquals after collapsing runs of
// whitespace in both strings to a single space, for tests that don't
// want to pin down exact spacing.
func (t *T) StdoutEqualsNormalized(got, want string) bool {
	if normalizeWhitespace(got) == normalizeWhitespace(want) {
		return true
	}
	file, line := callerLoc(2)
	t.recordFailure(file, line, "[STDOUT] output does not match (normalized)", want, got)
	return false
}

// StdoutSimilar records a [STDOUT]-tagged failure and returns false
// unless the Levenshtein similarity ratio between got and want meets
// minRatio (0 selects minStdoutSimilarity, the same 0.95 default
// death-test message matching uses).
func (t *T) StdoutSimilar(got, want string, minRatio float64) bool {
	if minRatio == 0 {
		minRatio = minStdoutSimilarity
	}
	if ratio := similarity.Ratio(got, want); ratio >= minRatio {
		return true
	}
	file, line := callerLoc(2)
	t.recordFailure(file, line,
		fmt.Sprintf("[STDOUT] output similarity below %.2f", minRatio), want, got)
	return false
}

// Fatalf records a failure with the given message and halts the
// current test body, the same shape as testing.T.Fatal: it unwinds
// via runtime.Goexit rather than returning, so Main runs the test
// function in its own goroutine (see rtest/main.go) and waits for
// that goroutine to end instead of for the function call to return.
func (t *T) Fatalf(format string, args ...interface{}) {
	file, line := callerLoc(2)
	t.recordFailure(file, line, fmt.Sprintf(format, args...), "", "")
	runtime.Goexit()
}

// Caller is a one-line wrapper around runtime.Caller(1), standing in
// for the __FILE__/__LINE__ macro expansion the original C assertions
// captured automatically. Test bodies pass its two results on to
// Tracker().Alloc/Realloc/Free:
// file, line := rtest.Caller(); tracker.Alloc(n, file, line)
func Caller() (file string, line int) {
	_, file, line, _ = runtime.Caller(1)
	return
}

func describe(def string, msgAndArgs []interface{}) string {
	if len(msgAndArgs) == 0 {
		return def
	}
	format, ok := msgAndArgs[0].(string)
	if !ok {
		return def
	}
	return fmt.Sprintf(format, msgAndArgs[1:]...)
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// callerLoc reports the file/line of the assertion call site, skip
// frames up from callerLoc itself (1 for the *T method, 2 when a
// method like Equal is invoked directly from a test body).
func callerLoc(skip int) (file string, line int) {
	_, file, line, _ = runtime.Caller(skip)
	return
}
