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

package result

import "time"

// Failure is a single recorded assertion failure (spec.md §3). File,
// Condition, Expected and Actual are free text; Expected/Actual may be
// empty for boolean-style assertions.
type Failure struct {
	File      string
	Line      int
	Condition string
	Expected  string
	Actual    string
}

// Test is the finished result of one test case. Captured output is
// the entire byte buffer read from the child's combined stdout/stderr
// pipe, including both the framed IPC data and whatever the test body
// itself printed.
type Test struct {
	Suite    string
	Name     string
	Status   Status
	Duration time.Duration
	Output   []byte
	Failures []Failure
}

// Suite is the finished result of every test belonging to one suite.
type Suite struct {
	Name   string
	Total  int
	Passed int
	// Glyphs holds one '+' per passed test and one '-' per
	// non-passed test, in execution order, per spec.md §3.
	Glyphs string
	Tests  []*Test
}

// Run is the finished result of an entire invocation.
type Run struct {
	Suites   []*Suite
	Duration time.Duration
}

// TotalTests returns the number of tests across every suite.
func (r *Run) TotalTests() int {
	n := 0
	for _, s := range r.Suites {
		n += s.Total
	}
	return n
}

// TotalPassed returns the number of passed tests across every suite.
func (r *Run) TotalPassed() int {
	n := 0
	for _, s := range r.Suites {
		n += s.Passed
	}
	return n
}

// AddTest appends t to s, updating Total/Passed/Glyphs. A test counts
// as passed for the glyph string and pass count whenever its Status
// is OK (Passed or DeathPassed).
func (s *Suite) AddTest(t *Test) {
	s.Tests = append(s.Tests, t)
	s.Total++
	if t.Status.OK() {
		s.Passed++
		s.Glyphs += "+"
	} else {
		s.Glyphs += "-"
	}
}
