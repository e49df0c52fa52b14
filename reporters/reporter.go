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

// Package reporters implements the pluggable result-dispatch surface
// of spec.md §4.8: five lifecycle hooks, a fan-out Reporters slice,
// and three built-in reporters (Console, CI, JSON).
package reporters

import "github.com/ppgllrd/rtest/result"

// Reporter receives the five run-lifecycle callbacks in the order
// spec.md §5 mandates: RunStart -> (SuiteStart -> (TestFinish)* ->
// SuiteFinish)* -> RunFinish. Results are passed by reference; a
// Reporter must not retain the pointer past the call.
type Reporter interface {
	RunStart()
	SuiteStart(suite string)
	TestFinish(t *result.Test)
	SuiteFinish(s *result.Suite)
	RunFinish(r *result.Run)
}

// Reporters fans every call out to each registered Reporter in order,
// mirroring mantle/harness/reporters/reporter.go's Reporters slice
// (there built on three hooks, here on the five spec.md §4.8 names).
type Reporters []Reporter

func (reps Reporters) RunStart() {
	for _, r := range reps {
		r.RunStart()
	}
}

func (reps Reporters) SuiteStart(suite string) {
	for _, r := range reps {
		r.SuiteStart(suite)
	}
}

func (reps Reporters) TestFinish(t *result.Test) {
	for _, r := range reps {
		r.TestFinish(t)
	}
}

func (reps Reporters) SuiteFinish(s *result.Suite) {
	for _, r := range reps {
		r.SuiteFinish(s)
	}
}

func (reps Reporters) RunFinish(r *result.Run) {
	for _, rep := range reps {
		rep.RunFinish(r)
	}
}
