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

package reporters

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ppgllrd/rtest/result"
)

// jsonTest/jsonSuite/jsonRun are the serialized shape written by JSON,
// adapted from mantle/harness/reporters/json.go's jsonTest/jsonReporter
// pair to the Suite/Test/Run model of this package.
type jsonTest struct {
	Name     string           `json:"name"`
	Status   result.Status    `json:"status"`
	Duration time.Duration    `json:"duration"`
	Output   string           `json:"output,omitempty"`
	Failures []result.Failure `json:"failures,omitempty"`
}

type jsonSuite struct {
	Name   string     `json:"name"`
	Passed int        `json:"passed"`
	Total  int        `json:"total"`
	Tests  []jsonTest `json:"tests"`
}

type jsonRun struct {
	Suites   []*jsonSuite `json:"suites"`
	Duration int64        `json:"duration_ns"`
}

// JSON is a second built-in reporter, beyond Console, proving the
// dispatcher is genuinely pluggable per spec.md §4.8. Grounded on
// mantle/harness/reporters/json.go: same filename-at-construction,
// encode-on-finish shape, generalized from a flat test list to the
// suite-grouped Run/Suite/Test model this package uses.
type JSON struct {
	path string

	mu      sync.Mutex
	suites  []*jsonSuite
	current *jsonSuite
}

// NewJSON returns a JSON reporter that writes its report to path when
// RunFinish is called.
func NewJSON(path string) *JSON {
	return &JSON{path: path}
}

func (j *JSON) RunStart() {}

func (j *JSON) SuiteStart(suite string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.current = &jsonSuite{Name: suite}
}

func (j *JSON) TestFinish(t *result.Test) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.current == nil {
		j.current = &jsonSuite{Name: t.Suite}
	}
	j.current.Tests = append(j.current.Tests, jsonTest{
		Name:     t.Name,
		Status:   t.Status,
		Duration: t.Duration,
		Output:   string(t.Output),
		Failures: t.Failures,
	})
	j.current.Total++
	if t.Status.OK() {
		j.current.Passed++
	}
}

func (j *JSON) SuiteFinish(*result.Suite) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.suites = append(j.suites, j.current)
	j.current = nil
}

func (j *JSON) RunFinish(r *result.Run) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Create(j.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reporters: writing JSON report to %s: %v\n", j.path, err)
		return
	}
	defer f.Close()

	report := jsonRun{Suites: j.suites, Duration: int64(r.Duration)}
	if err := json.NewEncoder(f).Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "reporters: encoding JSON report: %v\n", err)
	}
}
