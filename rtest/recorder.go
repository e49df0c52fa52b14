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

package rtest

import (
	"sync"

	"github.com/ppgllrd/rtest/result"
)

// recorder is the Assertion Recorder sink spec.md §4.4 describes:
// every assertion method on *T funnels into record. A mutex guards it
// even though the harness never runs more than one test body per
// process, because a test may itself spawn goroutines that assert.
type recorder struct {
	mu       sync.Mutex
	failures []result.Failure
}

func (r *recorder) record(f result.Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func (r *recorder) Failures() []result.Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]result.Failure, len(r.failures))
	copy(out, r.failures)
	return out
}

func (r *recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures) > 0
}
