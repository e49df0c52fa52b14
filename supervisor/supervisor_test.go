// Copyright 2015 CoreOS, Inc.
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

package supervisor

import (
	"testing"
	"time"

	"github.com/ppgllrd/rtest/ipc"
	"github.com/ppgllrd/rtest/registry"
	"github.com/ppgllrd/rtest/result"
)

func TestClassifyTimeoutTakesPriority(t *testing.T) {
	d := &registry.Descriptor{Suite: "s", Name: "t"}
	c := Classification{TimedOut: true, Frame: &ipc.Frame{StatusKnown: true, Status: ipc.ChildPassed}}
	got := classify(d, c, time.Second)
	if got.Status != result.Timeout {
		t.Fatalf("Status = %v, want Timeout", got.Status)
	}
}

func TestClassifyCleanPassedFrame(t *testing.T) {
	d := &registry.Descriptor{Suite: "s", Name: "t"}
	c := Classification{Frame: &ipc.Frame{StatusKnown: true, Status: ipc.ChildPassed}}
	got := classify(d, c, time.Second)
	if got.Status != result.Passed {
		t.Fatalf("Status = %v, want Passed", got.Status)
	}
}

func TestClassifyCleanFailedFrameCarriesFailures(t *testing.T) {
	d := &registry.Descriptor{Suite: "s", Name: "t"}
	failures := []result.Failure{{File: "a.c", Line: 1, Condition: "x"}}
	c := Classification{Frame: &ipc.Frame{StatusKnown: true, Status: ipc.ChildFailed, Failures: failures}}
	got := classify(d, c, time.Second)
	if got.Status != result.Failed {
		t.Fatalf("Status = %v, want Failed", got.Status)
	}
	if len(got.Failures) != 1 || got.Failures[0] != failures[0] {
		t.Errorf("Failures = %v, want %v", got.Failures, failures)
	}
}

func TestClassifyNonZeroExitWithoutFrameIsCrashed(t *testing.T) {
	d := &registry.Descriptor{Suite: "s", Name: "t"}
	c := Classification{ExitCode: 120, Frame: &ipc.Frame{}}
	got := classify(d, c, time.Second)
	if got.Status != result.Crashed {
		t.Fatalf("Status = %v, want Crashed", got.Status)
	}
}

func TestClassifySignaledIsCrashedWithoutDeathExpectation(t *testing.T) {
	d := &registry.Descriptor{Suite: "s", Name: "t"}
	c := Classification{Signaled: true, Signal: "segmentation fault", Frame: &ipc.Frame{}}
	got := classify(d, c, time.Second)
	if got.Status != result.Crashed {
		t.Fatalf("Status = %v, want Crashed", got.Status)
	}
}

func TestClassifyDeathExpectationLeftPending(t *testing.T) {
	d := &registry.Descriptor{Suite: "s", Name: "t", Death: registry.NewDeathExpectation()}
	c := Classification{Signaled: true, Signal: "segmentation fault", Frame: &ipc.Frame{}}
	got := classify(d, c, time.Second)
	if got.Status != result.Pending {
		t.Fatalf("Status = %v, want Pending so rtest.Main can run death.Evaluate", got.Status)
	}
}
