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

// Package supervisor spawns one child-mode invocation of the test
// binary per descriptor, captures its combined output, enforces a
// timeout, and classifies how it terminated (spec.md §4.6). It is
// grounded on mantle/system/exec's Cmd wrapper and multicall
// self-re-exec pattern, adapted from a long-lived daemon-launching
// shape to a one-shot run-to-completion-or-kill shape.
package supervisor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/coreos/pkg/multierror"
	"github.com/pkg/errors"

	"github.com/ppgllrd/rtest/destructor"
	"github.com/ppgllrd/rtest/ipc"
	"github.com/ppgllrd/rtest/platform"
	"github.com/ppgllrd/rtest/registry"
	"github.com/ppgllrd/rtest/result"
)

// Clock is how Run measures a test's wall duration; tests substitute
// a fake implementation of platform.Clock to make duration assertions
// deterministic instead of timing-sensitive.
var Clock platform.Clock = platform.RealClock

// Classification is everything this package extracts from a finished
// *exec.Cmd: how it died, if at all, and what it wrote.
type Classification struct {
	TimedOut bool
	Signaled bool
	Signal   string // empty unless Signaled
	ExitCode int    // meaningless if Signaled
	Output   []byte
	Frame    *ipc.Frame
}

// platformClassify and setPdeathsig are implemented per-platform
// (classify_unix.go/classify_windows.go and pdeathsig_linux.go/
// pdeathsig_other.go) because only POSIX exposes termination signals
// and only Linux has a parent-death signal.

// Run spawns selfPath in child mode for d, waits up to the effective
// timeout, and returns the finished result.Test together with the raw
// Classification that produced it. rtest.Main needs the latter too:
// when d.Death is set, classify leaves Status Pending and Main is
// expected to call death.Evaluate(d.Death, classification) itself.
// ctx's cancellation (e.g. the whole run being aborted) takes priority
// over the timeout.
func Run(ctx context.Context, selfPath string, d *registry.Descriptor, defaultTimeout time.Duration) (*result.Test, Classification) {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	start := Clock.Now()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, selfPath, "--run_test", d.Suite, d.Name)
	setPdeathsig(cmd)

	pr, pw, err := os.Pipe()
	if err != nil {
		return frameworkErrorResult(d, start, errors.Wrap(err, "creating output pipe")), Classification{}
	}
	var cleanup destructor.MultiDestructor
	cleanup.AddCloser(pr)
	defer cleanup.Destroy()

	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return frameworkErrorResult(d, start, errors.Wrap(err, "starting child process")), Classification{}
	}
	pw.Close()

	outCh := make(chan []byte, 1)
	go func() {
		out, _ := io.ReadAll(pr)
		outCh <- out
	}()

	waitErr := cmd.Wait()
	output := <-outCh
	if waitErr != nil && cmd.ProcessState == nil {
		// Wait itself failed; there is no termination status to classify.
		return frameworkErrorResult(d, start, errors.Wrap(waitErr, "waiting for child process")), Classification{}
	}
	duration := Clock.Now().Sub(start)

	timedOut := runCtx.Err() == context.DeadlineExceeded
	signaled, signal, exitCode := platformClassify(cmd, waitErr)

	c := Classification{
		TimedOut: timedOut,
		Signaled: signaled,
		Signal:   signal,
		ExitCode: exitCode,
		Output:   output,
		Frame:    ipc.DecodeFromCombinedOutput(output),
	}

	return classify(d, c, duration), c
}

// classify turns a Classification into the final result.Test,
// applying the no-death-expectation table from spec.md §4.6 directly.
// A timeout is classified as Timeout whether or not d.Death is set.
// Otherwise, when d.Death is set, Status is left Pending: rtest.Main calls
// death.Evaluate with this same Classification and overwrites
// Status/Failures itself, keeping death evaluation out of this
// package to avoid a supervisor<->death import cycle (death imports
// this package for Classification).
func classify(d *registry.Descriptor, c Classification, duration time.Duration) *result.Test {
	t := &result.Test{
		Suite:    d.Suite,
		Name:     d.Name,
		Duration: duration,
		Output:   c.Output,
	}

	switch {
	case c.TimedOut:
		t.Status = result.Timeout
	case d.Death != nil:
		t.Status = result.Pending
	case c.Frame.StatusKnown && !c.Signaled && c.ExitCode == 0:
		if c.Frame.Status == ipc.ChildPassed {
			t.Status = result.Passed
		} else {
			t.Status = result.Failed
			t.Failures = append(t.Failures, c.Frame.Failures...)
		}
	default:
		t.Status = result.Crashed
	}
	return t
}

func frameworkErrorResult(d *registry.Descriptor, start time.Time, err error) *result.Test {
	errs := multierror.Error{err}
	return &result.Test{
		Suite:    d.Suite,
		Name:     d.Name,
		Duration: Clock.Now().Sub(start),
		Status:   result.FrameworkError,
		Failures: []result.Failure{{
			Condition: "framework error",
			Actual:    errs.Error(),
		}},
	}
}
