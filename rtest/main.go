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
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ppgllrd/rtest/alloc"
	"github.com/ppgllrd/rtest/cli"
	"github.com/ppgllrd/rtest/death"
	"github.com/ppgllrd/rtest/ipc"
	"github.com/ppgllrd/rtest/platform"
	"github.com/ppgllrd/rtest/registry"
	"github.com/ppgllrd/rtest/reporters"
	"github.com/ppgllrd/rtest/result"
	"github.com/ppgllrd/rtest/supervisor"
)

// defaultTimeout is the build-time default per-test timeout spec.md
// §4.9 calls for, overridable with --default_timeout_ms.
const defaultTimeout = 3 * time.Second

// exitChildArgCount is the exit code a child-mode invocation uses when
// its argument count doesn't match spec.md §6's "three additional
// arguments are required" rule.
const exitChildArgCount = 255

// Main dispatches to child or parent mode depending on os.Args, the
// same inspect-argv-before-parsing shape
// cmd/kolet/kolet.go uses ahead of its own flag handling. An embedding
// binary's func main should do nothing but call this after every test
// package has registered its tests from init().
func Main() {
	if len(os.Args) >= 2 && os.Args[1] == "--run_test" {
		runChild(os.Args[2:])
		return
	}
	runParent(os.Args[1:])
}

// runChild implements spec.md §4.9's nine child-mode steps. Step 1
// ("disable stdout/stderr buffering") has no Go analogue to perform:
// unlike C's block-buffered stdio, os.Stdout writes are unbuffered
// syscalls already.
func runChild(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "rtest: --run_test requires exactly two arguments: <suite> <test>")
		os.Exit(exitChildArgCount)
	}
	suite, name := args[0], args[1]

	d := registry.Lookup(suite, name)
	if d == nil {
		fmt.Fprintf(os.Stderr, "rtest: no such test %s/%s\n", suite, name)
		os.Exit(1)
	}

	status, failures := runTest(d)
	if err := ipc.Encode(os.Stdout, status, failures); err != nil {
		fmt.Fprintf(os.Stderr, "rtest: encoding result: %v\n", err)
	}
	os.Exit(0)
}

// runTest performs steps 2-7 of spec.md §4.9's child-mode list
// (allocate the result, init the tracker, invoke the test, check
// leaks, classify pass/fail) without touching process state, so the
// harness's own tests can exercise it directly instead of through a
// spawned subprocess.
func runTest(d *registry.Descriptor) (result.Status, []result.Failure) {
	tracker := alloc.NewTracker()
	tracker.Reset()
	t := newT(tracker)

	// The test body runs in its own goroutine so Fatalf's
	// runtime.Goexit unwinds only the test, not this function.
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Func(t)
	}()
	<-done

	failures := t.rec.Failures()
	if !t.leakCheckDisabled {
		if f := tracker.CheckLeaks(); f != nil {
			failures = append(failures, *f)
		}
	}

	status := result.Passed
	if len(failures) > 0 {
		status = result.Failed
	}
	return status, failures
}

// runParent implements spec.md §4.9's parent-mode bullet list.
func runParent(args []string) {
	platform.EnableVirtualTerminal()

	fs := flag.NewFlagSet("rtest", flag.ExitOnError)
	suiteFilter := fs.String("suite", "", "run only tests declared in this suite")
	timeoutMs := fs.Int("default_timeout_ms", int(defaultTimeout/time.Millisecond),
		"default per-test timeout, in milliseconds")
	cli.RegisterFlags(fs)
	fs.Parse(args)
	cli.StartLogging()

	timeout := time.Duration(*timeoutMs) * time.Millisecond

	selfPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rtest: locating self: %v\n", err)
		os.Exit(1)
	}

	reps := reporters.Reporters{
		reporters.NewConsole(os.Stdout),
		reporters.NewCI(os.Stdout),
	}

	descs := registry.Enumerate()
	if *suiteFilter != "" {
		descs = filterSuite(descs, *suiteFilter)
	}

	run := &result.Run{}
	start := time.Now()
	reps.RunStart()

	for _, suite := range registry.GroupBySuite(descs) {
		reps.SuiteStart(suite.Name)
		sr := &result.Suite{Name: suite.Name}
		for _, d := range suite.Tests {
			tr := runOne(context.Background(), selfPath, d, timeout)
			sr.AddTest(tr)
			reps.TestFinish(tr)
		}
		reps.SuiteFinish(sr)
		run.Suites = append(run.Suites, sr)
	}

	run.Duration = time.Since(start)
	reps.RunFinish(run)

	if run.TotalPassed() == run.TotalTests() {
		os.Exit(0)
	}
	os.Exit(1)
}

// runOne supervises one descriptor and, for death tests, folds in the
// death.Evaluate verdict the way SPEC_FULL.md §4.6/§4.7 describes:
// supervisor.classify leaves Status Pending when d.Death is set and the
// child did not time out, and this is where that gets resolved into
// DeathPassed or Failed.
func runOne(ctx context.Context, selfPath string, d *registry.Descriptor, timeout time.Duration) *result.Test {
	tr, c := supervisor.Run(ctx, selfPath, d, timeout)
	if d.Death != nil && tr.Status == result.Pending {
		if f := death.Evaluate(d.Death, c); f != nil {
			tr.Status = result.Failed
			tr.Failures = append(tr.Failures, *f)
		} else {
			tr.Status = result.DeathPassed
		}
	}
	return tr
}

func filterSuite(descs []*registry.Descriptor, suite string) []*registry.Descriptor {
	var out []*registry.Descriptor
	for _, d := range descs {
		if d.Suite == suite {
			out = append(out, d)
		}
	}
	return out
}
