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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppgllrd/rtest/result"
)

type countingReporter struct {
	runStarts, suiteStarts, testFinishes, suiteFinishes, runFinishes int
}

func (c *countingReporter) RunStart()                { c.runStarts++ }
func (c *countingReporter) SuiteStart(string)         { c.suiteStarts++ }
func (c *countingReporter) TestFinish(*result.Test)   { c.testFinishes++ }
func (c *countingReporter) SuiteFinish(*result.Suite) { c.suiteFinishes++ }
func (c *countingReporter) RunFinish(*result.Run)     { c.runFinishes++ }

func TestReportersFanOutCallsEveryMember(t *testing.T) {
	a, b := &countingReporter{}, &countingReporter{}
	reps := Reporters{a, b}

	reps.RunStart()
	reps.SuiteStart("s")
	reps.TestFinish(&result.Test{})
	reps.SuiteFinish(&result.Suite{})
	reps.RunFinish(&result.Run{})

	for _, c := range []*countingReporter{a, b} {
		if c.runStarts != 1 || c.suiteStarts != 1 || c.testFinishes != 1 || c.suiteFinishes != 1 || c.runFinishes != 1 {
			t.Errorf("counts = %+v, want all 1", c)
		}
	}
}

func TestConsolePrintsFailureDetail(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.TestFinish(&result.Test{
		Suite: "MathSuite", Name: "AddsCorrectly", Status: result.Failed,
		Failures: []result.Failure{
			{File: "math.c", Line: 12, Condition: "x == y", Expected: "4", Actual: "5"},
		},
	})
	out := buf.String()
	if !strings.Contains(out, "math.c:12") {
		t.Errorf("output = %q, missing file:line", out)
	}
	if !strings.Contains(out, "expected: 4") || !strings.Contains(out, "actual:   5") {
		t.Errorf("output = %q, missing expected/actual", out)
	}
}

func TestConsoleEscapesStdoutTaggedControlChars(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.TestFinish(&result.Test{
		Suite: "S", Name: "T", Status: result.Failed,
		Failures: []result.Failure{
			{Condition: "[STDOUT] mismatch", Expected: "hello\n", Actual: "Hello\n"},
		},
	})
	out := buf.String()
	if strings.Contains(out, "hello\n\n") {
		t.Errorf("expected escaped newline, got raw newline in %q", out)
	}
	if !strings.Contains(out, `\n`) {
		t.Errorf("output = %q, want literal backslash-n escape", out)
	}
}

func TestCISummaryOnlyWhenCIModeSet(t *testing.T) {
	os.Unsetenv("CI")
	var buf bytes.Buffer
	ci := NewCI(&buf)
	run := &result.Run{Suites: []*result.Suite{{Name: "S", Total: 2, Passed: 1, Glyphs: "+-"}}}
	ci.RunFinish(run)
	if buf.Len() != 0 {
		t.Errorf("expected no output without CI set, got %q", buf.String())
	}

	os.Setenv("CI", "1")
	defer os.Unsetenv("CI")
	buf.Reset()
	ci.RunFinish(run)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 CI summary lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "1/2" {
		t.Errorf("line 1 = %q, want 1/2", lines[0])
	}
	if lines[1] != "+;-" {
		t.Errorf("line 2 = %q, want +;-", lines[1])
	}
	if lines[2] != "1" {
		t.Errorf("line 3 = %q, want 1", lines[2])
	}
	if lines[3] != "0.500" {
		t.Errorf("line 4 = %q, want 0.500", lines[3])
	}
}

func TestJSONReporterWritesReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	j := NewJSON(path)

	j.RunStart()
	j.SuiteStart("SuiteA")
	j.TestFinish(&result.Test{Suite: "SuiteA", Name: "T1", Status: result.Passed, Duration: time.Millisecond})
	j.SuiteFinish(&result.Suite{Name: "SuiteA"})
	j.RunFinish(&result.Run{Duration: time.Second})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var decoded jsonRun
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if len(decoded.Suites) != 1 || decoded.Suites[0].Name != "SuiteA" {
		t.Fatalf("decoded = %+v, want one suite named SuiteA", decoded)
	}
	if len(decoded.Suites[0].Tests) != 1 || decoded.Suites[0].Tests[0].Name != "T1" {
		t.Fatalf("decoded suite tests = %+v", decoded.Suites[0].Tests)
	}
}
