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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppgllrd/rtest/platform"
	"github.com/ppgllrd/rtest/result"
)

// Console is the built-in human-readable reporter described in
// spec.md §4.8: a suite banner, one status line per test, a
// per-failure block for FAILED tests, captured output for CRASHED
// tests, per-suite and global summaries.
type Console struct {
	W io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

func (c *Console) RunStart() {}

func (c *Console) SuiteStart(suite string) {
	fmt.Fprintf(c.W, "=== RUN suite %s\n", suite)
}

func (c *Console) TestFinish(t *result.Test) {
	fmt.Fprintf(c.W, "  %-16s %s/%s (%s)\n", c.display(t.Status), t.Suite, t.Name, t.Duration)

	switch t.Status {
	case result.Failed:
		for _, f := range t.Failures {
			cond := f.Condition
			if strings.HasPrefix(cond, "[STDOUT]") {
				cond = escapeControl(cond)
			}
			fmt.Fprintf(c.W, "      %s:%d: %s\n", f.File, f.Line, cond)
			if f.Expected != "" || f.Actual != "" {
				fmt.Fprintf(c.W, "        expected: %s\n        actual:   %s\n",
					escapeControl(f.Expected), escapeControl(f.Actual))
			}
		}
	case result.Crashed:
		if len(t.Output) > 0 {
			fmt.Fprintf(c.W, "      captured output:\n%s\n", indent(string(t.Output)))
		}
	}
}

func (c *Console) SuiteFinish(s *result.Suite) {
	fmt.Fprintf(c.W, "--- suite %s: %s %d/%d\n", s.Name, s.Glyphs, s.Passed, s.Total)
}

func (c *Console) RunFinish(r *result.Run) {
	fmt.Fprintf(c.W, "=== %d/%d tests passed (%s)\n", r.TotalPassed(), r.TotalTests(), r.Duration)
}

func (c *Console) display(s result.Status) string {
	if platform.ColorMode() {
		return s.Display()
	}
	return string(s)
}

// escapeControl renders control characters (notably the newlines
// stdout-equality failures tend to carry) visibly, the way
// strconv.Quote would, without the surrounding double quotes.
func escapeControl(s string) string {
	quoted := strconv.Quote(s)
	return quoted[1 : len(quoted)-1]
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "        " + l
	}
	return strings.Join(lines, "\n")
}
