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

// CI appends the four machine-readable summary lines spec.md §6
// describes, when platform.CIMode() is set. It composes with Console
// through Reporters rather than being a separate output mode.
type CI struct {
	W io.Writer
}

// NewCI returns a CI reporter writing to w.
func NewCI(w io.Writer) *CI {
	return &CI{W: w}
}

func (ci *CI) RunStart()                {}
func (ci *CI) SuiteStart(string)         {}
func (ci *CI) TestFinish(*result.Test)   {}
func (ci *CI) SuiteFinish(*result.Suite) {}

func (ci *CI) RunFinish(r *result.Run) {
	if !platform.CIMode() {
		return
	}

	totals := make([]string, len(r.Suites))
	glyphs := make([]string, len(r.Suites))
	passed := make([]string, len(r.Suites))
	ratios := make([]string, len(r.Suites))

	for i, s := range r.Suites {
		totals[i] = fmt.Sprintf("%d/%d", s.Passed, s.Total)
		glyphs[i] = strings.Join(strings.Split(s.Glyphs, ""), ";")
		passed[i] = strconv.Itoa(s.Passed)
		ratio := 0.0
		if s.Total > 0 {
			ratio = float64(s.Passed) / float64(s.Total)
		}
		ratios[i] = strconv.FormatFloat(ratio, 'f', 3, 64)
	}

	fmt.Fprintln(ci.W, strings.Join(totals, " "))
	fmt.Fprintln(ci.W, strings.Join(glyphs, ";;"))
	fmt.Fprintln(ci.W, strings.Join(passed, ";"))
	fmt.Fprintln(ci.W, strings.Join(ratios, ";"))
}
