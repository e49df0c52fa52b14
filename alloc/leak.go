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

package alloc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppgllrd/rtest/result"
)

// CheckLeaks returns a Failure describing every currently live,
// non-baselined allocation, or nil if there are none (spec.md §4.3).
// Baselined allocations are excluded regardless of whether they were
// freed afterward; everything else still held at the time this is
// called is a leak.
//
// The original _check_for_leaks() walks g_mem_head front to back and
// prints one "N bytes allocated at file:line" line per block; this
// reports the same per-block detail, ordered oldest-allocation-first
// so the message is stable across a map's nondeterministic iteration.
func (t *Tracker) CheckLeaks() *result.Failure {
	var leaked []*record
	for _, id := range t.order {
		rec := t.records[id]
		if !rec.baseline {
			leaked = append(leaked, rec)
		}
	}
	if len(leaked) == 0 {
		return nil
	}

	sort.SliceStable(leaked, func(i, j int) bool { return leaked[i].id < leaked[j].id })

	var b strings.Builder
	var total int64
	for i, rec := range leaked {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%d bytes allocated at %s:%d", rec.size, rec.file, rec.line)
		total += int64(rec.size)
	}

	first := leaked[0]
	return &result.Failure{
		File:      first.file,
		Line:      first.line,
		Condition: "No memory leaks",
		Expected:  "0 bytes leaked",
		Actual:    fmt.Sprintf("%d bytes leaked across %d block(s): %s", total, len(leaked), b.String()),
	}
}
