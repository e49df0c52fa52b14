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
	"os"
)

// Exit codes for framework-fatal memory misuse, per spec.md §6.
const (
	ExitResizeInvalid = 120
	ExitDoubleOrBadFree = 122
)

// Tracker is the per-test allocation interposer. A fresh Tracker is
// created once per child-mode test invocation (spec.md §4.9 step 3),
// mirroring the original _init_memory_tracking()'s reset of
// g_mem_head/_g_alloc_count/g_free_count.
type Tracker struct {
	enabled bool
	active  bool

	nextID  ID
	records map[ID]*record
	order   []ID // insertion order, newest first, matching the C list's head-insertion

	allocCount   int
	freeCount   int
	allocBytes  int64
	freedBytes  int64

	// fatal is called for framework-fatal misuse (resize of an
	// untracked pointer, double/invalid free). It defaults to
	// os.Exit with the exit codes spec.md §6 assigns, and is
	// overridable so the harness's own tests can observe the call
	// instead of terminating the test binary.
	fatal func(code int, reason string)
}

// NewTracker returns a Tracker with both switches off, as at process
// start before any test has begun.
func NewTracker() *Tracker {
	return &Tracker{
		records: make(map[ID]*record),
		fatal:   defaultFatal,
	}
}

func defaultFatal(code int, reason string) {
	fmt.Fprintln(os.Stderr, reason)
	os.Exit(code)
}

// Reset clears all tracking state and enables both switches, as
// spec.md §4.9 step 3 ("clear the allocation list, zero counters,
// enable both switches") requires at the start of every child-mode
// test.
func (t *Tracker) Reset() {
	t.records = make(map[ID]*record)
	t.order = nil
	t.allocCount = 0
	t.freeCount = 0
	t.allocBytes = 0
	t.freedBytes = 0
	t.enabled = true
	t.active = true
}

// SetActive toggles the "active" switch independently of "enabled",
// for framework or user code to bracket non-tracked regions (spec.md
// §4.2 "Active vs enabled").
func (t *Tracker) SetActive(active bool) { t.active = active }

// SetEnabled toggles the "enabled" switch.
func (t *Tracker) SetEnabled(enabled bool) { t.enabled = enabled }

func (t *Tracker) tracking() bool { return t.enabled && t.active }

// Alloc records a new allocation of size bytes made at file:line and
// returns its handle. When tracking is off this is a pure passthrough
// that still returns a usable ID (the caller's notion of "this
// allocation" has no tracked counterpart).
func (t *Tracker) Alloc(size int, file string, line int) ID {
	t.nextID++
	id := t.nextID
	if !t.tracking() {
		return id
	}
	// Self-exclusion: building our own bookkeeping record must not
	// itself be tracked, mirroring _g_mem_tracking_enabled being
	// flipped off around the record's own malloc() in the original.
	t.active = false
	rec := &record{id: id, size: size, file: file, line: line}
	t.active = true

	t.records[id] = rec
	t.order = append([]ID{id}, t.order...)
	t.allocCount++
	t.allocBytes += int64(size)
	return id
}

// Realloc updates the record for id to newSize, or behaves as Alloc
// if id is the zero ID (the NULL-pointer case). Resizing a non-zero
// ID this tracker never allocated, while tracking is active, is a
// fatal framework error per spec.md §4.2.
func (t *Tracker) Realloc(id ID, newSize int, file string, line int) ID {
	if id == 0 {
		return t.Alloc(newSize, file, line)
	}
	if newSize == 0 {
		t.Free(id, file, line)
		return 0
	}
	if !t.tracking() {
		return id
	}
	rec, ok := t.records[id]
	if !ok {
		t.fatal(ExitResizeInvalid, fmt.Sprintf(
			"alloc: resize of untracked allocation %d at %s:%d", id, file, line))
		return id
	}
	old := rec.size
	rec.size = newSize
	rec.file = file
	rec.line = line
	if newSize > old {
		t.allocBytes += int64(newSize - old)
	} else {
		t.freedBytes += int64(old - newSize)
	}
	return id
}

// Free releases the allocation id. Freeing the zero ID is a silent
// no-op (spec.md §9 Open Question 1: the standard library's free(NULL)
// semantics are adopted rather than the earlier fatal-release
// revision). Freeing an id this tracker never allocated, while
// tracking is active, is a fatal framework error.
func (t *Tracker) Free(id ID, file string, line int) {
	if id == 0 {
		return
	}
	if !t.tracking() {
		return
	}
	rec, ok := t.records[id]
	if !ok {
		t.fatal(ExitDoubleOrBadFree, fmt.Sprintf(
			"alloc: invalid or double free of %d at %s:%d", id, file, line))
		return
	}
	delete(t.records, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	t.freeCount++
	t.freedBytes += int64(rec.size)
}

// Baseline marks the given allocations (or, with no arguments, every
// currently live allocation) so future leak checks ignore them, per
// spec.md §4.3. Baselined blocks remain trackable: Free still works
// on them afterward.
func (t *Tracker) Baseline(ids ...ID) {
	if len(ids) == 0 {
		for _, rec := range t.records {
			rec.baseline = true
		}
		return
	}
	for _, id := range ids {
		if rec, ok := t.records[id]; ok {
			rec.baseline = true
		}
	}
}

// AllocCount, FreeCount, AllocatedBytes, FreedBytes expose the
// counters spec.md §4.2 requires be available to ordinary integer
// assertions.
func (t *Tracker) AllocCount() int       { return t.allocCount }
func (t *Tracker) FreeCount() int       { return t.freeCount }
func (t *Tracker) AllocatedBytes() int64 { return t.allocBytes }
func (t *Tracker) FreedBytes() int64    { return t.freedBytes }
