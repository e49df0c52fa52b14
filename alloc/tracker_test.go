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
	"strings"
	"testing"
)

func newResetTracker() *Tracker {
	tr := NewTracker()
	tr.Reset()
	return tr
}

func TestAllocFreeBalancedNoLeak(t *testing.T) {
	tr := newResetTracker()
	ids := make([]ID, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, tr.Alloc(16, "x.c", 10+i))
	}
	for _, id := range ids {
		tr.Free(id, "x.c", 99)
	}
	if tr.AllocCount() != 5 || tr.FreeCount() != 5 {
		t.Fatalf("AllocCount=%d FreeCount=%d, want 5/5", tr.AllocCount(), tr.FreeCount())
	}
	if f := tr.CheckLeaks(); f != nil {
		t.Fatalf("expected no leak, got %+v", f)
	}
}

func TestCheckLeaksReportsLiveBlock(t *testing.T) {
	tr := newResetTracker()
	tr.Alloc(100, "x.c", 42)

	f := tr.CheckLeaks()
	if f == nil {
		t.Fatal("expected a leak failure")
	}
	if !strings.Contains(f.Condition, "No memory leaks") {
		t.Errorf("Condition = %q, want it to mention \"No memory leaks\"", f.Condition)
	}
	if !strings.Contains(f.Actual, "100 bytes allocated at x.c:42") {
		t.Errorf("Actual = %q, missing expected block description", f.Actual)
	}
}

func TestBaselineExcludesExistingAllocations(t *testing.T) {
	tr := newResetTracker()
	tr.Alloc(8, "x.c", 1)
	tr.Alloc(8, "x.c", 2)
	tr.Baseline()

	if f := tr.CheckLeaks(); f != nil {
		t.Fatalf("expected baselined allocations to be excluded, got %+v", f)
	}

	tr.Alloc(8, "x.c", 3)
	f := tr.CheckLeaks()
	if f == nil {
		t.Fatal("expected the post-baseline allocation to be reported as a leak")
	}
	if !strings.Contains(f.Actual, "x.c:3") {
		t.Errorf("Actual = %q, want mention of x.c:3", f.Actual)
	}
}

func TestBaselineSpecificIDs(t *testing.T) {
	tr := newResetTracker()
	a := tr.Alloc(8, "x.c", 1)
	tr.Alloc(8, "x.c", 2)
	tr.Baseline(a)

	f := tr.CheckLeaks()
	if f == nil {
		t.Fatal("expected the non-baselined allocation to leak")
	}
	if strings.Contains(f.Actual, "x.c:1") {
		t.Errorf("baselined allocation x.c:1 should not appear, got %q", f.Actual)
	}
	if !strings.Contains(f.Actual, "x.c:2") {
		t.Errorf("Actual = %q, want mention of x.c:2", f.Actual)
	}
}

func TestReallocGrowAndShrinkByteAccounting(t *testing.T) {
	tr := newResetTracker()
	id := tr.Alloc(10, "x.c", 1)
	if tr.AllocatedBytes() != 10 {
		t.Fatalf("AllocatedBytes = %d, want 10", tr.AllocatedBytes())
	}

	id = tr.Realloc(id, 30, "x.c", 2)
	if tr.AllocatedBytes() != 30 {
		t.Fatalf("after grow, AllocatedBytes = %d, want 30", tr.AllocatedBytes())
	}

	tr.Realloc(id, 5, "x.c", 3)
	if tr.AllocatedBytes() != 30 {
		t.Fatalf("shrink must not change cumulative AllocatedBytes, got %d", tr.AllocatedBytes())
	}
	if tr.FreedBytes() != 25 {
		t.Fatalf("FreedBytes = %d, want 25 (30-5)", tr.FreedBytes())
	}
}

func TestReallocNilIDBehavesAsAlloc(t *testing.T) {
	tr := newResetTracker()
	id := tr.Realloc(0, 10, "x.c", 1)
	if id == 0 {
		t.Fatal("Realloc(0, ...) should return a nonzero ID")
	}
	if tr.AllocCount() != 1 {
		t.Fatalf("AllocCount = %d, want 1", tr.AllocCount())
	}
}

func TestReallocZeroSizeBehavesAsFree(t *testing.T) {
	tr := newResetTracker()
	id := tr.Alloc(10, "x.c", 1)
	got := tr.Realloc(id, 0, "x.c", 2)
	if got != 0 {
		t.Fatalf("Realloc(id, 0, ...) = %d, want 0", got)
	}
	if tr.FreeCount() != 1 {
		t.Fatalf("FreeCount = %d, want 1", tr.FreeCount())
	}
}

func TestFreeNilIsNoOp(t *testing.T) {
	tr := newResetTracker()
	tr.Free(0, "x.c", 1)
	if tr.FreeCount() != 0 {
		t.Fatalf("FreeCount = %d, want 0 after freeing the nil ID", tr.FreeCount())
	}
}

func TestFreeUnknownIDIsFatal(t *testing.T) {
	tr := newResetTracker()
	var gotCode int
	var gotReason string
	tr.fatal = func(code int, reason string) {
		gotCode = code
		gotReason = reason
	}

	tr.Free(ID(999), "x.c", 7)

	if gotCode != ExitDoubleOrBadFree {
		t.Errorf("fatal code = %d, want %d", gotCode, ExitDoubleOrBadFree)
	}
	if !strings.Contains(gotReason, "x.c:7") {
		t.Errorf("fatal reason = %q, want mention of x.c:7", gotReason)
	}
}

func TestReallocUnknownIDIsFatal(t *testing.T) {
	tr := newResetTracker()
	var gotCode int
	tr.fatal = func(code int, reason string) { gotCode = code }

	tr.Realloc(ID(999), 20, "x.c", 7)

	if gotCode != ExitResizeInvalid {
		t.Errorf("fatal code = %d, want %d", gotCode, ExitResizeInvalid)
	}
}

func TestDisabledTrackerDoesNotRecord(t *testing.T) {
	tr := NewTracker() // enabled=false, active=false by construction
	id := tr.Alloc(10, "x.c", 1)
	if id == 0 {
		t.Fatal("Alloc must still return a usable ID when tracking is off")
	}
	if tr.AllocCount() != 0 {
		t.Fatalf("AllocCount = %d, want 0 while tracking is disabled", tr.AllocCount())
	}
	if f := tr.CheckLeaks(); f != nil {
		t.Fatalf("expected no leak while tracking is disabled, got %+v", f)
	}
}

func TestSetActiveSuspendsTrackingWithoutDisabling(t *testing.T) {
	tr := newResetTracker()
	tr.SetActive(false)
	tr.Alloc(10, "x.c", 1)
	if tr.AllocCount() != 0 {
		t.Fatalf("AllocCount = %d, want 0 while inactive", tr.AllocCount())
	}
	tr.SetActive(true)
	tr.Alloc(10, "x.c", 2)
	if tr.AllocCount() != 1 {
		t.Fatalf("AllocCount = %d, want 1 once reactivated", tr.AllocCount())
	}
}

func TestResetClearsPriorState(t *testing.T) {
	tr := newResetTracker()
	tr.Alloc(10, "x.c", 1)
	tr.Reset()
	if tr.AllocCount() != 0 || tr.FreeCount() != 0 {
		t.Fatalf("Reset left nonzero counters: alloc=%d free=%d", tr.AllocCount(), tr.FreeCount())
	}
	if f := tr.CheckLeaks(); f != nil {
		t.Fatalf("Reset should clear prior live allocations, got %+v", f)
	}
}
