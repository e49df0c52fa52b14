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

package registry

import "testing"

func TestEnumerateOrderMatchesDeclaration(t *testing.T) {
	r := &Registry{}
	names := []string{"c", "a", "b", "a"}
	for i, n := range names {
		// distinct names within one suite so Declare doesn't panic
		r.Test("S", n+string(rune('0'+i)), func(T) {})
	}
	got := r.Enumerate()
	if len(got) != len(names) {
		t.Fatalf("got %d descriptors, want %d", len(got), len(names))
	}
	for i, d := range got {
		want := names[i] + string(rune('0'+i))
		if d.Name != want {
			t.Errorf("descriptor %d: got name %q, want %q", i, d.Name, want)
		}
	}
}

func TestDeclareDuplicatePanics(t *testing.T) {
	r := &Registry{}
	r.Test("S", "dup", func(T) {})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate (suite, name)")
		}
	}()
	r.Test("S", "dup", func(T) {})
}

func TestGroupBySuiteKeepsConsecutiveRuns(t *testing.T) {
	r := &Registry{}
	r.Test("A", "1", func(T) {})
	r.Test("A", "2", func(T) {})
	r.Test("B", "1", func(T) {})
	r.Test("A", "3", func(T) {}) // a second, non-adjacent run of suite A

	suites := GroupBySuite(r.Enumerate())
	if len(suites) != 3 {
		t.Fatalf("got %d suites, want 3 (no cross-file reordering)", len(suites))
	}
	if suites[0].Name != "A" || len(suites[0].Tests) != 2 {
		t.Errorf("first group: got %+v", suites[0])
	}
	if suites[1].Name != "B" || len(suites[1].Tests) != 1 {
		t.Errorf("second group: got %+v", suites[1])
	}
	if suites[2].Name != "A" || len(suites[2].Tests) != 1 {
		t.Errorf("third group: got %+v", suites[2])
	}
}

func TestLookupLinearScan(t *testing.T) {
	r := &Registry{}
	r.Test("A", "1", func(T) {})
	r.Test("B", "2", func(T) {})
	if d := r.Lookup("B", "2"); d == nil || d.Suite != "B" {
		t.Fatalf("Lookup(B,2) = %v, want suite B", d)
	}
	if d := r.Lookup("B", "missing"); d != nil {
		t.Fatalf("Lookup(B,missing) = %v, want nil", d)
	}
}

func TestNewDeathExpectationDefaults(t *testing.T) {
	d := NewDeathExpectation()
	if d.ExitCode != -1 {
		t.Errorf("ExitCode default = %d, want -1 (don't care)", d.ExitCode)
	}
	if d.MinSimilarity != DefaultMinSimilarity {
		t.Errorf("MinSimilarity default = %v, want %v", d.MinSimilarity, DefaultMinSimilarity)
	}
}
