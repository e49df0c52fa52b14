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

package registry

import (
	"fmt"
	"sync"
	"time"
)

// defaultRegistry mirrors mantle/kola/register.Tests: a package-level
// store populated from init() functions before main runs. Unlike that
// map, it is an append-only slice, because spec.md requires
// enumeration to reproduce declaration order, which a map cannot
// guarantee.
var defaultRegistry = &Registry{}

// Registry holds test descriptors in declaration order. The zero
// value is ready to use; most callers use the package-level functions
// below, which operate on defaultRegistry. A *Registry is exposed
// directly for the harness's own self-tests, which need an isolated
// registry per test case.
type Registry struct {
	mu    sync.Mutex
	descs []*Descriptor
	seen  map[key]bool
}

type key struct{ suite, name string }

// Declare appends a descriptor to the registry. It panics if the
// (suite, name) pair is already registered, matching
// register.Register's panic-on-duplicate policy in the teacher.
func (r *Registry) Declare(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen == nil {
		r.seen = make(map[key]bool)
	}
	k := key{d.Suite, d.Name}
	if r.seen[k] {
		panic(fmt.Sprintf("registry: duplicate test %s/%s", d.Suite, d.Name))
	}
	r.seen[k] = true
	r.descs = append(r.descs, d)
}

// Test registers a normal (non-death) test case.
func (r *Registry) Test(suite, name string, fn TestFunc) {
	r.Declare(&Descriptor{Suite: suite, Name: name, Func: fn})
}

// TestWithTimeout registers a normal test case with a per-test
// timeout override.
func (r *Registry) TestWithTimeout(suite, name string, fn TestFunc, timeout time.Duration) {
	r.Declare(&Descriptor{Suite: suite, Name: name, Func: fn, Timeout: timeout})
}

// DeathTest registers a test case expected to terminate abnormally.
func (r *Registry) DeathTest(suite, name string, fn TestFunc, exp *DeathExpectation) {
	r.Declare(&Descriptor{Suite: suite, Name: name, Func: fn, Death: exp})
}

// Enumerate returns every registered descriptor in declaration order.
// The returned slice is a copy; callers may not mutate the registry
// through it.
func (r *Registry) Enumerate() []*Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Descriptor, len(r.descs))
	copy(out, r.descs)
	return out
}

// Lookup finds the descriptor for (suite, name) via a linear scan, as
// spec.md §4.1 specifies ("no lookup by name beyond a linear scan").
func (r *Registry) Lookup(suite, name string) *Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.descs {
		if d.Suite == suite && d.Name == name {
			return d
		}
	}
	return nil
}

// Suite groups consecutive descriptors that share a suite name, as
// produced by GroupBySuite.
type Suite struct {
	Name  string
	Tests []*Descriptor
}

// GroupBySuite partitions descs into suites, grouping only
// consecutive descriptors with an equal suite name (spec.md §4.1: "no
// cross-file reordering"). Two non-adjacent runs of the same suite
// name become two separate Suite entries, matching the first-seen
// order they were declared in.
func GroupBySuite(descs []*Descriptor) []Suite {
	var suites []Suite
	for _, d := range descs {
		if n := len(suites); n > 0 && suites[n-1].Name == d.Suite {
			suites[n-1].Tests = append(suites[n-1].Tests, d)
			continue
		}
		suites = append(suites, Suite{Name: d.Suite, Tests: []*Descriptor{d}})
	}
	return suites
}

// Declare registers d in the default registry.
func Declare(d *Descriptor) { defaultRegistry.Declare(d) }

// Test registers a normal test case in the default registry.
func Test(suite, name string, fn TestFunc) { defaultRegistry.Test(suite, name, fn) }

// TestWithTimeout registers a normal test case with a timeout
// override in the default registry.
func TestWithTimeout(suite, name string, fn TestFunc, timeout time.Duration) {
	defaultRegistry.TestWithTimeout(suite, name, fn, timeout)
}

// DeathTest registers a death test in the default registry.
func DeathTest(suite, name string, fn TestFunc, exp *DeathExpectation) {
	defaultRegistry.DeathTest(suite, name, fn, exp)
}

// Enumerate returns every descriptor registered in the default
// registry, in declaration order.
func Enumerate() []*Descriptor { return defaultRegistry.Enumerate() }

// Lookup finds a descriptor by (suite, name) in the default registry.
func Lookup(suite, name string) *Descriptor { return defaultRegistry.Lookup(suite, name) }

// Default returns the package-level registry that Test/DeathTest/etc
// populate, for callers (notably rtest.Main) that need to pass it
// explicitly.
func Default() *Registry { return defaultRegistry }
