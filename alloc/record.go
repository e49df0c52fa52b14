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

// Package alloc implements the per-test allocation interposer and
// leak checker described in spec.md §4.2/§4.3. Go has no portable way
// to intercept a language-level allocator the way the original C
// macros rewrite malloc/calloc/realloc/free, so per spec.md §9's
// design notes, this is "a thin wrapper library that user code calls
// explicitly": test bodies call Tracker.Alloc/Realloc/Free directly
// in place of whatever allocation they want tracked.
package alloc

// ID is an opaque handle standing in for a heap address. Real pointer
// values aren't available to track here (this package doesn't
// allocate the memory it's asked to track, only bookkeeping about
// it), and reusing unsafe.Pointer as a map key would add no
// information over a monotonically increasing handle.
type ID uint64

// record is one tracked allocation (spec.md §3 "Allocation record").
type record struct {
	id       ID
	size     int
	file     string
	line     int
	baseline bool
}
