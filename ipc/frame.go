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

// Package ipc implements the child-to-parent wire format described in
// spec.md §4.5/§6: a framed text stream, marker-delimited and (per the
// Open Question 2 resolution recorded in SPEC_FULL.md §9)
// length-prefixed, carrying exactly one status record, zero or more
// failure records, and a trailing end-of-data record.
package ipc

import "github.com/ppgllrd/rtest/result"

// marker terminates every record: the ASCII Unit Separator, a byte
// normal test output essentially never contains.
const marker = 0x1F

// maxFieldLen bounds a single record's length so a runaway or
// malicious child can't force the parent to buffer without limit;
// oversized records are truncated per spec.md's "Parser robustness"
// paragraph.
const maxFieldLen = 1 << 20 // 1 MiB

// ChildStatus is the coarse pass/fail outcome the child reports of
// itself. The parent overlays its own classification (crashed,
// timeout, framework error, death-passed) on top of this when the
// frame is absent or the child terminated abnormally.
type ChildStatus int

const (
	ChildPassed ChildStatus = 0
	ChildFailed ChildStatus = 1
)

// Frame is the decoded contents of one child's wire stream.
type Frame struct {
	// StatusKnown is false when no well-formed status record was
	// found; the supervisor then falls back to exit-code inference
	// per spec.md §4.5.
	StatusKnown bool
	Status      ChildStatus
	Failures    []result.Failure
}
