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

// Package destructor gives supervisor.Run a cleanup list that closes
// the read end of the child's output pipe exactly once on every
// return path — the same small pattern mantle/lang/destructor used
// for VM/cluster teardown, repurposed here for the pipe.
package destructor

import (
	"io"

	"github.com/coreos/pkg/capnslog"
)

var plog = capnslog.NewPackageLogger("github.com/ppgllrd/rtest", "destructor")

// Destructor is anything that needs to be cleaned up exactly once.
type Destructor interface {
	Destroy()
}

// CloserDestructor wraps an io.Closer to provide the Destructor
// interface, logging rather than propagating a Close error since
// destructors run during cleanup, where there is no longer a good
// path to surface a failure to.
type CloserDestructor struct {
	io.Closer
}

func (c CloserDestructor) Destroy() {
	if err := c.Close(); err != nil {
		plog.Errorf("Close() returned error: %v", err)
	}
}

// MultiDestructor runs every registered Destructor, in the order they
// were added.
type MultiDestructor []Destructor

func (m MultiDestructor) Destroy() {
	for _, d := range m {
		d.Destroy()
	}
}

// AddCloser registers closer, wrapped as a CloserDestructor.
func (m *MultiDestructor) AddCloser(closer io.Closer) {
	m.AddDestructor(CloserDestructor{closer})
}

// AddDestructor registers d directly.
func (m *MultiDestructor) AddDestructor(d Destructor) {
	*m = append(*m, d)
}
