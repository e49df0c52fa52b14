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

//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"
)

// platformClassify extracts signal/exit-code disposition from a
// POSIX wait status, the same type assertion mantle/system/exec's
// Signaled() makes, guarded here by the build tag instead of left
// unguarded.
func platformClassify(cmd *exec.Cmd, waitErr error) (signaled bool, signal string, exitCode int) {
	if cmd.ProcessState == nil {
		return false, "", -1
	}
	status, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return false, "", cmd.ProcessState.ExitCode()
	}
	if status.Signaled() {
		return true, status.Signal().String(), 0
	}
	return false, "", status.ExitStatus()
}
