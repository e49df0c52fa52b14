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

//go:build windows

package supervisor

import "os/exec"

// platformClassify has no POSIX signal channel to report on Windows;
// every termination is an exit code, per spec.md §4.6's Windows note.
func platformClassify(cmd *exec.Cmd, waitErr error) (signaled bool, signal string, exitCode int) {
	if cmd.ProcessState == nil {
		return false, "", -1
	}
	return false, "", cmd.ProcessState.ExitCode()
}
