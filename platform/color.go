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

// Package platform abstracts the bits of terminal and environment
// detection that differ between POSIX and Windows hosts: color mode
// negotiation, CI detection, and a monotonic clock seam.
package platform

import (
	"os"

	"golang.org/x/term"
)

// ColorMode reports whether colorized output should be emitted: stdout
// must be a terminal and NO_COLOR must be unset, matching the original
// _init_colors() (IS_TTY && !no_color).
func ColorMode() bool {
	if _, present := os.LookupEnv("NO_COLOR"); present {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CIMode reports whether the CI environment variable is present,
// regardless of its value.
func CIMode() bool {
	_, present := os.LookupEnv("CI")
	return present
}

// EnableVirtualTerminal is a no-op on POSIX; see color_windows.go for
// the Windows implementation that turns on ANSI escape processing.
func EnableVirtualTerminal() {
	enableVirtualTerminal()
}
