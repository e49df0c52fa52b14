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

// Package cli wires up the ambient logging any binary embedding this
// harness wants: a capnslog formatter and a global level, controlled
// by three flags registered on the caller's flag.FlagSet. Grounded on
// mantle/cli/cli.go's Execute/startLogging pair, trimmed of the
// spf13/cobra command tree and of exec.MaybeExec() — rtest.Main owns
// its own flag parsing and its own child/parent dispatch, so neither
// is needed here.
package cli

import (
	"flag"
	"os"

	"github.com/coreos/pkg/capnslog"
)

var plog = capnslog.NewPackageLogger("github.com/ppgllrd/rtest", "cli")

var (
	logDebug   bool
	logVerbose bool
	logLevel   = capnslog.NOTICE
)

// RegisterFlags adds the --log-level/-v/-d flags to fs, mirroring the
// persistent flags mantle/cli/cli.go.Execute attaches to its root
// cobra command.
func RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&logLevel, "log-level", "Set the global logging level (DEBUG, INFO, NOTICE, WARNING, ERROR, CRITICAL)")
	fs.BoolVar(&logVerbose, "v", false, "Alias for --log-level=INFO")
	fs.BoolVar(&logDebug, "d", false, "Alias for --log-level=DEBUG")
}

// StartLogging applies the flags RegisterFlags collected and emits a
// single start-of-run log line, the same shape as
// mantle/cli/cli.go's startLogging.
func StartLogging() {
	switch {
	case logDebug:
		logLevel = capnslog.DEBUG
	case logVerbose:
		logLevel = capnslog.INFO
	}

	capnslog.SetFormatter(capnslog.NewStringFormatter(os.Stderr))
	capnslog.SetGlobalLogLevel(logLevel)
	plog.Infof("rtest started logging at level %s", logLevel)
}

// Logger returns a capnslog logger for pkg under this module's
// repository path, for packages that want to log without declaring
// their own capnslog dependency at the call site.
func Logger(pkg string) *capnslog.PackageLogger {
	return capnslog.NewPackageLogger("github.com/ppgllrd/rtest", pkg)
}
