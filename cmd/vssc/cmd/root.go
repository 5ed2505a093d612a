// Copyright 2018 The CUE Authors
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

// Package cmd implements the vssc command-line interface: a root
// command with an `export <format>` subcommand per encoding.Exporter
// and an `export id` subcommand for the static-UID engine.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// New builds the root command. The returned command has not yet had
// Execute called on it.
func New(args []string) *cobra.Command {
	root := &cobra.Command{
		Use:   "vssc",
		Short: "vssc compiles and exports COVESA Vehicle Signal Specification trees",

		// We print our own diagnostics via printDiagnostics; cobra's
		// default error and usage printing would duplicate that.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	addCommonFlags(root.PersistentFlags())
	root.AddCommand(newExportCmd())

	root.SetArgs(args)
	return root
}

// Main runs the vssc CLI and returns the process exit code.
func Main() int {
	root := New(os.Args[1:])
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	return exitSuccess
}
