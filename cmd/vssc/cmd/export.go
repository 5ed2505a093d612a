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

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/encoding/vssbin"
	"github.com/covesa/vssc/encoding/vsscsv"
	"github.com/covesa/vssc/encoding/vssgraphql"
	"github.com/covesa/vssc/encoding/vssidl"
	"github.com/covesa/vssc/encoding/vssjson"
	"github.com/covesa/vssc/encoding/vssproto"
	"github.com/covesa/vssc/encoding/vssschema"
	"github.com/covesa/vssc/encoding/vsstree"
	"github.com/covesa/vssc/encoding/vssyaml"
	"github.com/covesa/vssc/internal/pipeline"
)

// newExportCmd creates the `export` command and its per-format
// subcommands, plus the static-UID `export id` subcommand.
func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "compile a vspec source and render it through an exporter",
	}

	formats := []struct {
		use string
		exp encoding.Exporter
	}{
		{"yaml", vssyaml.Exporter{}},
		{"json", vssjson.Exporter{}},
		{"schema", vssschema.Exporter{}},
		{"proto", vssproto.Exporter{}},
		{"graphql", vssgraphql.Exporter{}},
		{"idl-dds", vssidl.Exporter{Dialect: vssidl.DDS}},
		{"idl-franca", vssidl.Exporter{Dialect: vssidl.Franca}},
		{"csv", vsscsv.Exporter{}},
		{"tree", vsstree.Exporter{}},
		{"bin", vssbin.Exporter{}},
	}
	for _, f := range formats {
		exp := f.exp
		sub := &cobra.Command{
			Use:   f.use,
			Short: "export as " + f.use,
			RunE: func(c *cobra.Command, args []string) error {
				return runExport(c, exp)
			},
		}
		cmd.AddCommand(sub)
	}

	cmd.AddCommand(newExportIDCmd())
	return cmd
}

// compileForExport runs the pipeline for a plain export subcommand
// (no UID stamping) and reports any diagnostics it collected.
func compileForExport(cmd *cobra.Command) (*pipeline.Result, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	defer closeLog()
	logger.Info("compiling", "source", cfg.Source, "overlays", len(cfg.Overlays))

	result, errs := pipeline.Compile(cfg)
	printDiagnostics(cmd.ErrOrStderr(), errs)
	if errs != nil && errs.HasFatal() {
		return result, validationError()
	}
	return result, nil
}

// runExport compiles cfg's source and renders every root through exp,
// writing the resulting artifacts to --out (or their own relative
// paths when --out is unset).
func runExport(cmd *cobra.Command, exp encoding.Exporter) error {
	result, err := compileForExport(cmd)
	if err != nil {
		return err
	}

	var artifacts []encoding.Artifact
	for _, root := range result.Tree.Roots {
		out, err := exp.Export(encoding.Input{
			Root:       root,
			Units:      result.Units,
			Quantities: result.Quantities,
			Types:      result.Types,
			Whitelist:  result.Whitelist,
		})
		if err != nil {
			return ioErrorf("export failed: %v", err)
		}
		artifacts = append(artifacts, out...)
	}

	return writeArtifacts(artifacts, flagOut.String(cmd))
}
