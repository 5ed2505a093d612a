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
	"github.com/covesa/vssc/encoding/vssyaml"
	"github.com/covesa/vssc/internal/loader"
	"github.com/covesa/vssc/internal/pipeline"
	"github.com/covesa/vssc/internal/uid"
	"github.com/covesa/vssc/vss/model"
)

// newExportIDCmd creates the `export id` subcommand: runs the
// static-UID engine (C9) over the compiled tree, optionally validates
// it against a prior stamped vspec, and emits a stamped-vspec overlay
// unless --validate-only is set.
func newExportIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id",
		Short: "stamp static UIDs and validate them against a prior vspec",
		RunE:  runExportID,
	}
	addExportIDFlags(cmd.Flags())
	return cmd
}

func runExportID(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Stamp = true
	cfg.UIDOptions = uidOptionsFromFlags(cmd)

	logger, closeLog, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("stamping static UIDs", "source", cfg.Source, "layer", cfg.UIDOptions.Layer, "hasLayer", cfg.UIDOptions.HasLayer)

	result, errs := pipeline.Compile(cfg)
	printDiagnostics(cmd.ErrOrStderr(), errs)
	if errs != nil && errs.HasFatal() {
		return validationError()
	}

	if prior := flagPrior.String(cmd); prior != "" {
		logger.Info("validating against prior vspec", "prior", prior)
		priorTree, err := loadPriorTree(prior, cfg.IncludeDirs)
		if err != nil {
			return err
		}
		for _, root := range result.Tree.Roots {
			priorRoot := priorTree.ByFQN[root.FQN]
			if priorRoot == nil {
				continue
			}
			diffErrs := uid.ValidateAgainstPrior(&model.Tree{Roots: []*model.Node{root}, ByFQN: result.Tree.ByFQN},
				&model.Tree{Roots: []*model.Node{priorRoot}, ByFQN: priorTree.ByFQN}, cfg.UIDOptions)
			printDiagnostics(cmd.ErrOrStderr(), diffErrs)
			if diffErrs != nil && diffErrs.HasFatal() {
				return validationError()
			}
		}
	}

	if flagValidateOnly.Bool(cmd) {
		return nil
	}

	var artifacts []encoding.Artifact
	for _, root := range result.Tree.Roots {
		out, err := vssyaml.Exporter{}.Export(encoding.Input{
			Root:       root,
			Units:      result.Units,
			Quantities: result.Quantities,
			Types:      result.Types,
			Whitelist:  result.Whitelist,
		})
		if err != nil {
			return ioErrorf("stamped-vspec export failed: %v", err)
		}
		artifacts = append(artifacts, out...)
	}
	return writeArtifacts(artifacts, flagOut.String(cmd))
}

// loadPriorTree loads and builds the prior stamped vspec given to
// --prior, for ValidateAgainstPrior to diff against.
func loadPriorTree(path string, includeDirs []string) (*model.Tree, error) {
	flat, errs := loader.Load(path, includeDirs)
	if errs != nil && errs.HasFatal() {
		return nil, ioErrorf("cannot load prior vspec %q: %v", path, errs)
	}
	tree, terrs := model.BuildTree(flat)
	if terrs != nil && terrs.HasFatal() {
		return nil, ioErrorf("cannot build prior vspec tree %q: %v", path, terrs)
	}
	return tree, nil
}
