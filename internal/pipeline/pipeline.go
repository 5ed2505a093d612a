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

// Package pipeline wires the front-end stages (C1-C8) and, on
// request, the static-UID engine (C9) into one Compile entry point
// shared by cmd/vssc and by tests that need a fully built tree
// without going through the CLI.
package pipeline

import (
	"github.com/covesa/vssc/internal/expand"
	"github.com/covesa/vssc/internal/loader"
	"github.com/covesa/vssc/internal/overlay"
	"github.com/covesa/vssc/internal/registry"
	"github.com/covesa/vssc/internal/uid"
	"github.com/covesa/vssc/internal/validate"
	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
)

// Config holds every input needed to compile a vspec source into a
// validated (and optionally stamped) tree, mirroring the CLI's common
// flags (§6).
type Config struct {
	Source       string
	IncludeDirs  []string
	Overlays     []string
	UnitFiles    []string
	QuantityFiles []string
	TypeFiles    []string
	Whitelist    []string
	Strict       bool
	Expand       bool

	// Stamp, when true, runs the static-UID engine (C9) over the
	// validated tree before returning.
	Stamp      bool
	UIDOptions uid.Options
}

// Result is everything downstream consumers (exporters, the UID
// engine's prior-tree validation, the CLI's diagnostic printer) need
// after a successful or partially-successful compile.
type Result struct {
	Tree       *model.Tree
	Units      *registry.Units
	Quantities *registry.Quantities
	Types      *registry.Types
	Whitelist  map[string]bool
	Diagnostics *vsserrors.List
}

// Compile runs C1 through C8 (and C9 when cfg.Stamp is set) against
// cfg, returning every diagnostic collected along the way. A fatal
// diagnostic at any stage still returns the partial Result so the
// caller can report it, but r.Tree may be nil if loading or merging
// failed outright.
func Compile(cfg Config) (*Result, *vsserrors.List) {
	all := &vsserrors.List{}

	units, uerrs := registry.LoadUnits(cfg.UnitFiles)
	all.AddList(uerrs)

	quantities, qerrs := registry.LoadQuantities(cfg.QuantityFiles)
	all.AddList(qerrs)
	all.AddList(registry.CrossCheckQuantities(units, quantities))

	types, terrs := registry.LoadTypes(cfg.TypeFiles, cfg.IncludeDirs)
	all.AddList(terrs)

	base, lerrs := loader.Load(cfg.Source, cfg.IncludeDirs)
	all.AddList(lerrs)
	if all.HasFatal() {
		return &Result{Units: units, Quantities: quantities, Types: types, Diagnostics: all}, all
	}

	var overlays []*model.FlatModel
	for _, path := range cfg.Overlays {
		flat, oerrs := loader.Load(path, cfg.IncludeDirs)
		all.AddList(oerrs)
		overlays = append(overlays, flat)
	}

	merged, merrs := overlay.Merge(base, overlays)
	all.AddList(merrs)
	if all.HasFatal() {
		return &Result{Units: units, Quantities: quantities, Types: types, Diagnostics: all}, all
	}

	mode := expand.NoExpand
	if cfg.Expand {
		mode = expand.Expand
	}
	expanded := expand.Run(merged, mode)

	tree, terrs2 := model.BuildTree(expanded)
	all.AddList(terrs2)
	if all.HasFatal() {
		return &Result{Units: units, Quantities: quantities, Types: types, Diagnostics: all}, all
	}

	whitelist := make(map[string]bool, len(cfg.Whitelist))
	for _, w := range cfg.Whitelist {
		whitelist[w] = true
	}

	verrs := validate.Tree(tree, validate.Options{
		Units:      units,
		Quantities: quantities,
		Types:      types,
		Whitelist:  whitelist,
		Strict:     cfg.Strict,
		Expand:     cfg.Expand,
	})
	all.AddList(verrs)

	result := &Result{
		Tree: tree, Units: units, Quantities: quantities, Types: types,
		Whitelist: whitelist, Diagnostics: all,
	}

	if all.HasFatal() {
		return result, all
	}

	if cfg.Stamp {
		stampErrs := uid.Stamp(tree, cfg.UIDOptions)
		all.AddList(stampErrs)
	}

	if len(all.All()) == 0 {
		return result, nil
	}
	return result, all
}
