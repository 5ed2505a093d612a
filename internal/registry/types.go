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

package registry

import (
	"github.com/covesa/vssc/internal/loader"
	"github.com/covesa/vssc/internal/overlay"
	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
	"github.com/covesa/vssc/vss/token"
)

// StructDef is one user-defined struct: an ordered list of its
// property definitions, which are themselves Nodes of kind Property.
type StructDef struct {
	FQN        string
	Node       *model.Node
	Properties []*model.Node
}

// Types is the merged type registry (C4): a mapping from struct FQN
// to its property list.
type Types struct {
	byFQN map[string]*StructDef
}

// Known returns every struct FQN registered in t, used by exporters
// that must enumerate all known structs rather than look one up by
// name (e.g. the protobuf message-set renderer).
func (t *Types) Known() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.byFQN))
	for fqn := range t.byFQN {
		out = append(out, fqn)
	}
	return out
}

// Lookup returns the struct definition for fqn.
func (t *Types) Lookup(fqn string) (*StructDef, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.byFQN[fqn]
	return s, ok
}

// LoadTypes loads zero or more type files, processed identically to
// overlays (C4): the first file is the base, subsequent files are
// layered on top and may redefine struct members (§4.4). Each file is
// itself loaded through the C1 document loader, so `#include` works
// inside type libraries too.
func LoadTypes(paths []string, includeRoots []string) (*Types, *vsserrors.List) {
	errs := &vsserrors.List{}
	if len(paths) == 0 {
		return &Types{byFQN: map[string]*StructDef{}}, nil
	}

	base, lerrs := loader.Load(paths[0], includeRoots)
	errs.AddList(lerrs)

	var overlays []*model.FlatModel
	for _, p := range paths[1:] {
		flat, lerrs := loader.Load(p, includeRoots)
		errs.AddList(lerrs)
		overlays = append(overlays, flat)
	}

	merged, merrs := overlay.Merge(base, overlays)
	errs.AddList(merrs)

	tree, terrs := model.BuildTree(merged)
	if terrs != nil {
		errs.AddList(terrs)
	}

	reg := &Types{byFQN: map[string]*StructDef{}}
	tree.Walk(func(n *model.Node) {
		if n.Kind != model.Struct {
			return
		}
		def := &StructDef{FQN: n.FQN, Node: n}
		for _, c := range n.Children {
			if c.Kind == model.Property {
				def.Properties = append(def.Properties, c)
			}
		}
		reg.byFQN[n.FQN] = def
	})

	if cyc := detectCycles(reg); cyc != nil {
		errs.AddList(cyc)
	}

	if len(errs.All()) > 0 {
		return reg, errs
	}
	return reg, nil
}

// detectCycles walks the struct reference graph (a struct's property
// may itself be typed as another struct) and reports CyclicType for
// any cycle (§4.4, invariant that struct property references never
// cycle).
func detectCycles(reg *Types) *vsserrors.List {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(reg.byFQN))
	errs := &vsserrors.List{}

	var visit func(fqn string, stack []string) bool
	visit = func(fqn string, stack []string) bool {
		if color[fqn] == black {
			return false
		}
		if color[fqn] == gray {
			errs.Add(vsserrors.Newf(vsserrors.CyclicType, token.NoPos, fqn,
				"cyclic struct reference: %v -> %s", stack, fqn))
			return true
		}
		color[fqn] = gray
		def, ok := reg.byFQN[fqn]
		if ok {
			for _, prop := range def.Properties {
				if prop.Datatype == nil || !prop.Datatype.IsStruct() {
					continue
				}
				if visit(prop.Datatype.Struct, append(stack, fqn)) {
					color[fqn] = black
					return true
				}
			}
		}
		color[fqn] = black
		return false
	}

	for fqn := range reg.byFQN {
		if color[fqn] == white {
			visit(fqn, nil)
		}
	}

	if len(errs.All()) == 0 {
		return nil
	}
	return errs
}
