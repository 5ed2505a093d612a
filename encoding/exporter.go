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

// Package encoding defines the C11 exporter contract (§6): every
// output format (yaml, json, schema, proto, graphql, idl, csv, tree, bin)
// implements Exporter against the same inputs and never mutates the
// tree it is given.
package encoding

import (
	"github.com/covesa/vssc/internal/registry"
	"github.com/covesa/vssc/vss/model"
)

// Artifact is one output file an Exporter produces: a relative path
// and its rendered bytes.
type Artifact struct {
	Path string
	Data []byte
}

// Input bundles everything an exporter is given: the root of the
// expanded, validated tree, the read-only registries built from the
// source's unit/quantity/type files, and the extended-attribute
// whitelist the validator applied. Options is exporter-specific and
// may be nil.
type Input struct {
	Root       *model.Node
	Units      *registry.Units
	Quantities *registry.Quantities
	Types      *registry.Types
	Whitelist  map[string]bool
	Options    any
}

// Exporter renders a validated tree to one or more output artifacts.
// Implementations must not mutate in.Root or any node reachable from
// it.
type Exporter interface {
	Export(in Input) ([]Artifact, error)
}
