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

// Package vssyaml renders a tree back to the source vspec YAML shape:
// a mapping from FQN to its attributes. It is the back end of
// `export yaml`; its own tests load its output back through the
// loader.
package vssyaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/vss/model"
)

// Exporter renders the tree as one vspec YAML document.
type Exporter struct{}

// Export implements encoding.Exporter.
func (Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	out := map[string]any{}
	walk(in.Root, out)
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, err
	}
	return []encoding.Artifact{{Path: "vspec.yaml", Data: data}}, nil
}

func walk(n *model.Node, out map[string]any) {
	if n == nil {
		return
	}
	out[n.FQN] = attributes(n)
	for _, c := range n.Children {
		walk(c, out)
	}
}

// attributes renders n's base attributes the way the loader expects
// to read them back, omitting empty strings and lists and any bound,
// default or arraysize whose Has flag is unset rather than emitting
// its Go zero value.
func attributes(n *model.Node) map[string]any {
	m := map[string]any{"type": string(n.Kind)}
	if n.Datatype != nil {
		m["datatype"] = n.Datatype.Canonical()
	}
	if n.Description != "" {
		m["description"] = n.Description
	}
	if n.Comment != "" {
		m["comment"] = n.Comment
	}
	if n.Deprecation != "" {
		m["deprecation"] = n.Deprecation
	}
	if n.HasDefault {
		m["default"] = n.Default
	}
	if n.HasMin {
		m["min"] = n.Min
	}
	if n.HasMax {
		m["max"] = n.Max
	}
	if n.Unit != "" {
		m["unit"] = n.Unit
	}
	if len(n.Allowed) > 0 {
		m["allowed"] = n.Allowed
	}
	if n.HasArraySize {
		m["arraysize"] = n.ArraySize
	}
	if len(n.Instances) > 0 {
		dims := make([]any, len(n.Instances))
		for i, d := range n.Instances {
			if d.IsRange {
				dims[i] = d.String()
			} else {
				dims[i] = d.Explicit
			}
		}
		m["instances"] = dims
	}
	if len(n.FKA) > 0 {
		m["fka"] = n.FKA
	}
	if n.ConstUID != nil {
		m["constUID"] = fmt.Sprintf("%08x", *n.ConstUID)
	}
	if n.StaticUID != nil {
		m["staticUID"] = fmt.Sprintf("%08x", *n.StaticUID)
	}
	if n.Validate != "" {
		m["validate"] = n.Validate
	}
	for k, v := range n.Extended {
		m[k] = v
	}
	return m
}
