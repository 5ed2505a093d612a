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

// Package vssschema renders every leaf's datatype contract as a
// JSON Schema document (draft-07 shape), one definition per FQN.
package vssschema

import (
	"encoding/json"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/vss/model"
)

// Exporter renders the tree's leaves as JSON Schema definitions.
type Exporter struct{}

// Export implements encoding.Exporter.
func (Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	defs := map[string]any{}
	collect(in.Root, defs)

	doc := map[string]any{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "VSS",
		"definitions": defs,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return []encoding.Artifact{{Path: "vspec.schema.json", Data: data}}, nil
}

func collect(n *model.Node, defs map[string]any) {
	if n == nil {
		return
	}
	if n.Kind.HasDatatype() {
		defs[n.FQN] = schemaFor(n)
	}
	for _, c := range n.Children {
		collect(c, defs)
	}
}

func schemaFor(n *model.Node) map[string]any {
	s := map[string]any{"description": n.Description}
	if n.Datatype == nil {
		return s
	}
	item := jsonSchemaType(n.Datatype.Builtin, n.Datatype.Struct)
	if n.Datatype.Array {
		s["type"] = "array"
		s["items"] = item
	} else {
		for k, v := range item {
			s[k] = v
		}
	}
	if len(n.Allowed) > 0 {
		vals := make([]any, len(n.Allowed))
		for i, a := range n.Allowed {
			vals[i] = a
		}
		s["enum"] = vals
	}
	if n.HasMin {
		s["minimum"] = n.Min
	}
	if n.HasMax {
		s["maximum"] = n.Max
	}
	return s
}

func jsonSchemaType(scalar model.Scalar, structRef string) map[string]any {
	if structRef != "" {
		return map[string]any{"$ref": "#/definitions/" + structRef}
	}
	switch {
	case model.IsInteger(scalar):
		return map[string]any{"type": "integer"}
	case model.IsFloat(scalar):
		return map[string]any{"type": "number"}
	case scalar == model.Boolean:
		return map[string]any{"type": "boolean"}
	default:
		return map[string]any{"type": "string"}
	}
}
