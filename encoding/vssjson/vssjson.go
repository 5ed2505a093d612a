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

// Package vssjson dumps a tree as nested JSON, preserving parent/child
// structure rather than vspec's flat FQN-keyed form.
package vssjson

import (
	"encoding/json"
	"fmt"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/vss/model"
)

// Exporter renders the tree as one indented JSON document.
type Exporter struct{}

type jsonNode struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Datatype    string      `json:"datatype,omitempty"`
	Description string      `json:"description,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	Allowed     []string    `json:"allowed,omitempty"`
	StaticUID   string      `json:"staticUID,omitempty"`
	Children    []*jsonNode `json:"children,omitempty"`
}

// Export implements encoding.Exporter.
func (Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	data, err := json.MarshalIndent(render(in.Root), "", "  ")
	if err != nil {
		return nil, err
	}
	return []encoding.Artifact{{Path: "vspec.json", Data: data}}, nil
}

func render(n *model.Node) *jsonNode {
	if n == nil {
		return nil
	}
	out := &jsonNode{
		Name:        n.Name,
		Type:        string(n.Kind),
		Description: n.Description,
		Unit:        n.Unit,
		Allowed:     n.Allowed,
	}
	if n.Datatype != nil {
		out.Datatype = n.Datatype.Canonical()
	}
	if n.StaticUID != nil {
		out.StaticUID = fmt.Sprintf("%08x", *n.StaticUID)
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, render(c))
	}
	return out
}
