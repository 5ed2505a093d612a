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

// Package vsscsv dumps every node as one flat CSV row, the
// traditional COVESA vspec.csv layout. No pack dependency improves on
// the standard library's encoding/csv for flat tabular output.
package vsscsv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/vss/model"
)

var header = []string{"FQN", "Type", "Datatype", "Unit", "Description", "StaticUID"}

// Exporter renders the tree as one CSV document.
type Exporter struct{}

// Export implements encoding.Exporter.
func (Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	var walkErr error
	walk(in.Root, func(n *model.Node) {
		if walkErr != nil {
			return
		}
		walkErr = w.Write(row(n))
	})
	if walkErr != nil {
		return nil, walkErr
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []encoding.Artifact{{Path: "vspec.csv", Data: buf.Bytes()}}, nil
}

func row(n *model.Node) []string {
	datatype := ""
	if n.Datatype != nil {
		datatype = n.Datatype.Canonical()
	}
	uuid := ""
	if n.StaticUID != nil {
		uuid = fmt.Sprintf("%08x", *n.StaticUID)
	}
	return []string{n.FQN, string(n.Kind), datatype, n.Unit, n.Description, uuid}
}

func walk(n *model.Node, visit func(*model.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		walk(c, visit)
	}
}
