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

// Package vsstree renders a human-readable indented tree, useful for
// quick inspection of a compiled vspec from the command line.
package vsstree

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/vss/model"
)

// Exporter renders the tree as indented plain text.
type Exporter struct{}

// Export implements encoding.Exporter.
func (Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	var buf bytes.Buffer
	render(&buf, in.Root, 0)
	return []encoding.Artifact{{Path: "vspec.tree.txt", Data: buf.Bytes()}}, nil
}

func render(buf *bytes.Buffer, n *model.Node, depth int) {
	if n == nil {
		return
	}
	fmt.Fprintf(buf, "%s%s (%s)\n", strings.Repeat("  ", depth), n.Name, n.Kind)
	for _, c := range n.Children {
		render(buf, c, depth+1)
	}
}
