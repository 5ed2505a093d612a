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

// Package vssbin exposes C10's binary tree codec as an exporter back
// end, so the compact on-disk format (§1, §4.10) is reachable from
// the CLI rather than only from internal/binfmt's own tests.
package vssbin

import (
	"bytes"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/internal/binfmt"
	"github.com/covesa/vssc/vss/model"
)

// Exporter renders the tree through internal/binfmt's pre-order,
// length-prefixed binary layout.
type Exporter struct{}

// Export implements encoding.Exporter.
func (Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	var buf bytes.Buffer
	tree := &model.Tree{Roots: []*model.Node{in.Root}}
	if err := binfmt.Encode(&buf, tree); err != nil {
		return nil, err
	}
	return []encoding.Artifact{{Path: "vspec.bin", Data: buf.Bytes()}}, nil
}
