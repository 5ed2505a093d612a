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

package binfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/covesa/vssc/vss/model"
)

// leafUUID is one entry of the `leafuuids` bulk enumeration.
type leafUUID struct {
	Path string `json:"path"`
	UUID string `json:"uuid"`
}

// WriteLeafPaths emits every leaf path beneath root as
// `{"leafpaths":[...]}` (§4.10's bulk enumerations).
func WriteLeafPaths(w io.Writer, root *model.Node) error {
	paths := []string{}
	walkLeaves(root, root.Name, func(n *model.Node, path string) {
		paths = append(paths, path)
	})
	return json.NewEncoder(w).Encode(struct {
		LeafPaths []string `json:"leafpaths"`
	}{paths})
}

// WriteLeafUUIDs emits every (path, staticUID) pair beneath root as
// `{"leafuuids":[{"path":"...","uuid":"..."}, ...]}`.
func WriteLeafUUIDs(w io.Writer, root *model.Node) error {
	entries := []leafUUID{}
	walkLeaves(root, root.Name, func(n *model.Node, path string) {
		uuid := ""
		if n.StaticUID != nil {
			uuid = fmt.Sprintf("%08x", *n.StaticUID)
		}
		entries = append(entries, leafUUID{Path: path, UUID: uuid})
	})
	return json.NewEncoder(w).Encode(struct {
		LeafUUIDs []leafUUID `json:"leafuuids"`
	}{entries})
}

func walkLeaves(n *model.Node, path string, visit func(*model.Node, string)) {
	if n == nil {
		return
	}
	if n.Kind.IsLeaf() {
		visit(n, path)
	}
	for _, c := range n.Children {
		walkLeaves(c, path+"."+c.Name, visit)
	}
}
