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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/covesa/vssc/vss/model"
)

// buildS6Tree builds the S6 scenario: A.B.X.S, A.B.Y.S, A.C.S.
func buildS6Tree() *model.Node {
	leaf := func(name, fqn string) *model.Node {
		return &model.Node{Name: name, FQN: fqn, Kind: model.Sensor, Datatype: &model.Datatype{Builtin: model.Int8}}
	}
	branch := func(name, fqn string, children ...*model.Node) *model.Node {
		n := &model.Node{Name: name, FQN: fqn, Kind: model.Branch, Children: children}
		for _, c := range children {
			c.Parent = n
		}
		return n
	}
	x := branch("X", "A.B.X", leaf("S", "A.B.X.S"))
	y := branch("Y", "A.B.Y", leaf("S", "A.B.Y.S"))
	b := branch("B", "A.B", x, y)
	c := branch("C", "A.C", leaf("S", "A.C.S"))
	return branch("A", "A", b, c)
}

func paths(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Path
	}
	return out
}

func TestSearchWildcardLeafOnly(t *testing.T) {
	root := buildS6Tree()
	matches := Search(root, "A.*.*.S", SearchOptions{LeafNodesOnly: true})
	qt.Assert(t, qt.DeepEquals(paths(matches), []string{"A.B.X.S", "A.B.Y.S"}))
}

func TestSearchAnyDepthTrailingWildcard(t *testing.T) {
	root := buildS6Tree()
	matches := Search(root, "A.B.*", SearchOptions{LeafNodesOnly: true})
	qt.Assert(t, qt.DeepEquals(paths(matches), []string{"A.B.X.S", "A.B.Y.S"}))
}

func TestSearchNoSpuriousMatchAfterFailedSpeculation(t *testing.T) {
	root := buildS6Tree()
	// No node named "Z" exists under A.*, so every speculative branch
	// must fail and nothing should be returned.
	matches := Search(root, "A.*.Z", SearchOptions{})
	qt.Assert(t, qt.HasLen(matches, 0))
}

func TestSearchMaxResults(t *testing.T) {
	root := buildS6Tree()
	matches := Search(root, "A.*.*.S", SearchOptions{LeafNodesOnly: true, MaxResults: 1})
	qt.Assert(t, qt.HasLen(matches, 1))
}

func TestSearchNoScopePrunesExactPrefix(t *testing.T) {
	root := buildS6Tree()
	matches := Search(root, "A.*.*.S", SearchOptions{LeafNodesOnly: true, NoScope: []string{"A.B.X.S"}})
	qt.Assert(t, qt.DeepEquals(paths(matches), []string{"A.B.Y.S"}))
}

func TestSearchNoScopePrunesDescendants(t *testing.T) {
	root := buildS6Tree()
	matches := Search(root, "A.*.*.S", SearchOptions{LeafNodesOnly: true, NoScope: []string{"A.B.X"}})
	qt.Assert(t, qt.DeepEquals(paths(matches), []string{"A.B.Y.S"}))
}

func TestSearchEmptyOnNilRoot(t *testing.T) {
	qt.Assert(t, qt.HasLen(Search(nil, "A.*", SearchOptions{}), 0))
}

func TestCombineValidateLattice(t *testing.T) {
	qt.Assert(t, qt.Equals(CombineValidate("write-only", "read-write"), "read-write"))
	qt.Assert(t, qt.Equals(CombineValidate("write-only+consent", "read-write"), "read-write+consent"))
	qt.Assert(t, qt.Equals(CombineValidate("", "write-only"), "write-only"))
	qt.Assert(t, qt.Equals(CombineValidate(), ""))
}
