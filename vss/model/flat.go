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

package model

// FlatModel is the mapping from FQN to raw node record described by
// C2: it preserves the authoring (insertion) order of its entries so
// that diagnostics and deterministic tree-building can follow it,
// per §4.2 and §4.6.
type FlatModel struct {
	order []string
	nodes map[string]*Node
}

// NewFlatModel returns an empty flat model.
func NewFlatModel() *FlatModel {
	return &FlatModel{nodes: make(map[string]*Node)}
}

// Set inserts or replaces the node at fqn. Replacing an existing
// entry does not change its position in Order.
func (f *FlatModel) Set(fqn string, n *Node) {
	if _, ok := f.nodes[fqn]; !ok {
		f.order = append(f.order, fqn)
	}
	f.nodes[fqn] = n
}

// Get returns the node at fqn, or nil if absent.
func (f *FlatModel) Get(fqn string) *Node {
	return f.nodes[fqn]
}

// Has reports whether fqn is present.
func (f *FlatModel) Has(fqn string) bool {
	_, ok := f.nodes[fqn]
	return ok
}

// Delete removes fqn and every descendant FQN (those starting with
// fqn + "."), per the overlay `delete` semantics of §4.5. It returns
// the list of FQNs actually removed.
func (f *FlatModel) Delete(fqn string) []string {
	prefix := fqn + "."
	var removed []string
	newOrder := f.order[:0:0]
	for _, o := range f.order {
		if o == fqn || (len(o) > len(prefix) && o[:len(prefix)] == prefix) {
			removed = append(removed, o)
			delete(f.nodes, o)
			continue
		}
		newOrder = append(newOrder, o)
	}
	f.order = newOrder
	return removed
}

// Order returns every FQN in authoring order.
func (f *FlatModel) Order() []string {
	return f.order
}

// Len returns the number of entries.
func (f *FlatModel) Len() int {
	return len(f.order)
}

// Clone returns a deep copy, independent of the receiver.
func (f *FlatModel) Clone() *FlatModel {
	c := NewFlatModel()
	for _, fqn := range f.order {
		c.Set(fqn, f.nodes[fqn].Clone())
	}
	return c
}

// Children returns the FQNs in the flat model whose parent FQN is
// exactly parent, in authoring order. It is O(n); callers needing
// repeated lookups use ChildIndex instead, as the tree builder (C6)
// and the expander do.
func (f *FlatModel) Children(parent string) []string {
	var out []string
	for _, fqn := range f.order {
		if ParentFQN(fqn) == parent {
			out = append(out, fqn)
		}
	}
	return out
}

// ChildIndex groups every FQN in the flat model by its parent FQN,
// preserving authoring order within each group.
func (f *FlatModel) ChildIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, fqn := range f.order {
		p := ParentFQN(fqn)
		idx[p] = append(idx[p], fqn)
	}
	return idx
}
