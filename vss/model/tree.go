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

import (
	vsserrors "github.com/covesa/vssc/vss/errors"
)

// Tree is the materialized parent/child structure built by C6 from a
// merged flat model. Most vspec documents have a single top-level
// root (conventionally "Vehicle"), but the builder does not assume
// that: Roots holds every FQN with no dot in it.
type Tree struct {
	Roots []*Node

	// ByFQN indexes every node in the tree, including non-roots, for
	// O(1) lookup through Lookup.
	ByFQN map[string]*Node
}

// Lookup returns the node at fqn, or nil.
func (t *Tree) Lookup(fqn string) *Node {
	return t.ByFQN[fqn]
}

// Walk visits every node in the tree in pre-order (parents before
// children, children in their Children-slice order).
func (t *Tree) Walk(visit func(*Node)) {
	for _, r := range t.Roots {
		walkNode(r, visit)
	}
}

func walkNode(n *Node, visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		walkNode(c, visit)
	}
}

// BuildTree materializes flat into a Tree, per C6: ancestor branches
// are only synthesized implicitly by attaching each FQN under its
// parent entry in the flat model; a parent FQN absent from the flat
// model is a MissingAncestor failure. Children are attached in the
// order their FQN first appears in the flat model (§4.6).
func BuildTree(flat *FlatModel) (*Tree, *vsserrors.List) {
	errs := &vsserrors.List{}
	t := &Tree{ByFQN: make(map[string]*Node)}

	childIdx := flat.ChildIndex()

	// Clone every node up front so the tree owns independent Node
	// values distinct from the flat model's.
	cloned := make(map[string]*Node, flat.Len())
	for _, fqn := range flat.Order() {
		n := flat.Get(fqn).Clone()
		cloned[fqn] = n
		t.ByFQN[fqn] = n
	}

	var attach func(fqn string) *Node
	visiting := make(map[string]bool)
	attach = func(fqn string) *Node {
		n, ok := cloned[fqn]
		if !ok {
			return nil
		}
		if n.Children != nil || !n.Kind.CanHaveChildren() {
			// already attached, or cannot have children
		}
		if visiting[fqn] {
			return n
		}
		visiting[fqn] = true
		defer delete(visiting, fqn)
		n.Children = nil
		for _, childFQN := range childIdx[fqn] {
			child := attach(childFQN)
			if child == nil {
				continue
			}
			child.Parent = n
			n.Children = append(n.Children, child)
		}
		return n
	}

	for _, fqn := range flat.Order() {
		parent := ParentFQN(fqn)
		if parent == "" {
			attach(fqn)
			t.Roots = append(t.Roots, cloned[fqn])
			continue
		}
		if !flat.Has(parent) {
			errs.Add(vsserrors.Newf(vsserrors.MissingAncestor, cloned[fqn].Pos, fqn,
				"ancestor %q of %q is not present in the merged model", parent, fqn))
		}
	}

	// Fully attach children for every root, including roots whose
	// descendants were only reachable indirectly.
	for i, r := range t.Roots {
		t.Roots[i] = attach(r.FQN)
	}

	if len(errs.All()) > 0 {
		return t, errs
	}
	return t, nil
}

// Flatten re-derives a FlatModel from a Tree, giving a linear
// (FQN, node) view in Walk order.
func (t *Tree) Flatten() *FlatModel {
	f := NewFlatModel()
	t.Walk(func(n *Node) {
		f.Set(n.FQN, n)
	})
	return f
}
