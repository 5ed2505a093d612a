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

// Package expand implements C7, the instance expander. It runs on
// the merged flat model produced by C5, before the tree is built
// (§9's two-pass design note): overlays may target FQNs that look
// already-expanded (e.g. "Vehicle.Cabin.Door.Row1.Left.NewSignal"),
// and the expander — not the tree builder — is what recognizes and
// folds those in, so expansion must see the flat, unbuilt model.
package expand

import (
	"strconv"
	"strings"

	"github.com/covesa/vssc/internal/overlay"
	"github.com/covesa/vssc/vss/model"
)

// Mode selects whether templated branches are expanded at all
// (§4.7's `expand`/`no-expand` CLI modes).
type Mode int

const (
	Expand Mode = iota
	NoExpand
)

// maxPasses bounds the number of outer expansion passes, guarding
// against a pathological cycle of newly-synthesized branches that
// keep re-declaring `instances`; legitimate vspec trees never nest
// templated branches anywhere near this deep.
const maxPasses = 64

// Run expands every branch carrying an `instances` descriptor in
// place, returning a new flat model with instances resolved. Under
// NoExpand it returns a clone of flat, untouched (§4.7).
func Run(flat *model.FlatModel, mode Mode) *model.FlatModel {
	merged := flat.Clone()
	if mode == NoExpand {
		return merged
	}

	for pass := 0; pass < maxPasses; pass++ {
		tFQN := nextTemplate(merged)
		if tFQN == "" {
			break
		}
		expandOne(merged, tFQN)
	}
	return merged
}

// nextTemplate returns the first (in authoring order) branch FQN
// still carrying a non-empty Instances descriptor, or "".
func nextTemplate(flat *model.FlatModel) string {
	for _, fqn := range flat.Order() {
		n := flat.Get(fqn)
		if n.Kind == model.Branch && len(n.Instances) > 0 {
			return fqn
		}
	}
	return ""
}

// expandOne performs the Cartesian-product expansion of one template
// branch (§4.7 steps 1-5).
func expandOne(flat *model.FlatModel, tFQN string) {
	t := flat.Get(tFQN)
	dims := t.Instances
	if len(dims) == 0 {
		return
	}

	combos := cartesian(dims)

	generic := genericChildren(flat, tFQN, dims[0])

	for _, combo := range combos {
		leafFQN := instantiateChain(flat, tFQN, combo)
		for _, g := range generic {
			suffix := g.FQN[len(tFQN)+1:]
			newFQN := leafFQN + "." + suffix
			instantiateLeaf(flat, newFQN, g)
		}
	}

	// The template's own non-instance children are now fully
	// replaced by their per-instance clones; remove the originals
	// (§8 scenario S1: "A.B.S no longer exists as a leaf").
	for _, g := range generic {
		flat.Delete(g.FQN)
	}

	t.Instances = nil
	flat.Set(tFQN, t)
}

// instantiateChain ensures the chain of synthetic branches for one
// product tuple exists (creating each as a minimal branch, or
// merging onto a literal override already present at that FQN — the
// "already expanded" case of §4.7 step 4), and returns the FQN of the
// chain's last (leaf) branch.
func instantiateChain(flat *model.FlatModel, tFQN string, combo []string) string {
	prefix := tFQN
	for _, label := range combo {
		next := prefix + "." + label
		synth := &model.Node{
			FQN:         next,
			Name:        label,
			Kind:        model.Branch,
			Description: label,
			Present:     map[string]bool{"type": true, "description": true},
		}
		if existing := flat.Get(next); existing != nil {
			flat.Set(next, overlay.MergeNode(synth, existing))
		} else {
			flat.Set(next, synth)
		}
		prefix = next
	}
	return prefix
}

// instantiateLeaf clones template (one of the template's non-instance
// descendants) to newFQN, or — if an overlay already declared a
// literal node at newFQN — merges onto it with the overlay's
// attributes taking precedence (§4.7 step 3).
func instantiateLeaf(flat *model.FlatModel, newFQN string, template *model.Node) {
	clone := template.Clone()
	clone.FQN = newFQN
	clone.Children = nil

	if existing := flat.Get(newFQN); existing != nil {
		flat.Set(newFQN, overlay.MergeNode(clone, existing))
		return
	}
	flat.Set(newFQN, clone)
}

// genericChildren returns the template's direct children that are
// NOT themselves already-expanded instance branches, i.e. the
// children to be cloned under every instance (§4.7 steps 2-4),
// expanded to include their full descendant subtree.
func genericChildren(flat *model.FlatModel, tFQN string, dim0 model.InstanceDim) []*model.Node {
	idx := flat.ChildIndex()
	var out []*model.Node
	for _, childFQN := range idx[tFQN] {
		child := flat.Get(childFQN)
		if isDimensionSlot(child.Name, dim0) {
			continue
		}
		out = append(out, flattenSubtree(flat, idx, childFQN)...)
	}
	return out
}

// flattenSubtree returns fqn and every descendant of fqn present in
// the flat model, in authoring order.
func flattenSubtree(flat *model.FlatModel, idx map[string][]string, fqn string) []*model.Node {
	out := []*model.Node{flat.Get(fqn)}
	for _, childFQN := range idx[fqn] {
		out = append(out, flattenSubtree(flat, idx, childFQN)...)
	}
	return out
}

// isDimensionSlot reports whether name occupies the first dimension's
// position in an instance chain: either a declared label of dim0, or
// — for a range dimension — a name shaped like the range's generated
// labels even if outside [lo,hi] (the "unknown instance label" case
// of §4.7 step 4, e.g. "Row5" against a declared "Row[1,2]"). A name
// outside an explicit label list has no such shape to test against,
// so only declared labels are recognized there.
func isDimensionSlot(name string, dim0 model.InstanceDim) bool {
	for _, l := range dim0.Labels() {
		if l == name {
			return true
		}
	}
	if dim0.IsRange && strings.HasPrefix(name, dim0.RangeName) {
		rest := name[len(dim0.RangeName):]
		if rest != "" {
			if _, err := strconv.Atoi(rest); err == nil {
				return true
			}
		}
	}
	return false
}

// cartesian computes the Cartesian product of the dimensions'
// normalized label lists, in dimension order (§4.7 step 2).
func cartesian(dims []model.InstanceDim) [][]string {
	if len(dims) == 0 {
		return nil
	}
	combos := [][]string{{}}
	for _, d := range dims {
		labels := d.Labels()
		var next [][]string
		for _, c := range combos {
			for _, l := range labels {
				tuple := append(append([]string(nil), c...), l)
				next = append(next, tuple)
			}
		}
		combos = next
	}
	return combos
}
