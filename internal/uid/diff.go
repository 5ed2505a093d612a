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

package uid

import (
	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
)

// ValidateAgainstPrior stamps current against a previously stamped
// tree (prior, typically loaded from a released vspec), implementing
// the id-stability rules of §4.9 step 5 and §8's testable property
// #8/#9 and scenario S5/S6:
//
//   - a leaf matched by FQN, or by one of its `fka` entries when no
//     FQN match exists, keeps its prior id unless a breaking field
//     changed;
//   - breaking fields are kind, datatype, unit, allowed, min, max, or
//     an FQN change that is NOT recorded via fka — any of these force
//     a fresh id and a BreakingChange warning;
//   - a rename recorded via fka (FQN changed, matched through fka,
//     nothing else breaking) preserves the prior id and emits a
//     SemanticRename info diagnostic instead;
//   - any other field-level change on an otherwise-matched leaf
//     (description, comment, deprecation, extended attributes)
//     preserves the id and emits a NonBreakingChange info diagnostic;
//   - a leaf with no match in prior is newly Added;
//   - a prior leaf with no match in current is Deleted.
//
// current is mutated in place: every leaf's StaticUID is set to
// either its preserved or freshly computed id.
func ValidateAgainstPrior(current, prior *model.Tree, opt Options) *vsserrors.List {
	errs := &vsserrors.List{}

	priorByFQN := map[string]*model.Node{}
	prior.Walk(func(n *model.Node) {
		if n.Kind.IsLeaf() {
			priorByFQN[n.FQN] = n
		}
	})
	consumed := map[string]bool{}

	byID := map[uint32][]string{}

	current.Walk(func(n *model.Node) {
		if !n.Kind.IsLeaf() {
			return
		}

		match, viaFKA := locatePrior(n, priorByFQN)
		switch {
		case match == nil:
			id, info := Assign(n, opt)
			n.StaticUID = &id
			if info != nil {
				errs.Add(info)
			}
			errs.Add(vsserrors.Infof(vsserrors.Added, n.Pos, n.FQN, "new signal, assigned static UID 0x%08X", id))

		case breaking(n, match, viaFKA):
			id, info := Assign(n, opt)
			n.StaticUID = &id
			if info != nil {
				errs.Add(info)
			}
			consumed[match.FQN] = true
			errs.Add(vsserrors.Warnf(vsserrors.BreakingChange, n.Pos, n.FQN,
				"contract changed incompatibly since static UID 0x%08X was assigned; reassigned 0x%08X", derefOr0(match.StaticUID), id))

		case viaFKA:
			id := derefOr0(match.StaticUID)
			n.StaticUID = &id
			consumed[match.FQN] = true
			errs.Add(vsserrors.Infof(vsserrors.SemanticRename, n.Pos, n.FQN,
				"renamed from %q; static UID 0x%08X preserved via fka", match.FQN, id))

		default:
			id := derefOr0(match.StaticUID)
			n.StaticUID = &id
			consumed[match.FQN] = true
			errs.Add(vsserrors.Infof(vsserrors.NonBreakingChange, n.Pos, n.FQN,
				"non-breaking change; static UID 0x%08X preserved", id))
		}

		byID[*n.StaticUID] = append(byID[*n.StaticUID], n.FQN)
	})

	for fqn, n := range priorByFQN {
		if consumed[fqn] {
			continue
		}
		errs.Add(vsserrors.Infof(vsserrors.Deleted, n.Pos, fqn, "signal removed; static UID 0x%08X retired", derefOr0(n.StaticUID)))
	}

	reportCollisions(byID, errs)

	if len(errs.All()) == 0 {
		return nil
	}
	return errs
}

// locatePrior finds n's counterpart in priorByFQN, first by direct
// FQN equality, then by trying each of n's fka entries in order
// (§4.9 step 5: "looked up by fqn, then by each entry of fka in
// turn"). viaFKA reports whether the match came from the fallback.
func locatePrior(n *model.Node, priorByFQN map[string]*model.Node) (match *model.Node, viaFKA bool) {
	if p, ok := priorByFQN[n.FQN]; ok {
		return p, false
	}
	for _, old := range n.FKA {
		if p, ok := priorByFQN[old]; ok {
			return p, true
		}
	}
	return nil, false
}

// breaking reports whether any id-breaking field differs between the
// current node n and its matched prior counterpart.
func breaking(n, prior *model.Node, viaFKA bool) bool {
	if n.FQN != prior.FQN && !viaFKA {
		return true
	}
	if n.Kind != prior.Kind {
		return true
	}
	if canonicalOf(n) != canonicalOf(prior) {
		return true
	}
	if n.Unit != prior.Unit {
		return true
	}
	if !sameAllowed(n.Allowed, prior.Allowed) {
		return true
	}
	if n.HasMin != prior.HasMin || (n.HasMin && n.Min != prior.Min) {
		return true
	}
	if n.HasMax != prior.HasMax || (n.HasMax && n.Max != prior.Max) {
		return true
	}
	return false
}

func canonicalOf(n *model.Node) string {
	if n.Datatype == nil {
		return ""
	}
	return n.Datatype.Canonical()
}

func sameAllowed(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func derefOr0(p *uint32) uint32 {
	if p == nil {
		return 0
	}
	return *p
}
