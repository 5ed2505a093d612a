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

// Package uid implements C9, the static-UID engine: a stable 32-bit
// identifier computed from a node's contract, with collision
// detection and validation against a prior stamped tree.
package uid

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
	"github.com/covesa/vssc/vss/token"
)

// Options controls the hash input convention and layering (§4.9,
// §9 "case-sensitivity of UID hashing").
type Options struct {
	// CaseSensitive selects whether the hash input keeps its case.
	// When false (the zero value) the input is lower-cased before
	// hashing, so hashing is case-insensitive; the CLI's
	// --case-sensitive flag defaults to true.
	CaseSensitive bool

	// Layer, when HasLayer is set, restricts hashing to the low 24
	// bits and sets the high 8 bits to Layer.
	Layer uint8
	HasLayer bool
}

// hashInput renders the canonical textual form of §4.9 step 1. When
// n carries `fka`, its first entry replaces the FQN so the id is
// stable across a semantic rename.
func hashInput(n *model.Node, opt Options) string {
	fqn := n.FQN
	if len(n.FKA) > 0 {
		fqn = n.FKA[0]
	}
	datatype := ""
	if n.Datatype != nil {
		datatype = n.Datatype.Canonical()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "fqn=%s;kind=%s;datatype=%s;unit=%s;allowed=%s;min=%s;max=%s",
		fqn, n.Kind, datatype, n.Unit, strings.Join(n.Allowed, ","), boundOrEmpty(n.HasMin, n.Min), boundOrEmpty(n.HasMax, n.Max))
	s := b.String()
	if !opt.CaseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

func boundOrEmpty(has bool, v string) string {
	if !has {
		return ""
	}
	return v
}

// Hash computes the 32-bit FNV-1 hash of n's contract, applying the
// layer-id scheme of §4.9 step 2 when opt.HasLayer is set.
func Hash(n *model.Node, opt Options) uint32 {
	h := fnv.New32()
	_, _ = h.Write([]byte(hashInput(n, opt)))
	sum := h.Sum32()
	if opt.HasLayer {
		return (uint32(opt.Layer) << 24) | (sum & 0x00FFFFFF)
	}
	return sum
}

// Assign computes n's static UID, honoring a `constUID` override
// (§4.9 step 4), and returns the id plus an info diagnostic when an
// override was used.
func Assign(n *model.Node, opt Options) (uint32, *vsserrors.Error) {
	if n.ConstUID != nil {
		return *n.ConstUID, vsserrors.Infof(vsserrors.Added, n.Pos, n.FQN, "constUID override 0x%08X in effect", *n.ConstUID)
	}
	return Hash(n, opt), nil
}

// Stamp assigns a StaticUID to every leaf node in t (§3 invariant 9:
// only leaves carry a stamped id) and checks for collisions across
// the whole tree. It mutates t in place.
func Stamp(t *model.Tree, opt Options) *vsserrors.List {
	errs := &vsserrors.List{}
	byID := map[uint32][]string{}

	t.Walk(func(n *model.Node) {
		if !n.Kind.IsLeaf() {
			return
		}
		id, info := Assign(n, opt)
		n.StaticUID = &id
		if info != nil {
			errs.Add(info)
		}
		byID[id] = append(byID[id], n.FQN)
	})

	reportCollisions(byID, errs)

	if len(errs.All()) == 0 {
		return nil
	}
	return errs
}

func reportCollisions(byID map[uint32][]string, errs *vsserrors.List) {
	ids := make([]uint32, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fqns := byID[id]
		if len(fqns) < 2 {
			continue
		}
		sorted := append([]string(nil), fqns...)
		sort.Strings(sorted)
		errs.Add(vsserrors.Newf(vsserrors.IdCollision, token.NoPos, sorted[0],
			"static UID 0x%08X is shared by %v; resolve with a constUID override on one of them", id, sorted))
	}
}
