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

// Package validate implements C8, the gatekeeper between the
// expanded tree and the exporters.
package validate

import (
	"regexp"
	"slices"
	"sort"

	"github.com/cockroachdb/apd/v3"

	"github.com/covesa/vssc/internal/registry"
	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
)

var namingStyle = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// Options controls policy-dependent checks (§4.8).
type Options struct {
	Units      *registry.Units
	Quantities *registry.Quantities
	Types      *registry.Types

	// Whitelist lists extended attribute names accepted in addition
	// to the base attribute set.
	Whitelist map[string]bool

	// Strict promotes to fatal the warning kinds that the promotion
	// table in strict.go marks (naming style, unknown attribute).
	Strict bool

	// Expand reports whether C7 instance expansion ran before
	// validation. When false (--no-expand), templated `instances`
	// descriptors are expected to survive on the tree and
	// checkInstances is skipped rather than raised as fatal.
	Expand bool
}

// Tree walks t and collects every diagnostic from §4.8's checklist.
// Severities are assigned per-kind and then, if Strict is set,
// promoted via promoteStrict.
func Tree(t *model.Tree, opt Options) *vsserrors.List {
	errs := &vsserrors.List{}
	t.Walk(func(n *model.Node) {
		checkNode(n, opt, errs)
	})

	out := errs
	if opt.Strict {
		out = promoteStrict(errs)
	}
	return out.Sanitize()
}

func checkNode(n *model.Node, opt Options, errs *vsserrors.List) {
	checkNaming(n, errs)
	checkKindShape(n, errs)
	checkRequiredFields(n, errs)
	checkExtendedAttributes(n, opt, errs)
	checkDatatype(n, opt, errs)
	checkUnit(n, opt, errs)
	checkNumericBounds(n, errs)
	checkAllowed(n, errs)
	checkInstances(n, opt, errs)
	checkSiblingCollisions(n, errs)
}

// checkNaming enforces the §3 naming grammar. Violations are warnings
// unless promoted by strict mode.
func checkNaming(n *model.Node, errs *vsserrors.List) {
	if n.Name == "" {
		errs.Add(vsserrors.Newf(vsserrors.MissingRequiredField, n.Pos, n.FQN, "node has an empty name"))
		return
	}
	if !namingStyle.MatchString(n.Name) {
		errs.Add(vsserrors.Warnf(vsserrors.NamingStyle, n.Pos, n.FQN,
			"name %q does not match the naming convention [A-Z][A-Za-z0-9]*", n.Name))
	}
}

// checkKindShape enforces invariants 1 and 2 of §3: a struct lives
// only under a branch, a property only under a struct, and leaf
// kinds never have children.
func checkKindShape(n *model.Node, errs *vsserrors.List) {
	if !n.Kind.IsValid() {
		errs.Add(vsserrors.Newf(vsserrors.MissingRequiredField, n.Pos, n.FQN, "unknown node kind %q", n.Kind))
		return
	}
	if n.Kind.IsLeaf() && len(n.Children) > 0 {
		errs.Add(vsserrors.Newf(vsserrors.MissingRequiredField, n.Pos, n.FQN,
			"kind %q cannot have children", n.Kind))
	}
	if n.Parent != nil {
		switch n.Kind {
		case model.Struct:
			if n.Parent.Kind != model.Branch {
				errs.Add(vsserrors.Newf(vsserrors.MissingRequiredField, n.Pos, n.FQN,
					"struct must be declared under a branch, not %q", n.Parent.Kind))
			}
		case model.Property:
			if n.Parent.Kind != model.Struct {
				errs.Add(vsserrors.Newf(vsserrors.MissingRequiredField, n.Pos, n.FQN,
					"property must be declared under a struct, not %q", n.Parent.Kind))
			}
		default:
			if n.Parent.Kind != model.Branch {
				errs.Add(vsserrors.Newf(vsserrors.MissingRequiredField, n.Pos, n.FQN,
					"%q must be declared under a branch, not %q", n.Kind, n.Parent.Kind))
			}
		}
	}
}

// checkRequiredFields enforces §3's per-kind required attributes.
func checkRequiredFields(n *model.Node, errs *vsserrors.List) {
	if n.Description == "" {
		errs.Add(vsserrors.Newf(vsserrors.MissingRequiredField, n.Pos, n.FQN, "missing required field `description`"))
	}
}

// checkExtendedAttributes enforces §4.8's whitelist check.
func checkExtendedAttributes(n *model.Node, opt Options, errs *vsserrors.List) {
	for k := range n.Extended {
		if opt.Whitelist != nil && opt.Whitelist[k] {
			continue
		}
		errs.Add(vsserrors.Warnf(vsserrors.UnknownAttribute, n.Pos, n.FQN, "unrecognized extended attribute %q", k))
	}
}

// checkDatatype enforces invariant 5 and the presence/absence rule of
// §3 ("datatype present iff kind in {sensor,actuator,attribute,property}").
func checkDatatype(n *model.Node, opt Options, errs *vsserrors.List) {
	needsDatatype := n.Kind.HasDatatype()
	if needsDatatype && n.Datatype == nil {
		errs.Add(vsserrors.Newf(vsserrors.MissingRequiredField, n.Pos, n.FQN, "missing required field `datatype`"))
		return
	}
	if !needsDatatype && n.Datatype != nil {
		errs.Add(vsserrors.Newf(vsserrors.InconsistentDatatype, n.Pos, n.FQN,
			"kind %q must not carry a datatype", n.Kind))
		return
	}
	if n.Datatype == nil {
		return
	}
	dt := *n.Datatype
	if dt.IsStruct() {
		if opt.Types == nil {
			errs.Add(vsserrors.Newf(vsserrors.UnknownType, n.Pos, n.FQN, "unresolved struct type %q: no type registry loaded", dt.Struct))
			return
		}
		if _, ok := opt.Types.Lookup(dt.Struct); !ok {
			errs.Add(vsserrors.Newf(vsserrors.UnknownType, n.Pos, n.FQN, "unresolved struct type %q", dt.Struct))
		}
		return
	}
	if !model.IsBuiltinScalar(dt.Builtin) {
		errs.Add(vsserrors.Newf(vsserrors.UnknownType, n.Pos, n.FQN, "unknown built-in datatype %q", dt.Builtin))
	}
}

// checkUnit enforces invariant 4 and the unit's allowed_datatypes
// constraint.
func checkUnit(n *model.Node, opt Options, errs *vsserrors.List) {
	if n.Unit == "" {
		return
	}
	if opt.Units == nil {
		errs.Add(vsserrors.Newf(vsserrors.UnknownUnit, n.Pos, n.FQN, "unit %q referenced but no unit registry loaded", n.Unit))
		return
	}
	unit, ok := opt.Units.Lookup(n.Unit)
	if !ok {
		errs.Add(vsserrors.Newf(vsserrors.UnknownUnit, n.Pos, n.FQN, "unknown unit %q", n.Unit))
		return
	}
	if unit.Quantity != "" && opt.Quantities != nil {
		if _, ok := opt.Quantities.Lookup(unit.Quantity); !ok {
			errs.Add(vsserrors.Warnf(vsserrors.UnknownQuantity, n.Pos, n.FQN,
				"unit %q references unknown quantity %q", n.Unit, unit.Quantity))
		}
	}
	if n.Datatype != nil && len(unit.AllowedDatatypes) > 0 {
		canonical := n.Datatype.Canonical()
		isNumeric := !n.Datatype.IsStruct() && model.IsNumeric(n.Datatype.Builtin)
		isInt := !n.Datatype.IsStruct() && model.IsInteger(n.Datatype.Builtin)
		isFloat := !n.Datatype.IsStruct() && model.IsFloat(n.Datatype.Builtin)
		if !unit.AllowsDatatype(canonical, isNumeric, isInt, isFloat) {
			errs.Add(vsserrors.Newf(vsserrors.InconsistentDatatype, n.Pos, n.FQN,
				"datatype %q not allowed by unit %q (allowed: %v)", canonical, n.Unit, unit.AllowedDatatypes))
		}
	}
}

// checkNumericBounds enforces invariant 6.
func checkNumericBounds(n *model.Node, errs *vsserrors.List) {
	if n.Datatype == nil || n.Datatype.IsStruct() || !model.IsNumeric(n.Datatype.Builtin) {
		return
	}
	scalar := n.Datatype.Builtin

	minDec, minOK := parseNumericIf(n.HasMin, n.Min)
	maxDec, maxOK := parseNumericIf(n.HasMax, n.Max)
	defDec, defOK := parseNumericIf(n.HasDefault, n.Default)

	check := func(has, ok bool, raw string, parsed *apd.Decimal) {
		if !has {
			return
		}
		if !ok {
			errs.Add(vsserrors.Newf(vsserrors.BoundViolation, n.Pos, n.FQN, "value %q is not a valid numeric literal for datatype %q", raw, scalar))
			return
		}
		if !representable(scalar, parsed) {
			errs.Add(vsserrors.Newf(vsserrors.BoundViolation, n.Pos, n.FQN, "value %q is not representable in datatype %q", raw, scalar))
		}
	}
	check(n.HasMin, minOK, n.Min, minDec)
	check(n.HasMax, maxOK, n.Max, maxDec)
	check(n.HasDefault, defOK, n.Default, defDec)

	if n.HasMin && n.HasMax && minOK && maxOK {
		if minDec.Cmp(maxDec) > 0 {
			errs.Add(vsserrors.Newf(vsserrors.BoundViolation, n.Pos, n.FQN, "min (%s) > max (%s)", n.Min, n.Max))
		}
	}
	if n.HasDefault && n.HasMin && defOK && minOK {
		if defDec.Cmp(minDec) < 0 {
			errs.Add(vsserrors.Newf(vsserrors.BoundViolation, n.Pos, n.FQN, "default (%s) < min (%s)", n.Default, n.Min))
		}
	}
	if n.HasDefault && n.HasMax && defOK && maxOK {
		if defDec.Cmp(maxDec) > 0 {
			errs.Add(vsserrors.Newf(vsserrors.BoundViolation, n.Pos, n.FQN, "default (%s) > max (%s)", n.Default, n.Max))
		}
	}
}

// parseNumericIf parses raw when has is true, reporting ok=false both
// when has is false and when raw fails to parse.
func parseNumericIf(has bool, raw string) (*apd.Decimal, bool) {
	if !has {
		return nil, false
	}
	return parseNumeric(raw)
}

// checkAllowed enforces §3 invariant 7 (distinctness) and type
// compatibility of the `allowed` literal set.
func checkAllowed(n *model.Node, errs *vsserrors.List) {
	if len(n.Allowed) == 0 {
		return
	}
	seen := make(map[string]bool, len(n.Allowed))
	dup := make([]string, 0)
	for _, a := range n.Allowed {
		if seen[a] {
			dup = append(dup, a)
			continue
		}
		seen[a] = true
	}
	sort.Strings(dup)
	dup = slices.Compact(dup)
	for _, d := range dup {
		errs.Add(vsserrors.Newf(vsserrors.InvalidAllowed, n.Pos, n.FQN, "duplicate entry %q in `allowed`", d))
	}
	if n.Datatype != nil && !n.Datatype.IsStruct() && model.IsNumeric(n.Datatype.Builtin) {
		for _, a := range n.Allowed {
			if _, ok := parseNumeric(a); !ok {
				errs.Add(vsserrors.Newf(vsserrors.InvalidAllowed, n.Pos, n.FQN,
					"`allowed` entry %q is not a valid %q literal", a, n.Datatype.Builtin))
			}
		}
	}
}

// checkInstances enforces invariant 3: no node may still carry an
// `instances` descriptor once the tree reaches the validator, unless
// opt.Expand is false (--no-expand), where C7 deliberately leaves
// `instances` on its templates (spec §4.7 scenario S2) and this check
// does not apply.
func checkInstances(n *model.Node, opt Options, errs *vsserrors.List) {
	if !opt.Expand {
		return
	}
	if len(n.Instances) > 0 {
		errs.Add(vsserrors.Newf(vsserrors.InstanceLabelCollision, n.Pos, n.FQN,
			"node still carries an unexpanded `instances` descriptor"))
	}
}

// checkSiblingCollisions defensively re-checks invariant 8: no two
// children of the same parent share a name. The flat model's
// FQN-keyed uniqueness and the expander's dimension-slot detection
// together should make this structurally impossible; this check
// exists as a regression guard (see DESIGN.md).
func checkSiblingCollisions(n *model.Node, errs *vsserrors.List) {
	seen := map[string]bool{}
	for _, c := range n.Children {
		if seen[c.Name] {
			errs.Add(vsserrors.Newf(vsserrors.InstanceLabelCollision, c.Pos, c.FQN,
				"sibling name %q collides with another child of %q", c.Name, n.FQN))
		}
		seen[c.Name] = true
	}
}
