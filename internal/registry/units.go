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

// Package registry implements C3 (unit/quantity registry) and C4
// (type registry): read-only lookups built once from one or more
// library files and merged in the order given, later files
// overriding earlier ones by id (§4.3, §4.4).
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/token"
)

// Unit is one entry of the unit registry.
type Unit struct {
	ID               string
	Label            string
	Description      string
	Quantity         string
	AllowedDatatypes []string // empty means "no restriction"
	SourceFile       string
}

// AllowsDatatype reports whether d (a canonical datatype string, e.g.
// "int8" or "int8[]") is permitted by u's allowed_datatypes list, with
// the "numeric" shorthand of §9(iii) expanded to integer and floating
// types.
func (u Unit) AllowsDatatype(canonical string, isNumeric, isInteger, isFloat bool) bool {
	if len(u.AllowedDatatypes) == 0 {
		return true
	}
	for _, a := range u.AllowedDatatypes {
		switch a {
		case "numeric":
			if isNumeric {
				return true
			}
		case canonical:
			return true
		}
	}
	return false
}

// Units is the merged unit registry (C3).
type Units struct {
	byID map[string]Unit
}

// Lookup returns the unit with the given id.
func (u *Units) Lookup(id string) (Unit, bool) {
	if u == nil {
		return Unit{}, false
	}
	unit, ok := u.byID[id]
	return unit, ok
}

// IDs returns every registered unit id.
func (u *Units) IDs() []string {
	ids := make([]string, 0, len(u.byID))
	for id := range u.byID {
		ids = append(ids, id)
	}
	return ids
}

// LoadUnits merges one or more unit files in order, later definitions
// overriding earlier ones by id (§4.3). Both the modern `units:`-keyed
// syntax and the legacy flat syntax (with `unit`/`definition` and the
// `domain` synonym for `quantity`) are accepted in the same file set.
func LoadUnits(paths []string) (*Units, *vsserrors.List) {
	reg := &Units{byID: make(map[string]Unit)}
	errs := &vsserrors.List{}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs.Add(vsserrors.Newf(vsserrors.IoError, token.NewPos(token.NewFile(path, ""), 0, 0), "",
				"reading unit file %s: %v", path, err))
			continue
		}
		var top map[string]any
		if err := yaml.Unmarshal(data, &top); err != nil {
			errs.Add(vsserrors.Newf(vsserrors.YamlSyntax, token.NewPos(token.NewFile(path, ""), 0, 0), "",
				"parsing unit file %s: %v", path, err))
			continue
		}

		entries := top
		if u, ok := top["units"]; ok {
			if m, ok := u.(map[string]any); ok {
				entries = m
			}
		}

		for id, raw := range entries {
			m, ok := raw.(map[string]any)
			if !ok {
				errs.Add(vsserrors.Newf(vsserrors.YamlSyntax, token.NewPos(token.NewFile(path, ""), 0, 0), id,
					"unit entry %q must be a mapping", id))
				continue
			}
			unit := Unit{ID: id, SourceFile: path}
			if v, ok := m["label"]; ok {
				unit.Label = fmt.Sprint(v)
			} else if v, ok := m["unit"]; ok { // legacy synonym
				unit.Label = fmt.Sprint(v)
			}
			if v, ok := m["description"]; ok {
				unit.Description = fmt.Sprint(v)
			} else if v, ok := m["definition"]; ok { // legacy synonym
				unit.Description = fmt.Sprint(v)
			}
			if v, ok := m["quantity"]; ok {
				unit.Quantity = fmt.Sprint(v)
			} else if v, ok := m["domain"]; ok { // legacy synonym
				unit.Quantity = fmt.Sprint(v)
			}
			if v, ok := m["allowed_datatypes"]; ok {
				if list, ok := v.([]any); ok {
					for _, e := range list {
						unit.AllowedDatatypes = append(unit.AllowedDatatypes, fmt.Sprint(e))
					}
				}
			}
			reg.byID[id] = unit
		}
	}

	if len(errs.All()) > 0 {
		return reg, errs
	}
	return reg, nil
}

// CrossCheckQuantities warns (never fails) about units referencing a
// quantity absent from qty, per §4.3/invariant 4. If qty is nil (no
// quantity file supplied at all), no warning is raised: the cross
// check can only fire when a quantity file was actually loaded.
func CrossCheckQuantities(u *Units, qty *Quantities) *vsserrors.List {
	errs := &vsserrors.List{}
	if u == nil || qty == nil {
		return nil
	}
	for id, unit := range u.byID {
		if unit.Quantity == "" {
			continue
		}
		if _, ok := qty.Lookup(unit.Quantity); !ok {
			errs.Add(vsserrors.Warnf(vsserrors.UnknownQuantity, token.NewPos(token.NewFile(unit.SourceFile, ""), 0, 0), id,
				"unit %q references unknown quantity %q", id, unit.Quantity))
		}
	}
	if len(errs.All()) == 0 {
		return nil
	}
	return errs
}
