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

package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/token"
)

// Quantity is one entry of the quantity registry.
type Quantity struct {
	ID          string
	Description string
	Remarks     string
}

// Quantities is the merged quantity registry (C3).
type Quantities struct {
	byID map[string]Quantity
}

// Lookup returns the quantity with the given id.
func (q *Quantities) Lookup(id string) (Quantity, bool) {
	if q == nil {
		return Quantity{}, false
	}
	v, ok := q.byID[id]
	return v, ok
}

// LoadQuantities merges one or more quantity files in order, later
// files overriding earlier ones by id. The top-level key is always
// `quantities:` (§6).
func LoadQuantities(paths []string) (*Quantities, *vsserrors.List) {
	reg := &Quantities{byID: make(map[string]Quantity)}
	errs := &vsserrors.List{}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs.Add(vsserrors.Newf(vsserrors.IoError, token.NewPos(token.NewFile(path, ""), 0, 0), "",
				"reading quantity file %s: %v", path, err))
			continue
		}
		var top struct {
			Quantities map[string]any `yaml:"quantities"`
		}
		if err := yaml.Unmarshal(data, &top); err != nil {
			errs.Add(vsserrors.Newf(vsserrors.YamlSyntax, token.NewPos(token.NewFile(path, ""), 0, 0), "",
				"parsing quantity file %s: %v", path, err))
			continue
		}
		for id, raw := range top.Quantities {
			m, ok := raw.(map[string]any)
			if !ok {
				errs.Add(vsserrors.Newf(vsserrors.YamlSyntax, token.NewPos(token.NewFile(path, ""), 0, 0), id,
					"quantity entry %q must be a mapping", id))
				continue
			}
			q := Quantity{ID: id}
			if v, ok := m["description"]; ok {
				q.Description = fmt.Sprint(v)
			}
			if v, ok := m["remarks"]; ok {
				q.Remarks = fmt.Sprint(v)
			}
			reg.byID[id] = q
		}
	}

	if len(errs.All()) > 0 {
		return reg, errs
	}
	return reg, nil
}
