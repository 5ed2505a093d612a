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

// Kind is a node's `type` attribute. The obsolete RBRANCH/ELEMENT/
// MEDIACOLLECTION kinds from historical headers (§9(ii)) are
// intentionally absent.
type Kind string

const (
	Branch    Kind = "branch"
	Sensor    Kind = "sensor"
	Actuator  Kind = "actuator"
	Attribute Kind = "attribute"
	Struct    Kind = "struct"
	Property  Kind = "property"
)

// ValidKinds lists every recognized kind, in canonical order; IsValid
// checks membership against it.
var ValidKinds = []Kind{Branch, Sensor, Actuator, Attribute, Struct, Property}

// IsValid reports whether k is one of the recognized kinds.
func (k Kind) IsValid() bool {
	for _, v := range ValidKinds {
		if v == k {
			return true
		}
	}
	return false
}

// HasDatatype reports whether nodes of kind k carry a `datatype`
// attribute, per §3: sensor, actuator, attribute, property.
func (k Kind) HasDatatype() bool {
	switch k {
	case Sensor, Actuator, Attribute, Property:
		return true
	default:
		return false
	}
}

// IsLeaf reports whether k is never a parent, i.e. is not branch or
// struct.
func (k Kind) IsLeaf() bool {
	return k != Branch && k != Struct
}

// CanHaveChildren reports whether k may have children in the tree.
func (k Kind) CanHaveChildren() bool {
	return k == Branch || k == Struct
}
