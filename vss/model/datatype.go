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

import "strings"

// Scalar is one of the built-in datatypes of §3. A struct reference
// is held in Datatype.Struct instead.
type Scalar string

const (
	Int8    Scalar = "int8"
	Int16   Scalar = "int16"
	Int32   Scalar = "int32"
	Int64   Scalar = "int64"
	Uint8   Scalar = "uint8"
	Uint16  Scalar = "uint16"
	Uint32  Scalar = "uint32"
	Uint64  Scalar = "uint64"
	Float   Scalar = "float"
	Double  Scalar = "double"
	Boolean Scalar = "boolean"
	String  Scalar = "string"
)

// builtinScalars lists every recognized built-in scalar, used both
// for lookup and for the "numeric" allowed_datatypes shorthand of
// §9(iii).
var builtinScalars = map[Scalar]bool{
	Int8: true, Int16: true, Int32: true, Int64: true,
	Uint8: true, Uint16: true, Uint32: true, Uint64: true,
	Float: true, Double: true, Boolean: true, String: true,
}

// IsBuiltinScalar reports whether s names a built-in scalar type.
func IsBuiltinScalar(s Scalar) bool { return builtinScalars[s] }

// IsNumeric reports whether s is an integer or floating-point type,
// i.e. a member of the "numeric" shorthand of §9(iii).
func IsNumeric(s Scalar) bool {
	switch s {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float, Double:
		return true
	default:
		return false
	}
}

// IsInteger reports whether s is one of the signed/unsigned integer
// widths.
func IsInteger(s Scalar) bool {
	switch s {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether s is float or double.
func IsFloat(s Scalar) bool {
	return s == Float || s == Double
}

// Datatype is a resolved datatype reference: either a built-in
// scalar or a reference to a struct FQN in the type registry, each
// optionally in array form with an optional fixed arraysize.
type Datatype struct {
	Builtin Scalar // empty if Struct is set
	Struct  string // struct FQN; empty if Builtin is set
	Array   bool
	// The fixed element count of the node's `arraysize` attribute is
	// not held here; it is carried on Node.ArraySize.
}

// IsStruct reports whether d references a user-defined struct.
func (d Datatype) IsStruct() bool { return d.Struct != "" }

// Canonical renders the datatype the way the static-UID engine's
// hash input (§4.9) and the binary codec expect it: the bare scalar
// or struct FQN, with a trailing "[]" for array form.
func (d Datatype) Canonical() string {
	base := d.Struct
	if base == "" {
		base = string(d.Builtin)
	}
	if d.Array {
		return base + "[]"
	}
	return base
}

// ParseDatatype parses a raw `datatype` string such as "int8",
// "int8[]", "MyStruct", or "MyStruct[]". Any non-builtin name is
// tentatively treated as a struct reference; the validator (C8) is
// responsible for rejecting unresolved references.
func ParseDatatype(raw string) Datatype {
	s := strings.TrimSpace(raw)
	array := false
	if strings.HasSuffix(s, "[]") {
		array = true
		s = strings.TrimSuffix(s, "[]")
	}
	if IsBuiltinScalar(Scalar(s)) {
		return Datatype{Builtin: Scalar(s), Array: array}
	}
	return Datatype{Struct: s, Array: array}
}
