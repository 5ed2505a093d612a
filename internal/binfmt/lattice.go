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

package binfmt

import "strings"

// accessLevel is the ordered part of the `validate` lattice:
// none < write-only < read-write.
type accessLevel int

const (
	accessNone accessLevel = iota
	accessWriteOnly
	accessReadWrite
)

// validateValue is a parsed `validate` attribute: an access level
// plus the independent `consent` bit (§9 open question (i)).
type validateValue struct {
	level   accessLevel
	consent bool
}

// parseValidate parses the textual `validate` attribute, e.g.
// "read-write+consent", "write-only", or "" (none).
func parseValidate(s string) validateValue {
	s = strings.TrimSpace(s)
	consent := false
	if strings.HasSuffix(s, "+consent") {
		consent = true
		s = strings.TrimSuffix(s, "+consent")
	}
	switch s {
	case "write-only":
		return validateValue{level: accessWriteOnly, consent: consent}
	case "read-write":
		return validateValue{level: accessReadWrite, consent: consent}
	default:
		return validateValue{level: accessNone, consent: consent}
	}
}

func (v validateValue) String() string {
	var base string
	switch v.level {
	case accessWriteOnly:
		base = "write-only"
	case accessReadWrite:
		base = "read-write"
	default:
		base = ""
	}
	if !v.consent {
		return base
	}
	if base == "" {
		return "consent"
	}
	return base + "+consent"
}

// combine implements the idempotent lattice of §4.10: read-write
// dominates write-only dominates none, and consent, once seen on
// either operand, is preserved in the result.
func (v validateValue) combine(other validateValue) validateValue {
	level := v.level
	if other.level > level {
		level = other.level
	}
	return validateValue{level: level, consent: v.consent || other.consent}
}

// CombineValidate folds a sequence of `validate` attribute values
// (as collected across a set of matched nodes, e.g. from a search)
// through the lattice and renders the "max validation" result.
func CombineValidate(values ...string) string {
	acc := validateValue{}
	for _, s := range values {
		acc = acc.combine(parseValidate(s))
	}
	return acc.String()
}
