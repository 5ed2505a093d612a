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

package validate

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"github.com/covesa/vssc/vss/model"
)

// scalarRange holds the representable [lo, hi] bounds of a built-in
// numeric scalar, computed once via apd so that range comparisons
// (§3 invariant 6) never suffer float rounding error the way a
// float64 comparison of e.g. uint64 bounds would.
type scalarRange struct {
	lo, hi *apd.Decimal
}

var scalarRanges = buildScalarRanges()

func mustDecimal(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("internal: invalid literal bound %q: %v", s, err))
	}
	return d
}

func buildScalarRanges() map[model.Scalar]scalarRange {
	return map[model.Scalar]scalarRange{
		model.Int8:   {mustDecimal("-128"), mustDecimal("127")},
		model.Int16:  {mustDecimal("-32768"), mustDecimal("32767")},
		model.Int32:  {mustDecimal("-2147483648"), mustDecimal("2147483647")},
		model.Int64:  {mustDecimal("-9223372036854775808"), mustDecimal("9223372036854775807")},
		model.Uint8:  {mustDecimal("0"), mustDecimal("255")},
		model.Uint16: {mustDecimal("0"), mustDecimal("65535")},
		model.Uint32: {mustDecimal("0"), mustDecimal("4294967295")},
		model.Uint64: {mustDecimal("0"), mustDecimal("18446744073709551615")},
		// float/double representability is bounded by magnitude only;
		// exact decimal range checks on float mantissas are out of
		// scope (§1 Non-goals: no runtime numeric semantics), so
		// float/double are treated as unbounded here and only
		// min<=default<=max ordering is checked for them.
	}
}

// parseNumeric parses s as an apd.Decimal, returning ok=false if s is
// not a valid decimal literal.
func parseNumeric(s string) (*apd.Decimal, bool) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return d, true
}

// representable reports whether d fits within scalar's representable
// range. Non-integer scalars (float, double, or anything without a
// registered range) are always considered representable here; their
// ordering is still checked by checkNumericBounds.
func representable(scalar model.Scalar, d *apd.Decimal) bool {
	r, ok := scalarRanges[scalar]
	if !ok {
		return true
	}
	return d.Cmp(r.lo) >= 0 && d.Cmp(r.hi) <= 0
}
