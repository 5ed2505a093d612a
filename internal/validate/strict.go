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

import vsserrors "github.com/covesa/vssc/vss/errors"

// strictPromotions lists every warning-class diagnostic kind this
// validator can raise, and whether --strict promotes it to fatal.
// Keeping this as one table (§12 of SPEC_FULL.md) rather than ad hoc
// `if strict` checks scattered through validate.go means every
// warning kind is accounted for exactly once.
var strictPromotions = map[vsserrors.Kind]bool{
	vsserrors.NamingStyle:      true,
	vsserrors.UnknownAttribute: true,
	vsserrors.UnknownQuantity:  false, // §3 invariant 4: always a warning, never promoted
}

// promoteStrict returns a copy of errs with every diagnostic whose
// kind is marked for promotion in strictPromotions raised from
// Warning to Fatal.
func promoteStrict(errs *vsserrors.List) *vsserrors.List {
	out := &vsserrors.List{}
	for _, e := range errs.All() {
		if e.Severity() == vsserrors.Warning && strictPromotions[e.Kind()] {
			promoted := *e
			promoted.Sev = vsserrors.Fatal
			out.Add(&promoted)
			continue
		}
		out.Add(e)
	}
	return out
}
