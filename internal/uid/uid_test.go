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

package uid

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/covesa/vssc/vss/model"
)

func leaf(fqn string, fka ...string) *model.Node {
	return &model.Node{
		FQN:      fqn,
		Kind:     model.Sensor,
		Datatype: &model.Datatype{Builtin: model.Int16},
		Unit:     "km/h",
		FKA:      fka,
	}
}

func TestHashDeterministic(t *testing.T) {
	n := leaf("Vehicle.Speed")
	a := Hash(n, Options{})
	b := Hash(n, Options{})
	qt.Assert(t, qt.Equals(a, b))
}

func TestHashChangesWithContract(t *testing.T) {
	a := Hash(leaf("Vehicle.Speed"), Options{})
	b := leaf("Vehicle.Speed")
	b.Unit = "mph"
	qt.Assert(t, qt.Not(qt.Equals(a, Hash(b, Options{}))))
}

func TestHashStableAcrossRename(t *testing.T) {
	renamed := leaf("Vehicle.VehicleSpeed", "Vehicle.Speed")
	original := leaf("Vehicle.Speed")
	qt.Assert(t, qt.Equals(Hash(renamed, Options{}), Hash(original, Options{})))
}

func TestHashLayering(t *testing.T) {
	n := leaf("Vehicle.Speed")
	id := Hash(n, Options{HasLayer: true, Layer: 0x07})
	qt.Assert(t, qt.Equals(id>>24, uint32(0x07)))
}

func TestAssignConstUIDOverride(t *testing.T) {
	n := leaf("Vehicle.Speed")
	v := uint32(0xDEADBEEF)
	n.ConstUID = &v
	id, info := Assign(n, Options{})
	qt.Assert(t, qt.Equals(id, v))
	qt.Assert(t, qt.Not(qt.IsNil(info)))
}

func TestStampDetectsCollision(t *testing.T) {
	a := leaf("Vehicle.A")
	b := leaf("Vehicle.B")
	v := Hash(a, Options{})
	b.ConstUID = &v

	tree := &model.Tree{Roots: []*model.Node{a, b}, ByFQN: map[string]*model.Node{"Vehicle.A": a, "Vehicle.B": b}}
	errs := Stamp(tree, Options{})
	qt.Assert(t, qt.Not(qt.IsNil(errs)))
	qt.Assert(t, qt.Equals(errs.HasFatal(), true))
}

func TestStampSkipsBranches(t *testing.T) {
	branch := &model.Node{FQN: "Vehicle", Kind: model.Branch}
	tree := &model.Tree{Roots: []*model.Node{branch}, ByFQN: map[string]*model.Node{"Vehicle": branch}}
	errs := Stamp(tree, Options{})
	qt.Assert(t, qt.IsNil(errs))
	qt.Assert(t, qt.IsNil(branch.StaticUID))
}
