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

import (
	"bytes"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/covesa/vssc/vss/model"
)

func sampleTree() *model.Tree {
	id := uint32(0xDEADBEEF)
	speed := &model.Node{
		Name: "Speed", FQN: "Vehicle.Speed", Kind: model.Sensor,
		Datatype: &model.Datatype{Builtin: model.Float}, Unit: "km/h",
		Description: "Vehicle speed.", StaticUID: &id,
		Allowed: []string{"slow", "fast"}, Validate: "read-write+consent",
	}
	vehicle := &model.Node{
		Name: "Vehicle", FQN: "Vehicle", Kind: model.Branch,
		Description: "High-level vehicle data.", Children: []*model.Node{speed},
	}
	speed.Parent = vehicle
	return &model.Tree{Roots: []*model.Node{vehicle}, ByFQN: map[string]*model.Node{
		"Vehicle": vehicle, "Vehicle.Speed": speed,
	}}
}

func TestCodecRoundTrip(t *testing.T) {
	tree := sampleTree()
	var buf bytes.Buffer
	qt.Assert(t, qt.IsNil(Encode(&buf, tree)))

	decoded, meta, err := Decode(&buf)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(meta.NodeCount, 2))
	qt.Assert(t, qt.Equals(meta.MaxDepth, 2))

	qt.Assert(t, qt.Equals(len(decoded.Roots), 1))
	root := decoded.Roots[0]
	qt.Assert(t, qt.Equals(root.FQN, "Vehicle"))
	qt.Assert(t, qt.Equals(len(root.Children), 1))

	speed := root.Children[0]
	qt.Assert(t, qt.Equals(speed.FQN, "Vehicle.Speed"))
	qt.Assert(t, qt.Equals(speed.Unit, "km/h"))
	qt.Assert(t, qt.DeepEquals(speed.Allowed, []string{"slow", "fast"}))
	qt.Assert(t, qt.Equals(speed.Validate, "read-write+consent"))
	qt.Assert(t, qt.Equals(*speed.StaticUID, uint32(0xDEADBEEF)))
	qt.Assert(t, qt.Equals(speed.Datatype.Canonical(), "float"))
}

func TestCodecMalformedNode(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte{0x01, 0x05, 'S'}))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}
