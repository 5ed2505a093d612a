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

package vssschema

import (
	"encoding/json"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/vss/model"
)

func TestExportBuildsDefinitions(t *testing.T) {
	speed := &model.Node{
		Name: "Speed", FQN: "Vehicle.Speed", Kind: model.Sensor,
		Datatype: &model.Datatype{Builtin: model.Float}, HasMin: true, Min: "0",
	}
	vehicle := &model.Node{Name: "Vehicle", FQN: "Vehicle", Kind: model.Branch, Children: []*model.Node{speed}}
	speed.Parent = vehicle

	artifacts, err := Exporter{}.Export(encoding.Input{Root: vehicle})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(artifacts, 1))

	var doc map[string]any
	qt.Assert(t, qt.IsNil(json.Unmarshal(artifacts[0].Data, &doc)))

	defs, ok := doc["definitions"].(map[string]any)
	qt.Assert(t, qt.Equals(ok, true))
	speedDef, ok := defs["Vehicle.Speed"].(map[string]any)
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(speedDef["type"], "number"))
	qt.Assert(t, qt.Equals(speedDef["minimum"], "0"))
}
