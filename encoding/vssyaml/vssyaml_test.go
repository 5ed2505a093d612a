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

package vssyaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
	"gopkg.in/yaml.v3"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/internal/loader"
	"github.com/covesa/vssc/vss/model"
)

func TestExportRoundTrips(t *testing.T) {
	speed := &model.Node{
		Name: "Speed", FQN: "Vehicle.Speed", Kind: model.Sensor,
		Datatype: &model.Datatype{Builtin: model.Float}, Unit: "km/h",
		Description: "Vehicle speed.",
	}
	vehicle := &model.Node{Name: "Vehicle", FQN: "Vehicle", Kind: model.Branch, Children: []*model.Node{speed}}
	speed.Parent = vehicle

	artifacts, err := Exporter{}.Export(encoding.Input{Root: vehicle})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(artifacts, 1))

	var decoded map[string]any
	qt.Assert(t, qt.IsNil(yaml.Unmarshal(artifacts[0].Data, &decoded)))

	speedEntry, ok := decoded["Vehicle.Speed"].(map[string]any)
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(speedEntry["unit"], "km/h"))
	qt.Assert(t, qt.Equals(speedEntry["datatype"], "float"))
}

// TestExportStaticUIDRoundTripsThroughLoader guards the stamped-vspec
// contract that cmd/vssc/cmd's `export id` relies on: a tree this
// exporter renders must be loadable again via --prior, which requires
// an 8-hex-digit literal rather than a decimal integer.
func TestExportStaticUIDRoundTripsThroughLoader(t *testing.T) {
	uid := uint32(0xdeadbeef)
	speed := &model.Node{
		Name: "Speed", FQN: "Vehicle.Speed", Kind: model.Sensor,
		Datatype: &model.Datatype{Builtin: model.Float}, Unit: "km/h",
		Description: "Vehicle speed.", StaticUID: &uid,
	}
	vehicle := &model.Node{Name: "Vehicle", FQN: "Vehicle", Kind: model.Branch, Children: []*model.Node{speed}}
	speed.Parent = vehicle

	artifacts, err := Exporter{}.Export(encoding.Input{Root: vehicle})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(artifacts, 1))

	dir := t.TempDir()
	path := filepath.Join(dir, "stamped.yaml")
	qt.Assert(t, qt.IsNil(os.WriteFile(path, artifacts[0].Data, 0o644)))

	flat, errs := loader.Load(path, nil)
	qt.Assert(t, qt.IsNil(errs))
	entry := flat.Get("Vehicle.Speed")
	qt.Assert(t, qt.Not(qt.IsNil(entry)))
	qt.Assert(t, qt.Not(qt.IsNil(entry.StaticUID)))
	qt.Assert(t, qt.Equals(*entry.StaticUID, uid))
}
