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

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
)

const baseVspec = `
Vehicle:
  type: branch
  description: High-level vehicle data.
Vehicle.Speed:
  type: sensor
  datatype: float
  unit: km/h
  description: Vehicle speed.
Vehicle.Cabin:
  type: branch
  description: Cabin.
Vehicle.Cabin.Door:
  type: branch
  instances: [["Row1", "Row2"]]
  description: A door.
Vehicle.Cabin.Door.IsOpen:
  type: actuator
  datatype: boolean
  description: Is the door open.
`

const unitsYAML = `
units:
  km/h:
    label: km/h
    description: Kilometers per hour.
    quantity: speed
`

const quantitiesYAML = `
quantities:
  speed:
    description: Rate of change of position.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "vspec.yaml", baseVspec)
	unitsFile := writeFile(t, dir, "units.yaml", unitsYAML)
	qtyFile := writeFile(t, dir, "quantities.yaml", quantitiesYAML)

	result, errs := Compile(Config{
		Source:        src,
		UnitFiles:     []string{unitsFile},
		QuantityFiles: []string{qtyFile},
		Expand:        true,
		Stamp:         true,
	})
	qt.Assert(t, qt.IsNil(errs))
	qt.Assert(t, qt.Not(qt.IsNil(result.Tree)))

	row1 := result.Tree.Lookup("Vehicle.Cabin.Door.Row1.IsOpen")
	row2 := result.Tree.Lookup("Vehicle.Cabin.Door.Row2.IsOpen")
	qt.Assert(t, qt.Not(qt.IsNil(row1)))
	qt.Assert(t, qt.Not(qt.IsNil(row2)))
	qt.Assert(t, qt.Not(qt.IsNil(row1.StaticUID)))
	qt.Assert(t, qt.Not(qt.Equals(*row1.StaticUID, *row2.StaticUID)))

	speed := result.Tree.Lookup("Vehicle.Speed")
	qt.Assert(t, qt.Not(qt.IsNil(speed)))
	qt.Assert(t, qt.Not(qt.IsNil(speed.StaticUID)))
}

func TestCompileNoExpandSkipsInstancesCheck(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "vspec.yaml", baseVspec)
	unitsFile := writeFile(t, dir, "units.yaml", unitsYAML)
	qtyFile := writeFile(t, dir, "quantities.yaml", quantitiesYAML)

	result, errs := Compile(Config{
		Source:        src,
		UnitFiles:     []string{unitsFile},
		QuantityFiles: []string{qtyFile},
		Expand:        false,
	})
	qt.Assert(t, qt.IsNil(errs))

	door := result.Tree.Lookup("Vehicle.Cabin.Door")
	qt.Assert(t, qt.Not(qt.IsNil(door)))
	qt.Assert(t, qt.Not(qt.HasLen(door.Instances, 0)))
}

func TestCompileFatalOnUnknownUnit(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "vspec.yaml", `
Vehicle:
  type: branch
  description: High-level vehicle data.
Vehicle.Speed:
  type: sensor
  datatype: float
  unit: bogus-unit
  description: Vehicle speed.
`)
	_, errs := Compile(Config{Source: src})
	qt.Assert(t, qt.Not(qt.IsNil(errs)))
	qt.Assert(t, qt.Equals(errs.HasFatal(), true))
}
