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

package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"

	vsserrors "github.com/covesa/vssc/vss/errors"
)

func TestLoadMalformedStaticUID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicle.vspec")
	src := `
Vehicle.Speed:
  type: sensor
  datatype: float
  description: Vehicle speed.
  staticUID: not-hex
`
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(src), 0o644)))

	_, errs := Load(path, nil)
	qt.Assert(t, qt.Not(qt.IsNil(errs)))

	all := errs.All()
	qt.Assert(t, qt.HasLen(all, 1))
	qt.Assert(t, qt.Equals(all[0].Kind(), vsserrors.MalformedConstUid))
}

func TestLoadValidStaticUID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicle.vspec")
	src := `
Vehicle.Speed:
  type: sensor
  datatype: float
  description: Vehicle speed.
  staticUID: deadbeef
`
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(src), 0o644)))

	flat, errs := Load(path, nil)
	qt.Assert(t, qt.IsNil(errs))
	entry := flat.Get("Vehicle.Speed")
	qt.Assert(t, qt.Not(qt.IsNil(entry)))
	qt.Assert(t, qt.Not(qt.IsNil(entry.StaticUID)))
	qt.Assert(t, qt.Equals(*entry.StaticUID, uint32(0xdeadbeef)))
}
