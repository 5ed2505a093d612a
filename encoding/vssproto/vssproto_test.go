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

package vssproto

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/internal/registry"
)

const typesYAML = `
Vehicle:
  type: branch
  description: High-level vehicle data.

Vehicle.Cabin:
  type: branch
  description: Cabin.

Vehicle.Cabin.CoordinateType:
  type: struct
  description: A 2D coordinate.

Vehicle.Cabin.CoordinateType.X:
  type: property
  datatype: float

Vehicle.Cabin.CoordinateType.Y:
  type: property
  datatype: float
`

func TestExportProducesParsableProto(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.vspec")
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(typesYAML), 0o644)))

	types, errs := registry.LoadTypes([]string{path}, nil)
	qt.Assert(t, qt.IsNil(errs))

	artifacts, err := Exporter{}.Export(encoding.Input{Types: types})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(artifacts, 1))

	qt.Assert(t, qt.Equals(bytes.Contains(artifacts[0].Data, []byte("message Vehicle_Cabin_CoordinateType")), true))
	qt.Assert(t, qt.Equals(bytes.Contains(artifacts[0].Data, []byte("float x = ")), true))
}
