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

package vsstree

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/vss/model"
)

func TestExportIndentsByDepth(t *testing.T) {
	speed := &model.Node{Name: "Speed", FQN: "Vehicle.Speed", Kind: model.Sensor}
	vehicle := &model.Node{Name: "Vehicle", FQN: "Vehicle", Kind: model.Branch, Children: []*model.Node{speed}}
	speed.Parent = vehicle

	artifacts, err := Exporter{}.Export(encoding.Input{Root: vehicle})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(artifacts, 1))

	text := string(artifacts[0].Data)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	qt.Assert(t, qt.HasLen(lines, 2))
	qt.Assert(t, qt.Equals(lines[0], "Vehicle (branch)"))
	qt.Assert(t, qt.Equals(lines[1], "  Speed (sensor)"))
}
