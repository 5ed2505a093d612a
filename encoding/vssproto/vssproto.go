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

// Package vssproto renders struct datatypes as protobuf message
// definitions. The rendered .proto text is parsed back with
// github.com/emicklei/proto as a syntax self-check before being
// returned, the same library the teacher uses to read .proto sources
// on the way in.
package vssproto

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/emicklei/proto"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/internal/registry"
	"github.com/covesa/vssc/vss/model"
)

// Exporter renders every struct in the type registry as a protobuf
// message.
type Exporter struct{}

var tmpl = template.Must(template.New("proto").Parse(`syntax = "proto3";

package vss;
{{range .}}
message {{.Name}} {
{{- range .Fields}}
  {{.ProtoType}} {{.Name}} = {{.Number}};
{{- end}}
}
{{end}}`))

type field struct {
	Name      string
	ProtoType string
	Number    int
}

type message struct {
	Name   string
	Fields []field
}

// Export implements encoding.Exporter.
func (Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	messages := collectMessages(in.Types)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, messages); err != nil {
		return nil, err
	}

	if _, err := proto.NewParser(bytes.NewReader(buf.Bytes())).Parse(); err != nil {
		return nil, fmt.Errorf("vssproto: generated .proto failed self-check: %w", err)
	}

	return []encoding.Artifact{{Path: "vspec.proto", Data: buf.Bytes()}}, nil
}

func collectMessages(types *registry.Types) []message {
	if types == nil {
		return nil
	}
	fqns := registryFQNs(types)
	sort.Strings(fqns)

	var out []message
	for _, fqn := range fqns {
		def, _ := types.Lookup(fqn)
		m := message{Name: sanitizeName(def.FQN)}
		for i, prop := range def.Properties {
			m.Fields = append(m.Fields, field{
				Name:      strings.ToLower(prop.Name),
				ProtoType: protoType(prop),
				Number:    i + 1,
			})
		}
		out = append(out, m)
	}
	return out
}

func registryFQNs(types *registry.Types) []string {
	return types.Known()
}

func protoType(n *model.Node) string {
	if n.Datatype == nil {
		return "string"
	}
	base := protoScalar(n.Datatype)
	if n.Datatype.Array {
		return "repeated " + base
	}
	return base
}

func protoScalar(dt *model.Datatype) string {
	if dt.IsStruct() {
		return sanitizeName(dt.Struct)
	}
	switch dt.Builtin {
	case model.Int8, model.Int16, model.Int32:
		return "int32"
	case model.Int64:
		return "int64"
	case model.Uint8, model.Uint16, model.Uint32:
		return "uint32"
	case model.Uint64:
		return "uint64"
	case model.Float:
		return "float"
	case model.Double:
		return "double"
	case model.Boolean:
		return "bool"
	default:
		return "string"
	}
}

// sanitizeName turns a dotted FQN into a valid protobuf message
// identifier.
func sanitizeName(fqn string) string {
	return strings.ReplaceAll(fqn, ".", "_")
}
