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

// Package vssidl renders struct datatypes as DDS-IDL and Franca IDL
// source, a representative rendering of each leaf's contract rather
// than a fully general IDL toolchain (excluded by the non-goals).
// No pack repo carries an IDL-generation library, so both dialects
// are plain text/template emitters.
package vssidl

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/internal/registry"
	"github.com/covesa/vssc/vss/model"
)

// Dialect selects which IDL flavor Exporter renders.
type Dialect int

const (
	DDS Dialect = iota
	Franca
)

// Exporter renders every struct in the type registry as one IDL
// document in the selected Dialect.
type Exporter struct {
	Dialect Dialect
}

var ddsTmpl = template.Must(template.New("dds").Parse(`module vss {
{{range .}}  struct {{.Name}} {
{{- range .Fields}}
    {{.Type}} {{.Name}};
{{- end}}
  };
{{end}}};
`))

var francaTmpl = template.Must(template.New("franca").Parse(`package vss

{{range .}}struct {{.Name}} {
{{- range .Fields}}
  {{.Type}} {{.Name}}
{{- end}}
}

{{end}}`))

type idlField struct {
	Name string
	Type string
}

type idlStruct struct {
	Name   string
	Fields []idlField
}

// Export implements encoding.Exporter.
func (e Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	structs := collect(in.Types)

	tmpl, path := ddsTmpl, "vspec.idl"
	if e.Dialect == Franca {
		tmpl, path = francaTmpl, "vspec.fidl"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, structs); err != nil {
		return nil, err
	}
	return []encoding.Artifact{{Path: path, Data: buf.Bytes()}}, nil
}

func collect(types *registry.Types) []idlStruct {
	if types == nil {
		return nil
	}
	var out []idlStruct
	for _, fqn := range types.Known() {
		def, _ := types.Lookup(fqn)
		s := idlStruct{Name: sanitize(def.FQN)}
		for _, prop := range def.Properties {
			s.Fields = append(s.Fields, idlField{Name: prop.Name, Type: idlType(prop)})
		}
		out = append(out, s)
	}
	return out
}

func idlType(n *model.Node) string {
	if n.Datatype == nil {
		return "string"
	}
	base := idlScalar(n.Datatype.Builtin, n.Datatype.Struct)
	if n.Datatype.Array {
		return "sequence<" + base + ">"
	}
	return base
}

func idlScalar(scalar model.Scalar, structRef string) string {
	if structRef != "" {
		return sanitize(structRef)
	}
	switch scalar {
	case model.Int8:
		return "octet"
	case model.Int16:
		return "short"
	case model.Int32:
		return "long"
	case model.Int64:
		return "long long"
	case model.Uint8:
		return "octet"
	case model.Uint16:
		return "unsigned short"
	case model.Uint32:
		return "unsigned long"
	case model.Uint64:
		return "unsigned long long"
	case model.Float:
		return "float"
	case model.Double:
		return "double"
	case model.Boolean:
		return "boolean"
	default:
		return "string"
	}
}

func sanitize(fqn string) string {
	return strings.ReplaceAll(fqn, ".", "_")
}
