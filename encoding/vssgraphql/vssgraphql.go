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

// Package vssgraphql renders the tree as a GraphQL SDL document: one
// type per branch/struct, nesting child signals as fields. No pack
// repo carries a GraphQL schema library, so this is a plain
// text/template emitter (§10 of SPEC_FULL.md).
package vssgraphql

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/vss/model"
)

// Exporter renders the tree as one GraphQL SDL document.
type Exporter struct{}

var tmpl = template.Must(template.New("graphql").Parse(`{{range .}}type {{.Name}} {
{{- range .Fields}}
  {{.Name}}: {{.GQLType}}
{{- end}}
}

{{end}}`))

type gqlField struct {
	Name    string
	GQLType string
}

type gqlType struct {
	Name   string
	Fields []gqlField
}

// Export implements encoding.Exporter.
func (Exporter) Export(in encoding.Input) ([]encoding.Artifact, error) {
	var types []gqlType
	collect(in.Root, &types)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, types); err != nil {
		return nil, err
	}
	return []encoding.Artifact{{Path: "vspec.graphql", Data: buf.Bytes()}}, nil
}

func collect(n *model.Node, out *[]gqlType) {
	if n == nil {
		return
	}
	if n.Kind.CanHaveChildren() {
		t := gqlType{Name: sanitize(n.FQN)}
		for _, c := range n.Children {
			t.Fields = append(t.Fields, gqlField{Name: sanitize(c.Name), GQLType: gqlType_(c)})
		}
		*out = append(*out, t)
	}
	for _, c := range n.Children {
		collect(c, out)
	}
}

func gqlType_(n *model.Node) string {
	if n.Kind.CanHaveChildren() {
		return sanitize(n.FQN)
	}
	if n.Datatype == nil {
		return "String"
	}
	base := gqlScalar(n.Datatype.Builtin, n.Datatype.Struct)
	if n.Datatype.Array {
		return "[" + base + "]"
	}
	return base
}

func gqlScalar(scalar model.Scalar, structRef string) string {
	if structRef != "" {
		return sanitize(structRef)
	}
	switch {
	case model.IsInteger(scalar):
		return "Int"
	case model.IsFloat(scalar):
		return "Float"
	case scalar == model.Boolean:
		return "Boolean"
	default:
		return "String"
	}
}

func sanitize(fqn string) string {
	return strings.ReplaceAll(fqn, ".", "_")
}
