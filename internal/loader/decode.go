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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
	"github.com/covesa/vssc/vss/token"
)

// decodeChunk parses one contiguous run of non-#include lines as a
// YAML mapping of FQN (relative to prefix) to attribute mapping, and
// adds each entry to the flat model in document order. YAML parsing
// is strict: mapping keys must be unique within the document (§4.1).
func (l *loadState) decodeChunk(path, prefix, text string, startLine int) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		l.errs.Add(vsserrors.Newf(vsserrors.YamlSyntax,
			token.NewPos(token.NewFile(path, prefix), startLine, 1), "",
			"yaml syntax error: %v", err))
		return
	}
	if len(doc.Content) == 0 {
		return
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		l.errs.Add(vsserrors.Newf(vsserrors.YamlSyntax,
			token.NewPos(token.NewFile(path, prefix), startLine, 1), "",
			"top-level document must be a mapping of FQN to attributes"))
		return
	}

	seenInChunkFile := map[string]bool{}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]

		key := keyNode.Value
		fqn := key
		if prefix != "" {
			fqn = prefix + "." + key
		}

		pos := token.NewPos(token.NewFile(path, prefix), keyNode.Line, keyNode.Column)

		if seenInChunkFile[key] || l.flat.Has(fqn) {
			l.errs.Add(vsserrors.Newf(vsserrors.DuplicateKey, pos, fqn,
				"duplicate key %q in %s", key, path))
			continue
		}
		seenInChunkFile[key] = true

		var raw map[string]any
		if err := valNode.Decode(&raw); err != nil {
			l.errs.Add(vsserrors.Newf(vsserrors.YamlSyntax, pos, fqn,
				"decoding attributes of %q: %v", key, err))
			continue
		}

		node, err := nodeFromRaw(fqn, raw, pos)
		if err != nil {
			kind := vsserrors.YamlSyntax
			if errors.As(err, new(*malformedUIDError)) {
				kind = vsserrors.MalformedConstUid
			}
			l.errs.Add(vsserrors.Newf(kind, pos, fqn, "%v", err))
			continue
		}
		l.flat.Set(fqn, node)
	}
}

// BaseAttributes lists every attribute name the loader assigns to a
// typed Node field, i.e. never relegated to Node.Extended. The
// validator's extended-attribute whitelist check (§4.8) treats
// anything outside this set, plus the caller-supplied whitelist, as
// an UnknownAttribute diagnostic.
var BaseAttributes = map[string]bool{
	"type": true, "datatype": true, "description": true, "comment": true,
	"deprecation": true, "default": true, "min": true, "max": true,
	"unit": true, "allowed": true, "arraysize": true, "instances": true,
	"fka": true, "constUID": true, "staticUID": true, "delete": true,
	"validate": true,
}

func nodeFromRaw(fqn string, raw map[string]any, pos token.Pos) (*model.Node, error) {
	n := &model.Node{
		FQN:     fqn,
		Name:    model.LastSegment(fqn),
		Pos:     pos,
		Present: make(map[string]bool, len(raw)),
	}
	for k := range raw {
		n.Present[k] = true
	}

	if v, ok := raw["type"]; ok {
		n.Kind = model.Kind(fmt.Sprint(v))
	}
	if v, ok := raw["datatype"]; ok {
		dt := model.ParseDatatype(fmt.Sprint(v))
		n.Datatype = &dt
	}
	if v, ok := raw["description"]; ok {
		n.Description = fmt.Sprint(v)
	}
	if v, ok := raw["comment"]; ok {
		n.Comment = fmt.Sprint(v)
	}
	if v, ok := raw["deprecation"]; ok {
		n.Deprecation = fmt.Sprint(v)
	}
	if v, ok := raw["default"]; ok {
		n.Default = fmt.Sprint(v)
		n.HasDefault = true
	}
	if v, ok := raw["min"]; ok {
		n.Min = fmt.Sprint(v)
		n.HasMin = true
	}
	if v, ok := raw["max"]; ok {
		n.Max = fmt.Sprint(v)
		n.HasMax = true
	}
	if v, ok := raw["unit"]; ok {
		n.Unit = fmt.Sprint(v)
	}
	if v, ok := raw["validate"]; ok {
		n.Validate = fmt.Sprint(v)
	}
	if v, ok := raw["allowed"]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: `allowed` must be a list", fqn)
		}
		for _, e := range list {
			n.Allowed = append(n.Allowed, fmt.Sprint(e))
		}
	}
	if v, ok := raw["arraysize"]; ok {
		switch t := v.(type) {
		case int:
			n.ArraySize = t
		default:
			size, err := strconv.Atoi(fmt.Sprint(v))
			if err != nil {
				return nil, fmt.Errorf("%s: invalid arraysize %v", fqn, v)
			}
			n.ArraySize = size
		}
		n.HasArraySize = true
	}
	if v, ok := raw["instances"]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: `instances` must be a list", fqn)
		}
		for _, e := range list {
			dim, err := model.ParseInstanceDim(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fqn, err)
			}
			n.Instances = append(n.Instances, dim)
		}
	}
	if v, ok := raw["fka"]; ok {
		switch t := v.(type) {
		case []any:
			for _, e := range t {
				n.FKA = append(n.FKA, fmt.Sprint(e))
			}
		case string:
			n.FKA = []string{t}
		}
	}
	if v, ok := raw["constUID"]; ok {
		u, err := parseHexUID(fmt.Sprint(v))
		if err != nil {
			return nil, &malformedUIDError{fmt.Errorf("%s: constUID: %w", fqn, err)}
		}
		n.ConstUID = &u
	}
	if v, ok := raw["staticUID"]; ok {
		u, err := parseHexUID(fmt.Sprint(v))
		if err != nil {
			return nil, &malformedUIDError{fmt.Errorf("%s: staticUID: %w", fqn, err)}
		}
		n.StaticUID = &u
	}
	if v, ok := raw["delete"]; ok {
		switch t := v.(type) {
		case bool:
			n.Delete = t
		default:
			n.Delete = fmt.Sprint(v) == "true"
		}
	}

	for k, v := range raw {
		if BaseAttributes[k] {
			continue
		}
		if n.Extended == nil {
			n.Extended = make(map[string]any)
		}
		n.Extended[k] = v
	}

	return n, nil
}

// malformedUIDError marks a constUID/staticUID literal that failed to
// parse, so decodeChunk can raise it as MalformedConstUid rather than
// the generic YamlSyntax kind.
type malformedUIDError struct{ err error }

func (e *malformedUIDError) Error() string { return e.err.Error() }
func (e *malformedUIDError) Unwrap() error { return e.err }

func parseHexUID(s string) (uint32, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s) != 8 {
		return 0, fmt.Errorf("expected a 4-byte (8 hex digit) literal, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
