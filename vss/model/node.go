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

// Package model defines the vspec data model of §3: Node, the flat
// model (C2) and the built tree (C6).
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/covesa/vssc/vss/token"
)

// InstanceDim is one dimension of a branch's `instances` descriptor
// (§3, §4.7): either an explicit label list or a `Name[lo,hi]` range.
type InstanceDim struct {
	Explicit []string

	IsRange  bool
	RangeName string
	RangeLo   int
	RangeHi   int
}

// Labels normalizes the dimension into its list of labels, per
// §4.7 step 1.
func (d InstanceDim) Labels() []string {
	if !d.IsRange {
		return d.Explicit
	}
	n := d.RangeHi - d.RangeLo + 1
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := d.RangeLo; i <= d.RangeHi; i++ {
		out = append(out, d.RangeName+strconv.Itoa(i))
	}
	return out
}

// ParseInstanceDim parses one descriptor entry: either a YAML
// sequence of explicit labels or the string form "Name[lo,hi]".
func ParseInstanceDim(raw any) (InstanceDim, error) {
	switch v := raw.(type) {
	case []string:
		return InstanceDim{Explicit: v}, nil
	case []any:
		labels := make([]string, 0, len(v))
		for _, e := range v {
			labels = append(labels, fmt.Sprint(e))
		}
		return InstanceDim{Explicit: labels}, nil
	case string:
		return parseRangeForm(v)
	default:
		return InstanceDim{}, fmt.Errorf("unrecognized instance dimension %v (%T)", raw, raw)
	}
}

func parseRangeForm(s string) (InstanceDim, error) {
	open := strings.IndexByte(s, '[')
	if !strings.HasSuffix(s, "]") || open < 0 {
		return InstanceDim{}, fmt.Errorf("invalid instance range form %q", s)
	}
	name := s[:open]
	inner := s[open+1 : len(s)-1]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return InstanceDim{}, fmt.Errorf("invalid instance range bounds %q", s)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return InstanceDim{}, fmt.Errorf("invalid instance range lo bound %q: %w", s, err)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return InstanceDim{}, fmt.Errorf("invalid instance range hi bound %q: %w", s, err)
	}
	if lo > hi {
		return InstanceDim{}, fmt.Errorf("instance range lo > hi in %q", s)
	}
	return InstanceDim{IsRange: true, RangeName: name, RangeLo: lo, RangeHi: hi}, nil
}

// String renders the dimension back to its source form; the YAML
// exporter uses it for range dimensions of an un-expanded tree.
func (d InstanceDim) String() string {
	if d.IsRange {
		return fmt.Sprintf("%s[%d,%d]", d.RangeName, d.RangeLo, d.RangeHi)
	}
	return "[" + strings.Join(d.Explicit, ",") + "]"
}

// Node is a single vspec tree element (§3). It doubles as the raw
// node record of the flat model (C2) before a tree is built: Children
// and Parent are nil until the tree builder (C6) runs.
type Node struct {
	Name string
	FQN  string
	Kind Kind

	Datatype *Datatype

	Description string
	Comment     string
	Deprecation string

	// Default, Min, Max are kept in raw textual form, matching the
	// binary codec's representation (§4.10); numeric validation (C8)
	// parses them against Datatype on demand.
	Default string
	Min     string
	Max     string
	HasMin  bool
	HasMax  bool
	HasDefault bool

	Unit    string
	Allowed []string

	ArraySize    int
	HasArraySize bool

	Instances []InstanceDim

	FKA []string

	ConstUID  *uint32
	StaticUID *uint32

	Delete bool

	// Validate is the write-only/read-write[+consent] access
	// attribute referenced by the binary codec (§4.10) and its
	// validation lattice.
	Validate string

	// Extended holds every attribute not recognized as one of the
	// above, keyed by its raw YAML attribute name (§9 "dynamic
	// attribute bags").
	Extended map[string]any

	// Present records which base attribute names were explicitly set
	// on this node in its source YAML mapping. The overlay merger
	// (C5) uses it to distinguish "absent, preserve the base value"
	// from "explicitly set to the zero value".
	Present map[string]bool

	Children []*Node
	Parent   *Node `json:"-"`

	Pos token.Pos
}

// Clone returns a deep copy of n, excluding Parent (which is rebuilt
// by the tree builder) but including a structural copy of Children.
// Used by the overlay merger and instance expander, both of which
// must not mutate shared template nodes in place.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Parent = nil
	if n.Datatype != nil {
		dt := *n.Datatype
		c.Datatype = &dt
	}
	c.Allowed = append([]string(nil), n.Allowed...)
	c.FKA = append([]string(nil), n.FKA...)
	c.Instances = append([]InstanceDim(nil), n.Instances...)
	if n.ConstUID != nil {
		v := *n.ConstUID
		c.ConstUID = &v
	}
	if n.StaticUID != nil {
		v := *n.StaticUID
		c.StaticUID = &v
	}
	if n.Extended != nil {
		c.Extended = make(map[string]any, len(n.Extended))
		for k, v := range n.Extended {
			c.Extended[k] = v
		}
	}
	if n.Present != nil {
		c.Present = make(map[string]bool, len(n.Present))
		for k, v := range n.Present {
			c.Present[k] = v
		}
	}
	c.Children = nil
	for _, ch := range n.Children {
		cc := ch.Clone()
		cc.Parent = &c
		c.Children = append(c.Children, cc)
	}
	return &c
}

// LastSegment returns the final dotted segment of fqn.
func LastSegment(fqn string) string {
	i := strings.LastIndexByte(fqn, '.')
	if i < 0 {
		return fqn
	}
	return fqn[i+1:]
}

// ParentFQN returns the FQN of fqn's parent, or "" if fqn is a root
// (has no dot).
func ParentFQN(fqn string) string {
	i := strings.LastIndexByte(fqn, '.')
	if i < 0 {
		return ""
	}
	return fqn[:i]
}
