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

package binfmt

import (
	"strings"

	"github.com/covesa/vssc/vss/model"
)

// maxSpeculationDepth caps the number of nested wildcard segments
// the search engine will chase before giving up on a branch (§4.10).
const maxSpeculationDepth = 20

// Match is one (path, node) hit returned by Search.
type Match struct {
	Path string
	Node *model.Node
}

// SearchOptions are the policy flags of §4.10's search engine.
type SearchOptions struct {
	AnyDepth      bool
	LeafNodesOnly bool
	MaxResults    int
	NoScope       []string
}

// Search walks root depth-first matching query's dot-separated
// segments (`*` as a per-segment wildcard) against node names.
//
// The engine is conceptually the state machine described alongside
// it: Idle (before the call) -> Descending (matching non-final
// segments) -> Matching (a segment just matched) -> Speculating
// (the matched segment was a wildcard, so multiple children are
// tried) -> Finalizing (max_results reached or input exhausted).
// This implementation realizes that machine with a recursive
// descent rather than an explicit stack: a wildcard's "speculative"
// matches are never appended to the result set until the remainder
// of the query succeeds against that specific subtree, so a failed
// branch leaves no trace to roll back — the absence of provisional
// writes *is* the rollback.
func Search(root *model.Node, query string, opt SearchOptions) []Match {
	if root == nil || query == "" {
		return nil
	}
	segs := strings.Split(query, ".")

	anyDepth := opt.AnyDepth
	prefix := segs
	if len(segs) > 0 && segs[len(segs)-1] == "*" {
		anyDepth = true
		prefix = segs[:len(segs)-1]
	}

	var out []Match
	s := &searchState{opt: opt, out: &out}

	if anyDepth {
		if len(prefix) == 0 {
			s.collectLeaves(root, root.Name)
		} else {
			s.walk(root, root.Name, prefix, 0, 0, func(n *model.Node, path string) {
				s.collectLeaves(n, path)
			})
		}
	} else {
		s.walk(root, root.Name, segs, 0, 0, func(n *model.Node, path string) {
			if opt.LeafNodesOnly && !n.Kind.IsLeaf() {
				return
			}
			s.record(Match{Path: path, Node: n})
		})
	}

	return applyNoScope(out, opt.NoScope)
}

type searchState struct {
	opt SearchOptions
	out *[]Match
}

func (s *searchState) full() bool {
	return s.opt.MaxResults > 0 && len(*s.out) >= s.opt.MaxResults
}

func (s *searchState) record(m Match) {
	if s.full() {
		return
	}
	*s.out = append(*s.out, m)
}

// walk matches segs[idx] against node.Name and, on success, either
// reports a final match via found or recurses into matching
// children for the next segment. It returns whether this subtree
// contributed at least one match, so a wildcard parent can tell
// whether to keep exploring sibling children — not to decide
// whether to keep results (those are only ever written on success).
func (s *searchState) walk(node *model.Node, path string, segs []string, idx int, specDepth int, found func(*model.Node, string)) bool {
	if node == nil || s.full() {
		return false
	}
	seg := segs[idx]
	if seg != "*" && seg != node.Name {
		return false
	}

	if idx == len(segs)-1 {
		found(node, path)
		return true
	}

	nextDepth := specDepth
	if seg == "*" {
		nextDepth++
		if nextDepth > maxSpeculationDepth {
			return false
		}
	}

	matched := false
	for _, c := range node.Children {
		if s.full() {
			break
		}
		if s.walk(c, path+"."+c.Name, segs, idx+1, nextDepth, found) {
			matched = true
		}
	}
	return matched
}

// collectLeaves performs the breadth-first any_depth enumeration of
// §4.10: every leaf beneath node, level by level, regardless of depth.
func (s *searchState) collectLeaves(node *model.Node, path string) {
	type item struct {
		n    *model.Node
		path string
	}
	queue := []item{{node, path}}
	for len(queue) > 0 && !s.full() {
		it := queue[0]
		queue = queue[1:]
		if it.n == nil {
			continue
		}
		if it.n.Kind.IsLeaf() {
			s.record(Match{Path: it.path, Node: it.n})
		}
		for _, c := range it.n.Children {
			queue = append(queue, item{c, it.path + "." + c.Name})
		}
	}
}

// applyNoScope drops matches whose path is pruned by the no-scope
// list (§4.10: "paths that are an exact prefix match are pruned") —
// a match is blocked when a no-scope entry equals its path outright
// or is a dotted ancestor of it, so excluding a branch excludes
// everything under it, not just the branch node itself.
func applyNoScope(matches []Match, noScope []string) []Match {
	if len(noScope) == 0 {
		return matches
	}
	out := matches[:0]
	for _, m := range matches {
		if !blockedByNoScope(m.Path, noScope) {
			out = append(out, m)
		}
	}
	return out
}

func blockedByNoScope(path string, noScope []string) bool {
	for _, p := range noScope {
		if path == p || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}
