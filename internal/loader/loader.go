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

// Package loader implements C1, the document loader: it reads a root
// vspec file, resolves `#include <path> [PREFIX]` directives against
// a list of search roots, and streams the result into an ordered
// model.FlatModel (C2).
package loader

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
	"github.com/covesa/vssc/vss/token"
)

var includeDirective = regexp.MustCompile(`^\s*#include\s+(\S+)(?:\s+(\S+))?\s*$`)

// Load reads root and every file it transitively includes into a
// single model.FlatModel, in authoring order, per §4.1. includeRoots
// is the ordered list of additional search directories consulted
// after the including file's own directory.
func Load(root string, includeRoots []string) (*model.FlatModel, *vsserrors.List) {
	flat := model.NewFlatModel()
	errs := &vsserrors.List{}
	l := &loadState{flat: flat, errs: errs, includeRoots: includeRoots}
	l.loadFile(root, "")
	if errs.HasFatal() {
		return flat, errs
	}
	if len(errs.All()) > 0 {
		return flat, errs
	}
	return flat, nil
}

type loadState struct {
	flat         *model.FlatModel
	errs         *vsserrors.List
	includeRoots []string
}

func (l *loadState) loadFile(path, prefix string) {
	data, err := os.ReadFile(path)
	if err != nil {
		l.errs.Add(vsserrors.Newf(vsserrors.IoError, token.NewPos(token.NewFile(path, prefix), 0, 0), "",
			"reading %s: %v", path, err))
		return
	}

	dir := filepath.Dir(path)
	lines := strings.Split(string(data), "\n")

	var chunkLines []string
	chunkStartLine := 1

	flush := func(endLine int) {
		if len(strings.TrimSpace(strings.Join(chunkLines, "\n"))) == 0 {
			chunkLines = nil
			return
		}
		l.decodeChunk(path, prefix, strings.Join(chunkLines, "\n"), chunkStartLine)
		chunkLines = nil
	}

	for i, line := range lines {
		lineNo := i + 1
		if m := includeDirective.FindStringSubmatch(line); m != nil {
			flush(lineNo)
			chunkStartLine = lineNo + 1

			incPath := m[1]
			incPrefix := m[2]
			resolved, ok := l.resolveInclude(dir, incPath)
			if !ok {
				l.errs.Add(vsserrors.Newf(vsserrors.IncludeNotFound,
					token.NewPos(token.NewFile(path, prefix), lineNo, 1), "",
					"include %q not found relative to %s or any include root", incPath, dir))
				continue
			}
			childPrefix := joinPrefix(prefix, incPrefix)
			l.loadFile(resolved, childPrefix)
			continue
		}
		chunkLines = append(chunkLines, line)
	}
	flush(len(lines) + 1)
}

// resolveInclude implements §4.1's search order: (a) the including
// file's own directory, then (b) each include root in order. The
// first hit wins.
func (l *loadState) resolveInclude(dir, incPath string) (string, bool) {
	candidate := filepath.Join(dir, incPath)
	if fileExists(candidate) {
		return candidate, true
	}
	for _, root := range l.includeRoots {
		candidate = filepath.Join(root, incPath)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func joinPrefix(outer, inner string) string {
	if inner == "" {
		return outer
	}
	if outer == "" {
		return inner
	}
	return outer + "." + inner
}
