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

// Package errors defines the diagnostic type shared by every pipeline
// stage: the loader, overlay merger, expander, validator, static-UID
// engine, and binary codec all raise and collect errors.Error values.
package errors

import (
	"fmt"
	"slices"
	"sort"

	"github.com/covesa/vssc/vss/token"
)

// Kind enumerates the taxonomy of §7: loader, validator, static-UID
// and binary-codec failure kinds, plus the UID-validation diagnostic
// kinds that are informational rather than fatal.
type Kind string

const (
	IncludeNotFound Kind = "IncludeNotFound"
	DuplicateKey    Kind = "DuplicateKey"
	YamlSyntax      Kind = "YamlSyntax"

	UnknownAttribute Kind = "UnknownAttribute"
	NamingStyle      Kind = "NamingStyle"

	MissingRequiredField    Kind = "MissingRequiredField"
	InconsistentDatatype    Kind = "InconsistentDatatype"
	UnknownUnit             Kind = "UnknownUnit"
	UnknownQuantity         Kind = "UnknownQuantity"
	UnknownType             Kind = "UnknownType"
	CyclicType              Kind = "CyclicType"
	BoundViolation          Kind = "BoundViolation"
	InvalidAllowed          Kind = "InvalidAllowed"
	InstanceLabelCollision  Kind = "InstanceLabelCollision"
	MissingAncestor         Kind = "MissingAncestor"

	IdCollision       Kind = "IdCollision"
	MalformedConstUid Kind = "MalformedConstUid"

	MalformedNode Kind = "MalformedNode"
	IoError       Kind = "IoError"

	BreakingChange    Kind = "BreakingChange"
	NonBreakingChange Kind = "NonBreakingChange"
	Deleted           Kind = "Deleted"
	Added             Kind = "Added"
	SemanticRename    Kind = "SemanticRename"
)

// Severity classifies a diagnostic for reporting and for the
// strict-mode promotion table (see internal/validate).
type Severity int

const (
	Info Severity = iota
	Warning
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Fatal:
		return "error"
	default:
		return "unknown"
	}
}

// Error is a single diagnostic. List.Sanitize dedups diagnostics by
// their rendered Error() string.
type Error struct {
	KindValue Kind
	Sev       Severity
	Pos       token.Pos
	FQN       string
	Format    string
	Args      []any
}

// Newf builds a fatal diagnostic of the given kind at the given
// position and FQN.
func Newf(kind Kind, pos token.Pos, fqn, format string, args ...any) *Error {
	return &Error{KindValue: kind, Sev: Fatal, Pos: pos, FQN: fqn, Format: format, Args: args}
}

// Warnf builds a warning diagnostic.
func Warnf(kind Kind, pos token.Pos, fqn, format string, args ...any) *Error {
	return &Error{KindValue: kind, Sev: Warning, Pos: pos, FQN: fqn, Format: format, Args: args}
}

// Infof builds an informational diagnostic (used for UID engine
// add/rename/non-breaking-change notices).
func Infof(kind Kind, pos token.Pos, fqn, format string, args ...any) *Error {
	return &Error{KindValue: kind, Sev: Info, Pos: pos, FQN: fqn, Format: format, Args: args}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf(e.Format, e.Args...)
	if e.FQN == "" {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.KindValue, msg)
	}
	return fmt.Sprintf("%s: %s: %s: %s", e.Pos, e.KindValue, e.FQN, msg)
}

// Kind returns the diagnostic's taxonomy kind.
func (e *Error) Kind() Kind { return e.KindValue }

// Severity returns the diagnostic's severity.
func (e *Error) Severity() Severity { return e.Sev }

// Position returns the diagnostic's primary source position.
func (e *Error) Position() token.Pos { return e.Pos }

// Path returns the FQN the diagnostic is attached to, if any.
func (e *Error) Path() string { return e.FQN }

// List accumulates diagnostics across a pipeline stage so that, per
// §4.8 and §7, a single run surfaces every validation failure instead
// of stopping at the first one.
type List struct {
	errs []*Error
}

// Add appends a diagnostic. Nil is ignored, mirroring the teacher's
// errors.Append convenience.
func (l *List) Add(e *Error) {
	if e == nil {
		return
	}
	l.errs = append(l.errs, e)
}

// AddList appends every diagnostic from another list.
func (l *List) AddList(other *List) {
	if other == nil {
		return
	}
	l.errs = append(l.errs, other.errs...)
}

// All returns every accumulated diagnostic in insertion order.
func (l *List) All() []*Error {
	return l.errs
}

// HasFatal reports whether any accumulated diagnostic is a Fatal
// severity one.
func (l *List) HasFatal() bool {
	for _, e := range l.errs {
		if e.Sev == Fatal {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics for which keep returns true.
func (l *List) Filter(keep func(*Error) bool) *List {
	out := &List{}
	for _, e := range l.errs {
		if keep(e) {
			out.Add(e)
		}
	}
	return out
}

// Sanitize sorts the list by position then FQN then message, and
// removes exact duplicates, on a best-effort basis — mirroring
// cue/errors.Sanitize, which this package's List is modeled on.
func (l *List) Sanitize() *List {
	errs := slices.Clone(l.errs)
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if c := a.Pos.Compare(b.Pos); c != 0 {
			return c < 0
		}
		if a.FQN != b.FQN {
			return a.FQN < b.FQN
		}
		return a.Error() < b.Error()
	})
	out := errs[:0]
	var prev string
	for i, e := range errs {
		s := e.Error()
		if i == 0 || s != prev {
			out = append(out, e)
		}
		prev = s
	}
	return &List{errs: out}
}

// Error implements the error interface by joining every message with
// a newline, so a *List can itself be returned as a Go error.
func (l *List) Error() string {
	if len(l.errs) == 0 {
		return ""
	}
	msgs := make([]string, len(l.errs))
	for i, e := range l.errs {
		msgs[i] = e.Error()
	}
	out := msgs[0]
	for _, m := range msgs[1:] {
		out += "\n" + m
	}
	return out
}
