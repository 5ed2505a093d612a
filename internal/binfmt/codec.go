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

// Package binfmt implements C10: the binary tree codec (§4.10) and
// the wildcard search engine that operates on a decoded tree.
package binfmt

import (
	"encoding/binary"
	"fmt"
	"io"

	vsserrors "github.com/covesa/vssc/vss/errors"
	"github.com/covesa/vssc/vss/model"
	"github.com/covesa/vssc/vss/token"
)

// Metadata is the read-side bookkeeping the codec accumulates while
// decoding, per §4.10 "Read metadata".
type Metadata struct {
	NodeCount int
	MaxDepth  int
}

// Encode writes t's roots to w in the pre-order, length-prefixed
// layout of §4.10: a one-byte root count followed by each root
// subtree in turn.
func Encode(w io.Writer, t *model.Tree) error {
	bw := &byteWriter{w: w}
	bw.writeU8(uint8(len(t.Roots)))
	for _, r := range t.Roots {
		encodeNode(bw, r)
	}
	return bw.err
}

func encodeNode(bw *byteWriter, n *model.Node) {
	bw.writeStrN(1, n.Name)
	bw.writeStrN(1, string(n.Kind))

	uuid := ""
	if n.StaticUID != nil {
		uuid = fmt.Sprintf("%08x", *n.StaticUID)
	}
	bw.writeStrN(1, uuid)

	bw.writeStrN(2, n.Description)

	datatype := ""
	if n.Kind.HasDatatype() && n.Datatype != nil {
		datatype = n.Datatype.Canonical()
	}
	bw.writeStrN(1, datatype)

	min := ""
	if n.HasMin {
		min = n.Min
	}
	bw.writeStrN(1, min)

	max := ""
	if n.HasMax {
		max = n.Max
	}
	bw.writeStrN(1, max)

	bw.writeStrN(1, n.Unit)
	bw.writeAllowed(n.Allowed)

	def := ""
	if n.HasDefault {
		def = n.Default
	}
	bw.writeStrN(1, def)

	bw.writeStrN(1, n.Validate)

	bw.writeU8(uint8(len(n.Children)))
	for _, c := range n.Children {
		encodeNode(bw, c)
	}
}

// Decode reads a forest encoded by Encode. It returns MalformedNode
// as soon as any length prefix would overrun the remaining input.
func Decode(r io.Reader) (*model.Tree, *Metadata, error) {
	br := &byteReader{r: r}
	rootCount := br.readU8()
	if br.err != nil {
		return nil, nil, malformed("", "truncated root count")
	}

	t := &model.Tree{ByFQN: map[string]*model.Node{}}
	meta := &Metadata{}
	for i := 0; i < int(rootCount); i++ {
		n, err := decodeNode(br, "", 1, meta)
		if err != nil {
			return nil, nil, err
		}
		t.Roots = append(t.Roots, n)
		registerFQN(t, n)
	}
	if br.err != nil {
		return nil, nil, malformed("", "trailing decode error: %v", br.err)
	}
	return t, meta, nil
}

func registerFQN(t *model.Tree, n *model.Node) {
	t.ByFQN[n.FQN] = n
	for _, c := range n.Children {
		registerFQN(t, c)
	}
}

func decodeNode(br *byteReader, parentFQN string, depth int, meta *Metadata) (*model.Node, error) {
	name := br.readStrN(1)
	kindStr := br.readStrN(1)
	uuidStr := br.readStrN(1)
	description := br.readStrN(2)
	datatypeStr := br.readStrN(1)
	min := br.readStrN(1)
	max := br.readStrN(1)
	unit := br.readStrN(1)
	allowed := br.readAllowed()
	def := br.readStrN(1)
	validate := br.readStrN(1)
	childCount := br.readU8()
	if br.err != nil {
		return nil, malformed(parentFQN, "truncated node fields: %v", br.err)
	}

	fqn := name
	if parentFQN != "" {
		fqn = parentFQN + "." + name
	}

	n := &model.Node{
		Name:        name,
		FQN:         fqn,
		Kind:        model.Kind(kindStr),
		Description: description,
		Unit:        unit,
		Allowed:     allowed,
		Validate:    validate,
	}
	if uuidStr != "" {
		var v uint32
		if _, err := fmt.Sscanf(uuidStr, "%08x", &v); err != nil {
			return nil, malformed(fqn, "unparseable static UID hex %q", uuidStr)
		}
		n.StaticUID = &v
	}
	if datatypeStr != "" {
		dt := model.ParseDatatype(datatypeStr)
		n.Datatype = &dt
	}
	if min != "" {
		n.Min, n.HasMin = min, true
	}
	if max != "" {
		n.Max, n.HasMax = max, true
	}
	if def != "" {
		n.Default, n.HasDefault = def, true
	}

	meta.NodeCount++
	if depth > meta.MaxDepth {
		meta.MaxDepth = depth
	}

	for i := 0; i < int(childCount); i++ {
		c, err := decodeNode(br, fqn, depth+1, meta)
		if err != nil {
			return nil, err
		}
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func malformed(fqn, format string, args ...any) error {
	return vsserrors.Newf(vsserrors.MalformedNode, token.NoPos, fqn, format, args...)
}

// --- low-level little-endian primitives ---

type byteWriter struct {
	w   io.Writer
	err error
}

func (bw *byteWriter) write(p []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(p)
}

func (bw *byteWriter) writeU8(v uint8) {
	bw.write([]byte{v})
}

func (bw *byteWriter) writeU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	bw.write(b[:])
}

// writeStrN writes s prefixed by its byte length in an n-byte
// little-endian field (n is 1 or 2, per §4.10's per-field prefix
// widths).
func (bw *byteWriter) writeStrN(n int, s string) {
	if bw.err != nil {
		return
	}
	if n == 1 {
		if len(s) > 0xFF {
			bw.err = fmt.Errorf("binfmt: field %q exceeds 1-byte length prefix", s)
			return
		}
		bw.writeU8(uint8(len(s)))
	} else {
		if len(s) > 0xFFFF {
			bw.err = fmt.Errorf("binfmt: field %q exceeds 2-byte length prefix", s)
			return
		}
		bw.writeU16(uint16(len(s)))
	}
	bw.write([]byte(s))
}

// writeAllowed renders the `allowed` field: a 2-byte total-length
// prefix around a catenation of entries, each preceded by a
// two-hex-digit textual length (§4.10).
func (bw *byteWriter) writeAllowed(allowed []string) {
	if bw.err != nil {
		return
	}
	var body []byte
	for _, a := range allowed {
		if len(a) > 0xFF {
			bw.err = fmt.Errorf("binfmt: allowed entry %q exceeds 255 bytes", a)
			return
		}
		body = append(body, []byte(fmt.Sprintf("%02x", len(a)))...)
		body = append(body, []byte(a)...)
	}
	if len(body) > 0xFFFF {
		bw.err = fmt.Errorf("binfmt: allowed catenation exceeds 2-byte length prefix")
		return
	}
	bw.writeU16(uint16(len(body)))
	bw.write(body)
}

type byteReader struct {
	r   io.Reader
	err error
}

func (br *byteReader) read(n int) []byte {
	if br.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		br.err = err
		return nil
	}
	return buf
}

func (br *byteReader) readU8() uint8 {
	b := br.read(1)
	if br.err != nil {
		return 0
	}
	return b[0]
}

func (br *byteReader) readU16() uint16 {
	b := br.read(2)
	if br.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (br *byteReader) readStrN(n int) string {
	var length int
	if n == 1 {
		length = int(br.readU8())
	} else {
		length = int(br.readU16())
	}
	if br.err != nil {
		return ""
	}
	b := br.read(length)
	if br.err != nil {
		return ""
	}
	return string(b)
}

func (br *byteReader) readAllowed() []string {
	total := int(br.readU16())
	if br.err != nil {
		return nil
	}
	body := br.read(total)
	if br.err != nil {
		return nil
	}
	var out []string
	for i := 0; i < len(body); {
		if i+2 > len(body) {
			br.err = fmt.Errorf("binfmt: truncated allowed-entry length")
			return nil
		}
		var n int
		if _, err := fmt.Sscanf(string(body[i:i+2]), "%02x", &n); err != nil {
			br.err = err
			return nil
		}
		i += 2
		if i+n > len(body) {
			br.err = fmt.Errorf("binfmt: truncated allowed entry")
			return nil
		}
		out = append(out, string(body[i:i+n]))
		i += n
	}
	return out
}
