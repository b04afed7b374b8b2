// packer.go
//
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file serializes a finished DawgBuilder graph, either into the
// compact binary format that Dawg reads, or into a line-oriented text
// format that is convenient for inspection and debugging.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

/*

Binary layout:

The root node is at offset 0 and consists of a single byte holding
its edge count. Every other node starts with a header byte: bit 0x80
is set if the node is final and the low 7 bits hold the edge count.
The edges follow the header.

An edge with a single letter is one byte: the letter's alphabet index
OR'ed with 0x40. An edge with several letters starts with a length
byte (at most 0x3F), followed by one byte per letter, holding the
letter's index. Bit 0x80 is set on a letter byte if a word ends after
that letter. Bit 0x80 on the last byte of the edge means that the edge
leads nowhere; otherwise the edge is followed by the 4-byte little-endian
absolute offset of the node it leads to.

*/

package skrafl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	maxEdgeCount   = 0x7f
	maxPrefixBytes = 0x3f
	singleLetter   = 0x40
	finalBit       = 0x80
)

// packer holds the state of a binary serialization
type packer struct {
	b   *DawgBuilder
	buf []byte
	// Offsets of the nodes that have been written, by arena id
	offsets map[int]uint32
	// Positions of 4-byte offset placeholders awaiting a
	// forward-referenced node, by arena id
	fixups map[int][]int
}

// Pack serializes the graph into the binary DAWG format, finishing
// the builder first if needed. The output is deterministic: the same
// word list always packs to the same bytes.
func (b *DawgBuilder) Pack() ([]byte, error) {
	b.Finish()
	p := &packer{
		b:       b,
		buf:     make([]byte, 0, 16*len(b.order)+16),
		offsets: make(map[int]uint32, len(b.order)),
		fixups:  make(map[int][]int),
	}
	if err := p.writeNode(b.root, true); err != nil {
		return nil, err
	}
	for _, id := range b.order {
		if err := p.writeNode(id, false); err != nil {
			return nil, err
		}
	}
	for id, positions := range p.fixups {
		return nil, &FormatError{
			Offset: positions[0],
			Reason: fmt.Sprintf("unresolved reference to node %d", b.number[id]),
		}
	}
	log.Debug().
		Int("bytes", len(p.buf)).
		Int("nodes", b.NumNodes()).
		Msg("dawg packed")
	return p.buf, nil
}

func (p *packer) writeNode(id int, isRoot bool) error {
	node := &p.b.nodes[id]
	offset := len(p.buf)
	if len(node.edges) > maxEdgeCount {
		return &FormatError{
			Offset: offset,
			Reason: fmt.Sprintf("node has %d edges, maximum is %d", len(node.edges), maxEdgeCount),
		}
	}
	header := byte(len(node.edges))
	if !isRoot {
		// Backfill references to this node that were written earlier
		p.offsets[id] = uint32(offset)
		for _, pos := range p.fixups[id] {
			binary.LittleEndian.PutUint32(p.buf[pos:], uint32(offset))
		}
		delete(p.fixups, id)
		if node.final {
			header |= finalBit
		}
	}
	p.buf = append(p.buf, header)
	for i := range node.edges {
		if err := p.writeEdge(&node.edges[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *packer) writeEdge(e *buildEdge) error {
	offset := len(p.buf)
	letters := make([]byte, 0, len(e.prefix))
	for _, r := range e.prefix {
		if r == finalMarker {
			letters[len(letters)-1] |= finalBit
			continue
		}
		ix, ok := p.b.alphabet.Index(r)
		if !ok {
			return &FormatError{Offset: offset, Reason: fmt.Sprintf("letter '%c' not in alphabet", r)}
		}
		letters = append(letters, ix)
	}
	if e.child == noNode {
		letters[len(letters)-1] |= finalBit
	}
	switch {
	case len(letters) == 1:
		p.buf = append(p.buf, letters[0]|singleLetter)
	case len(letters) <= maxPrefixBytes:
		p.buf = append(p.buf, byte(len(letters)))
		p.buf = append(p.buf, letters...)
	default:
		return &FormatError{
			Offset: offset,
			Reason: fmt.Sprintf("edge prefix '%s' is too long", string(e.prefix)),
		}
	}
	if e.child == noNode {
		return nil
	}
	if target, ok := p.offsets[e.child]; ok {
		p.buf = binary.LittleEndian.AppendUint32(p.buf, target)
	} else {
		// Forward reference: reserve space and patch it later
		p.fixups[e.child] = append(p.fixups[e.child], len(p.buf))
		p.buf = append(p.buf, 0, 0, 0, 0)
	}
	return nil
}

// WriteText writes the graph in text form, one node per line. Line 1
// is the root and line n (n >= 2) is node number n. A line starts with
// '|' if the node is final, followed by the node's edges separated by
// '_', each written as prefix:child where child 0 means that the edge
// leads nowhere.
func (b *DawgBuilder) WriteText(w io.Writer) error {
	b.Finish()
	bw := bufio.NewWriter(w)
	writeLine := func(id int) {
		node := &b.nodes[id]
		var sb strings.Builder
		if node.final && id != b.root {
			sb.WriteRune(finalMarker)
		}
		for i, e := range node.edges {
			if i > 0 {
				sb.WriteByte('_')
			}
			child := 0
			if e.child != noNode {
				child = b.number[e.child]
			}
			fmt.Fprintf(&sb, "%s:%d", string(e.prefix), child)
		}
		sb.WriteByte('\n')
		bw.WriteString(sb.String())
	}
	writeLine(b.root)
	for _, id := range b.order {
		writeLine(id)
	}
	return bw.Flush()
}
