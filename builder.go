// builder.go
//
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file implements the DawgBuilder, which consumes a sorted
// stream of words and produces a minimized Directed Acyclic Word
// Graph, ready to be packed into the compact binary format.

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

The builder works incrementally. Words must arrive in ascending
collation order. Since consecutive words share a prefix, only the
suffix that diverges from the previous word needs new nodes, and the
branches of the previous word below the shared prefix can never be
touched again. These abandoned branches are collapsed (minimized)
immediately, from the deepest node upwards:

1)	A node without outgoing edges ends a word. The parent edge
	is redirected to no node at all, which implicitly marks the
	end of the edge prefix as final.
2)	A node with exactly one outgoing edge is spliced into its
	parent edge, whose prefix grows by the child's prefix. If the
	spliced node was final, a '|' marker is inserted between the
	two prefixes.
3)	Other nodes are interned by their structure (final flag plus
	the list of edge prefixes and child ids). If an identical node
	has been seen before, the parent edge is redirected to it.

Nodes live in an arena and refer to each other by integer ids,
with id 0 meaning "no node".

*/

package skrafl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
)

// MaxWordLen is the length limit (exclusive) of words in the DAWG
const MaxWordLen = 48

// noNode is the arena id that denotes the absence of a node
const noNode = 0

// buildEdge is an outgoing edge of a buildNode
type buildEdge struct {
	// The letters of the edge, with '|' following any letter
	// that completes a word
	prefix []rune
	// The arena id of the node that the edge leads to, or noNode
	child int
}

// buildNode is a node in the graph under construction
type buildNode struct {
	final bool
	// Outgoing edges, in ascending order of their first letter
	edges []buildEdge
}

// DawgBuilder builds a minimized DAWG from a sorted list of words
type DawgBuilder struct {
	alphabet *Alphabet
	// The node arena. Index 0 is unused since it denotes noNode.
	nodes []buildNode
	root  int
	// path[i] is the node reached by the first i letters of
	// the previously inserted word; path[0] is the root
	path     []int
	lastWord []rune
	lastKey  []byte
	// Canonical nodes, bucketed by structural hash
	intern map[uint64][]int
	sigBuf []byte
	// Output numbering, assigned by Finish()
	number []int
	order  []int
	// Statistics
	numWords      int
	numDuplicates int
	numCanonical  int
	numMerged     int
	numSpliced    int
	finished      bool
}

// NewDawgBuilder returns a fresh DawgBuilder for words
// consisting of letters from the given alphabet
func NewDawgBuilder(alphabet *Alphabet) *DawgBuilder {
	b := &DawgBuilder{
		alphabet: alphabet,
		nodes:    make([]buildNode, 2, 1024),
		root:     1,
		intern:   make(map[uint64][]int),
	}
	b.path = append(b.path, b.root)
	return b
}

// Alphabet returns the alphabet of the builder
func (b *DawgBuilder) Alphabet() *Alphabet {
	return b.alphabet
}

func (b *DawgBuilder) newNode() int {
	b.nodes = append(b.nodes, buildNode{})
	return len(b.nodes) - 1
}

// Insert adds a word to the graph. Words must be inserted in strictly
// ascending collation order; a word equal to the previous one is
// ignored.
func (b *DawgBuilder) Insert(word string) error {
	if b.finished {
		return fmt.Errorf("cannot insert '%s': builder is already finished", word)
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return &BuildError{Kind: ErrEmptyWord, Word: word}
	}
	if len(runes) >= MaxWordLen {
		return &BuildError{Kind: ErrLengthExceeded, Word: word}
	}
	key, err := b.alphabet.Key(word)
	if err != nil {
		return &BuildError{Kind: ErrForeignLetter, Word: word}
	}
	if b.numWords > 0 {
		switch bytes.Compare(key, b.lastKey) {
		case 0:
			b.numDuplicates++
			log.Debug().Str("word", word).Msg("skipping duplicate word")
			return nil
		case -1:
			return &BuildError{Kind: ErrOutOfOrder, Word: word}
		}
	}
	// Find the length of the prefix shared with the previous word
	common := 0
	for common < len(runes) && common < len(b.lastWord) && runes[common] == b.lastWord[common] {
		common++
	}
	// The part of the previous word beyond the shared prefix
	// will not change any more: minimize it
	b.collapseTo(common)
	// Add a fresh chain of nodes for the new suffix
	for i := common; i < len(runes); i++ {
		child := b.newNode()
		parent := &b.nodes[b.path[i]]
		parent.edges = append(parent.edges, buildEdge{prefix: []rune{runes[i]}, child: child})
		b.path = append(b.path, child)
	}
	b.nodes[b.path[len(runes)]].final = true
	b.lastWord = runes
	b.lastKey = key
	b.numWords++
	return nil
}

// collapseTo collapses the nodes on the current path that
// are deeper than the given depth
func (b *DawgBuilder) collapseTo(depth int) {
	for d := len(b.path) - 1; d > depth; d-- {
		b.collapseEdge(b.path[d-1])
	}
	b.path = b.path[:depth+1]
}

// collapseEdge minimizes the node at the end of the last (i.e.
// most recently added) outgoing edge of the given parent node
func (b *DawgBuilder) collapseEdge(parent int) {
	edges := b.nodes[parent].edges
	e := &edges[len(edges)-1]
	n := &b.nodes[e.child]
	switch len(n.edges) {
	case 0:
		// A node with no outgoing edges is always final
		e.child = noNode
	case 1:
		// Splice the single outgoing edge into the parent edge
		only := n.edges[0]
		prefix := make([]rune, 0, len(e.prefix)+1+len(only.prefix))
		prefix = append(prefix, e.prefix...)
		if n.final {
			prefix = append(prefix, finalMarker)
		}
		prefix = append(prefix, only.prefix...)
		e.prefix = prefix
		e.child = only.child
		b.numSpliced++
	default:
		e.child = b.canonical(e.child)
	}
}

// signature returns a structural hash of a node whose children
// have all been made canonical
func (b *DawgBuilder) signature(id int) uint64 {
	node := &b.nodes[id]
	buf := b.sigBuf[:0]
	if node.final {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, e := range node.edges {
		buf = append(buf, string(e.prefix)...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.child))
	}
	b.sigBuf = buf
	return xxhash.Sum64(buf)
}

// sameNode returns true if two nodes have identical structure
func (b *DawgBuilder) sameNode(id1, id2 int) bool {
	n1, n2 := &b.nodes[id1], &b.nodes[id2]
	if n1.final != n2.final || len(n1.edges) != len(n2.edges) {
		return false
	}
	for i := range n1.edges {
		e1, e2 := &n1.edges[i], &n2.edges[i]
		if e1.child != e2.child || !slices.Equal(e1.prefix, e2.prefix) {
			return false
		}
	}
	return true
}

// canonical returns the id of the canonical node that is
// structurally identical to the given node, registering
// the node as canonical if it is the first of its kind
func (b *DawgBuilder) canonical(id int) int {
	sig := b.signature(id)
	for _, candidate := range b.intern[sig] {
		if b.sameNode(candidate, id) {
			b.numMerged++
			// The duplicate is garbage from now on
			b.nodes[id].edges = nil
			return candidate
		}
	}
	b.intern[sig] = append(b.intern[sig], id)
	b.numCanonical++
	return id
}

// Finish collapses the remaining path down to the root and
// numbers the canonical nodes. No more words can be inserted
// after calling Finish().
func (b *DawgBuilder) Finish() {
	if b.finished {
		return
	}
	b.collapseTo(0)
	b.finished = true
	b.renumber()
	log.Debug().
		Int("words", b.numWords).
		Int("duplicates", b.numDuplicates).
		Int("nodes", b.NumNodes()).
		Int("merged", b.numMerged).
		Int("spliced", b.numSpliced).
		Msg("dawg build finished")
}

// renumber assigns output numbers to the canonical nodes in depth-first
// pre-order. The root is number 0 and occupies slot 1 of the text
// format; the other nodes are numbered from 2 upwards.
func (b *DawgBuilder) renumber() {
	b.number = make([]int, len(b.nodes))
	b.order = make([]int, 0, b.numCanonical)
	next := 2
	var visit func(id int)
	visit = func(id int) {
		for _, e := range b.nodes[id].edges {
			if e.child != noNode && b.number[e.child] == 0 {
				b.number[e.child] = next
				next++
				b.order = append(b.order, e.child)
				visit(e.child)
			}
		}
	}
	visit(b.root)
}

// NumWords returns the number of distinct words inserted
func (b *DawgBuilder) NumWords() int {
	return b.numWords
}

// NumNodes returns the number of nodes in the finished graph,
// including the root
func (b *DawgBuilder) NumNodes() int {
	return len(b.order) + 1
}

// NumEdges returns the number of edges in the finished graph
func (b *DawgBuilder) NumEdges() int {
	count := len(b.nodes[b.root].edges)
	for _, id := range b.order {
		count += len(b.nodes[id].edges)
	}
	return count
}
