// dawg.go
//
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf

// This file implements the Directed Acyclic Word Graph (DAWG)
// which encodes the dictionary of valid words.

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

package skrafl

import (
	"encoding/binary"
	"fmt"
	"io/fs"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
)

// Default sizes of the per-Dawg caches
const (
	DefaultNodeCacheSize  = 8192
	DefaultCrossCacheSize = 2048
)

// Dawg encapsulates the compressed Directed Acyclic Word Graph
// as a byte buffer. Within the DAWG, letters from the alphabet
// are represented as indices into the alphabet string.
// The Coding map translates these indices to the actual
// letters.
// Decoded nodes are kept in a bounded LRU cache, filled on the
// fly as each node is traversed. In practice, many nodes will
// never be traversed. A Dawg is safe for concurrent use.
type Dawg struct {
	// The byte buffer containing the compressed DAWG
	b []byte
	// A mapping from alphabet indices, eventually having
	// the high bit (0x80) set to indicate finality, to rune slices
	coding Coding
	// The alphabet used by the DAWG vocabulary
	alphabet *Alphabet
	// nodeCache maps node offsets to their decoded []edge lists
	nodeCache *lru.Cache
	// crossCache is a cached map of matching patterns
	// to bitmap sets of allowed characters
	crossCache crossCache
}

// DawgOptions configures the caches of a Dawg. Zero
// values select the defaults.
type DawgOptions struct {
	NodeCacheSize  int
	CrossCacheSize int
}

// Coding maps an encoded byte to a legal letter, eventually
// suffixed with '|' to denote a final node in the Dawg
type Coding map[byte]Prefix

// A Prefix is an array of runes that prefixes an outgoing
// edge in the Dawg
type Prefix []rune

// edge is a decoded outgoing edge of a node. The label has a '|'
// after each letter that completes a word, and next is the offset
// of the node that the edge leads to, or zero if it leads nowhere.
type edge struct {
	label Prefix
	next  uint32
}

// NewDawg wraps a binary DAWG buffer, validating its structure
// against the given alphabet
func NewDawg(data []byte, alphabet *Alphabet, opts *DawgOptions) (*Dawg, error) {
	if alphabet == nil {
		return nil, fmt.Errorf("dawg requires an alphabet")
	}
	nodeCacheSize, crossCacheSize := DefaultNodeCacheSize, DefaultCrossCacheSize
	if opts != nil {
		if opts.NodeCacheSize > 0 {
			nodeCacheSize = opts.NodeCacheSize
		}
		if opts.CrossCacheSize > 0 {
			crossCacheSize = opts.CrossCacheSize
		}
	}
	dawg := &Dawg{
		b:        data,
		alphabet: alphabet,
		coding:   make(Coding, 2*alphabet.Length()),
	}
	// For each rune in the alphabet, create a coding
	// entry that maps a byte index to a slice containing
	// just that rune - and also a coding entry that maps
	// that byte index with the high bit set (| 0x80) to
	// a slice containing that rune plus '|'. The vertical
	// bar is a finality marker within a prefix sequence.
	for i, chr := range alphabet.asRunes {
		ix := byte(i)
		dawg.coding[ix] = Prefix{chr}
		dawg.coding[ix|finalBit] = Prefix{chr, finalMarker}
	}
	var err error
	if dawg.nodeCache, err = lru.New(nodeCacheSize); err != nil {
		return nil, err
	}
	if err = dawg.crossCache.Init(crossCacheSize); err != nil {
		return nil, err
	}
	if err = dawg.Validate(); err != nil {
		return nil, err
	}
	return dawg, nil
}

// LoadDawg reads a binary DAWG file into memory
func LoadDawg(fileName string, alphabet *Alphabet, opts *DawgOptions) (*Dawg, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	dawg, err := NewDawg(data, alphabet, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	log.Debug().Str("file", fileName).Int("bytes", len(data)).Msg("dawg loaded")
	return dawg, nil
}

// LoadDawgFS reads a binary DAWG file from a file system,
// such as an embed.FS
func LoadDawgFS(fsys fs.FS, fileName string, alphabet *Alphabet, opts *DawgOptions) (*Dawg, error) {
	data, err := fs.ReadFile(fsys, fileName)
	if err != nil {
		return nil, err
	}
	dawg, err := NewDawg(data, alphabet, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return dawg, nil
}

// Alphabet returns the alphabet of the Dawg vocabulary
func (dawg *Dawg) Alphabet() *Alphabet {
	return dawg.alphabet
}

// Size returns the number of bytes in the DAWG buffer
func (dawg *Dawg) Size() int {
	return len(dawg.b)
}

// decodeNode decodes the outgoing edges of the node at the given
// offset, checking every read against the bounds of the buffer
func (dawg *Dawg) decodeNode(offset uint32) ([]edge, error) {
	b := dawg.b
	alphabetLength := byte(dawg.alphabet.Length())
	fail := func(at uint32, reason string) ([]edge, error) {
		return nil, &FormatError{Offset: int(at), Reason: reason}
	}
	if int(offset) >= len(b) {
		return fail(offset, "node offset out of bounds")
	}
	numEdges := int(b[offset] & 0x7f)
	offset++
	result := make([]edge, numEdges)
	for i := 0; i < numEdges; i++ {
		if int(offset) >= len(b) {
			return fail(offset, "edge out of bounds")
		}
		lenByte := b[offset]
		e := &result[i]
		offset++
		if lenByte&singleLetter != 0 {
			// This is a single-rune prefix, with the rune index
			// in the lower 6 bits
			if lenByte&0x3f >= alphabetLength {
				return fail(offset-1, "letter index outside alphabet")
			}
			e.label = make(Prefix, 0, 2)
			e.label = append(e.label, dawg.coding[lenByte&0x3f]...)
		} else {
			// This is a multi-rune prefix
			lenByte &= 0x3f
			if lenByte == 0 {
				return fail(offset-1, "empty edge prefix")
			}
			if int(offset)+int(lenByte) > len(b) {
				return fail(offset, "edge prefix out of bounds")
			}
			e.label = make(Prefix, 0, 2*int(lenByte))
			// Note that each byte in the buffer can correspond to one or two runes
			// in the prefix (e.g. 'a' or 'a|')
			for j := 0; j < int(lenByte); j++ {
				c := b[int(offset)+j]
				if c&0x40 != 0 || c&0x3f >= alphabetLength {
					return fail(offset+uint32(j), "letter index outside alphabet")
				}
				e.label = append(e.label, dawg.coding[c]...)
			}
			offset += uint32(lenByte)
		}
		if b[offset-1]&finalBit == 0 {
			// Not a final state
			if int(offset)+4 > len(b) {
				return fail(offset, "child offset out of bounds")
			}
			e.next = binary.LittleEndian.Uint32(b[offset : offset+4])
			if e.next == 0 || int(e.next) >= len(b) {
				return fail(offset, "child offset points outside the buffer")
			}
			offset += 4
		}
	}
	return result, nil
}

// edges returns the outgoing edges of the node at the given offset.
// The list is decoded once and kept in the node cache until evicted;
// callers must not modify it.
func (dawg *Dawg) edges(offset uint32) []edge {
	if cached, ok := dawg.nodeCache.Get(offset); ok {
		return cached.([]edge)
	}
	// Concurrent misses on the same node decode identical lists
	result, err := dawg.decodeNode(offset)
	if err != nil {
		panic(err)
	}
	dawg.nodeCache.Add(offset, result)
	return result
}

// isFinalNode returns true if the node at the given offset is final
func (dawg *Dawg) isFinalNode(offset uint32) bool {
	if int(offset) >= len(dawg.b) {
		formatPanic(int(offset), "node offset out of bounds")
	}
	return dawg.b[offset]&finalBit != 0
}

// Validate walks every node reachable from the root once,
// returning a *FormatError if the buffer is malformed
func (dawg *Dawg) Validate() error {
	if len(dawg.b) == 0 {
		return &FormatError{Offset: 0, Reason: "empty buffer"}
	}
	visited := make(map[uint32]bool)
	stack := []uint32{0}
	for len(stack) > 0 {
		offset := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		edges, err := dawg.decodeNode(offset)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if e.next != 0 && !visited[e.next] {
				visited[e.next] = true
				stack = append(stack, e.next)
			}
		}
	}
	return nil
}

// Navigate performs a navigation through the DAWG under the
// control of a Navigator
func (dawg *Dawg) Navigate(navigator Navigator) {
	var nav Navigation
	nav.Go(dawg, navigator)
}

// NavigateResumable performs a navigation that reports a ResumeState
// with every match, through the navigator's AcceptResumable method
func (dawg *Dawg) NavigateResumable(navigator Navigator) {
	nav := Navigation{resumable: true}
	nav.Go(dawg, navigator)
}

// Resume continues a navigation from a ResumeState that an earlier
// resumable navigation reported
func (dawg *Dawg) Resume(navigator Navigator, state *ResumeState) {
	var nav Navigation
	nav.Resume(dawg, navigator, state)
}

// Find attempts to find a word in a DAWG, returning true if
// found or false if not.
func (dawg *Dawg) Find(word string) bool {
	var fn FindNavigator
	fn.Init(word)
	dawg.Navigate(&fn)
	return fn.found
}

// Permute finds all permutations of the given rack that are
// at least minLen letters long, returning them as a list (slice)
// of strings, longest first and in locale order within each length.
// The rack may contain '?' wildcards/blanks.
func (dawg *Dawg) Permute(rack string, minLen int) []string {
	var pn PermutationNavigator
	pn.Init(dawg.alphabet, rack, minLen)
	dawg.Navigate(&pn)
	return pn.results
}

// Match returns all words in the Dawg that match a
// given pattern string, which can include '?' wildcards/blanks.
// The words are returned in alphabet order.
func (dawg *Dawg) Match(pattern string) []string {
	return dawg.MatchRunes([]rune(pattern))
}

// MatchRunes returns all words in the Dawg that match a
// given pattern, which can include '?' wildcards/blanks.
func (dawg *Dawg) MatchRunes(pattern []rune) []string {
	var mn MatchNavigator
	mn.Init(pattern)
	dawg.Navigate(&mn)
	return mn.results
}

// FindMatches is like Match, but returns the words in the
// collation order of the vocabulary's language
func (dawg *Dawg) FindMatches(pattern string) []string {
	results := dawg.Match(pattern)
	collate.New(dawg.alphabet.Language()).SortStrings(results)
	return results
}

// CrossSet calculates a bit-mapped set of allowed letters
// in a cross-check set, given a left/top and right/bottom
// string that intersects the square being checked.
func (dawg *Dawg) CrossSet(left, right []rune) uint64 {
	lenLeft := len(left)
	key := string(left) + "?" + string(right)
	fetchFunc := func(key string) uint64 {
		// We ask the DAWG to find all words consisting of the
		// left cross word + wildcard + right cross word,
		// for instance 'f?lt' if the left word is 'f' and the
		// right one is 'lt' - yielding the result set
		// { 'falt', 'filt', fúlt' }, which we convert to the
		// legal cross set of [ 'a', 'i', 'ú' ] and intersect
		// that with the rack
		matches := dawg.Match(key)
		// Collect the 'middle' letters (the ones standing in
		// for the wildcard)
		runes := make([]rune, 0, len(matches))
		for _, match := range matches {
			rMatch := []rune(match)
			runes = append(runes, rMatch[lenLeft])
		}
		// Return the resulting bitmapped set
		return dawg.alphabet.MakeSet(runes)
	}
	return dawg.crossCache.Lookup(key, fetchFunc)
}

// crossCache encapsulates a simple LRU cached map of
// cross-set matching patterns ("af?a") to bitmapped sets
type crossCache struct {
	mux sync.Mutex
	lru *simplelru.LRU
}

// Init initalizes an empty crossCache
func (cc *crossCache) Init(size int) error {
	var err error
	cc.lru, err = simplelru.NewLRU(size, nil)
	return err
}

// Lookup returns a bitmap set corresponding to a matching
// pattern key. If the key is found in the cache, it is
// returned immediately. Otherwise, the given fetchFunc() is
// called to calculate the associated bitmap set before storing
// it in the cache.
func (cc *crossCache) Lookup(key string, fetchFunc func(string) uint64) uint64 {
	cc.mux.Lock()
	if bitMap, ok := cc.lru.Get(key); ok {
		cc.mux.Unlock()
		return bitMap.(uint64)
	}
	cc.mux.Unlock()
	// Not holding the lock while computing: two goroutines
	// may compute the same set, which is fine
	bitMap := fetchFunc(key)
	cc.mux.Lock()
	cc.lru.Add(key, bitMap)
	cc.mux.Unlock()
	return bitMap
}
