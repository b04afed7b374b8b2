// navigators.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file contains the Navigator protocol for walking a DAWG
// and the navigators that implement the word queries: exact
// lookup, wildcard patterns, rack permutations, and the left
// parts and resumable lookups used by move generation.

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

A Navigation walks the graph depth first. At each node it offers the
first letter of every outgoing edge to the navigator's PushEdge(). If
the navigator takes the edge, the letters of the edge label are fed
to Accepts() one at a time, as long as IsAccepting() holds. Each
accepted letter is reported through Accept(), or AcceptResumable() in
a resumable navigation, together with a flag telling whether the
letters matched so far form a word. When the label is used up, the
navigation continues into the node that the edge leads to. After an
edge has been walked, PopEdge() decides whether the remaining edges
of the node are worth a visit. Done() is called once at the end.

A resumable navigation hands the navigator a ResumeState with every
match. Passing it to Dawg.Resume() continues the walk from the very
same point, possibly under a different navigator.

*/

package skrafl

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/collate"
)

// Navigator controls a Navigation through a Dawg
type Navigator interface {
	// PushEdge returns true if the edge starting with the given
	// letter should be entered
	PushEdge(letter rune) bool
	// PopEdge is called after an entered edge has been walked,
	// and returns false if the node's other edges can be skipped
	PopEdge() bool
	// IsAccepting returns false once the navigator wants no more letters
	IsAccepting() bool
	// Accepts returns true if the navigator consumes the letter
	Accepts(letter rune) bool
	// Accept reports the letters matched so far, and whether they
	// form a complete word
	Accept(matched []rune, final bool)
	// AcceptResumable is Accept for resumable navigations, with
	// the state from which the navigation can be continued
	AcceptResumable(matched []rune, final bool, resume *ResumeState)
	// Done is called when the navigation is complete
	Done()
}

// ResumeState is a point within the Dawg at which a navigation can
// be continued: the rest of the edge label that was being walked,
// the offset of the node at the end of the edge, and the letters
// matched on the way there
type ResumeState struct {
	label   Prefix
	next    uint32
	matched []rune
}

// Matched returns the letters that were matched to reach the state
func (rs *ResumeState) Matched() []rune {
	return rs.matched
}

// Navigation holds the state of a walk through a Dawg
type Navigation struct {
	dawg      *Dawg
	navigator Navigator
	// resumable selects AcceptResumable() over Accept(); creating the
	// resume states costs an allocation per match
	resumable bool
}

// Go walks the Dawg from its root under the control of the navigator
func (nav *Navigation) Go(dawg *Dawg, navigator Navigator) {
	if dawg == nil || navigator == nil {
		return
	}
	nav.dawg, nav.navigator = dawg, navigator
	if navigator.IsAccepting() {
		nav.visitNode(0, nil)
	}
	navigator.Done()
}

// Resume walks the Dawg from a previously reported ResumeState
// under the control of the navigator
func (nav *Navigation) Resume(dawg *Dawg, navigator Navigator, state *ResumeState) {
	if dawg == nil || navigator == nil || state == nil {
		return
	}
	nav.dawg, nav.navigator = dawg, navigator
	if navigator.IsAccepting() {
		nav.walkEdge(state.label, state.next, state.matched)
	}
	navigator.Done()
}

// visitNode offers the outgoing edges of a node to the navigator
func (nav *Navigation) visitNode(offset uint32, matched []rune) {
	for _, e := range nav.dawg.edges(offset) {
		if !nav.navigator.PushEdge(e.label[0]) {
			continue
		}
		nav.walkEdge(e.label, e.next, matched)
		if !nav.navigator.PopEdge() {
			return
		}
	}
}

// walkEdge feeds the letters of an edge label to the navigator and
// then continues into the node at the end of the edge, if any
func (nav *Navigation) walkEdge(label Prefix, next uint32, prior []rune) {
	navigator := nav.navigator
	matched := make([]rune, len(prior), len(prior)+len(label))
	copy(matched, prior)
	for i := 0; i < len(label); {
		if !navigator.IsAccepting() || !navigator.Accepts(label[i]) {
			return
		}
		matched = append(matched, label[i])
		i++
		var final bool
		switch {
		case i < len(label) && label[i] == finalMarker:
			final = true
			i++
		case i == len(label):
			final = next == 0 || nav.dawg.isFinalNode(next)
		}
		if nav.resumable {
			navigator.AcceptResumable(matched, final,
				&ResumeState{label: label[i:], next: next, matched: matched})
		} else {
			navigator.Accept(matched, final)
		}
	}
	if next != 0 && navigator.IsAccepting() {
		nav.visitNode(next, matched)
	}
}

// rackState holds the tiles left on a rack during a navigation,
// and the rack tile used for each letter matched so far: the letter
// itself, or '?' if a blank tile stands in for it. Both slices are
// copied on change, so a rackState can be saved on a stack by value.
type rackState struct {
	rack  []rune
	tiles []rune
}

// canPlay returns true if a tile for the letter is on the rack
func (rs *rackState) canPlay(letter rune) bool {
	return ContainsRune(rs.rack, letter) || ContainsRune(rs.rack, Wildcard)
}

// play takes a tile for the letter off the rack. A blank is only
// used if the rack has no tile with the letter itself.
func (rs *rackState) play(letter rune) bool {
	tile := letter
	if !ContainsRune(rs.rack, letter) {
		if !ContainsRune(rs.rack, Wildcard) {
			return false
		}
		tile = Wildcard
	}
	rs.rack = RemoveRune(rs.rack, tile)
	rs.tiles = appendRune(rs.tiles, tile)
	return true
}

// FindNavigator looks up a single word
type FindNavigator struct {
	word  []rune
	index int
	found bool
}

// Init prepares a FindNavigator to look for the given word
func (fn *FindNavigator) Init(word string) {
	fn.word = []rune(word)
	fn.index = 0
	fn.found = false
}

func (fn *FindNavigator) expects(letter rune) bool {
	return fn.index < len(fn.word) && fn.word[fn.index] == letter
}

// PushEdge enters the edge that continues the word
func (fn *FindNavigator) PushEdge(letter rune) bool {
	return fn.expects(letter)
}

// PopEdge returns false: at most one edge of a node can continue the word
func (fn *FindNavigator) PopEdge() bool {
	return false
}

// IsAccepting returns true until the whole word has been matched
func (fn *FindNavigator) IsAccepting() bool {
	return fn.index < len(fn.word)
}

// Accepts consumes the next letter of the word
func (fn *FindNavigator) Accepts(letter rune) bool {
	if !fn.expects(letter) {
		return false
	}
	fn.index++
	return true
}

// Accept notes whether the whole word has been found
func (fn *FindNavigator) Accept(matched []rune, final bool) {
	if final && fn.index == len(fn.word) {
		fn.found = true
	}
}

// AcceptResumable is the same as Accept for a FindNavigator
func (fn *FindNavigator) AcceptResumable(matched []rune, final bool, _ *ResumeState) {
	fn.Accept(matched, final)
}

// Done does nothing for a FindNavigator
func (fn *FindNavigator) Done() {}

// LeftFindNavigator looks up a word prefix, such as the tiles to the
// left of an anchor square, and keeps the ResumeState at its end so
// that a later navigation can extend it. It must be run resumably.
type LeftFindNavigator struct {
	FindNavigator
	state *ResumeState
}

// Init prepares a LeftFindNavigator to look for the given prefix
func (lfn *LeftFindNavigator) Init(prefix []rune) {
	lfn.word = prefix
	lfn.index = 0
	lfn.state = nil
}

// Accept does nothing: without a resume state there is nothing to keep
func (lfn *LeftFindNavigator) Accept(matched []rune, final bool) {}

// AcceptResumable keeps the state at the end of the prefix, whether
// or not the prefix is a word in itself
func (lfn *LeftFindNavigator) AcceptResumable(matched []rune, final bool, resume *ResumeState) {
	if lfn.index == len(lfn.word) {
		lfn.state = resume
	}
}

// PermutationNavigator finds the words that can be formed
// from the tiles of a rack
type PermutationNavigator struct {
	alphabet *Alphabet
	minLen   int
	current  rackState
	saved    []rackState
	results  []string
}

// Init prepares a PermutationNavigator for the given rack. Words
// shorter than minLen letters are not reported.
func (pn *PermutationNavigator) Init(alphabet *Alphabet, rack string, minLen int) {
	pn.alphabet = alphabet
	pn.minLen = minLen
	pn.current = rackState{rack: []rune(rack)}
	pn.saved = make([]rackState, 0, RackSize)
	pn.results = make([]string, 0)
}

// PushEdge enters any edge whose first letter the rack can cover
func (pn *PermutationNavigator) PushEdge(letter rune) bool {
	if !pn.current.canPlay(letter) {
		return false
	}
	pn.saved = append(pn.saved, pn.current)
	return true
}

// PopEdge restores the rack as it was before the edge
func (pn *PermutationNavigator) PopEdge() bool {
	last := len(pn.saved) - 1
	pn.current, pn.saved = pn.saved[last], pn.saved[:last]
	return true
}

// IsAccepting returns true while tiles remain on the rack
func (pn *PermutationNavigator) IsAccepting() bool {
	return len(pn.current.rack) > 0
}

// Accepts plays a rack tile for the letter
func (pn *PermutationNavigator) Accepts(letter rune) bool {
	return pn.current.play(letter)
}

// Accept collects complete words of sufficient length
func (pn *PermutationNavigator) Accept(matched []rune, final bool) {
	if final && len(matched) >= pn.minLen {
		pn.results = append(pn.results, string(matched))
	}
}

// AcceptResumable is the same as Accept for a PermutationNavigator
func (pn *PermutationNavigator) AcceptResumable(matched []rune, final bool, _ *ResumeState) {
	pn.Accept(matched, final)
}

// Done orders the results with the longest words first, and in
// the collation order of the alphabet's language within each length
func (pn *PermutationNavigator) Done() {
	var c *collate.Collator
	if pn.alphabet != nil {
		c = collate.New(pn.alphabet.Language())
	}
	slices.SortStableFunc(pn.results, func(w1, w2 string) int {
		if d := utf8.RuneCountInString(w2) - utf8.RuneCountInString(w1); d != 0 {
			return d
		}
		if c == nil {
			return 0
		}
		return c.CompareString(w1, w2)
	})
}

// MatchNavigator finds the words that match a pattern,
// where '?' matches any letter
type MatchNavigator struct {
	pattern []rune
	index   int
	saved   []int
	results []string
}

// Init prepares a MatchNavigator for the given pattern
func (mn *MatchNavigator) Init(pattern []rune) {
	mn.pattern = pattern
	mn.index = 0
	mn.saved = make([]int, 0, len(pattern))
	mn.results = make([]string, 0, 16)
}

// fits returns true if the letter matches the current pattern position
func (mn *MatchNavigator) fits(letter rune) bool {
	if mn.index >= len(mn.pattern) {
		return false
	}
	p := mn.pattern[mn.index]
	return p == Wildcard || p == letter
}

// PushEdge enters the edges whose first letter fits the pattern
func (mn *MatchNavigator) PushEdge(letter rune) bool {
	if !mn.fits(letter) {
		return false
	}
	mn.saved = append(mn.saved, mn.index)
	return true
}

// PopEdge restores the pattern position. Other edges are only
// worth visiting if the position holds a wildcard.
func (mn *MatchNavigator) PopEdge() bool {
	last := len(mn.saved) - 1
	mn.index, mn.saved = mn.saved[last], mn.saved[:last]
	return mn.pattern[mn.index] == Wildcard
}

// IsAccepting returns true until the whole pattern has been matched
func (mn *MatchNavigator) IsAccepting() bool {
	return mn.index < len(mn.pattern)
}

// Accepts consumes a letter that fits the pattern
func (mn *MatchNavigator) Accepts(letter rune) bool {
	if !mn.fits(letter) {
		return false
	}
	mn.index++
	return true
}

// Accept collects words that match the entire pattern
func (mn *MatchNavigator) Accept(matched []rune, final bool) {
	if final && mn.index == len(mn.pattern) {
		mn.results = append(mn.results, string(matched))
	}
}

// AcceptResumable is the same as Accept for a MatchNavigator
func (mn *MatchNavigator) AcceptResumable(matched []rune, final bool, _ *ResumeState) {
	mn.Accept(matched, final)
}

// Done does nothing for a MatchNavigator
func (mn *MatchNavigator) Done() {}

// LeftPart is a word beginning formed from rack tiles, together with
// the state needed to extend it across an anchor square
type LeftPart struct {
	// The rack tile used for each letter: the letter or '?'
	tiles []rune
	// The rack tiles that remain after the left part is played
	rack  []rune
	state *ResumeState
}

// Matched returns the letters of the left part
func (lp *LeftPart) Matched() []rune {
	return lp.state.matched
}

// String returns a string representation of a LeftPart, for debugging
func (lp *LeftPart) String() string {
	return fmt.Sprintf("LeftPart %q, tiles %q, rack left %q",
		string(lp.Matched()), string(lp.tiles), string(lp.rack))
}

// LeftPermutationNavigator collects, by length, all word beginnings
// that can be formed from a rack while keeping at least one tile for
// the anchor square. It must be run resumably.
type LeftPermutationNavigator struct {
	maxLeft   int
	current   rackState
	saved     []rackState
	leftParts [][]*LeftPart
}

// Init prepares a LeftPermutationNavigator for the given rack
func (lpn *LeftPermutationNavigator) Init(rack []rune) {
	lpn.maxLeft = max(len(rack)-1, 0)
	lpn.current = rackState{rack: slices.Clone(rack)}
	lpn.saved = make([]rackState, 0, RackSize)
	lpn.leftParts = make([][]*LeftPart, lpn.maxLeft)
}

// LeftParts returns the left parts of the given length,
// or nil if the length is out of range
func (lpn *LeftPermutationNavigator) LeftParts(length int) []*LeftPart {
	if length < 1 || length > lpn.maxLeft {
		return nil
	}
	return lpn.leftParts[length-1]
}

// PushEdge enters any edge whose first letter the rack can cover
func (lpn *LeftPermutationNavigator) PushEdge(letter rune) bool {
	if !lpn.current.canPlay(letter) {
		return false
	}
	lpn.saved = append(lpn.saved, lpn.current)
	return true
}

// PopEdge restores the rack as it was before the edge
func (lpn *LeftPermutationNavigator) PopEdge() bool {
	last := len(lpn.saved) - 1
	lpn.current, lpn.saved = lpn.saved[last], lpn.saved[:last]
	return true
}

// IsAccepting returns true while the left part can grow
func (lpn *LeftPermutationNavigator) IsAccepting() bool {
	return len(lpn.current.tiles) < lpn.maxLeft
}

// Accepts plays a rack tile for the letter
func (lpn *LeftPermutationNavigator) Accepts(letter rune) bool {
	return lpn.current.play(letter)
}

// Accept does nothing: a left part is useless without a resume state
func (lpn *LeftPermutationNavigator) Accept(matched []rune, final bool) {}

// AcceptResumable records a left part, whether or not it is a word
func (lpn *LeftPermutationNavigator) AcceptResumable(matched []rune, final bool, resume *ResumeState) {
	ix := len(matched) - 1
	lpn.leftParts[ix] = append(lpn.leftParts[ix], &LeftPart{
		tiles: lpn.current.tiles,
		rack:  lpn.current.rack,
		state: resume,
	})
}

// Done does nothing for a LeftPermutationNavigator
func (lpn *LeftPermutationNavigator) Done() {}

// FindLeftParts returns the left parts that can be formed from
// the rack, grouped by length: index 0 holds the one-letter parts
func FindLeftParts(dawg *Dawg, rack []rune) [][]*LeftPart {
	var lpn LeftPermutationNavigator
	lpn.Init(rack)
	dawg.NavigateResumable(&lpn)
	return lpn.leftParts
}
