// movegen.go
// Copyright (C) 2018 Vilhjálmur Þorsteinsson
// This file contains code to generate all valid tile moves
// on a SCRABBLE(tm) board, given a player's rack.
// It is a part of the Go 'skrafl' package.

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

Move generation follows Appel & Jacobson, "The World's Fastest
Scrabble Program" (CACM 31/5, 1988).

GameState.GenerateMoves() searches the 15 rows and 15 columns of the
board independently, one goroutine per Axis. An Axis knows, for every
empty square, which letters may go there without breaking the word
that crosses it; these cross-check sets are narrowed to the letters on
the rack up front. Anchors are the empty squares next to a tile. On an
empty board the start square is the only anchor. It is examined on its
column, and on its row as well if the layout is not transpose
symmetric, since only then can a row opening differ in score from its
column mirror.

For each anchor with a non-empty cross-check set:

-	If the square before the anchor holds a tile, the tiles up to
	the anchor form a left part that is already fixed. A
	LeftFindNavigator locates it in the graph, and the
	ExtendRightNavigator resumes from there with the whole rack.
-	Otherwise the ExtendRightNavigator starts at the graph root on
	the anchor, and is then resumed from each left part that fits
	into the free squares before the anchor. The left parts, word
	beginnings made of rack tiles, are collected once per search by a
	LeftPermutationNavigator, each with the ResumeState at its end.

Extending right, a letter fits a square if the square holds a tile
with that letter, or if the square is empty, the rack can supply the
letter and the cross-check set admits it. A word that ends before an
empty square or at the edge of the board is a move.

Each navigator records which rack tile covered each letter: the letter
itself, or '?' where a blank stands in for a letter the rack lacks. The
covers of a move therefore match the rack without any reconstruction.

Note: SCRABBLE is a registered trademark. This software or its author
are in no way affiliated with or endorsed by the owners or licensees
of the SCRABBLE trademark.

*/

package skrafl

import (
	"sync"

	"github.com/samber/lo"
)

// moveSearch holds what the axes of a move generation share:
// the rack and the left parts that can be formed from it
type moveSearch struct {
	state *GameState
	rack  []rune
	// A bitmap of the letters in the rack, having all bits set if
	// the rack has a blank ('?') in it
	rackSet   uint64
	leftParts [][]*LeftPart
	// Whether the start square is also an anchor on its row
	openRow bool
}

func newMoveSearch(state *GameState) *moveSearch {
	rack := state.Rack.AsRunes()
	return &moveSearch{
		state:     state,
		rack:      rack,
		rackSet:   state.Rack.AsSet(state.Dawg.alphabet),
		leftParts: FindLeftParts(state.Dawg, rack),
		openRow:   !state.Board.Layout.IsTransposeSymmetric(),
	}
}

// fit tells how a letter can be laid down on a square
type fit int

const (
	fitNone fit = iota
	// The square holds a tile with the letter
	fitBoard
	// A rack tile can be placed on the empty square
	fitRack
)

// extendFrame is the saved state of an ExtendRightNavigator
type extendFrame struct {
	current rackState
	index   int
}

// ExtendRightNavigator implements the core of the Appel-Jacobson
// algorithm. It proceeds along an Axis from an anchor square,
// covering empty Squares with Tiles from the Rack while obeying
// constraints from the Dawg and the cross-check sets. As final
// nodes in the Dawg are encountered, valid tile moves are generated
// and saved. Tiles already on the board get a zero entry in the
// tiles of its rackState.
type ExtendRightNavigator struct {
	axis    *Axis
	anchor  int
	index   int
	current rackState
	saved   []extendFrame
	// The fit found by PushEdge for the first letter of an edge
	pending fit
	moves   []*TileMove
}

// Init prepares an ExtendRightNavigator to start at the anchor, with
// the rack state that remains after any left part has been laid down
func (ern *ExtendRightNavigator) Init(axis *Axis, anchor int, current rackState) {
	ern.axis = axis
	ern.anchor = anchor
	ern.index = anchor
	ern.current = current
	ern.saved = make([]extendFrame, 0, RackSize)
	ern.pending = fitNone
	ern.moves = nil
}

func (ern *ExtendRightNavigator) fitAt(letter rune) fit {
	if tile := ern.axis.sq[ern.index].Tile; tile != nil {
		if tile.Meaning == letter {
			return fitBoard
		}
		return fitNone
	}
	if ern.current.canPlay(letter) && ern.axis.Allows(ern.index, letter) {
		return fitRack
	}
	return fitNone
}

// PushEdge enters an edge if its first letter fits the current square
func (ern *ExtendRightNavigator) PushEdge(letter rune) bool {
	ern.pending = ern.fitAt(letter)
	if ern.pending == fitNone {
		return false
	}
	ern.saved = append(ern.saved, extendFrame{ern.current, ern.index})
	return true
}

// PopEdge restores the rack and position as they were before the edge
func (ern *ExtendRightNavigator) PopEdge() bool {
	last := len(ern.saved) - 1
	ern.current, ern.index = ern.saved[last].current, ern.saved[last].index
	ern.saved = ern.saved[:last]
	ern.pending = fitNone
	return true
}

// IsAccepting returns true while on the board, and while there
// are either tiles on the rack or a tile on the current square
func (ern *ExtendRightNavigator) IsAccepting() bool {
	if ern.index >= BoardSize {
		return false
	}
	return len(ern.current.rack) > 0 || ern.axis.sq[ern.index].Tile != nil
}

// Accepts lays the letter down on the current square and moves on
func (ern *ExtendRightNavigator) Accepts(letter rune) bool {
	f := ern.pending
	ern.pending = fitNone
	if f == fitNone {
		f = ern.fitAt(letter)
	}
	switch f {
	case fitRack:
		ern.current.play(letter)
	case fitBoard:
		ern.current.tiles = appendRune(ern.current.tiles, 0)
	default:
		return false
	}
	ern.index++
	return true
}

// Accept adds a move if the matched letters form a word that
// ends at an empty square or at the edge of the board
func (ern *ExtendRightNavigator) Accept(matched []rune, final bool) {
	if !final || len(matched) < 2 {
		return
	}
	if ern.index < BoardSize && ern.axis.sq[ern.index].Tile != nil {
		return
	}
	covers := make(Covers)
	start := ern.index - len(matched)
	for i, meaning := range matched {
		sq := ern.axis.sq[start+i]
		if sq.Tile == nil {
			covers[Coordinate{sq.Row, sq.Col}] = Cover{Letter: ern.current.tiles[i], Meaning: meaning}
		}
	}
	board := ern.axis.search.state.Board
	if len(covers) == 1 && !ern.axis.horizontal {
		// A single tile that also forms a horizontal word is
		// generated on the horizontal axis
		sq := ern.axis.sq[ern.anchor]
		if len(board.Fragment(sq.Row, sq.Col, LEFT))+len(board.Fragment(sq.Row, sq.Col, RIGHT)) > 0 {
			return
		}
	}
	ern.moves = append(ern.moves, NewTileMove(board, covers))
}

// AcceptResumable is the same as Accept for an ExtendRightNavigator
func (ern *ExtendRightNavigator) AcceptResumable(matched []rune, final bool, _ *ResumeState) {
	ern.Accept(matched, final)
}

// Done does nothing for an ExtendRightNavigator
func (ern *ExtendRightNavigator) Done() {}

// Axis stores information about a row or column on the board where
// the robot player is looking for valid moves
type Axis struct {
	search     *moveSearch
	horizontal bool
	// Convenience pointers to the board squares on this Axis
	sq [BoardSize]*Square
	// A bitmap of the letters that are allowed on each square,
	// intersected with the rack
	crossCheck [BoardSize]uint64
	isAnchor   [BoardSize]bool
}

// newAxis returns the Axis of a board row or column, with its
// anchors and cross-check sets
func newAxis(search *moveSearch, index int, horizontal bool) *Axis {
	axis := &Axis{search: search, horizontal: horizontal}
	board := search.state.Board
	start := board.Layout.Start
	for i := 0; i < BoardSize; i++ {
		if horizontal {
			axis.sq[i] = board.Sq(index, i)
		} else {
			axis.sq[i] = board.Sq(i, index)
		}
	}
	for i, sq := range axis.sq {
		if sq.Tile != nil {
			continue
		}
		var isAnchor bool
		switch {
		case board.NumTiles > 0:
			isAnchor = board.NumAdjacentTiles(sq.Row, sq.Col) > 0
		case horizontal:
			isAnchor = search.openRow && sq.Row == start.Row && sq.Col == start.Col
		default:
			isAnchor = sq.Row == start.Row && sq.Col == start.Col
		}
		if !isAnchor {
			// No adjacent tiles, so no cross words either
			axis.crossCheck[i] = search.rackSet
			continue
		}
		// The cross-check set of an anchor may be empty
		axis.isAnchor[i] = true
		axis.crossCheck[i] = search.rackSet & axis.crossSet(sq)
	}
	return axis
}

func (axis *Axis) crossSet(sq *Square) uint64 {
	state := axis.search.state
	left, right := state.Board.CrossWords(sq.Row, sq.Col, !axis.horizontal)
	if len(left) == 0 && len(right) == 0 {
		return state.Dawg.alphabet.AllSet()
	}
	return state.Dawg.CrossSet(left, right)
}

// IsAnchor returns true if the given square within the Axis
// is an anchor square
func (axis *Axis) IsAnchor(index int) bool {
	return axis.isAnchor[index]
}

// IsOpen returns true if the given square within the Axis
// is open for a new Tile from the Rack
func (axis *Axis) IsOpen(index int) bool {
	return axis.sq[index].Tile == nil && axis.crossCheck[index] != 0
}

// Allows returns true if the given letter can be placed
// in the indexed square within the Axis, in compliance
// with the cross checks
func (axis *Axis) Allows(index int, letter rune) bool {
	if axis == nil || axis.sq[index].Tile != nil {
		return false
	}
	return axis.search.state.Dawg.alphabet.Member(letter, axis.crossCheck[index])
}

// genMovesFromAnchor returns the moves that use the given square
// within the Axis as an anchor, with up to maxLeft rack tiles
// to the left of it
func (axis *Axis) genMovesFromAnchor(anchor int, maxLeft int) []*TileMove {
	search := axis.search
	dawg := search.state.Dawg

	if maxLeft == 0 && anchor > 0 && axis.sq[anchor-1].Tile != nil {
		// The left part is already on the board: find it in
		// the graph and extend it with the whole rack
		direction := ABOVE
		if axis.horizontal {
			direction = LEFT
		}
		sq := axis.sq[anchor]
		left := []rune(search.state.Board.WordFragment(sq.Row, sq.Col, direction))
		var lfn LeftFindNavigator
		lfn.Init(left)
		dawg.NavigateResumable(&lfn)
		if lfn.state == nil {
			// No word starts with the left part
			return nil
		}
		var ern ExtendRightNavigator
		ern.Init(axis, anchor, rackState{rack: search.rack, tiles: make([]rune, len(left))})
		dawg.Resume(&ern, lfn.state)
		return ern.moves
	}

	// Start at the anchor itself, with no left part
	var ern ExtendRightNavigator
	ern.Init(axis, anchor, rackState{rack: search.rack})
	dawg.Navigate(&ern)
	moves := ern.moves

	// Then lay each left part down in the open squares
	// before the anchor and extend it from there
	for leftLen := 1; leftLen <= maxLeft; leftLen++ {
		for _, leftPart := range search.leftParts[leftLen-1] {
			ern.Init(axis, anchor, rackState{rack: leftPart.rack, tiles: leftPart.tiles})
			dawg.Resume(&ern, leftPart.state)
			moves = append(moves, ern.moves...)
		}
	}
	return moves
}

// GenerateMoves returns a list of all legal moves along this Axis
func (axis *Axis) GenerateMoves() []*TileMove {
	lenRack := len(axis.search.rack)
	moves := make([]*TileMove, 0)
	lastAnchor := -1
	for i := 0; i < BoardSize; i++ {
		if !axis.IsAnchor(i) {
			continue
		}
		if axis.crossCheck[i] != 0 {
			// A rack tile fits here: count the open squares to the
			// left of the anchor, up to but not including the
			// previous anchor
			openCnt := 0
			for left := i; left > 0 && left > lastAnchor+1 && axis.IsOpen(left-1); left-- {
				openCnt++
			}
			moves = append(moves, axis.genMovesFromAnchor(i, min(openCnt, lenRack-1))...)
		}
		lastAnchor = i
	}
	return moves
}

// GenerateMoves returns a list of all legal tile moves in the GameState,
// considering the Board and the player's Rack. The generation works
// by dividing the task into 30 sub-tasks of finding legal moves within
// each Axis, i.e. all columns and rows of the board. These sub-tasks
// are performed concurrently by 30 goroutines.
func (state *GameState) GenerateMoves() []*TileMove {
	if state.Rack.IsEmpty() {
		return []*TileMove{}
	}
	search := newMoveSearch(state)
	var results [2 * BoardSize][]*TileMove
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = newAxis(search, i%BoardSize, i < BoardSize).GenerateMoves()
		}()
	}
	wg.Wait()
	return lo.Flatten(results[:])
}
