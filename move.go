// move.go
// Copyright (C) 2018 Vilhjálmur Þorsteinsson

// This file implements the Move interface and associated logic,
// including the various types of moves, their validation
// and their scoring.

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
	"fmt"
	"sort"
	"strings"
)

// Move is an interface to various types of moves
type Move interface {
	IsValid(*GameState) bool
	Score(*GameState) int
	String() string
}

// PassMove is a move that is always valid, has no effect when applied,
// and has a score of 0
type PassMove struct {
}

// ExchangeMove is a move that exchanges 1-7 tiles from the player's
// Rack with the Bag. It is only valid when at least 7 tiles are
// left in the Bag.
type ExchangeMove struct {
	Letters string
}

// TileMove represents a normal tile move by a player, where
// one or more Squares are covered by a Tile from the player's Rack
type TileMove struct {
	TopLeft     Coordinate
	BottomRight Coordinate
	Covers      Covers
	Horizontal  bool
	Word        string
	CachedScore *int
	// If ValidateWords is true, IsValid() should check all words
	// formed by this move against the game dictionary
	ValidateWords bool
}

// Coordinate stores a Board co-ordinate as as row, col tuple
type Coordinate struct {
	Row, Col int
}

// IsValid returns true if the Coordinate is on the board
func (c Coordinate) IsValid() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

// Cover is a part of a TileMove, describing the covering of
// a single Square by a Letter. The Letter may be '?' indicating a
// blank tile, in which case the Meaning gives its meaning.
type Cover struct {
	Letter  rune
	Meaning rune
}

// Covers is a map of board coordinates to a tile covering
type Covers map[Coordinate]Cover

// BingoBonus is the number of extra points awarded for laying down
// all the 7 tiles in the rack in one move
const BingoBonus = 50

// NewTileMove creates a new TileMove object with the given
// Covers, i.e. Tile coverings
func NewTileMove(board *Board, covers Covers) *TileMove {
	move := &TileMove{}
	move.Init(board, covers)
	return move
}

// Coord returns the co-ordinate string of the move, such as
// "8H" for a horizontal move starting in row 8, column H,
// or "H8" for a vertical move starting at the same square
func (move *TileMove) Coord() string {
	if !move.TopLeft.IsValid() {
		return ""
	}
	if move.Horizontal {
		return rowIds[move.TopLeft.Row] + colIds[move.TopLeft.Col]
	}
	return colIds[move.TopLeft.Col] + rowIds[move.TopLeft.Row]
}

// String return a string description of a TileMove
func (move *TileMove) String() string {
	return move.Coord() + " " + move.Word
}

// IllegalMoveWord is the move.Word of an illegal move
const IllegalMoveWord = "[???]"

// Init initializes a TileMove instance for a particular Board
// using a map of Coordinate to Cover
func (move *TileMove) Init(board *Board, covers Covers) {
	move.Covers = covers
	move.CachedScore = nil
	top, left := BoardSize, BoardSize
	bottom, right := -1, -1
	for coord := range covers {
		if coord.Row < top {
			top = coord.Row
		}
		if coord.Col < left {
			left = coord.Col
		}
		if coord.Row > bottom {
			bottom = coord.Row
		}
		if coord.Col > right {
			right = coord.Col
		}
	}
	move.TopLeft = Coordinate{top, left}
	move.BottomRight = Coordinate{bottom, right}
	sq := board.Sq(top, left)
	if sq == nil || !move.BottomRight.IsValid() {
		move.Word = IllegalMoveWord
		return
	}
	if len(covers) >= 2 {
		// This is horizontal if the first two covers are in the same row
		move.Horizontal = top == bottom
	} else {
		// Single cover: get smart and figure out whether the
		// horizontal cross is longer than the vertical cross
		hcross := len(board.Fragment(top, left, LEFT)) +
			len(board.Fragment(top, left, RIGHT))
		vcross := len(board.Fragment(top, left, ABOVE)) +
			len(board.Fragment(top, left, BELOW))
		move.Horizontal = hcross >= vcross
	}
	// Collect the entire word that is being laid down
	var direction, reverse int
	if move.Horizontal {
		direction = RIGHT
		reverse = LEFT
	} else {
		direction = BELOW
		reverse = ABOVE
	}
	// Start with any left prefix that is being extended
	var sb strings.Builder
	sb.WriteString(board.WordFragment(top, left, reverse))
	// Next, traverse the covering line from top left to bottom right
	for {
		if cover, ok := covers[Coordinate{sq.Row, sq.Col}]; ok {
			// This square is being covered by the tile move
			sb.WriteRune(cover.Meaning)
		} else {
			// This square must be covered by a previously laid tile
			if sq.Tile == nil {
				move.Word = IllegalMoveWord
				return
			}
			sb.WriteRune(sq.Tile.Meaning)
		}
		if sq.Row == bottom && sq.Col == right {
			// This was the last tile laid down in the move:
			// the loop is done
			break
		}
		// Move to the next adjacent square, in the direction of the move
		sq = board.Adjacents[sq.Row][sq.Col][direction]
		if sq == nil {
			move.Word = IllegalMoveWord
			return
		}
	}
	// Add any suffix that may already have been on the board
	sb.WriteString(board.WordFragment(bottom, right, direction))
	move.Word = sb.String()
}

// IsValid returns true if the TileMove is valid in the given state
func (move *TileMove) IsValid(state *GameState) bool {
	// Check the validity of the move
	if len(move.Covers) < 1 || len(move.Covers) > RackSize {
		return false
	}
	board := state.Board
	// Count the number of tiles adjacent to the covers
	var numAdjacentTiles = 0
	for coord, cover := range move.Covers {
		if !coord.IsValid() {
			return false
		}
		if board.TileAt(coord.Row, coord.Col) != nil {
			// There is already a tile in this square
			return false
		}
		if cover.Letter != Wildcard && cover.Letter != cover.Meaning {
			// Only blank tiles can stand in for another letter
			return false
		}
		numAdjacentTiles += board.NumAdjacentTiles(coord.Row, coord.Col)
	}
	if move.BottomRight.Row > move.TopLeft.Row &&
		move.BottomRight.Col > move.TopLeft.Col {
		// Not strictly horizontal or strictly vertical
		return false
	}
	// Check for gaps
	if move.Horizontal {
		// This is a horizontal move
		row := move.TopLeft.Row
		for i := move.TopLeft.Col; i <= move.BottomRight.Col; i++ {
			_, covered := move.Covers[Coordinate{row, i}]
			if !covered && board.TileAt(row, i) == nil {
				// There is a missing square in the covers
				return false
			}
		}
	} else {
		// This is a vertical move
		col := move.TopLeft.Col
		for i := move.TopLeft.Row; i <= move.BottomRight.Row; i++ {
			_, covered := move.Covers[Coordinate{i, col}]
			if !covered && board.TileAt(i, col) == nil {
				// There is a missing square in the covers
				return false
			}
		}
	}
	if board.NumTiles == 0 {
		// The first tile move must go through the start square
		// and form a word of at least two letters
		if _, covered := move.Covers[board.Layout.Start]; !covered || len(move.Covers) < 2 {
			return false
		}
	} else {
		// At least one cover must touch a tile
		// that is already on the board
		if numAdjacentTiles == 0 {
			return false
		}
	}
	if move.Word == IllegalMoveWord || len([]rune(move.Word)) < 2 {
		return false
	}
	if !move.ValidateWords {
		// No need to validate the words formed by this move on the board:
		// return true, we're done
		return true
	}
	if !state.Dawg.Find(move.Word) {
		return false
	}
	// Check the cross words
	for coord, cover := range move.Covers {
		left, right := board.CrossWords(coord.Row, coord.Col, !move.Horizontal)
		if len(left) > 0 || len(right) > 0 {
			// There is a cross word here: check it
			if !state.Dawg.Find(string(left) + string(cover.Meaning) + string(right)) {
				// Not found in the dictionary
				return false
			}
		}
	}
	return true
}

// Score returns the score of the TileMove, if
// played in the given state
func (move *TileMove) Score(state *GameState) int {
	if move.CachedScore != nil {
		return *move.CachedScore
	}
	score := scoreCovers(state.Board, state.TileSet, move)
	// Only calculate the score once, then cache it
	move.CachedScore = &score
	return score
}

func scoreCovers(board *Board, tileSet *TileSet, move *TileMove) int {
	// Cumulative letter score
	var score = 0
	// Cumulative cross scores
	var crossScore = 0
	// Word multiplier
	var multiplier = 1
	var rowIncr, colIncr = 0, 0
	var direction int
	if move.Horizontal {
		direction = LEFT
		colIncr = 1
	} else {
		direction = ABOVE
		rowIncr = 1
	}
	// Start with tiles above the top left
	row, col := move.TopLeft.Row, move.TopLeft.Col
	for _, tile := range board.Fragment(row, col, direction) {
		score += tile.Score
	}
	// Then, progress from the top left to the bottom right
	for {
		sq := board.Sq(row, col)
		if sq == nil {
			break
		}
		if cover, covered := move.Covers[Coordinate{row, col}]; covered {
			// This square is covered by the move: apply its letter
			// and word multipliers. A blank tile scores zero.
			thisScore := tileSet.Scores[cover.Letter] * sq.LetterMultiplier
			score += thisScore
			multiplier *= sq.WordMultiplier
			// Add cross score, if any
			hasCrossing, csc := board.CrossScore(row, col, !move.Horizontal)
			if hasCrossing {
				crossScore += (csc + thisScore) * sq.WordMultiplier
			}
		} else if sq.Tile != nil {
			// This square was already covered: add its letter score only
			score += sq.Tile.Score
		}
		if row >= move.BottomRight.Row && col >= move.BottomRight.Col {
			break
		}
		row += rowIncr
		col += colIncr
	}
	// Finally, add tiles below the bottom right
	row, col = move.BottomRight.Row, move.BottomRight.Col
	if move.Horizontal {
		direction = RIGHT
	} else {
		direction = BELOW
	}
	for _, tile := range board.Fragment(row, col, direction) {
		score += tile.Score
	}
	// Multiply the accumulated letter score with the word multiplier
	score *= multiplier
	// Add cross scores
	score += crossScore
	if len(move.Covers) == RackSize {
		// The player played the entire rack: add the bingo bonus
		score += BingoBonus
	}
	return score
}

// ScoreTiles returns the score of laying down the given tile
// covers on the board, without validating the move
func ScoreTiles(board *Board, tileSet *TileSet, covers Covers) int {
	if len(covers) == 0 {
		return 0
	}
	move := NewTileMove(board, covers)
	if move.Word == IllegalMoveWord {
		return 0
	}
	return scoreCovers(board, tileSet, move)
}

// TileString returns the word of the move, where each letter that
// is covered by a blank tile is preceded by a '?'
func (move *TileMove) TileString(board *Board) string {
	if move.Word == IllegalMoveWord {
		return move.Word
	}
	var sb strings.Builder
	dRow, dCol := 0, 1
	if !move.Horizontal {
		dRow, dCol = 1, 0
	}
	// Back up to the start of the word
	row, col := move.TopLeft.Row, move.TopLeft.Col
	for board.TileAt(row-dRow, col-dCol) != nil {
		row, col = row-dRow, col-dCol
	}
	for ; row < BoardSize && col < BoardSize; row, col = row+dRow, col+dCol {
		if cover, ok := move.Covers[Coordinate{row, col}]; ok {
			if cover.Letter == Wildcard {
				sb.WriteRune(Wildcard)
			}
			sb.WriteRune(cover.Meaning)
		} else if tile := board.TileAt(row, col); tile != nil {
			if tile.Letter == Wildcard {
				sb.WriteRune(Wildcard)
			}
			sb.WriteRune(tile.Meaning)
		} else {
			break
		}
	}
	return sb.String()
}

// ScoredMove describes a tile move together with its score, in a
// form that is suitable for presentation and JSON encoding
type ScoredMove struct {
	Coord string `json:"coord"`
	// Word marks letters formed by blank tiles with a preceding '?'
	Word      string      `json:"word"`
	CleanWord string      `json:"clean_word"`
	Score     int         `json:"score"`
	Covers    []CoverInfo `json:"covers"`
	Move      *TileMove   `json:"-"`
}

// CoverInfo is a single tile placement within a ScoredMove
type CoverInfo struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Letter  string `json:"letter"`
	Meaning string `json:"meaning"`
}

// NewScoredMove describes a tile move in the given state
func NewScoredMove(state *GameState, move *TileMove) ScoredMove {
	covers := make([]CoverInfo, 0, len(move.Covers))
	for coord, cover := range move.Covers {
		covers = append(covers, CoverInfo{
			Row:     coord.Row,
			Col:     coord.Col,
			Letter:  string(cover.Letter),
			Meaning: string(cover.Meaning),
		})
	}
	// Present the covers in reading order
	sort.Slice(covers, func(i, j int) bool {
		if covers[i].Row != covers[j].Row {
			return covers[i].Row < covers[j].Row
		}
		return covers[i].Col < covers[j].Col
	})
	return ScoredMove{
		Coord:     move.Coord(),
		Word:      move.TileString(state.Board),
		CleanWord: move.Word,
		Score:     move.Score(state),
		Covers:    covers,
		Move:      move,
	}
}

// String returns a short description of a ScoredMove
func (sm ScoredMove) String() string {
	return fmt.Sprintf("%s %s %d", sm.Coord, sm.Word, sm.Score)
}

// NewPassMove returns a reference to a fresh PassMove
func NewPassMove() *PassMove {
	return &PassMove{}
}

// String return a string description of the PassMove
func (move *PassMove) String() string {
	return "Pass"
}

// IsValid always returns true for a PassMove
func (move *PassMove) IsValid(state *GameState) bool {
	return true
}

// Score is always 0 for a PassMove
func (move *PassMove) Score(state *GameState) int {
	return 0
}

// NewExchangeMove returns a reference to a fresh ExchangeMove
func NewExchangeMove(letters string) *ExchangeMove {
	return &ExchangeMove{Letters: letters}
}

// String return a string description of the ExchangeMove
func (move *ExchangeMove) String() string {
	return "Exch " + move.Letters
}

// IsValid returns true if an exchange is allowed and all
// exchanged tiles are actually in the player's rack
func (move *ExchangeMove) IsValid(state *GameState) bool {
	if move == nil || state == nil {
		return false
	}
	if state.exchangeForbidden {
		// Too few tiles left in the bag
		return false
	}
	runes := []rune(move.Letters)
	if len(runes) < 1 || len(runes) > RackSize {
		return false
	}
	rack := state.Rack.AsRunes()
	for _, letter := range runes {
		if !ContainsRune(rack, letter) {
			// This exchanged letter is not in the player's rack
			return false
		}
		rack = RemoveRune(rack, letter)
	}
	// All exchanged letters found: the move is OK
	return true
}

// Score is always 0 for an ExchangeMove
func (move *ExchangeMove) Score(state *GameState) int {
	return 0
}
