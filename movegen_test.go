// movegen_test.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
// This file contains tests for the move generator

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
	"strings"
	"testing"

	"github.com/matryer/is"
)

// emptyRows returns the rows of an empty board
func emptyRows() []string {
	rows := make([]string, BoardSize)
	for i := range rows {
		rows[i] = strings.Repeat(".", BoardSize)
	}
	return rows
}

// placeWord writes a word into board rows, starting at row, col
func placeWord(rows []string, row, col int, horizontal bool, word string) []string {
	for _, letter := range word {
		r := []rune(rows[row])
		r[col] = letter
		rows[row] = string(r)
		if horizontal {
			col++
		} else {
			row++
		}
	}
	return rows
}

func newTestState(t testing.TB, dawg *Dawg, rows []string, rack string) *GameState {
	t.Helper()
	is := is.New(t)
	board, err := ParseBoard(rows, nil, testLocale.TileSet)
	is.NoErr(err)
	r, err := NewRack(rack, testLocale.TileSet)
	is.NoErr(err)
	return NewState(dawg, testLocale.TileSet, board, r, ExchangeForbidden(testLocale.TileSet, board))
}

func TestFirstMove(t *testing.T) {
	is := is.New(t)
	dawg := buildTestDawg(t, "do", "dog", "dogs", "cat", "cats")
	state := newTestState(t, dawg, nil, "dogx?")
	is.True(state.IsFirstMove())

	moves := state.GenerateMoves()
	is.True(len(moves) > 0)
	start := state.Board.Layout.Start
	for _, move := range moves {
		// On an empty board, moves only run down the start column
		is.True(!move.Horizontal)
		_, covered := move.Covers[start]
		is.True(covered)
		is.True(move.IsValid(state))
	}

	best := state.ScoredMoves(1)
	is.Equal(len(best), 1)
	// "dog" and "dogs" with a blank both score 10; the shorter word
	// wins, placed as high up on the board as possible
	is.Equal(best[0].Coord, "H6")
	is.Equal(best[0].CleanWord, "dog")
	is.Equal(best[0].Score, 10)
	is.Equal(best[0].Move.TopLeft, Coordinate{5, 7})

	robot := NewHighScoreRobot()
	move, ok := robot.GenerateMove(state).(*TileMove)
	is.True(ok)
	is.Equal(move.Word, "dog")
	is.Equal(move.Coord(), "H6")
}

func TestBlankOnlyWhenNeeded(t *testing.T) {
	is := is.New(t)
	dawg := buildTestDawg(t, "do", "dog", "dogs")
	state := newTestState(t, dawg, nil, "dogs?")
	for _, move := range state.GenerateMoves() {
		for _, cover := range move.Covers {
			// The rack has all the letters that are needed
			is.True(cover.Letter != Wildcard)
		}
	}
}

func TestCrossChecks(t *testing.T) {
	is := is.New(t)
	dawg := buildTestDawg(t, "at", "cat", "cats", "do", "dog", "dogs", "ma", "pa", "ta")
	rows := placeWord(emptyRows(), 7, 7, true, "cat")
	alphabet := dawg.Alphabet()
	search := newMoveSearch(newTestState(t, dawg, rows, "?"))

	above := newAxis(search, 6, true)
	is.Equal(alphabet.SetString(above.crossCheck[8]), "mpt") // ?a
	is.Equal(above.crossCheck[7], uint64(0))                  // ?c
	is.Equal(alphabet.SetString(above.crossCheck[9]), "a")    // ?t
	is.Equal(above.crossCheck[3], alphabet.AllSet())
	is.True(above.IsAnchor(8))
	is.True(!above.IsAnchor(3))
	is.True(!above.IsOpen(7))

	below := newAxis(search, 8, true)
	is.Equal(alphabet.SetString(below.crossCheck[8]), "t") // a?
	is.Equal(alphabet.SetString(below.crossCheck[9]), "a") // t?
	is.Equal(below.crossCheck[7], uint64(0))               // c?

	// A rack without a blank narrows the sets down further
	below = newAxis(newMoveSearch(newTestState(t, dawg, rows, "mt")), 8, true)
	is.Equal(alphabet.SetString(below.crossCheck[8]), "t")
	is.Equal(below.crossCheck[9], uint64(0))
	is.True(below.Allows(8, 't'))
	is.True(!below.Allows(8, 'm'))
}

func TestFirstMoveAsymmetricLayout(t *testing.T) {
	is := is.New(t)
	dawg := buildTestDawg(t, "do", "dog")
	layout, err := ParseBoardLayout(layoutYAML("lopsided", Coordinate{7, 7}, map[Coordinate]int{{7, 9}: 3}))
	is.NoErr(err)
	is.True(!layout.IsTransposeSymmetric())
	board := NewBoard(layout)
	rack, err := NewRack("dog", testLocale.TileSet)
	is.NoErr(err)
	state := NewState(dawg, testLocale.TileSet, board, rack, false)

	// The start square anchors both its row and its column
	search := newMoveSearch(state)
	is.True(newAxis(search, 7, true).IsAnchor(7))
	is.True(newAxis(search, 7, false).IsAnchor(7))

	var across, down int
	for _, move := range state.GenerateMoves() {
		is.True(move.IsValid(state))
		if move.Horizontal {
			across++
		} else {
			down++
		}
	}
	is.Equal(across, 5) // dog from 8F, 8G and 8H; do from 8G and 8H
	is.Equal(down, 5)

	// Only the row reaches the triple word square
	best := state.ScoredMoves(1)
	is.Equal(len(best), 1)
	is.Equal(best[0].CleanWord, "dog")
	is.Equal(best[0].Coord, "8H")
	is.Equal(best[0].Score, 15)
}

func TestGeneratedMovesAreValid(t *testing.T) {
	is := is.New(t)
	dawg := loadWordsDawg(t)
	rows := placeWord(emptyRows(), 7, 5, true, "toads")
	rows = placeWord(rows, 7, 7, false, "ate")
	racks := []string{"dogs?ae", "cabtes", "??", "o"}
	for _, rack := range racks {
		state := newTestState(t, dawg, rows, rack)
		moves := state.GenerateMoves()
		is.True(len(moves) > 0)
		seen := make(map[string]bool)
		for _, move := range moves {
			// Check every word formed against the dictionary
			move.ValidateWords = true
			is.True(move.IsValid(state))
			key := move.TileString(state.Board) + " " + move.Coord()
			is.True(!seen[key]) // no duplicate moves
			seen[key] = true
		}
	}
}

func TestGenerateCandidateMoves(t *testing.T) {
	is := is.New(t)
	dawg := loadWordsDawg(t)
	rows := placeWord(emptyRows(), 7, 6, true, "cat")
	result, err := GenerateCandidateMoves(dawg, testLocale, nil, rows, "sdog", 5)
	is.NoErr(err)
	is.True(len(result) > 0 && len(result) <= 5)
	for i := 1; i < len(result); i++ {
		is.True(result[i-1].Score >= result[i].Score)
	}

	_, err = GenerateCandidateMoves(dawg, testLocale, nil, rows[:3], "sdog", 5)
	is.True(err != nil)
	_, err = GenerateCandidateMoves(dawg, testLocale, nil, rows, "sdog#", 5)
	is.True(err != nil)
}

func TestGenerateCandidateMovesLayout(t *testing.T) {
	is := is.New(t)
	dawg := buildTestDawg(t, "do", "dog")
	// The standard start square doubles the word
	result, err := GenerateCandidateMoves(dawg, testLocale, nil, nil, "dog", 1)
	is.NoErr(err)
	is.Equal(len(result), 1)
	is.Equal(result[0].Score, 10)

	plain, err := ParseBoardLayout(layoutYAML("plain", Coordinate{7, 7}, nil))
	is.NoErr(err)
	result, err = GenerateCandidateMoves(dawg, testLocale, plain, nil, "dog", 1)
	is.NoErr(err)
	is.Equal(len(result), 1)
	is.Equal(result[0].CleanWord, "dog")
	is.Equal(result[0].Score, 5)
}

func TestNoLegalMove(t *testing.T) {
	is := is.New(t)
	dawg := buildTestDawg(t, "do", "dog", "dogs", "cat", "cats")
	state := newTestState(t, dawg, nil, "qzx")
	is.Equal(len(state.GenerateMoves()), 0)
	is.Equal(len(state.ScoredMoves(10)), 0)

	result, err := GenerateCandidateMoves(dawg, testLocale, nil, nil, "qzx", 10)
	is.NoErr(err)
	is.Equal(len(result), 0)

	// The robot falls back to exchanging its tiles...
	move := NewHighScoreRobot().GenerateMove(state)
	exchange, ok := move.(*ExchangeMove)
	is.True(ok)
	is.Equal(exchange.Letters, "qzx")
	is.True(exchange.IsValid(state))

	// ...or passing, if the bag is too low
	state.exchangeForbidden = true
	_, ok = NewHighScoreRobot().GenerateMove(state).(*PassMove)
	is.True(ok)
}

func BenchmarkGenerateMoves(b *testing.B) {
	dawg := loadWordsDawg(b)
	rows := placeWord(emptyRows(), 7, 5, true, "toads")
	rows = placeWord(rows, 7, 7, false, "ate")
	rows = placeWord(rows, 9, 6, true, "sea")
	state := newTestState(b, dawg, rows, "sdo?gea")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		state.GenerateMoves()
	}
}
