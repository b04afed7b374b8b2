// state.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the GameState, i.e. the minimal description of
// a position that a robot player needs in order to decide on a move,
// and the candidate move generation entry point built on it.

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
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// GameState contains the bare minimum of information
// that is needed for a robot player to decide on a move
type GameState struct {
	Dawg    *Dawg
	TileSet *TileSet
	Board   *Board
	Rack    *Rack // The rack of the player whose move it is
	// ScoreDiff is the score of the player to move minus
	// the score of the opponent
	ScoreDiff         int
	exchangeForbidden bool
}

// NewState creates a new GameState instance
func NewState(dawg *Dawg, tileSet *TileSet, board *Board, rack *Rack, exchangeForbidden bool) *GameState {
	return &GameState{
		Dawg:              dawg,
		TileSet:           tileSet,
		Board:             board,
		Rack:              rack,
		exchangeForbidden: exchangeForbidden,
	}
}

// ExchangeForbidden returns true if too few tiles remain in the bag
// to allow an exchange, given the tiles on the board and the two racks
func ExchangeForbidden(tileSet *TileSet, board *Board) bool {
	return tileSet.Size-board.NumTiles-2*RackSize < RackSize
}

// ExchangeAllowed returns true if the player to move may exchange tiles
func (state *GameState) ExchangeAllowed() bool {
	return !state.exchangeForbidden
}

// IsFirstMove returns true if no tiles have been placed on the board
func (state *GameState) IsFirstMove() bool {
	return state.Board.NumTiles == 0
}

// String returns a string representation of a GameState
func (state *GameState) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v\n", state.Board))
	sb.WriteString(fmt.Sprintf("Rack: %v\n", state.Rack))
	return sb.String()
}

// ScoredMoves generates all legal tile moves in the state and
// returns them with their scores, in the order of preference of
// the HighScoreRobot. If maxCount is positive, at most maxCount
// moves are returned.
func (state *GameState) ScoredMoves(maxCount int) []ScoredMove {
	moves := state.GenerateMoves()
	sortByScore(state, moves)
	if maxCount > 0 && len(moves) > maxCount {
		moves = moves[:maxCount]
	}
	return lo.Map(moves, func(move *TileMove, _ int) ScoredMove {
		return NewScoredMove(state, move)
	})
}

// GenerateCandidateMoves parses a board with the given layout (nil
// meaning the standard one) and a rack, and returns the best scoring
// legal tile moves, at most maxCount of them if maxCount is positive.
// An empty result means that there is no legal tile move; it is not
// an error.
func GenerateCandidateMoves(
	dawg *Dawg, locale *Locale, layout *BoardLayout, boardRows []string, rack string, maxCount int,
) ([]ScoredMove, error) {
	board, err := ParseBoard(boardRows, layout, locale.TileSet)
	if err != nil {
		return nil, err
	}
	r, err := NewRack(rack, locale.TileSet)
	if err != nil {
		return nil, err
	}
	state := NewState(dawg, locale.TileSet, board, r, ExchangeForbidden(locale.TileSet, board))
	result := state.ScoredMoves(maxCount)
	log.Debug().
		Str("rack", rack).
		Int("tiles", board.NumTiles).
		Int("moves", len(result)).
		Msg("candidate moves generated")
	return result, nil
}

// MakeTileMove creates a TileMove that lays down the given tiles,
// in order, starting at (row, col) and skipping squares that are
// already occupied. An uppercase letter denotes a blank tile with
// the meaning of the corresponding lowercase letter. The move is
// not validated; call IsValid() for that, which also checks the
// words formed against the dictionary.
func (state *GameState) MakeTileMove(row, col int, horizontal bool, tiles string) (*TileMove, error) {
	runes := []rune(tiles)
	if !(Coordinate{row, col}).IsValid() || len(runes) < 1 || len(runes) > RackSize {
		return nil, fmt.Errorf("invalid tile move at %v,%v: '%s'", row, col, tiles)
	}
	var rowInc, colInc int
	if horizontal {
		colInc = 1
	} else {
		rowInc = 1
	}
	covers := make(Covers)
	for _, letter := range runes {
		for state.Board.TileAt(row, col) != nil {
			// Occupied square: try the next one
			row += rowInc
			col += colInc
		}
		if row >= BoardSize || col >= BoardSize {
			return nil, fmt.Errorf("tile move '%s' goes off the board", tiles)
		}
		cover := Cover{Letter: letter, Meaning: letter}
		if unicode.IsUpper(letter) {
			cover = Cover{Letter: Wildcard, Meaning: unicode.ToLower(letter)}
		}
		covers[Coordinate{row, col}] = cover
		row += rowInc
		col += colInc
	}
	move := NewTileMove(state.Board, covers)
	move.ValidateWords = true
	return move, nil
}

// ApplyMove lays the tiles of a valid TileMove down on the board,
// taking them from the rack. The rack is not replenished.
func (state *GameState) ApplyMove(move *TileMove) error {
	if !move.IsValid(state) {
		return fmt.Errorf("invalid move %v", move)
	}
	// Check that all the tiles are in the rack before touching it
	rack := state.Rack.AsRunes()
	for _, cover := range move.Covers {
		if !ContainsRune(rack, cover.Letter) {
			return fmt.Errorf("move %v: tile '%c' is not in the rack", move, cover.Letter)
		}
		rack = RemoveRune(rack, cover.Letter)
	}
	score := move.Score(state)
	for coord, cover := range move.Covers {
		tile := state.Rack.Take(cover.Letter)
		tile.Meaning = cover.Meaning
		if cover.Letter == Wildcard {
			tile.Score = 0
		}
		state.Board.PlaceTile(coord.Row, coord.Col, tile)
	}
	state.exchangeForbidden = ExchangeForbidden(state.TileSet, state.Board)
	log.Debug().Stringer("move", move).Int("score", score).Msg("move applied")
	return nil
}
