// robot.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
// This file implements SCRABBLE(tm) playing robots, i.e. move
// selection policies that pick one of a list of legal tile moves.

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
	"errors"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// Robot is an interface for automatic players that implement
// a playing strategy to pick a move given a list of legal tile
// moves. If no move is acceptable, PickMove returns ErrNoLegalMove.
type Robot interface {
	PickMove(state *GameState, moves []*TileMove) (*TileMove, error)
}

// RobotWrapper wraps a Robot implementation
type RobotWrapper struct {
	Robot
}

// GenerateMove generates a list of legal tile moves, then
// asks the wrapped robot to pick one of them to play. If the
// robot finds no acceptable tile move, it falls back to exchanging
// all tiles, or passing if an exchange is not allowed.
func (rw *RobotWrapper) GenerateMove(state *GameState) Move {
	moves := state.GenerateMoves()
	move, err := rw.PickMove(state, moves)
	if err == nil {
		return move
	}
	if !errors.Is(err, ErrNoLegalMove) {
		log.Warn().Err(err).Msg("robot failed to pick a move")
	}
	if state.ExchangeAllowed() && !state.Rack.IsEmpty() {
		return NewExchangeMove(state.Rack.AsString())
	}
	return NewPassMove()
}

// sortByScore sorts a move list in descending order of score.
// Ties are broken in favor of shorter words, and on the first
// move of a game in favor of moves higher up on the board.
// The remaining ties are broken by position and word, so that
// the result does not depend on the order of move generation.
func sortByScore(state *GameState, moves []*TileMove) {
	firstMove := state.IsFirstMove()
	sort.SliceStable(moves, func(i, j int) bool {
		mi, mj := moves[i], moves[j]
		si, sj := mi.Score(state), mj.Score(state)
		if si != sj {
			return si > sj
		}
		li, lj := utf8.RuneCountInString(mi.Word), utf8.RuneCountInString(mj.Word)
		if li != lj {
			return li < lj
		}
		if mi.TopLeft.Row != mj.TopLeft.Row {
			// Upper board preference on the first move;
			// an arbitrary but stable order otherwise
			return mi.TopLeft.Row < mj.TopLeft.Row
		}
		if mi.TopLeft.Col != mj.TopLeft.Col {
			return mi.TopLeft.Col < mj.TopLeft.Col
		}
		if !firstMove && mi.Horizontal != mj.Horizontal {
			return mi.Horizontal
		}
		if mi.Word != mj.Word {
			return mi.Word < mj.Word
		}
		// Same word at the same place: prefer fewer blank tiles
		return mi.TileString(state.Board) > mj.TileString(state.Board)
	})
}

// HighScoreRobot implements a simple strategy: it always picks
// the highest-scoring move available
type HighScoreRobot struct {
}

// PickMove for a HighScoreRobot picks the highest scoring move available
func (robot *HighScoreRobot) PickMove(state *GameState, moves []*TileMove) (*TileMove, error) {
	if len(moves) == 0 {
		return nil, ErrNoLegalMove
	}
	sortByScore(state, moves)
	return moves[0], nil
}

// NewHighScoreRobot returns a fresh instance of a HighestScoreRobot
func NewHighScoreRobot() *RobotWrapper {
	return &RobotWrapper{&HighScoreRobot{}}
}

// Personality describes a weaker, more human-like playing style
type Personality struct {
	Name string
	// Vocabulary, if not nil, restricts the robot to moves whose
	// main word is found in this (typically smaller) dictionary
	Vocabulary *Dawg
	// The ratio of the best-scoring candidates that are discarded
	// when the robot is ahead of, or behind, its opponent
	DiscardBestRatioAhead  float64
	DiscardBestRatioBehind float64
	// PickFrom is the number of top remaining candidates that
	// the robot picks uniformly from; zero means all of them
	PickFrom int
}

// PersonalityRobot picks a move at random from a band of the
// candidate moves, as defined by its Personality
type PersonalityRobot struct {
	Personality
}

// Validate checks that the personality parameters are sensible
func (p *Personality) Validate() error {
	if p.DiscardBestRatioAhead < 0.0 || p.DiscardBestRatioAhead >= 1.0 {
		return fmt.Errorf("personality %s: ahead ratio must be in [0, 1)", p.Name)
	}
	if p.DiscardBestRatioBehind < 0.0 || p.DiscardBestRatioBehind >= 1.0 {
		return fmt.Errorf("personality %s: behind ratio must be in [0, 1)", p.Name)
	}
	if p.PickFrom < 0 {
		return fmt.Errorf("personality %s: negative pick count", p.Name)
	}
	return nil
}

// candidates returns the moves that the personality considers,
// in descending order of preference
func (robot *PersonalityRobot) candidates(state *GameState, moves []*TileMove) []*TileMove {
	if robot.Vocabulary != nil {
		moves = lo.Filter(moves, func(move *TileMove, _ int) bool {
			return robot.Vocabulary.Find(move.Word)
		})
	}
	n := len(moves)
	if n == 0 {
		return nil
	}
	sortByScore(state, moves)
	ratio := robot.DiscardBestRatioBehind
	if state.ScoreDiff > 0 {
		ratio = robot.DiscardBestRatioAhead
	}
	// Discard the best band, but never all of the candidates
	discard := min(int(math.Ceil(ratio*float64(n))), n-1)
	moves = moves[discard:]
	if robot.PickFrom > 0 && len(moves) > robot.PickFrom {
		moves = moves[:robot.PickFrom]
	}
	return moves
}

// PickMove for a PersonalityRobot picks uniformly at random among
// the candidates that survive its filtering
func (robot *PersonalityRobot) PickMove(state *GameState, moves []*TileMove) (*TileMove, error) {
	candidates := robot.candidates(state, moves)
	if len(candidates) == 0 {
		return nil, ErrNoLegalMove
	}
	move := candidates[frand.Intn(len(candidates))]
	log.Debug().
		Str("robot", robot.Name).
		Int("moves", len(moves)).
		Int("candidates", len(candidates)).
		Stringer("move", move).
		Msg("personality move picked")
	return move, nil
}

// NewPersonalityRobot returns a RobotWrapper around a robot with
// the given personality
func NewPersonalityRobot(p Personality) (*RobotWrapper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &RobotWrapper{&PersonalityRobot{Personality: p}}, nil
}

// StandardPersonalities are the built-in robot personalities, from
// the weakest to the strongest. The weakest ones are restricted to
// the vocabulary passed in, if any.
func StandardPersonalities(common *Dawg) []Personality {
	return []Personality{
		{
			Name:                   "beginner",
			Vocabulary:             common,
			DiscardBestRatioAhead:  0.5,
			DiscardBestRatioBehind: 0.3,
			PickFrom:               10,
		},
		{
			Name:                   "amateur",
			Vocabulary:             common,
			DiscardBestRatioAhead:  0.2,
			DiscardBestRatioBehind: 0.1,
			PickFrom:               5,
		},
		{
			Name:     "expert",
			PickFrom: 3,
		},
	}
}

// RobotByName returns a robot for the given name, which is either
// "highscore" or one of the standard personalities
func RobotByName(name string, common *Dawg) (*RobotWrapper, error) {
	if name == "" || name == "highscore" {
		return NewHighScoreRobot(), nil
	}
	p, ok := lo.Find(StandardPersonalities(common), func(p Personality) bool {
		return p.Name == name
	})
	if !ok {
		return nil, fmt.Errorf("unknown robot '%s'", name)
	}
	return NewPersonalityRobot(p)
}
