// board.go
// Copyright (C) 2018 Vilhjálmur Þorsteinsson
// This file implements the Board, together with its Squares
// and the Tiles that may occupy them, and the BoardLayout
// that assigns multipliers and the start square

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
	"os"
	"path"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// BoardSize is the size of the Board
const BoardSize = 15

// Board represents the board as a matrix of Squares,
// and caches an adjacency matrix for each Square,
// consisting of pointers to adjacent Squares
type Board struct {
	Squares   [BoardSize][BoardSize]Square
	Adjacents [BoardSize][BoardSize]AdjSquares
	// The number of tiles on the board
	NumTiles int
	// The layout that the board was initialized from
	Layout *BoardLayout
}

// BoardLayout describes the premium squares and the
// start square of a board
type BoardLayout struct {
	Name              string
	Start             Coordinate
	WordMultipliers   [BoardSize][BoardSize]int
	LetterMultipliers [BoardSize][BoardSize]int
}

// layoutDoc is the YAML representation of a BoardLayout
type layoutDoc struct {
	Name              string   `yaml:"name"`
	Start             []int    `yaml:"start"`
	WordMultipliers   []string `yaml:"word_multipliers"`
	LetterMultipliers []string `yaml:"letter_multipliers"`
}

// Indices into AdjSquares
const (
	ABOVE = 0
	LEFT  = 1
	RIGHT = 2
	BELOW = 3
)

// AdjSquares is a list of four Square pointers,
// with a nil if the corresponding adjacent Square does not exist
type AdjSquares [4]*Square

// Tile is a tile from the Bag
type Tile struct {
	Letter  rune
	Meaning rune // Meaning of blank tile (if Letter=='?')
	Score   int  // The nominal score of the tile
}

// Square is a Board square that can hold a Tile
type Square struct {
	Tile             *Tile
	LetterMultiplier int
	WordMultiplier   int
	Row              int
	Col              int
}

// String represents a Square as a string. An empty
// Square is indicated by a dot ('.').
func (square *Square) String() string {
	if square.Tile == nil {
		// Empty square
		return "."
	}
	// A blank tile shows its meaning
	return string(square.Tile.Meaning)
}

// colIds are the column identifiers of a board
var colIds = [BoardSize]string{
	"A", "B", "C", "D", "E",
	"F", "G", "H", "I", "J",
	"K", "L", "M", "N", "O",
}

// rowIds are the row identifiers of a board
var rowIds = [BoardSize]string{
	"1", "2", "3", "4", "5",
	"6", "7", "8", "9", "10",
	"11", "12", "13", "14", "15",
}

// String represents a Tile as a string
func (tile *Tile) String() string {
	if tile == nil {
		return "."
	}
	return string(tile.Letter)
}

// ParseBoardLayout reads a BoardLayout from a YAML document
func ParseBoardLayout(data []byte) (*BoardLayout, error) {
	var doc layoutDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing board layout: %w", err)
	}
	if len(doc.Start) != 2 {
		return nil, fmt.Errorf("board layout %s: start must be [row, col]", doc.Name)
	}
	layout := &BoardLayout{
		Name:  doc.Name,
		Start: Coordinate{doc.Start[0], doc.Start[1]},
	}
	if !layout.Start.IsValid() {
		return nil, fmt.Errorf("board layout %s: start square %v is off the board", doc.Name, doc.Start)
	}
	if err := parseMultipliers(doc.WordMultipliers, &layout.WordMultipliers); err != nil {
		return nil, fmt.Errorf("board layout %s word multipliers: %w", doc.Name, err)
	}
	if err := parseMultipliers(doc.LetterMultipliers, &layout.LetterMultipliers); err != nil {
		return nil, fmt.Errorf("board layout %s letter multipliers: %w", doc.Name, err)
	}
	return layout, nil
}

func parseMultipliers(rows []string, m *[BoardSize][BoardSize]int) error {
	if len(rows) != BoardSize {
		return fmt.Errorf("expected %d rows, got %d", BoardSize, len(rows))
	}
	for i, row := range rows {
		if len(row) != BoardSize {
			return fmt.Errorf("row %d has %d squares", i, len(row))
		}
		for j := 0; j < BoardSize; j++ {
			c := row[j]
			if c < '1' || c > '9' {
				return fmt.Errorf("invalid multiplier '%c' at %d,%d", c, i, j)
			}
			m[i][j] = int(c - '0')
		}
	}
	return nil
}

// IsTransposeSymmetric returns true if the layout looks the same
// when rows and columns are swapped, in which case a first move
// scores the same horizontally and vertically
func (layout *BoardLayout) IsTransposeSymmetric() bool {
	if layout.Start.Row != layout.Start.Col {
		return false
	}
	for i := 0; i < BoardSize; i++ {
		for j := i + 1; j < BoardSize; j++ {
			if layout.WordMultipliers[i][j] != layout.WordMultipliers[j][i] ||
				layout.LetterMultipliers[i][j] != layout.LetterMultipliers[j][i] {
				return false
			}
		}
	}
	return true
}

// LoadBoardLayoutFile reads a BoardLayout from a YAML file
func LoadBoardLayoutFile(fileName string) (*BoardLayout, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return ParseBoardLayout(data)
}

// BuiltinBoardLayout returns one of the board layouts that are
// compiled into the package, such as "standard"
func BuiltinBoardLayout(name string) (*BoardLayout, error) {
	if name == "" {
		name = "standard"
	}
	data, err := resourceFS.ReadFile(path.Join("resources", "boards", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown board layout '%s'", name)
	}
	return ParseBoardLayout(data)
}

// StandardLayout is the layout of the standard board
var StandardLayout = mustBoardLayout("standard")

func mustBoardLayout(name string) *BoardLayout {
	layout, err := BuiltinBoardLayout(name)
	if err != nil {
		panic(err)
	}
	return layout
}

// NewBoard returns a fresh, empty Board with the given layout,
// or the standard layout if layout is nil
func NewBoard(layout *BoardLayout) *Board {
	board := &Board{}
	board.Init(layout)
	return board
}

// Sq returns a pointer to a Board square
func (board *Board) Sq(row, col int) *Square {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return nil
	}
	return &board.Squares[row][col]
}

// TileAt returns a pointer to the Tile in a given Square
func (board *Board) TileAt(row, col int) *Tile {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return nil
	}
	return board.Squares[row][col].Tile
}

// PlaceTile places a tile in a square, returning false if
// the square is off the board or already occupied
func (board *Board) PlaceTile(row, col int, tile *Tile) bool {
	sq := board.Sq(row, col)
	if sq == nil || sq.Tile != nil || tile == nil {
		return false
	}
	sq.Tile = tile
	board.NumTiles++
	return true
}

// HasStartTile returns true if the start square is occupied
func (board *Board) HasStartTile() bool {
	start := board.Layout.Start
	return board.TileAt(start.Row, start.Col) != nil
}

// String represents a Board as a string
func (board *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for i := 0; i < BoardSize; i++ {
		sb.WriteString(colIds[i] + " ")
	}
	sb.WriteString("\n")
	for i := 0; i < BoardSize; i++ {
		sb.WriteString(fmt.Sprintf("%2s ", rowIds[i]))
		for j := 0; j < BoardSize; j++ {
			sb.WriteString(fmt.Sprintf("%v ", board.Sq(i, j)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToStrings returns the board as BoardSize strings of BoardSize
// characters, in the format accepted by ParseBoard()
func (board *Board) ToStrings() []string {
	rows := make([]string, BoardSize)
	for i := 0; i < BoardSize; i++ {
		var sb strings.Builder
		for j := 0; j < BoardSize; j++ {
			tile := board.Squares[i][j].Tile
			switch {
			case tile == nil:
				sb.WriteByte('.')
			case tile.Letter == Wildcard:
				sb.WriteRune(unicode.ToUpper(tile.Meaning))
			default:
				sb.WriteRune(tile.Letter)
			}
		}
		rows[i] = sb.String()
	}
	return rows
}

// ParseBoard creates a Board from BoardSize strings of BoardSize
// characters each. A '.' or a space denotes an empty square, a
// lowercase letter a normal tile, and an uppercase letter a blank
// tile standing in for the corresponding lowercase letter.
// A board that is not empty must have a tile on the start square.
// No rows at all denote an empty board.
func ParseBoard(rows []string, layout *BoardLayout, tileSet *TileSet) (*Board, error) {
	if len(rows) == 0 {
		return NewBoard(layout), nil
	}
	if len(rows) != BoardSize {
		return nil, fmt.Errorf("invalid board: must be %v rows", BoardSize)
	}
	board := NewBoard(layout)
	for r, rowString := range rows {
		row := []rune(rowString)
		if len(row) != BoardSize {
			return nil, fmt.Errorf(
				"invalid board row (#%v): must be %v characters long", r, BoardSize,
			)
		}
		for c, letter := range row {
			if letter == '.' || letter == ' ' {
				continue
			}
			meaning := letter
			score := 0
			// Uppercase letters represent
			// blank tiles that have been assigned a letter;
			// convert these to lowercase letters and
			// give them a score of 0
			if unicode.IsUpper(letter) {
				meaning = unicode.ToLower(letter)
				letter = Wildcard
				if !tileSet.Contains(meaning) {
					return nil, fmt.Errorf("invalid letter '%c' at %v,%v", meaning, r, c)
				}
			} else {
				score = tileSet.Scores[letter]
			}
			if !tileSet.Contains(letter) {
				return nil, fmt.Errorf("invalid letter '%c' at %v,%v", letter, r, c)
			}
			board.PlaceTile(r, c, &Tile{Letter: letter, Meaning: meaning, Score: score})
		}
	}
	if board.NumTiles > 0 && !board.HasStartTile() {
		return nil, fmt.Errorf("the start square must be occupied")
	}
	return board, nil
}

// NumAdjacentTiles returns the number of tiles on the
// Board that are adjacent to the given coordinate
func (board *Board) NumAdjacentTiles(row, col int) int {
	adj := &board.Adjacents[row][col]
	var count = 0
	for _, sq := range adj {
		if sq != nil && sq.Tile != nil {
			count++
		}
	}
	return count
}

// Fragment returns a list of the tiles that extend from the square
// at row, col in the direction specified (ABOVE/BELOW/LEFT/RIGHT).
func (board *Board) Fragment(row, col int, direction int) []*Tile {
	if row < 0 || col < 0 || row >= BoardSize || col >= BoardSize {
		return nil
	}
	if direction < ABOVE || direction > BELOW {
		return nil
	}
	frag := make([]*Tile, 0, BoardSize-1)
	for {
		sq := board.Adjacents[row][col][direction]
		if sq == nil || sq.Tile == nil {
			break
		}
		frag = append(frag, sq.Tile)
		row, col = sq.Row, sq.Col
	}
	return frag
}

// WordFragment returns the word formed by the tile sequence emanating
// from the given square in the indicated direction, not including the
// square itself.
func (board *Board) WordFragment(row, col int, direction int) string {
	frag := board.Fragment(row, col, direction)
	runes := make([]rune, len(frag))
	if direction == LEFT || direction == ABOVE {
		// We need to reverse the order of the fragment
		for i, tile := range frag {
			runes[len(frag)-1-i] = tile.Meaning
		}
	} else {
		// The fragment is in correct reading order
		for i, tile := range frag {
			runes[i] = tile.Meaning
		}
	}
	return string(runes)
}

// CrossScore returns the sum of the scores of the tiles crossing
// the given tile, either horizontally or vertically. If there are no
// crossings, returns false, 0. (Note that true, 0 is a valid return
// value, if a crossing has only blank tiles.)
func (board *Board) CrossScore(row, col int, horizontal bool) (hasCrossing bool, score int) {
	var direction int
	// The C ternary operator is sorely missed :-(
	if horizontal {
		direction = LEFT
	} else {
		direction = ABOVE
	}
	for _, tile := range board.Fragment(row, col, direction) {
		score += tile.Score
		hasCrossing = true
	}
	if horizontal {
		direction = RIGHT
	} else {
		direction = BELOW
	}
	for _, tile := range board.Fragment(row, col, direction) {
		score += tile.Score
		hasCrossing = true
	}
	return // hasCrossing, score
}

// CrossWords returns the word fragments above and below, or to the left and right of, the
// given co-ordinate on the board.
func (board *Board) CrossWords(row, col int, horizontal bool) (left, right []rune) {
	if horizontal {
		left = []rune(board.WordFragment(row, col, LEFT))
		right = []rune(board.WordFragment(row, col, RIGHT))
	} else {
		left = []rune(board.WordFragment(row, col, ABOVE))
		right = []rune(board.WordFragment(row, col, BELOW))
	}
	return // left, right
}

// Init initializes an empty board with the given layout,
// or the standard layout if layout is nil
func (board *Board) Init(layout *BoardLayout) {
	if layout == nil {
		layout = StandardLayout
	}
	board.Layout = layout
	board.NumTiles = 0
	for i := 0; i < BoardSize; i++ {
		for j := 0; j < BoardSize; j++ {
			sq := &board.Squares[i][j]
			sq.Tile = nil
			sq.Row = i
			sq.Col = j
			sq.LetterMultiplier = layout.LetterMultipliers[i][j]
			sq.WordMultiplier = layout.WordMultipliers[i][j]
		}
	}
	// Initialize the cached matrix of adjacent square lists
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			var adj = &board.Adjacents[row][col]
			if row > 0 {
				// Square above
				adj[ABOVE] = board.Sq(row-1, col)
			}
			if row < BoardSize-1 {
				// Square below
				adj[BELOW] = board.Sq(row+1, col)
			}
			if col > 0 {
				// Square to the left
				adj[LEFT] = board.Sq(row, col-1)
			}
			if col < BoardSize-1 {
				// Square to the right
				adj[RIGHT] = board.Sq(row, col+1)
			}
		}
	}
}
