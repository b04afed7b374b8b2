// rack.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the Rack of the player to move

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
	"slices"
	"strings"

	"github.com/samber/lo"
)

// RackSize is the maximum number of tiles on a Rack
const RackSize = 7

// Rack holds up to RackSize tiles, in the order they were added
type Rack struct {
	tiles []*Tile
}

// NewRack creates a rack containing the tiles specified in the
// string r, with '?' denoting the blank tile
func NewRack(r string, tileSet *TileSet) (*Rack, error) {
	runes := []rune(r)
	if len(runes) == 0 || len(runes) > RackSize {
		return nil, fmt.Errorf("invalid rack '%s': must have 1-%d tiles", r, RackSize)
	}
	rack := &Rack{tiles: make([]*Tile, 0, RackSize)}
	for _, letter := range runes {
		score, ok := tileSet.Scores[letter]
		if !ok {
			return nil, fmt.Errorf("rack contains invalid letter '%c'", letter)
		}
		rack.tiles = append(rack.tiles, &Tile{Letter: letter, Meaning: letter, Score: score})
	}
	return rack, nil
}

// Fill draws tiles from the bag until the rack is full.
// Returns false if the bag ran out first.
func (rack *Rack) Fill(bag *Bag) bool {
	for len(rack.tiles) < RackSize {
		tile := bag.DrawTile()
		if tile == nil {
			return false
		}
		rack.tiles = append(rack.tiles, tile)
	}
	return true
}

// String shows the rack letters, padded with dots
// for the empty slots
func (rack *Rack) String() string {
	if rack == nil {
		return strings.Repeat(".", RackSize)
	}
	return rack.AsString() + strings.Repeat(".", RackSize-len(rack.tiles))
}

// AsRunes returns the letters of the tiles in the Rack
func (rack *Rack) AsRunes() []rune {
	if rack == nil {
		return nil
	}
	return lo.Map(rack.tiles, func(tile *Tile, _ int) rune {
		return tile.Letter
	})
}

// AsString returns the letters of the tiles in the Rack as a string
func (rack *Rack) AsString() string {
	return string(rack.AsRunes())
}

// AsSet returns the rack as a bit-mapped set of letters.
// If the rack contains a blank tile, all bits are set.
func (rack *Rack) AsSet(alphabet *Alphabet) uint64 {
	return alphabet.MakeSet(rack.AsRunes())
}

// IsEmpty returns true if the Rack holds no tiles
func (rack *Rack) IsEmpty() bool {
	return rack == nil || len(rack.tiles) == 0
}

// Take removes a tile with the given letter (or '?') from the
// rack and returns it, or nil if there is no such tile
func (rack *Rack) Take(letter rune) *Tile {
	if rack == nil {
		return nil
	}
	i := slices.IndexFunc(rack.tiles, func(tile *Tile) bool {
		return tile.Letter == letter
	})
	if i < 0 {
		return nil
	}
	tile := rack.tiles[i]
	rack.tiles = slices.Delete(rack.tiles, i, i+1)
	return tile
}
