// bag.go
// Copyright (C) 2018 Vilhjálmur Þorsteinsson
// This file contains the Bag logic

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

	"lukechampine.com/frand"
)

// Bag is a randomized list of tiles, initialized from a tile
// set, that is yet to be drawn
type Bag []*Tile

// NewBag initializes a bag from a tile set and returns a reference to it.
// The tiles are copied, so that assigning a meaning to a drawn blank
// tile does not modify the tile set.
func NewBag(tileSet *TileSet) *Bag {
	tiles := make([]Tile, len(tileSet.Tiles))
	copy(tiles, tileSet.Tiles)
	bag := make(Bag, len(tiles))
	for i := range bag {
		bag[i] = &tiles[i]
	}
	return &bag
}

// DrawTile pops one random tile from the bag and returns it
func (bag *Bag) DrawTile() *Tile {
	if bag == nil || len(*bag) == 0 {
		// No tiles left in the bag
		return nil
	}
	lenBag := len(*bag)
	i := frand.Intn(lenBag)
	tile := (*bag)[i]
	*bag = append((*bag)[:i], (*bag)[i+1:]...)
	return tile
}

// DrawRack draws a fresh rack of up to RackSize tiles from the bag
func (bag *Bag) DrawRack() *Rack {
	rack := &Rack{tiles: make([]*Tile, 0, RackSize)}
	rack.Fill(bag)
	return rack
}

// String returns a string representation of a Bag
func (bag *Bag) String() string {
	if bag == nil {
		return ""
	}
	var sb strings.Builder
	if len(*bag) == 0 {
		sb.WriteString("Empty")
	} else {
		sb.WriteString(fmt.Sprintf("(%v tiles): ", bag.TileCount()))
		for _, tile := range *bag {
			sb.WriteString(fmt.Sprintf("%v ", tile))
		}
	}
	return sb.String()
}

// TileCount returns the number of tiles in a Bag
func (bag *Bag) TileCount() int {
	if bag == nil {
		return 0
	}
	return len(*bag)
}

// ExchangeAllowed returns true if there are at least RackSize
// tiles left in the bag, thus allowing exchange of tiles
func (bag *Bag) ExchangeAllowed() bool {
	return bag != nil && len(*bag) >= RackSize
}
