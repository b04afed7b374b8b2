// tileset.go
//
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file implements locales, i.e. an Alphabet together with
// the TileSet (letter scores and bag composition) that goes with it.
// Locales are described in YAML documents, and the standard ones
// are compiled into the package.

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
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Point to the locale and board layout resources
//
//go:embed resources/locales/*.yaml resources/boards/*.yaml
var resourceFS embed.FS

// TileSet is a static list of tiles, used as a prototype
// to copy new Bags from
type TileSet struct {
	Tiles  []Tile
	Scores map[rune]int
	// Size is the total number of tiles in the set
	Size int
}

// Locale bundles the Alphabet and the TileSet of a language
type Locale struct {
	Name     string
	Alphabet *Alphabet
	TileSet  *TileSet
}

// localeDoc is the YAML representation of a Locale
type localeDoc struct {
	Name     string         `yaml:"name"`
	Language string         `yaml:"language"`
	Alphabet string         `yaml:"alphabet"`
	Scores   map[string]int `yaml:"scores"`
	Tiles    map[string]int `yaml:"tiles"`
}

// initTileSet makes a complete tile set, given a scoring map
// and a map of letters and their associated counts
func initTileSet(scores map[rune]int, tiles map[rune]int) *TileSet {
	// Assign tiles in a deterministic order
	letters := make([]rune, 0, len(tiles))
	numTiles := 0
	for letter, count := range tiles {
		letters = append(letters, letter)
		numTiles += count
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	tileSet := make([]Tile, numTiles)
	i := 0
	for _, letter := range letters {
		score := scores[letter]
		for j := 0; j < tiles[letter]; j++ {
			t := &tileSet[i]
			i++
			t.Letter = letter
			t.Meaning = letter
			t.Score = score
		}
	}
	return &TileSet{Tiles: tileSet, Scores: scores, Size: numTiles}
}

// Contains returns true if the given letter (or '?') is
// a part of the TileSet
func (ts *TileSet) Contains(letter rune) bool {
	_, ok := ts.Scores[letter]
	return ok
}

// ParseLocale reads a Locale from a YAML document
func ParseLocale(data []byte) (*Locale, error) {
	var doc localeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing locale: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("locale has no name")
	}
	lang, err := language.Parse(doc.Language)
	if err != nil {
		return nil, fmt.Errorf("locale %s: %w", doc.Name, err)
	}
	alphabet, err := NewAlphabet(doc.Alphabet, lang)
	if err != nil {
		return nil, fmt.Errorf("locale %s: %w", doc.Name, err)
	}
	scores, err := runeMap(doc.Scores)
	if err != nil {
		return nil, fmt.Errorf("locale %s scores: %w", doc.Name, err)
	}
	tiles, err := runeMap(doc.Tiles)
	if err != nil {
		return nil, fmt.Errorf("locale %s tiles: %w", doc.Name, err)
	}
	for letter := range tiles {
		if letter != Wildcard && !alphabet.Contains(letter) {
			return nil, fmt.Errorf("locale %s: tile '%c' is not in the alphabet", doc.Name, letter)
		}
		if _, ok := scores[letter]; !ok {
			return nil, fmt.Errorf("locale %s: tile '%c' has no score", doc.Name, letter)
		}
	}
	// The blank tile is always worth zero points
	scores[Wildcard] = 0
	return &Locale{
		Name:     doc.Name,
		Alphabet: alphabet,
		TileSet:  initTileSet(scores, tiles),
	}, nil
}

func runeMap(m map[string]int) (map[rune]int, error) {
	result := make(map[rune]int, len(m))
	for key, value := range m {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("key '%s' is not a single letter", key)
		}
		if value < 0 {
			return nil, fmt.Errorf("negative value for '%s'", key)
		}
		result[runes[0]] = value
	}
	return result, nil
}

// LoadLocaleFile reads a Locale from a YAML file
func LoadLocaleFile(fileName string) (*Locale, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return ParseLocale(data)
}

// ResolveLocale maps a locale identifier such as "en", "en-US",
// "is_IS" or "" to the name of one of the built-in locales
func ResolveLocale(locale string) string {
	// Obtain the first three characters of locale
	locale3 := locale
	if len(locale) > 3 {
		locale3 = locale[0:3]
	}
	switch {
	case locale == "" || locale == "en_US" || locale == "en-US":
		// U.S. English
		return "en_US"
	case locale == "en" || locale3 == "en_" || locale3 == "en-":
		// U.K. English
		return "en_GB"
	case locale == "is" || locale3 == "is_" || locale3 == "is-":
		// Icelandic
		return "is_IS"
	}
	// Default to U.S. English for other locales
	return "en_US"
}

// BuiltinLocale returns one of the locales that are compiled
// into the package, after resolving the locale identifier
func BuiltinLocale(locale string) (*Locale, error) {
	name := ResolveLocale(locale)
	data, err := resourceFS.ReadFile(path.Join("resources", "locales", name+".yaml"))
	if err != nil {
		return nil, err
	}
	return ParseLocale(data)
}

// MustBuiltinLocale is like BuiltinLocale but panics on error
func MustBuiltinLocale(locale string) *Locale {
	loc, err := BuiltinLocale(locale)
	if err != nil {
		panic(err)
	}
	return loc
}

// String returns a short description of the Locale
func (loc *Locale) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s, %d tiles)", loc.Name, loc.Alphabet, loc.TileSet.Size))
	return sb.String()
}
