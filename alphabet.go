// alphabet.go
//
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file implements the Alphabet, i.e. the ordered set of
// letters of a locale, with bit-mapped letter sets and the
// collation key that orders words within the DAWG.

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
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// IcelandicAlphabet contains the Icelandic letters as they are indexed
// in the compressed binary DAWG. Note that the Icelandic alphabet does
// not contain 'c', 'q', w' or 'z'.
const IcelandicAlphabet = "aábdðeéfghiíjklmnoóprstuúvxyýþæö"

// English alphabet, used inter alia for the U.S. and U.K.
const EnglishAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Wildcard is the blank tile, which matches any letter
const Wildcard = '?'

// finalMarker follows a letter within an edge prefix to denote
// that a word ends after that letter
const finalMarker = '|'

// MaxAlphabetSize is the maximum number of letters in an Alphabet.
// Letter indices are stored in the lower 6 bits of a byte in the
// binary DAWG, and letter sets are 64-bit bit maps.
const MaxAlphabetSize = 64

// BitMap maps runes to corresponding bit positions within an
// uint64
type BitMap map[rune]uint64

// Alphabet stores the set of runes found within the DAWG,
// and supports bit map (set) operations
type Alphabet struct {
	asString string
	asRunes  []rune
	bitMap   BitMap
	index    map[rune]byte
	allSet   uint64
	// The language used for locale collation of word lists
	language language.Tag
}

// NewAlphabet creates an Alphabet from an ordered string of letters.
// The order of the letters is the collation order of the DAWG.
func NewAlphabet(letters string, lang language.Tag) (*Alphabet, error) {
	runes := []rune(letters)
	if len(runes) == 0 {
		return nil, fmt.Errorf("alphabet is empty")
	}
	if len(runes) > MaxAlphabetSize {
		return nil, fmt.Errorf(
			"alphabet has %d letters, maximum is %d", len(runes), MaxAlphabetSize,
		)
	}
	a := &Alphabet{
		asString: letters,
		asRunes:  runes,
		bitMap:   make(BitMap, len(runes)),
		index:    make(map[rune]byte, len(runes)),
		language: lang,
	}
	for i, r := range runes {
		if r == Wildcard || r == finalMarker {
			return nil, fmt.Errorf("alphabet cannot contain '%c'", r)
		}
		if _, ok := a.index[r]; ok {
			return nil, fmt.Errorf("letter '%c' occurs twice in alphabet", r)
		}
		bit := uint64(1) << uint(i)
		a.bitMap[r] = bit
		a.index[r] = byte(i)
		a.allSet |= bit
	}
	return a, nil
}

// MustAlphabet is like NewAlphabet but panics on error. It is meant
// for alphabets that are compiled into the program.
func MustAlphabet(letters string, lang language.Tag) *Alphabet {
	a, err := NewAlphabet(letters, lang)
	if err != nil {
		panic(err)
	}
	return a
}

// MakeSet converts a list of runes to a bit map,
// with the extra twist that if any of the runes is '?',
// a bit map with all bits set is returned
func (a *Alphabet) MakeSet(runes []rune) uint64 {
	s := uint64(0)
	for _, r := range runes {
		// Note: if r is not in the map, Go returns 0,
		// which is what we want here
		if r == Wildcard {
			return a.allSet
		}
		s |= a.bitMap[r]
	}
	return s
}

// Member checks whether a rune is represented in a bit map
func (a *Alphabet) Member(r rune, set uint64) bool {
	return (set & a.bitMap[r]) != 0
}

// AllSet returns the bit map containing every letter of the Alphabet
func (a *Alphabet) AllSet() uint64 {
	return a.allSet
}

// SetString returns the letters of a bit-mapped set, in alphabet order
func (a *Alphabet) SetString(set uint64) string {
	var sb strings.Builder
	for i, r := range a.asRunes {
		if set&(uint64(1)<<uint(i)) != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Length returns the number of runes in the Alphabet
func (a *Alphabet) Length() int {
	return len(a.asRunes)
}

// String returns the letters of the Alphabet, in order
func (a *Alphabet) String() string {
	return a.asString
}

// Language returns the language tag used for locale collation
func (a *Alphabet) Language() language.Tag {
	return a.language
}

// Contains returns true if the rune is a letter of the Alphabet
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Index returns the position of a letter within the Alphabet
func (a *Alphabet) Index(r rune) (byte, bool) {
	ix, ok := a.index[r]
	return ix, ok
}

// Letter returns the letter at the given position
func (a *Alphabet) Letter(index byte) rune {
	return a.asRunes[index]
}

// Key returns the collation key of a word, i.e. the sequence of
// the alphabet indices of its letters. Keys compare with
// bytes.Compare in the order that the DAWG builder requires.
func (a *Alphabet) Key(word string) ([]byte, error) {
	key := make([]byte, 0, len(word))
	for _, r := range word {
		ix, ok := a.index[r]
		if !ok {
			return nil, fmt.Errorf("%w: '%c' in '%s'", ErrForeignLetter, r, word)
		}
		key = append(key, ix)
	}
	return key, nil
}

// Less compares two words by collation key. Letters outside the
// Alphabet sort after all letters within it.
func (a *Alphabet) Less(w1, w2 string) bool {
	return a.compare(w1, w2) < 0
}

func (a *Alphabet) compare(w1, w2 string) int {
	r1, r2 := []rune(w1), []rune(w2)
	for i := 0; i < len(r1) && i < len(r2); i++ {
		if r1[i] == r2[i] {
			continue
		}
		i1, ok1 := a.index[r1[i]]
		i2, ok2 := a.index[r2[i]]
		switch {
		case ok1 && ok2:
			if i1 < i2 {
				return -1
			}
			return 1
		case ok1:
			return -1
		case ok2:
			return 1
		default:
			if r1[i] < r2[i] {
				return -1
			}
			return 1
		}
	}
	return len(r1) - len(r2)
}

// Sort sorts a list of words in place by collation key
func (a *Alphabet) Sort(words []string) {
	sort.SliceStable(words, func(i, j int) bool {
		return a.compare(words[i], words[j]) < 0
	})
}

// SortLocale sorts a list of words in place using the collation
// rules of the Alphabet's language. A fresh Collator is created for
// each call since Collators are not safe for concurrent use.
func (a *Alphabet) SortLocale(words []string) {
	collate.New(a.language).SortStrings(words)
}

// CompareLocale compares two words using the collation rules
// of the Alphabet's language
func (a *Alphabet) CompareLocale(c *collate.Collator, w1, w2 string) int {
	if c == nil {
		c = collate.New(a.language)
	}
	return c.CompareString(w1, w2)
}

// keyLess is a helper for comparing precomputed collation keys
func keyLess(k1, k2 []byte) bool {
	return bytes.Compare(k1, k2) < 0
}
