// wordlist.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file reads plain text word lists and feeds them
// to a DawgBuilder

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
	"bufio"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// ReadWordList reads a word list with one word per line. Only the
// first whitespace-delimited field of each line is used, and it is
// converted to lowercase. Empty lines and lines starting with '#'
// are ignored. Words that are too long or contain letters outside
// the alphabet are reported and skipped. The words are returned
// in input order.
func ReadWordList(r io.Reader, alphabet *Alphabet) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		word := strings.ToLower(fields[0])
		if err := checkWord(word, alphabet); err != nil {
			skipped++
			log.Warn().Int("line", lineNo).Str("word", word).Err(err).Msg("word skipped")
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	log.Debug().Int("words", len(words)).Int("skipped", skipped).Msg("word list read")
	return words, nil
}

func checkWord(word string, alphabet *Alphabet) error {
	if utf8.RuneCountInString(word) >= MaxWordLen {
		return ErrLengthExceeded
	}
	if _, err := alphabet.Key(word); err != nil {
		return ErrForeignLetter
	}
	return nil
}

// SortWords sorts words in place in the order that the
// DawgBuilder requires and removes duplicates, returning
// the shortened slice. All words must be within the alphabet.
func SortWords(words []string, alphabet *Alphabet) ([]string, error) {
	type keyed struct {
		word string
		key  []byte
	}
	list := make([]keyed, 0, len(words))
	for _, w := range words {
		key, err := alphabet.Key(w)
		if err != nil {
			return nil, &BuildError{Kind: ErrForeignLetter, Word: w}
		}
		list = append(list, keyed{w, key})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return keyLess(list[i].key, list[j].key)
	})
	result := words[:0]
	for i, k := range list {
		if i > 0 && !keyLess(list[i-1].key, k.key) {
			continue
		}
		result = append(result, k.word)
	}
	return result, nil
}

// BuildFromWordList reads a sorted word list and inserts its words
// into a fresh DawgBuilder. If sortInput is true, the list is sorted
// and de-duplicated first.
func BuildFromWordList(r io.Reader, alphabet *Alphabet, sortInput bool) (*DawgBuilder, error) {
	words, err := ReadWordList(r, alphabet)
	if err != nil {
		return nil, err
	}
	if sortInput {
		if words, err = SortWords(words, alphabet); err != nil {
			return nil, err
		}
	}
	builder := NewDawgBuilder(alphabet)
	for i, word := range words {
		if err := builder.Insert(word); err != nil {
			var be *BuildError
			if errors.As(err, &be) {
				be.Line = i + 1
			}
			return nil, err
		}
	}
	builder.Finish()
	return builder, nil
}

// BuildFromWordListFile is a convenience wrapper that reads
// a word list from a file
func BuildFromWordListFile(fileName string, alphabet *Alphabet, sortInput bool) (*DawgBuilder, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return BuildFromWordList(file, alphabet, sortInput)
}

// BuildDawg builds, packs and loads an in-memory Dawg from a list of
// words in any order
func BuildDawg(alphabet *Alphabet, words []string, opts *DawgOptions) (*Dawg, error) {
	sorted, err := SortWords(append([]string(nil), words...), alphabet)
	if err != nil {
		return nil, err
	}
	builder := NewDawgBuilder(alphabet)
	for _, word := range sorted {
		if err := builder.Insert(word); err != nil {
			return nil, err
		}
	}
	data, err := builder.Pack()
	if err != nil {
		return nil, err
	}
	return NewDawg(data, alphabet, opts)
}
