// dawg_test.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
// This file contains tests for DAWG queries

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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWordsDawg(t testing.TB) *Dawg {
	t.Helper()
	file, err := os.Open("testdata/words.txt")
	require.NoError(t, err)
	defer file.Close()
	words, err := ReadWordList(file, testLocale.Alphabet)
	require.NoError(t, err)
	return buildTestDawg(t, words...)
}

func TestDawg(t *testing.T) {
	dawg := buildTestDawg(t, "do", "dog", "dogs", "cat", "cats")
	positiveCases := []string{"do", "dog", "dogs", "cat", "cats"}
	negativeCases := []string{"d", "ca", "cxts", "doxs", "dogsx", "cast", "", "dót"}
	for _, word := range positiveCases {
		if !dawg.Find(word) {
			t.Errorf("Did not find word '%v' that should be in the DAWG", word)
		}
	}
	for _, word := range negativeCases {
		if dawg.Find(word) {
			t.Errorf("Found word '%v' that should not be in the DAWG", word)
		}
	}
	results := dawg.Permute("acst", 2)
	assert.Contains(t, results, "cat")
	assert.Contains(t, results, "cats")
	assert.NotContains(t, results, "dog")
}

func TestPermute(t *testing.T) {
	dawg := buildTestDawg(t, "cat", "cats", "cats", "act", "a", "at")
	results := dawg.Permute("cats", 1)
	if diff := cmp.Diff([]string{"cats", "act", "cat", "at", "a"}, results); diff != "" {
		t.Errorf("Permute() returns incorrect result (-want +got):\n%s", diff)
	}
	results = dawg.Permute("cats", 3)
	if diff := cmp.Diff([]string{"cats", "act", "cat"}, results); diff != "" {
		t.Errorf("Permute() returns incorrect result (-want +got):\n%s", diff)
	}
	// A blank can stand for any letter, but only once
	results = dawg.Permute("?at", 4)
	assert.Empty(t, results)
	results = dawg.Permute("c?ts", 4)
	assert.Equal(t, []string{"cats"}, results)

	words := loadWordsDawg(t)
	results = words.Permute("dog?", 4)
	if diff := cmp.Diff([]string{"dogs", "gods"}, results); diff != "" {
		t.Errorf("Permute() returns incorrect result (-want +got):\n%s", diff)
	}
}

func TestMatch(t *testing.T) {
	twoLetters := []string{"ab", "ad", "at", "be", "do", "go", "ox", "ta"}
	dawg := buildTestDawg(t, append([]string{"abs", "dog", "a", "oxen"}, twoLetters...)...)
	if diff := cmp.Diff(twoLetters, dawg.FindMatches("??")); diff != "" {
		t.Errorf("FindMatches() returns incorrect result (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"abs", "dog"}, dawg.Match("???"))
	assert.Equal(t, []string{"ab", "ad", "at"}, dawg.Match("a?"))
	assert.Equal(t, []string{"abs"}, dawg.Match("ab?"))
	assert.Equal(t, []string{"oxen"}, dawg.Match("o?e?"))
	assert.Empty(t, dawg.Match("x?"))
	assert.Empty(t, dawg.Match(""))
}

func TestFindMatchesLocale(t *testing.T) {
	locale := MustBuiltinLocale("is_IS")
	dawg, err := BuildDawg(locale.Alphabet, []string{"ás", "as", "öl", "ól", "ar"}, nil)
	require.NoError(t, err)
	// The DAWG order is the alphabet order, as is the
	// Icelandic collation for these words
	assert.Equal(t, []string{"ar", "as", "ás", "ól", "öl"}, dawg.Match("??"))
	assert.Equal(t, []string{"ar", "as", "ás", "ól", "öl"}, dawg.FindMatches("??"))
	assert.True(t, dawg.Find("ól"))
	assert.False(t, dawg.Find("ol"))
}

func TestCrossSet(t *testing.T) {
	dawg := buildTestDawg(t, "do", "dog", "dogs", "cat", "cats", "dot")
	alphabet := dawg.Alphabet()
	assert.Equal(t, "gt", alphabet.SetString(dawg.CrossSet([]rune("do"), nil)))
	assert.Equal(t, "d", alphabet.SetString(dawg.CrossSet(nil, []rune("og"))))
	assert.Equal(t, "g", alphabet.SetString(dawg.CrossSet([]rune("do"), []rune("s"))))
	assert.Equal(t, uint64(0), dawg.CrossSet([]rune("x"), nil))
	// Cached results are identical
	assert.Equal(t, "gt", alphabet.SetString(dawg.CrossSet([]rune("do"), nil)))
}

func TestValidate(t *testing.T) {
	_, data := packWords(t, "bar", "bars", "bat", "bats", "car", "cars", "cat", "cats")
	_, err := NewDawg(data, testLocale.Alphabet, nil)
	require.NoError(t, err)

	// Truncated buffer
	_, err = NewDawg(data[:len(data)-1], testLocale.Alphabet, nil)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)

	// Child offset beyond the end of the buffer
	corrupt := append([]byte(nil), data...)
	corrupt[4] = 0xff
	_, err = NewDawg(corrupt, testLocale.Alphabet, nil)
	assert.ErrorAs(t, err, &fe)

	// Letter index outside a smaller alphabet
	small := MustAlphabet("abc", testLocale.Alphabet.Language())
	_, err = NewDawg(data, small, nil)
	assert.ErrorAs(t, err, &fe)

	_, err = NewDawg(nil, testLocale.Alphabet, nil)
	assert.ErrorAs(t, err, &fe)
}

func TestQueryPanicsOnCorruption(t *testing.T) {
	_, data := packWords(t, "bar", "bars", "bat", "bats", "car", "cars", "cat", "cats")
	dawg, err := NewDawg(data, testLocale.Alphabet, &DawgOptions{NodeCacheSize: 16})
	require.NoError(t, err)
	// Cut off the shared node after validation
	dawg.b = data[:15]
	assert.Panics(t, func() { dawg.Find("bars") })
}

func TestLoadDawg(t *testing.T) {
	_, data := packWords(t, "cat", "cats", "do", "dog", "dogs")
	fileName := filepath.Join(t.TempDir(), "test.bin.dawg")
	require.NoError(t, os.WriteFile(fileName, data, 0o644))
	dawg, err := LoadDawg(fileName, testLocale.Alphabet, nil)
	require.NoError(t, err)
	assert.Equal(t, len(data), dawg.Size())
	assert.True(t, dawg.Find("dogs"))

	dawg, err = LoadDawgFS(os.DirFS(filepath.Dir(fileName)), "test.bin.dawg", testLocale.Alphabet, nil)
	require.NoError(t, err)
	assert.True(t, dawg.Find("cat"))

	_, err = LoadDawg(filepath.Join(t.TempDir(), "missing.bin.dawg"), testLocale.Alphabet, nil)
	assert.Error(t, err)
}

func TestLoadDawgLogsAtDebug(t *testing.T) {
	_, data := packWords(t, "do", "dog")
	fileName := filepath.Join(t.TempDir(), "quiet.bin.dawg")
	require.NoError(t, os.WriteFile(fileName, data, 0o644))
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)
	_, err := LoadDawg(fileName, testLocale.Alphabet, nil)
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err = LoadDawg(fileName, testLocale.Alphabet, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), "dawg loaded")
}

func BenchmarkDawg(b *testing.B) {
	// Define the permuter goroutine
	wordBase := loadWordsDawg(b)
	permuter := func(word string, ch chan int) {
		cnt := 0
		sumLength := 0
		for _, w := range wordBase.Permute(word, 2) {
			cnt++
			sumLength += len(w) // Use w
		}
		// Send the results back on this permuter's channel
		ch <- cnt
		ch <- sumLength
	}
	// We will permute four racks in each benchmark loop
	// iteration, using four parallel goroutines
	racks := []string{"?atsdog", "toad?se", "cab?sgo", "g??adot"}
	// Make the channels, one for each rack
	ch := make([]chan int, len(racks))
	for j := 0; j < len(ch); j++ {
		ch[j] = make(chan int)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Kick off the parallel permuters
		for j, rack := range racks {
			go permuter(rack, ch[j])
		}
		// Collect the results as they come back
		for _, c := range ch {
			<-c
			<-c
		}
	}
}
