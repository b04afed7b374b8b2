// builder_test.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
// This file contains tests for the DAWG builder and packer

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
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLocale = MustBuiltinLocale("en_US")

func buildTestDawg(t testing.TB, words ...string) *Dawg {
	t.Helper()
	dawg, err := BuildDawg(testLocale.Alphabet, words, nil)
	require.NoError(t, err)
	return dawg
}

func packWords(t *testing.T, words ...string) (*DawgBuilder, []byte) {
	t.Helper()
	builder := NewDawgBuilder(testLocale.Alphabet)
	for _, word := range words {
		require.NoError(t, builder.Insert(word))
	}
	data, err := builder.Pack()
	require.NoError(t, err)
	return builder, data
}

func TestBuilderRoundTrip(t *testing.T) {
	file, err := os.Open("testdata/words.txt")
	require.NoError(t, err)
	defer file.Close()
	words, err := ReadWordList(file, testLocale.Alphabet)
	require.NoError(t, err)
	require.NotEmpty(t, words)
	dawg := buildTestDawg(t, words...)
	for _, word := range words {
		if !dawg.Find(word) {
			t.Errorf("Did not find word '%v' that should be in the DAWG", word)
		}
	}
	inList := make(map[string]bool, len(words))
	for _, word := range words {
		inList[word] = true
	}
	negativeCases := []string{
		"b", "tabsx", "cx", "dogz", "xyz", "tod", "toadss", "aaa", "tat", "s", "goa",
	}
	for _, word := range negativeCases {
		if inList[word] {
			continue
		}
		if dawg.Find(word) {
			t.Errorf("Found word '%v' that should not be in the DAWG", word)
		}
	}
}

func TestBuilderDeterministic(t *testing.T) {
	words := []string{"bar", "bars", "bat", "bats", "car", "cars", "cat", "cats", "do", "dog"}
	_, first := packWords(t, words...)
	_, second := packWords(t, words...)
	assert.Equal(t, first, second)
}

func TestPackFormat(t *testing.T) {
	// A root with two multi-letter edges that lead nowhere.
	// English letter indices: a=0 c=2 d=3 g=6 o=14 s=18 t=19
	builder, data := packWords(t, "cat", "cats", "do", "dog", "dogs")
	assert.Equal(t, []byte{
		0x02,
		0x04, 0x02, 0x00, 0x13 | 0x80, 0x12 | 0x80,
		0x04, 0x03, 0x0e | 0x80, 0x06 | 0x80, 0x12 | 0x80,
	}, data)
	assert.Equal(t, 1, builder.NumNodes())
	assert.Equal(t, 5, builder.NumWords())

	// The 'ba' and 'ca' branches share a single node, which is
	// written after the root and referenced twice
	builder, data = packWords(t, "bar", "bars", "bat", "bats", "car", "cars", "cat", "cats")
	assert.Equal(t, []byte{
		0x02,
		0x02, 0x01, 0x00, 0x0f, 0x00, 0x00, 0x00,
		0x02, 0x02, 0x00, 0x0f, 0x00, 0x00, 0x00,
		0x02,
		0x02, 0x11 | 0x80, 0x12 | 0x80,
		0x02, 0x13 | 0x80, 0x12 | 0x80,
	}, data)
	assert.Equal(t, 2, builder.NumNodes())
	assert.Equal(t, 4, builder.NumEdges())

	// A single-letter edge to nowhere
	_, data = packWords(t, "a")
	assert.Equal(t, []byte{0x01, 0x00 | 0x40 | 0x80}, data)
}

func TestWriteText(t *testing.T) {
	builder, _ := packWords(t, "bar", "bars", "bat", "bats", "car", "cars", "cat", "cats")
	var buf bytes.Buffer
	require.NoError(t, builder.WriteText(&buf))
	assert.Equal(t, "ba:2_ca:2\nr|s:0_t|s:0\n", buf.String())

	builder, _ = packWords(t, "a", "act", "at")
	buf.Reset()
	require.NoError(t, builder.WriteText(&buf))
	assert.Equal(t, "a:2\n|ct:0_t:0\n", buf.String())
}

func TestBuilderErrors(t *testing.T) {
	builder := NewDawgBuilder(testLocale.Alphabet)
	require.NoError(t, builder.Insert("dog"))

	// Duplicates are skipped
	require.NoError(t, builder.Insert("dog"))
	assert.Equal(t, 1, builder.NumWords())

	cases := []struct {
		word string
		kind error
	}{
		{"cat", ErrOutOfOrder},
		{"dogé", ErrForeignLetter},
		{"", ErrEmptyWord},
		{strings.Repeat("z", MaxWordLen), ErrLengthExceeded},
	}
	for _, c := range cases {
		err := builder.Insert(c.word)
		if !errors.Is(err, c.kind) {
			t.Errorf("Insert('%v') returned %v, expected %v", c.word, err, c.kind)
		}
		var be *BuildError
		if assert.ErrorAs(t, err, &be) {
			assert.Equal(t, c.word, be.Word)
		}
	}

	// The longest word allowed
	require.NoError(t, builder.Insert(strings.Repeat("z", MaxWordLen-1)))
	builder.Finish()
	assert.Error(t, builder.Insert("zzzz"))
}

func TestBuildFromWordList(t *testing.T) {
	// Unsorted input is an error unless sorting is requested
	input := "dog\ncat\ncats\n"
	_, err := BuildFromWordList(strings.NewReader(input), testLocale.Alphabet, false)
	assert.ErrorIs(t, err, ErrOutOfOrder)
	var be *BuildError
	if assert.ErrorAs(t, err, &be) {
		assert.Equal(t, 2, be.Line)
	}

	builder, err := BuildFromWordList(strings.NewReader(input), testLocale.Alphabet, true)
	require.NoError(t, err)
	assert.Equal(t, 3, builder.NumWords())
	data, err := builder.Pack()
	require.NoError(t, err)
	dawg, err := NewDawg(data, testLocale.Alphabet, nil)
	require.NoError(t, err)
	assert.True(t, dawg.Find("cats"))
	assert.False(t, dawg.Find("ca"))
}
