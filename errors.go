// errors.go
//
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file declares the error types that are returned by the
// DAWG builder, the binary codec and the move selection logic.

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
)

// Kinds of build errors. A *BuildError matches its kind via errors.Is().
var (
	ErrLengthExceeded = errors.New("word too long")
	ErrForeignLetter  = errors.New("word contains a letter outside the alphabet")
	ErrOutOfOrder     = errors.New("words not in ascending order")
	ErrEmptyWord      = errors.New("empty word")
)

// ErrNoLegalMove is returned by a move selection policy when no
// candidate tile move survives. The caller is expected to fall back
// to an exchange or a pass.
var ErrNoLegalMove = errors.New("no legal move")

// BuildError is returned by the DawgBuilder when a word cannot be
// inserted into the graph
type BuildError struct {
	Kind error
	Word string
	// Line is the 1-based line number within a word list, or 0
	// if the word did not come from a word list
	Line int
}

func (e *BuildError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: '%s'", e.Line, e.Kind, e.Word)
	}
	return fmt.Sprintf("%v: '%s'", e.Kind, e.Word)
}

func (e *BuildError) Unwrap() error {
	return e.Kind
}

// FormatError indicates a corrupt or mismatched binary DAWG, or an
// internal inconsistency while packing one
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dawg format error at offset %d: %s", e.Offset, e.Reason)
}

// formatPanic aborts a query that has run into a malformed buffer.
// The DAWG is trusted, build-time validated data, so this should never
// happen against a buffer produced by our own packer.
func formatPanic(offset int, reason string) {
	panic(&FormatError{Offset: offset, Reason: reason})
}
