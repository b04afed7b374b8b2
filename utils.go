// utils.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file contains helpers for rune slices used as racks.
// Navigators keep earlier racks on their stacks, so none of
// these functions modify their input.

package skrafl

import (
	"slices"

	"github.com/samber/lo"
)

// RemoveRune returns a copy of s without the first occurrence of r
func RemoveRune(s []rune, r rune) []rune {
	i := slices.Index(s, r)
	if i < 0 {
		return slices.Clone(s)
	}
	return slices.Concat(s[:i], s[i+1:])
}

// ContainsRune returns true if s contains r
func ContainsRune(s []rune, r rune) bool {
	return lo.Contains(s, r)
}

// appendRune returns a copy of s with r appended
func appendRune(s []rune, r rune) []rune {
	return append(slices.Clip(s), r)
}
