// Copyright (c) 2026 Mistwell Games. All rights reserved.

// Package cardname normalizes trading-card names into stable lookup keys.
//
// # Usage
//
// The inventory name index and the fuzzy matcher both key on normalized names
// so that "Lim-Dûl's Vault", "lim-duls vault" and "Lim-Dul's Vault" all land
// in the same bucket. This package handles Unicode normalization, accent
// removal, and punctuation folding.
package cardname

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize converts an arbitrary card name into its canonical lookup key.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: û → u + combining circumflex).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Drops apostrophes and commas (printings disagree on both).
// 5. Collapses runs of whitespace into single spaces.
func Normalize(name string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, name)

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Fold punctuation that varies between printings
	result = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '’', ',':
			return -1
		}
		return r
	}, result)

	// 4. Collapse whitespace
	result = strings.Join(strings.Fields(result), " ")

	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
