// Copyright (c) 2026 Mistwell Games. All rights reserved.

package scryfall

import "strings"

// # Set Code Resolution
//
// Product titles carry storefront and distributor set codes that the card
// database does not always recognize. Two static tables bridge the gap:
//
//   - setCodeOverrides maps a storefront code to the single canonical code.
//   - ambiguousSetCodes maps a code to an ORDERED list of candidate canonical
//     codes, for promotional codes that genuinely straddle two real sets.
//     Candidates are tried in list order and the first lookup hit wins.
//
// Both tables are data, not logic: adding a new quirky code is a one-line
// change here and nowhere else.

// setCodeOverrides maps storefront-specific set codes to canonical codes.
var setCodeOverrides = map[string]string{
	// Gatherer-era codes still present in older product titles.
	"dar": "dom",
	"6e":  "6ed",
	"7e":  "7ed",

	// Distributor shorthand for Mystery Booster.
	"mys": "mb1",

	// Commander precon singles tagged with the storefront's own code.
	"cmd13": "c13",
	"cmd16": "c16",
}

// ambiguousSetCodes maps promotional codes to ordered candidate lists.
var ambiguousSetCodes = map[string][]string{
	// "The List" reprints were distributed both under their own code and
	// inside Mystery Booster packs; either set may hold the printing.
	"list": {"plst", "mb1"},

	// Secret Lair drops split between the main series and Ultimate Edition.
	"sl": {"sld", "slu"},
}

// ResolveSetCode applies the single-code override table.
// Unknown codes resolve to themselves (identity).
func ResolveSetCode(code string) string {
	lower := strings.ToLower(code)
	if canonical, ok := setCodeOverrides[lower]; ok {
		return canonical
	}
	return lower
}

// AmbiguousCandidates returns the ordered candidate list for an ambiguous
// code, or nil when the code maps to at most one set.
func AmbiguousCandidates(code string) []string {
	return ambiguousSetCodes[strings.ToLower(code)]
}
