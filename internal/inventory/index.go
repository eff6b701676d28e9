// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory

import (
	"strings"

	"github.com/mistwell/cardsync/pkg/cardname"
)

// Index holds the four lookup maps built from one snapshot generation.
//
// # Invariants
//
//   - Every listing with a populated identifier appears in the corresponding map.
//   - An Index is immutable after Build; refreshes build a NEW Index and swap
//     the pointer, so readers never observe a partially built structure.
type Index struct {
	// byID maps exact Scryfall printing id to its single listing group.
	// Multiple condition/finish variants of one printing share the id, so
	// even the "1:1" index keeps a slice and serves the cheapest in-stock.
	byID map[string][]*Listing

	// byOracle groups all printings sharing a canonical (oracle) identity.
	byOracle map[string][]*Listing

	// bySetNumber maps "set/number" to the listings of that exact printing.
	bySetNumber map[string][]*Listing

	// byName groups listings under the normalized card name.
	byName map[string][]*Listing
}

// BuildIndex constructs all four maps in a single pass over the snapshot.
func BuildIndex(snapshot *Snapshot) *Index {
	index := &Index{
		byID:        make(map[string][]*Listing),
		byOracle:    make(map[string][]*Listing),
		bySetNumber: make(map[string][]*Listing),
		byName:      make(map[string][]*Listing),
	}

	for i := range snapshot.Data {
		listing := &snapshot.Data[i]

		if listing.ScryfallID != "" {
			index.byID[strings.ToLower(listing.ScryfallID)] = append(index.byID[strings.ToLower(listing.ScryfallID)], listing)
		}

		if listing.OracleID != "" {
			index.byOracle[strings.ToLower(listing.OracleID)] = append(index.byOracle[strings.ToLower(listing.OracleID)], listing)
		}

		if listing.SetCode != "" && listing.CollectorNumber != "" {
			key := setNumberKey(listing.SetCode, listing.CollectorNumber)
			index.bySetNumber[key] = append(index.bySetNumber[key], listing)
		}

		if listing.Name != "" {
			key := cardname.Normalize(listing.Name)
			index.byName[key] = append(index.byName[key], listing)
		}
	}

	return index
}

// setNumberKey builds the composite key for the (set, collector number) map.
func setNumberKey(setCode, number string) string {
	return strings.ToLower(setCode) + "/" + strings.TrimLeft(strings.ToLower(number), "0")
}

// Size reports how many distinct printings the id map holds.
func (index *Index) Size() int {
	return len(index.byID)
}
