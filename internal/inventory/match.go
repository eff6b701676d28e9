// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory

import (
	"sort"
	"strings"

	"github.com/mistwell/cardsync/internal/platform/constants"
	"github.com/mistwell/cardsync/pkg/cardname"
)

// # Matching Engine

// Mode selects the matching policy variant.
type Mode int

const (
	// ModeStock is the plain stock-lookup policy: group steps fall back to
	// out-of-stock listings when nothing purchasable is found, and the fuzzy
	// name step is disabled.
	ModeStock Mode = iota

	// ModeCart is the cart-assembly policy: only in-stock listings with
	// sufficient quantity qualify, and the fuzzy name step is enabled.
	ModeCart
)

// Query is a caller-supplied card reference. Any combination of identifiers
// may be set; resolution follows a strict priority order.
type Query struct {
	ScryfallID      string `json:"scryfall_id,omitempty"`
	OracleID        string `json:"oracle_id,omitempty"`
	SetCode         string `json:"set,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
	Name            string `json:"name,omitempty"`

	// Quantity is the requested purchase quantity (defaults to 1).
	Quantity int `json:"quantity,omitempty"`
}

/*
Match resolves a query against the index using the fixed priority cascade.

Description: Steps are tried in strict order, each short-circuiting on a hit:

 1. Exact printing id.
 2. (set code, collector number).
 3. Canonical-id group: cheapest in-stock listing meeting the quantity
    threshold; ModeStock falls back to any listing when none is in stock.
 4. Name group: same policy as step 3.
 5. Fuzzy name (substring, either direction) — ModeCart only.

No match at any step is an ordinary outcome, not an error.

Parameters:
  - query: Query (at least one identifier populated)
  - mode: Mode (stock-lookup vs cart-assembly policy)

Returns:
  - *Listing: The matched listing, or nil
*/
func (index *Index) Match(query Query, mode Mode) *Listing {
	needed := query.Quantity
	if needed < constants.MinMatchQuantity {
		needed = constants.MinMatchQuantity
	}

	// 1. Exact printing id
	if query.ScryfallID != "" {
		if group := index.byID[strings.ToLower(query.ScryfallID)]; len(group) > 0 {
			if match := pickFromGroup(group, needed, mode); match != nil {
				return match
			}
		}
	}

	// 2. Set + collector number
	if query.SetCode != "" && query.CollectorNumber != "" {
		if group := index.bySetNumber[setNumberKey(query.SetCode, query.CollectorNumber)]; len(group) > 0 {
			if match := pickFromGroup(group, needed, mode); match != nil {
				return match
			}
		}
	}

	// 3. Canonical-id group (all printings)
	if query.OracleID != "" {
		if match := pickFromGroup(index.byOracle[strings.ToLower(query.OracleID)], needed, mode); match != nil {
			return match
		}
	}

	// 4. Name group
	if query.Name != "" {
		if match := pickFromGroup(index.byName[cardname.Normalize(query.Name)], needed, mode); match != nil {
			return match
		}
	}

	// 5. Fuzzy name, cart-assembly only
	if mode == ModeCart && query.Name != "" {
		if match := index.fuzzyName(query.Name, needed); match != nil {
			return match
		}
	}

	return nil
}

// pickFromGroup applies the in-stock/cheapest-first policy to one group.
//
// ModeCart requires an in-stock listing; ModeStock falls back to the cheapest
// listing of any stock level so callers can still display the card.
func pickFromGroup(group []*Listing, needed int, mode Mode) *Listing {
	if len(group) == 0 {
		return nil
	}

	inStock := make([]*Listing, 0, len(group))
	for _, listing := range group {
		if listing.StoreInfo.InStock && listing.StoreInfo.Quantity >= needed {
			inStock = append(inStock, listing)
		}
	}

	if len(inStock) > 0 {
		return cheapest(inStock)
	}

	if mode == ModeStock {
		return cheapest(group)
	}

	return nil
}

// cheapest returns the lowest-priced listing of a non-empty group.
func cheapest(group []*Listing) *Listing {
	sorted := make([]*Listing, len(group))
	copy(sorted, group)

	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].StoreInfo.PriceMinor < sorted[b].StoreInfo.PriceMinor
	})

	return sorted[0]
}

// fuzzyName scans all indexed names for a substring match in either
// direction and applies the cart policy to the union of matching groups.
func (index *Index) fuzzyName(name string, needed int) *Listing {
	normalized := cardname.Normalize(name)
	if normalized == "" {
		return nil
	}

	var candidates []*Listing
	for indexed, group := range index.byName {
		if strings.Contains(indexed, normalized) || strings.Contains(normalized, indexed) {
			candidates = append(candidates, group...)
		}
	}

	return pickFromGroup(candidates, needed, ModeCart)
}
