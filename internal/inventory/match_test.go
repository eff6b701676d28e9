// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistwell/cardsync/internal/inventory"
)

// listing builds a snapshot row with the fields matching exercises.
func listing(scryfallID, oracleID, name, set, number string, priceMinor, quantity int) inventory.Listing {
	return inventory.Listing{
		ScryfallID:      scryfallID,
		OracleID:        oracleID,
		Name:            name,
		SetCode:         set,
		CollectorNumber: number,
		StoreInfo: inventory.StoreInfo{
			ProductID:       "gid://shopify/Product/" + scryfallID,
			InventoryItemID: "gid://shopify/InventoryItem/" + scryfallID,
			PriceMinor:      priceMinor,
			Quantity:        quantity,
			InStock:         quantity > 0,
			Handle:          "handle-" + scryfallID,
		},
	}
}

func buildTestIndex(listings ...inventory.Listing) *inventory.Index {
	snapshot := &inventory.Snapshot{GeneratedAt: time.Now().UTC(), Data: listings}
	return inventory.BuildIndex(snapshot)
}

/*
TestIndex_Size counts listings with a printing id; rows without one are served
through the other maps but do not contribute to the size.
*/
func TestIndex_Size(t *testing.T) {
	unidentified := listing("", "", "Mystery Booster Playtest Card", "cmb1", "1", 100, 1)

	index := buildTestIndex(
		listing("id-bolt", "oracle-bolt", "Lightning Bolt", "a25", "123", 500, 3),
		listing("id-ring", "oracle-ring", "Sol Ring", "cmd", "222", 250, 5),
		unidentified,
	)

	assert.Equal(t, 2, index.Size())
}

/*
TestIndex_Match_ExactIDBeatsCheaperAlternatives checks cascade priority: an
exact printing-id hit wins even when a cheaper printing shares the name.
*/
func TestIndex_Match_ExactIDBeatsCheaperAlternatives(t *testing.T) {
	index := buildTestIndex(
		listing("id-expensive", "oracle-bolt", "Lightning Bolt", "a25", "123", 500, 3),
		listing("id-cheap", "oracle-bolt", "Lightning Bolt", "m11", "146", 100, 3),
	)

	match := index.Match(inventory.Query{
		ScryfallID: "id-expensive",
		Name:       "Lightning Bolt",
	}, inventory.ModeStock)

	require.NotNil(t, match)
	assert.Equal(t, "id-expensive", match.ScryfallID)
}

/*
TestIndex_Match_SetNumberIgnoresZeroPadding checks that zero-padded collector
numbers on either side of the lookup still meet in one bucket.
*/
func TestIndex_Match_SetNumberIgnoresZeroPadding(t *testing.T) {
	index := buildTestIndex(
		listing("id-drake", "oracle-drake", "Academy Drake", "dom", "048", 30, 2),
	)

	tests := []struct {
		name   string
		number string
	}{
		{"padded_query", "048"},
		{"stripped_query", "48"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := index.Match(inventory.Query{SetCode: "DOM", CollectorNumber: tt.number}, inventory.ModeStock)
			require.NotNil(t, match)
			assert.Equal(t, "id-drake", match.ScryfallID)
		})
	}
}

/*
TestIndex_Match_GroupPrefersInStockOverCheaper checks the group policy: an
in-stock listing wins over a cheaper out-of-stock one.
*/
func TestIndex_Match_GroupPrefersInStockOverCheaper(t *testing.T) {
	index := buildTestIndex(
		listing("id-oos", "oracle-solring", "Sol Ring", "c16", "222", 100, 0),
		listing("id-stocked", "oracle-solring", "Sol Ring", "cm2", "184", 250, 5),
	)

	match := index.Match(inventory.Query{OracleID: "oracle-solring"}, inventory.ModeCart)
	require.NotNil(t, match)
	assert.Equal(t, "id-stocked", match.ScryfallID)
	assert.Equal(t, 250, match.StoreInfo.PriceMinor)
}

/*
TestIndex_Match_ModeFallbackOnExhaustedStock checks the mode split when every
listing in the group is out of stock: stock lookups fall back to the cheapest
listing, cart assembly reports no match.
*/
func TestIndex_Match_ModeFallbackOnExhaustedStock(t *testing.T) {
	index := buildTestIndex(
		listing("id-a", "oracle-crow", "Storm Crow", "9ed", "100", 120, 0),
		listing("id-b", "oracle-crow", "Storm Crow", "5ed", "129", 80, 0),
	)

	query := inventory.Query{Name: "Storm Crow"}

	stockMatch := index.Match(query, inventory.ModeStock)
	require.NotNil(t, stockMatch)
	assert.Equal(t, "id-b", stockMatch.ScryfallID, "cheapest listing expected")

	assert.Nil(t, index.Match(query, inventory.ModeCart))
}

/*
TestIndex_Match_QuantityThreshold checks that cart assembly skips listings
that cannot cover the requested quantity.
*/
func TestIndex_Match_QuantityThreshold(t *testing.T) {
	index := buildTestIndex(
		listing("id-few", "oracle-ponder", "Ponder", "m12", "66", 50, 2),
		listing("id-many", "oracle-ponder", "Ponder", "c18", "98", 90, 10),
	)

	match := index.Match(inventory.Query{Name: "Ponder", Quantity: 4}, inventory.ModeCart)
	require.NotNil(t, match)
	assert.Equal(t, "id-many", match.ScryfallID)
}

/*
TestIndex_Match_NameNormalization checks that punctuation and accent variants
resolve through the normalized name index.
*/
func TestIndex_Match_NameNormalization(t *testing.T) {
	index := buildTestIndex(
		listing("id-vault", "oracle-vault", "Lim-Dûl's Vault", "all", "105", 300, 1),
	)

	match := index.Match(inventory.Query{Name: "lim-duls vault"}, inventory.ModeStock)
	require.NotNil(t, match)
	assert.Equal(t, "id-vault", match.ScryfallID)
}

/*
TestIndex_Match_FuzzyNameCartOnly checks that the substring fallback fires
for cart assembly and stays off for plain stock lookups.
*/
func TestIndex_Match_FuzzyNameCartOnly(t *testing.T) {
	index := buildTestIndex(
		listing("id-ragavan", "oracle-ragavan", "Ragavan, Nimble Pilferer", "mh2", "138", 4500, 2),
	)

	partial := inventory.Query{Name: "Ragavan"}

	cartMatch := index.Match(partial, inventory.ModeCart)
	require.NotNil(t, cartMatch)
	assert.Equal(t, "id-ragavan", cartMatch.ScryfallID)

	assert.Nil(t, index.Match(partial, inventory.ModeStock))
}

/*
TestIndex_Match_NoIdentifiers checks the empty-query guard.
*/
func TestIndex_Match_NoIdentifiers(t *testing.T) {
	index := buildTestIndex(
		listing("id-a", "oracle-a", "Sol Ring", "c16", "222", 250, 5),
	)

	assert.Nil(t, index.Match(inventory.Query{}, inventory.ModeStock))
	assert.Nil(t, index.Match(inventory.Query{}, inventory.ModeCart))
}
