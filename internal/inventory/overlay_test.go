// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mistwell/cardsync/internal/inventory"
)

/*
TestOverlay_ApplyMergesDelta checks that a recorded delta overrides the
snapshot's quantity and stock flag without touching other fields.
*/
func TestOverlay_ApplyMergesDelta(t *testing.T) {
	overlay := inventory.NewOverlay()
	now := time.Now().UTC()

	overlay.Set(inventory.OverlayEntry{
		InventoryItemID: "gid://shopify/InventoryItem/1",
		AvailableQty:    0,
		UpdatedAt:       now,
	})

	base := listing("id-a", "oracle-a", "Sol Ring", "c16", "222", 250, 5)
	base.StoreInfo.InventoryItemID = "gid://shopify/InventoryItem/1"

	merged := overlay.Apply(base)
	assert.Zero(t, merged.StoreInfo.Quantity)
	assert.False(t, merged.StoreInfo.InStock)
	assert.Equal(t, 250, merged.StoreInfo.PriceMinor)

	// The input listing is untouched; Apply returns a copy.
	assert.Equal(t, 5, base.StoreInfo.Quantity)
	assert.True(t, base.StoreInfo.InStock)
}

/*
TestOverlay_PassThroughWithoutDelta checks listings with no recorded delta
come back unchanged.
*/
func TestOverlay_PassThroughWithoutDelta(t *testing.T) {
	overlay := inventory.NewOverlay()

	base := listing("id-a", "oracle-a", "Sol Ring", "c16", "222", 250, 5)
	merged := overlay.Apply(base)

	assert.Equal(t, base, merged)
}

/*
TestOverlay_StaleEventIgnored checks last-write-wins ordering by event
timestamp: an out-of-order older delivery must not regress the entry.
*/
func TestOverlay_StaleEventIgnored(t *testing.T) {
	overlay := inventory.NewOverlay()
	now := time.Now().UTC()

	overlay.Set(inventory.OverlayEntry{
		InventoryItemID: "gid://shopify/InventoryItem/1",
		AvailableQty:    3,
		UpdatedAt:       now,
	})
	overlay.Set(inventory.OverlayEntry{
		InventoryItemID: "gid://shopify/InventoryItem/1",
		AvailableQty:    9,
		UpdatedAt:       now.Add(-time.Minute),
	})

	base := listing("id-a", "oracle-a", "Sol Ring", "c16", "222", 250, 5)
	base.StoreInfo.InventoryItemID = "gid://shopify/InventoryItem/1"

	merged := overlay.Apply(base)
	assert.Equal(t, 3, merged.StoreInfo.Quantity)
	assert.Equal(t, 1, overlay.Len())
}

/*
TestOverlay_ApplyAll checks the bulk merge across a full snapshot slice.
*/
func TestOverlay_ApplyAll(t *testing.T) {
	overlay := inventory.NewOverlay()
	now := time.Now().UTC()

	overlay.Set(inventory.OverlayEntry{
		InventoryItemID: "gid://shopify/InventoryItem/id-b",
		AvailableQty:    1,
		UpdatedAt:       now,
	})

	listings := []inventory.Listing{
		listing("id-a", "oracle-a", "Sol Ring", "c16", "222", 250, 5),
		listing("id-b", "oracle-b", "Counterspell", "7ed", "67", 90, 0),
	}

	merged := overlay.ApplyAll(listings)
	assert.Equal(t, 5, merged[0].StoreInfo.Quantity)
	assert.Equal(t, 1, merged[1].StoreInfo.Quantity)
	assert.True(t, merged[1].StoreInfo.InStock)

	// Source slice is untouched.
	assert.Zero(t, listings[1].StoreInfo.Quantity)
}
