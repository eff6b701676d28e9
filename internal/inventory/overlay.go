// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory

import (
	"sync"
	"time"
)

// OverlayEntry is one webhook-sourced stock delta.
type OverlayEntry struct {
	InventoryItemID string    `json:"inventory_item_id"`
	AvailableQty    int       `json:"available_qty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Overlay holds recent stock deltas merged onto the periodically rebuilt
// snapshot at serve time.
//
// # Lifecycle
//
// Entries are created/overwritten per webhook event (last-write-wins per
// inventory item) and read on every serve. They are never explicitly deleted;
// growth is bounded only by the catalog's inventory-item cardinality, which
// is acceptable for a single store's lifetime between deploys.
type Overlay struct {
	mu      sync.RWMutex
	entries map[string]OverlayEntry
}

// NewOverlay creates an empty [Overlay].
func NewOverlay() *Overlay {
	return &Overlay{entries: make(map[string]OverlayEntry)}
}

// Set records a stock delta, overwriting any previous entry for the item.
// Stale events (older UpdatedAt than the current entry) are ignored.
func (overlay *Overlay) Set(entry OverlayEntry) {
	overlay.mu.Lock()
	defer overlay.mu.Unlock()

	if existing, ok := overlay.entries[entry.InventoryItemID]; ok {
		if entry.UpdatedAt.Before(existing.UpdatedAt) {
			return
		}
	}
	overlay.entries[entry.InventoryItemID] = entry
}

// Len reports the number of tracked deltas.
func (overlay *Overlay) Len() int {
	overlay.mu.RLock()
	defer overlay.mu.RUnlock()
	return len(overlay.entries)
}

// Apply returns a copy of the listing with any matching delta merged onto
// its quantity and stock flag. Listings without a delta pass through as-is.
func (overlay *Overlay) Apply(listing Listing) Listing {
	overlay.mu.RLock()
	entry, ok := overlay.entries[listing.StoreInfo.InventoryItemID]
	overlay.mu.RUnlock()

	if !ok {
		return listing
	}

	listing.StoreInfo.Quantity = entry.AvailableQty
	listing.StoreInfo.InStock = entry.AvailableQty > 0
	return listing
}

// ApplyAll merges deltas onto every listing, returning a new slice.
func (overlay *Overlay) ApplyAll(listings []Listing) []Listing {
	merged := make([]Listing, len(listings))
	for i, listing := range listings {
		merged[i] = overlay.Apply(listing)
	}
	return merged
}
