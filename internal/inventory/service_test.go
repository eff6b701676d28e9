// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistwell/cardsync/internal/inventory"
	"github.com/mistwell/cardsync/internal/shopify"
)

// fakeLister counts catalog walks and can be made to fail.
type fakeLister struct {
	mu       sync.Mutex
	products []shopify.Product
	err      error
	calls    int
}

func (f *fakeLister) ListCardProducts(_ context.Context) ([]shopify.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeClock is a mutable time source for debounce and TTL assertions.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func catalogProduct() shopify.Product {
	return shopify.Product{
		ID:     "gid://shopify/Product/1",
		Title:  "Sol Ring [C16-222]",
		Handle: "sol-ring-c16",
		Metafields: map[string]string{
			"scryfall_id":      "id-solring",
			"oracle_id":        "oracle-solring",
			"card_name":        "Sol Ring",
			"set_code":         "c16",
			"collector_number": "222",
		},
		Variants: []shopify.Variant{
			{
				ID:              "gid://shopify/ProductVariant/11",
				InventoryItemID: "gid://shopify/InventoryItem/21",
				Price:           "2.50",
				Quantity:        5,
				Condition:       "Near Mint",
			},
		},
	}
}

func newTestService(t *testing.T, lister *fakeLister, clock *fakeClock) (*inventory.Service, *inventory.Overlay) {
	t.Helper()

	overlay := inventory.NewOverlay()
	path := filepath.Join(t.TempDir(), "inventory-snapshot.json")
	service := inventory.NewService(lister, overlay, path, clock.Now, slog.New(slog.DiscardHandler))
	return service, overlay
}

/*
TestService_TriggerRebuild_Debounce checks that webhook bursts coalesce: one
rebuild per debounce window, and a fresh window allows the next.
*/
func TestService_TriggerRebuild_Debounce(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{products: []shopify.Product{catalogProduct()}}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

	service, _ := newTestService(t, lister, clock)

	ran, err := service.TriggerRebuild(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, lister.callCount())

	// Second trigger inside the window is acknowledged with no walk.
	ran, err = service.TriggerRebuild(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, lister.callCount())

	// Past the window the next trigger runs again.
	clock.Advance(11 * time.Minute)
	ran, err = service.TriggerRebuild(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, lister.callCount())
}

/*
TestService_TriggerRebuild_FailureDoesNotAdvanceWindow checks that a failed
rebuild leaves the debounce timestamp alone so the next trigger retries.
*/
func TestService_TriggerRebuild_FailureDoesNotAdvanceWindow(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{err: errors.New("catalog unavailable")}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

	service, _ := newTestService(t, lister, clock)

	_, err := service.TriggerRebuild(ctx)
	require.Error(t, err)

	// Same instant: the failed attempt must not have armed the debounce.
	lister.err = nil
	lister.products = []shopify.Product{catalogProduct()}

	ran, err := service.TriggerRebuild(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
}

/*
TestService_Rebuild_ServesFreshSnapshot checks the rebuild → bulk flow,
including statistics and minor-unit prices.
*/
func TestService_Rebuild_ServesFreshSnapshot(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{products: []shopify.Product{catalogProduct()}}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

	service, _ := newTestService(t, lister, clock)

	total, err := service.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	snapshot, err := service.Bulk(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Data, 1)

	row := snapshot.Data[0]
	assert.Equal(t, "id-solring", row.ScryfallID)
	assert.Equal(t, 250, row.StoreInfo.PriceMinor)
	assert.Equal(t, 5, row.StoreInfo.Quantity)
	assert.Equal(t, 1, snapshot.Statistics.InStock)
	assert.Equal(t, 1, snapshot.Statistics.UniqueCards)
}

/*
TestService_Lookup_OverlayAffectsCartPolicy checks that a webhook delta
draining stock blocks the cart pick while the stock lookup still reports the
listing with merged quantities.
*/
func TestService_Lookup_OverlayAffectsCartPolicy(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{products: []shopify.Product{catalogProduct()}}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

	service, overlay := newTestService(t, lister, clock)

	_, err := service.Rebuild(ctx)
	require.NoError(t, err)

	query := inventory.Query{ScryfallID: "id-solring"}

	// Before the delta the cart pick succeeds.
	match, err := service.Lookup(ctx, query, inventory.ModeCart)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 5, match.StoreInfo.Quantity)

	// Sold out between rebuilds.
	overlay.Set(inventory.OverlayEntry{
		InventoryItemID: "gid://shopify/InventoryItem/21",
		AvailableQty:    0,
		UpdatedAt:       clock.Now(),
	})

	match, err = service.Lookup(ctx, query, inventory.ModeCart)
	require.NoError(t, err)
	assert.Nil(t, match)

	match, err = service.Lookup(ctx, query, inventory.ModeStock)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Zero(t, match.StoreInfo.Quantity)
	assert.False(t, match.StoreInfo.InStock)
}

/*
TestService_ColdStartLoadsPersistedSnapshot checks that a restarted process
serves the document persisted by a previous rebuild.
*/
func TestService_ColdStartLoadsPersistedSnapshot(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{products: []shopify.Product{catalogProduct()}}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

	overlay := inventory.NewOverlay()
	path := filepath.Join(t.TempDir(), "inventory-snapshot.json")

	first := inventory.NewService(lister, overlay, path, clock.Now, slog.New(slog.DiscardHandler))
	_, err := first.Rebuild(ctx)
	require.NoError(t, err)

	// Fresh process, same snapshot path, no rebuild.
	second := inventory.NewService(lister, inventory.NewOverlay(), path, clock.Now, slog.New(slog.DiscardHandler))

	snapshot, err := second.Bulk(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.TotalCards)
	assert.Equal(t, 1, lister.callCount(), "cold start must not walk the catalog")
}

/*
TestService_NoSnapshotAnywhere checks the empty cold-start error path.
*/
func TestService_NoSnapshotAnywhere(t *testing.T) {
	lister := &fakeLister{}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

	service, _ := newTestService(t, lister, clock)

	_, err := service.Bulk(context.Background())
	require.Error(t, err)

	_, err = service.Lookup(context.Background(), inventory.Query{Name: "Sol Ring"}, inventory.ModeStock)
	require.Error(t, err)
}
