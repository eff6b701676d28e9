// Copyright (c) 2026 Mistwell Games. All rights reserved.

package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistwell/cardsync/internal/queue"
)

/*
TestMemoryStore_PutDeduplicates checks the one-slot-per-product invariant:
repeated events for one product collapse, last write wins.
*/
func TestMemoryStore_PutDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := queue.NewMemoryStore()

	first := queue.Entry{
		ProductID:  "gid://shopify/Product/1",
		Title:      "Sol Ring [C16-222]",
		EnqueuedAt: time.Now().UTC(),
	}
	second := first
	second.Title = "Sol Ring (Uncommon) [C16-222]"

	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))
	require.NoError(t, store.Put(ctx, queue.Entry{
		ProductID: "gid://shopify/Product/2",
		Title:     "Counterspell [7ED-67]",
	}))

	length, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, length)

	entries, err := store.DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byProduct := make(map[string]queue.Entry, len(entries))
	for _, entry := range entries {
		byProduct[entry.ProductID] = entry
	}
	assert.Equal(t, second.Title, byProduct["gid://shopify/Product/1"].Title)
}

/*
TestMemoryStore_DrainClearsSlots checks that a drain empties the queue and a
second drain returns nothing.
*/
func TestMemoryStore_DrainClearsSlots(t *testing.T) {
	ctx := context.Background()
	store := queue.NewMemoryStore()

	require.NoError(t, store.Put(ctx, queue.Entry{ProductID: "gid://shopify/Product/1", Title: "Ponder [M12-66]"}))

	entries, err := store.DrainAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	length, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)

	entries, err = store.DrainAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

/*
TestMemoryStore_EnqueueDuringDrainSurvives checks that a slot written after a
drain is picked up by the next one.
*/
func TestMemoryStore_EnqueueDuringDrainSurvives(t *testing.T) {
	ctx := context.Background()
	store := queue.NewMemoryStore()

	require.NoError(t, store.Put(ctx, queue.Entry{ProductID: "gid://shopify/Product/1", Title: "Brainstorm"}))

	_, err := store.DrainAll(ctx)
	require.NoError(t, err)

	// A webhook landing between drains writes a fresh slot.
	require.NoError(t, store.Put(ctx, queue.Entry{ProductID: "gid://shopify/Product/1", Title: "Brainstorm [LIST-42]"}))

	entries, err := store.DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Brainstorm [LIST-42]", entries[0].Title)
}
