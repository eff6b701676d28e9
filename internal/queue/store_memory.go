// Copyright (c) 2026 Mistwell Games. All rights reserved.

package queue

import (
	"context"
	"sync"
)

// MemoryStore implements [Store] with an in-process map.
//
// It mirrors the Redis store's semantics (slot per product id, last-write-wins,
// clear-before-return drain) and backs worker tests and local development
// without a Redis instance.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]Entry
}

// NewMemoryStore creates an empty in-memory queue [Store].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Entry)}
}

// Put writes or overwrites the slot for entry.ProductID.
func (store *MemoryStore) Put(_ context.Context, entry Entry) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.slots[entry.ProductID] = entry
	return nil
}

// DrainAll returns all pending entries and clears the map in one step.
func (store *MemoryStore) DrainAll(_ context.Context) ([]Entry, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if len(store.slots) == 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(store.slots))
	for _, entry := range store.slots {
		entries = append(entries, entry)
	}

	// Clear before returning, matching the Redis store's drain ordering.
	store.slots = make(map[string]Entry)

	return entries, nil
}

// Len reports the number of pending slots.
func (store *MemoryStore) Len(_ context.Context) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	return len(store.slots), nil
}
