// Copyright (c) 2026 Mistwell Games. All rights reserved.

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mistwell/cardsync/internal/platform/constants"
)

// RedisStore implements [Store] using one Redis key per product slot.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed queue [Store].
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// slotKey builds the Redis key for a product's queue slot.
func slotKey(productID string) string {
	return constants.RedisPrefixQueue + productID
}

/*
Put writes or overwrites the slot for entry.ProductID.

Parameters:
  - context: context.Context
  - entry: Entry

Returns:
  - error: Marshalling or storage failures
*/
func (store *RedisStore) Put(context context.Context, entry Entry) error {

	// Serialize the slot value
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("queue_entry_marshal_failed: %w", err)
	}

	// SET with no TTL: slots live until drained
	if err := store.client.Set(context, slotKey(entry.ProductID), payload, 0).Err(); err != nil {
		return fmt.Errorf("queue_slot_set_failed: %w", err)
	}

	return nil
}

/*
DrainAll lists all pending slots, reads them, deletes them, then returns the batch.

Description: The delete happens before the batch is handed to the caller. This
is NOT transactional — see the package comment for the crash-window trade-off.

Returns:
  - []Entry: All entries pending at drain time (nil when the queue was empty)
  - error: Scan/read/delete failures
*/
func (store *RedisStore) DrainAll(context context.Context) ([]Entry, error) {

	// 1. Collect every slot key (SCAN, not KEYS, to stay non-blocking)
	keys, err := store.scanSlotKeys(context)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// 2. Bulk-read all slot values
	values, err := store.client.MGet(context, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("queue_drain_mget_failed: %w", err)
	}

	// 3. Delete all slots BEFORE returning the batch
	if err := store.client.Del(context, keys...).Err(); err != nil {
		return nil, fmt.Errorf("queue_drain_del_failed: %w", err)
	}

	// 4. Decode the batch; slots that vanished between SCAN and MGET are skipped
	entries := make([]Entry, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			// A corrupt slot must not poison the whole drain
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

/*
Len reports the number of pending slots.

Returns:
  - int: Pending slot count
  - error: Scan failures
*/
func (store *RedisStore) Len(context context.Context) (int, error) {
	keys, err := store.scanSlotKeys(context)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// scanSlotKeys iterates the queue prefix and returns all matching keys.
func (store *RedisStore) scanSlotKeys(context context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)

	for {
		batch, next, err := store.client.Scan(context, cursor, constants.RedisPrefixQueue+"*", 100).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return keys, nil
			}
			return nil, fmt.Errorf("queue_scan_failed: %w", err)
		}

		keys = append(keys, batch...)
		cursor = next

		if cursor == 0 {
			return keys, nil
		}
	}
}
