// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mistwell/cardsync/internal/platform/apperr"
	"github.com/mistwell/cardsync/internal/platform/constants"
	"github.com/mistwell/cardsync/internal/shopify"
)

// CatalogLister is the storefront read surface the rebuild needs.
type CatalogLister interface {

	/*
		ListCardProducts pages through every card product in the catalog.
	*/
	ListCardProducts(context context.Context) ([]shopify.Product, error)
}

// state is one immutable snapshot generation plus its indices.
type state struct {
	snapshot *Snapshot
	index    *Index
	loadedAt time.Time
}

// Service owns the snapshot cache, the rebuild path, and the debounce state.
//
// # Design
//
// The TTL cache and the rebuild debounce are process-lifetime state held on
// this object (injected clock, no globals). A cold start forgets the last
// trigger time, which can allow one extra rebuild immediately after a restart
// — documented behavior, not a bug.
type Service struct {
	catalog CatalogLister
	overlay *Overlay
	logger  *slog.Logger

	snapshotPath string
	cacheTTL     time.Duration
	debounce     time.Duration
	clock        func() time.Time

	mu          sync.Mutex
	current     *state
	lastTrigger time.Time
}

// NewService constructs the inventory [Service].
//
// # Parameters
//   - catalog: catalog read client used by rebuilds.
//   - overlay: shared live-delta store (also written by the webhook handler).
//   - snapshotPath: where the bulk document is persisted.
//   - clock: time source (injected for debounce/TTL testability).
//   - logger: structured logger.
func NewService(catalog CatalogLister, overlay *Overlay, snapshotPath string, clock func() time.Time, logger *slog.Logger) *Service {
	return &Service{
		catalog:      catalog,
		overlay:      overlay,
		logger:       logger,
		snapshotPath: snapshotPath,
		cacheTTL:     constants.SnapshotCacheTTL,
		debounce:     constants.RebuildDebounceWindow,
		clock:        clock,
	}
}

// # Snapshot Lifecycle

/*
Rebuild performs a full catalog walk and swaps in a fresh snapshot generation.

Description: The new snapshot and its indices are built completely before the
atomic swap, so concurrent readers keep serving the previous generation until
the new one is whole. The document is also persisted to disk for cold starts.

Parameters:
  - context: context.Context

Returns:
  - int: Total listings in the new snapshot
  - error: Catalog walk or persistence failures (previous generation kept)
*/
func (service *Service) Rebuild(context context.Context) (int, error) {
	products, err := service.catalog.ListCardProducts(context)
	if err != nil {
		return 0, apperr.Upstream("Catalog", err)
	}

	snapshot := BuildSnapshot(products, service.clock())
	index := BuildIndex(snapshot)

	if err := SaveSnapshot(service.snapshotPath, snapshot); err != nil {
		return 0, fmt.Errorf("snapshot_persist_failed: %w", err)
	}

	service.mu.Lock()
	service.current = &state{snapshot: snapshot, index: index, loadedAt: service.clock()}
	service.mu.Unlock()

	service.logger.Info("inventory_snapshot_rebuilt",
		slog.Int("total_cards", snapshot.TotalCards),
		slog.Int("in_stock", snapshot.Statistics.InStock),
		slog.Int("indexed", index.Size()),
	)

	return snapshot.TotalCards, nil
}

/*
TriggerRebuild runs a webhook-sourced rebuild unless one was triggered within
the debounce window.

Description: The debounce timestamp records the last SUCCESSFUL trigger. A
burst of storefront webhooks therefore coalesces into one rebuild; callers
inside the window get an immediate "debounced" answer with no action taken.

Parameters:
  - context: context.Context

Returns:
  - bool: true when a rebuild actually ran, false when debounced
  - error: Rebuild failures (the debounce timestamp is NOT advanced)
*/
func (service *Service) TriggerRebuild(context context.Context) (bool, error) {
	service.mu.Lock()
	if !service.lastTrigger.IsZero() && service.clock().Sub(service.lastTrigger) < service.debounce {
		service.mu.Unlock()
		service.logger.Info("rebuild_trigger_debounced")
		return false, nil
	}
	service.mu.Unlock()

	if _, err := service.Rebuild(context); err != nil {
		return false, err
	}

	service.mu.Lock()
	service.lastTrigger = service.clock()
	service.mu.Unlock()

	return true, nil
}

// currentState returns a fresh-enough generation, reloading from disk when
// the TTL has lapsed. A stale generation is served (with a warning) when the
// reload fails, so transient disk issues never take down the lookup API.
func (service *Service) currentState() (*state, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.current != nil && service.clock().Sub(service.current.loadedAt) < service.cacheTTL {
		return service.current, nil
	}

	snapshot, err := LoadSnapshot(service.snapshotPath)
	if err != nil {
		if service.current != nil {
			service.logger.Warn("snapshot_reload_failed_serving_stale", slog.Any("error", err))
			return service.current, nil
		}
		return nil, apperr.NotFound("Inventory snapshot")
	}

	service.current = &state{
		snapshot: snapshot,
		index:    BuildIndex(snapshot),
		loadedAt: service.clock(),
	}

	return service.current, nil
}

// # Queries

/*
Lookup resolves one card query against the live index.

Description: The matching cascade runs over snapshot data; the live overlay is
merged onto the result afterwards. In cart mode a listing whose overlay delta
drained its stock is rejected rather than returned stale.

Parameters:
  - context: context.Context
  - query: Query
  - mode: Mode

Returns:
  - *Listing: Overlay-merged match, or nil for "not found"
  - error: Snapshot unavailability only
*/
func (service *Service) Lookup(context context.Context, query Query, mode Mode) (*Listing, error) {
	state, err := service.currentState()
	if err != nil {
		return nil, err
	}

	match := state.index.Match(query, mode)
	if match == nil {
		return nil, nil
	}

	merged := service.overlay.Apply(*match)

	// The overlay may have invalidated a cart pick since the last rebuild.
	if mode == ModeCart {
		needed := query.Quantity
		if needed < constants.MinMatchQuantity {
			needed = constants.MinMatchQuantity
		}
		if !merged.StoreInfo.InStock || merged.StoreInfo.Quantity < needed {
			return nil, nil
		}
	}

	return &merged, nil
}

/*
Bulk returns the full snapshot document with live deltas merged in.

Returns:
  - *Snapshot: Overlay-merged copy of the current generation
  - error: Snapshot unavailability only
*/
func (service *Service) Bulk(context context.Context) (*Snapshot, error) {
	state, err := service.currentState()
	if err != nil {
		return nil, err
	}

	merged := &Snapshot{
		GeneratedAt: state.snapshot.GeneratedAt,
		TotalCards:  state.snapshot.TotalCards,
		Statistics:  state.snapshot.Statistics,
		Data:        service.overlay.ApplyAll(state.snapshot.Data),
	}

	return merged, nil
}

// RecordDelta stores one webhook-sourced stock delta.
func (service *Service) RecordDelta(entry OverlayEntry) {
	service.overlay.Set(entry)
}
