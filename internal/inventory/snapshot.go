// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mistwell/cardsync/internal/shopify"
)

// BuildSnapshot converts a full catalog walk into a snapshot document.
//
// One catalog product fans out into one Listing per variant: the card
// attributes are shared, the store half differs per condition/finish.
// Products without variants contribute nothing.
func BuildSnapshot(products []shopify.Product, now time.Time) *Snapshot {
	snapshot := &Snapshot{
		GeneratedAt: now.UTC(),
		Statistics:  Statistics{BySet: make(map[string]int)},
	}

	uniqueCards := make(map[string]struct{})

	for _, product := range products {
		meta := product.Metafields

		for _, variant := range product.Variants {
			listing := Listing{
				ScryfallID:      meta["scryfall_id"],
				OracleID:        meta["oracle_id"],
				Name:            firstNonEmpty(meta["card_name"], product.Title),
				SetCode:         meta["set_code"],
				CollectorNumber: meta["collector_number"],
				CardType:        meta["card_type"],
				ManaCost:        meta["mana_cost"],
				StoreInfo: StoreInfo{
					ProductID:       product.ID,
					VariantID:       variant.ID,
					InventoryItemID: variant.InventoryItemID,
					PriceMinor:      priceMinor(variant.Price),
					Quantity:        variant.Quantity,
					InStock:         variant.Quantity > 0,
					Condition:       variant.Condition,
					Finish:          variant.Finish,
					Handle:          product.Handle,
					URL:             product.URL,
				},
			}

			snapshot.Data = append(snapshot.Data, listing)

			if listing.StoreInfo.InStock {
				snapshot.Statistics.InStock++
			}
			if listing.SetCode != "" {
				snapshot.Statistics.BySet[listing.SetCode]++
			}
			if listing.OracleID != "" {
				uniqueCards[listing.OracleID] = struct{}{}
			}
		}
	}

	snapshot.TotalCards = len(snapshot.Data)
	snapshot.Statistics.UniqueCards = len(uniqueCards)

	return snapshot
}

// SaveSnapshot persists the document atomically (write temp, rename).
func SaveSnapshot(path string, snapshot *Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("snapshot_marshal_failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot_dir_failed: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("snapshot_write_failed: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("snapshot_rename_failed: %w", err)
	}

	return nil
}

// LoadSnapshot reads a previously persisted document.
func LoadSnapshot(path string) (*Snapshot, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot_read_failed: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("snapshot_decode_failed: %w", err)
	}

	return &snapshot, nil
}

// priceMinor parses a decimal price string ("2.50") into minor units (250).
// Unparseable prices become 0 rather than failing the rebuild.
func priceMinor(price string) int {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0
	}

	whole, fraction, _ := strings.Cut(price, ".")

	pounds, err := strconv.Atoi(whole)
	if err != nil {
		return 0
	}

	pence := 0
	if fraction != "" {
		// Normalize to exactly two fractional digits.
		if len(fraction) > 2 {
			fraction = fraction[:2]
		}
		for len(fraction) < 2 {
			fraction += "0"
		}
		pence, err = strconv.Atoi(fraction)
		if err != nil {
			return 0
		}
	}

	return pounds*100 + pence
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
