/*
Package inventory serves the read side of the pipeline: the bulk snapshot of
purchasable card listings, the in-memory indices built over it, the
multi-strategy matching engine used by deck-builder integrations, and the live
overlay of webhook-sourced stock deltas.

# Consistency Model

The snapshot is rebuilt wholesale and swapped as a unit — readers never see a
partially built index. Overlay entries are merged at serve time with
last-write-wins semantics per inventory item; a short staleness window is
accepted by design.
*/
package inventory

import "time"

// StoreInfo holds the purchasable half of a listing.
type StoreInfo struct {
	ProductID       string `json:"product_id"`
	VariantID       string `json:"variant_id"`
	InventoryItemID string `json:"inventory_item_id"`

	// PriceMinor is the price in minor currency units (pence).
	PriceMinor int `json:"price_minor"`

	Quantity int  `json:"quantity"`
	InStock  bool `json:"in_stock"`

	Condition string `json:"condition,omitempty"`
	Finish    string `json:"finish,omitempty"`

	Handle string `json:"handle"`
	URL    string `json:"url,omitempty"`
}

// Listing is one row of the bulk snapshot: card identity plus store data.
//
// Many listings may share one ProductID — one per condition/finish variant.
// A Listing is immutable within a snapshot generation.
type Listing struct {
	ScryfallID      string `json:"scryfall_id,omitempty"`
	OracleID        string `json:"oracle_id,omitempty"`
	Name            string `json:"name"`
	SetCode         string `json:"set_code,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
	CardType        string `json:"card_type,omitempty"`
	ManaCost        string `json:"mana_cost,omitempty"`

	StoreInfo StoreInfo `json:"store_info"`
}

// Statistics is the aggregate block of a snapshot document.
type Statistics struct {
	InStock     int            `json:"in_stock"`
	UniqueCards int            `json:"unique_cards"`
	BySet       map[string]int `json:"by_set,omitempty"`
}

// Snapshot is the bulk inventory document served to integrations.
type Snapshot struct {
	GeneratedAt time.Time  `json:"generated_at"`
	TotalCards  int        `json:"total_cards"`
	Statistics  Statistics `json:"statistics"`
	Data        []Listing  `json:"data"`
}
