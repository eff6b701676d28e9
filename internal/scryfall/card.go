/*
Package scryfall provides the rate-limited client for the external card
database and the set-code resolution cascade built on top of it.

It is the read side of the enrichment pipeline: given the fragments parsed out
of a product title (name, set code, collector number), it resolves the one
canonical card record those fragments describe, or reports a miss. Misses are
ordinary outcomes here, not errors — unresolvable titles are counted by the
worker and skipped.

# Rate Limiting

All calls share one token bucket ([golang.org/x/time/rate]). A 429 from the
API is absorbed with a short courtesy pause and surfaces as a miss; the read
path never retries (the write path's backoff lives in the shopify package).
*/
package scryfall

// Card is the canonical card record returned by the card database.
//
// It is read-only from the pipeline's perspective: fetched per lookup and
// never cached beyond the call that needed it.
type Card struct {
	// ID is the unique identifier of this printing.
	ID string `json:"id"`

	// OracleID identifies the card's abstract identity, shared by all printings.
	OracleID string `json:"oracle_id"`

	Name     string `json:"name"`
	ManaCost string `json:"mana_cost"`
	TypeLine string `json:"type_line"`

	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"color_identity"`
	Keywords      []string `json:"keywords"`

	OracleText string `json:"oracle_text"`
	Power      string `json:"power"`
	Toughness  string `json:"toughness"`

	// Legalities maps format name ("commander", "modern", ...) to a status
	// string ("legal", "not_legal", "restricted", "banned").
	Legalities map[string]string `json:"legalities"`

	// CardFaces is populated for double-faced and split cards. Root-level
	// fields that are absent on such cards (mana cost, colors, power) live on
	// the individual faces instead.
	CardFaces []Card `json:"card_faces,omitempty"`

	SetCode         string `json:"set"`
	CollectorNumber string `json:"collector_number"`
}
