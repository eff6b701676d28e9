// Copyright (c) 2026 Mistwell Games. All rights reserved.

/*
Package enrich implements the card-enrichment pipeline: title parsing, catalog
attribute building, and the worker that drains the dedup queue and writes
resolved card data back to the storefront catalog.

# Flow

	queue drain → idempotency gate → title parse → card lookup cascade
	            → metafield build → batched catalog write → run summary

Every per-item failure mode (unparseable title, lookup miss, per-item write
rejection) is counted and skipped, never raised; the run summary is the
worker's only output besides logs.
*/
package enrich

import (
	"regexp"
	"strings"
)

// ParsedTitle holds the card-identifying fragments extracted from a product
// title. It is transient: derived per queue entry, never persisted.
type ParsedTitle struct {
	// CardName is empty when parsing failed terminally.
	CardName string
	// SetCode is the bracketed storefront set code, lowercased ("" if absent).
	SetCode string
	// CollectorNumber is the bracketed collector number ("" if absent).
	CollectorNumber string
}

// Valid reports whether a usable card name survived parsing.
func (p ParsedTitle) Valid() bool { return p.CardName != "" }

var (
	// bracketSuffix captures the trailing "[SET-NUMBER]" identifier token.
	bracketSuffix = regexp.MustCompile(`\s*\[([A-Za-z0-9]+)-([A-Za-z0-9]+)\]\s*$`)

	// raritySuffix strips the trailing parenthetical rarity annotation.
	raritySuffix = regexp.MustCompile(`(?i)\s*\((?:common|uncommon|rare|mythic(?: rare)?)\)\s*$`)

	// altArtSuffix strips the "(V.N)" alternate-art marker from a card name.
	altArtSuffix = regexp.MustCompile(`\s*\(V\.\d+\)\s*$`)
)

/*
ParseTitle extracts card-identifying fragments from a free-text product title.

Description: The algorithm mirrors how singles are titled in the catalog:

	"<Card Name> - <Set Name> [SET-NUM] (Rarity)"

 1. Strip a trailing bracketed [SETCODE-NUMBER] token, capturing both parts.
 2. Strip a trailing parenthetical rarity annotation.
 3. Split on the FIRST " - " delimiter into (card name, set name); without a
    delimiter the whole remainder is the card name. The set name half is
    discarded — the bracketed code is authoritative.
 4. Strip a trailing "(V.N)" alternate-art suffix from the card name.

An empty surviving card name is a terminal parse failure, not an error: the
caller counts it and skips the item.

Parameters:
  - title: string (free-text product title)

Returns:
  - ParsedTitle: Extracted fragments; check [ParsedTitle.Valid]
*/
func ParseTitle(title string) ParsedTitle {
	var parsed ParsedTitle
	working := strings.TrimSpace(title)

	// 1. Bracketed set/number token
	if match := bracketSuffix.FindStringSubmatch(working); match != nil {
		parsed.SetCode = strings.ToLower(match[1])
		parsed.CollectorNumber = match[2]
		working = working[:len(working)-len(match[0])]
	}

	// 2. Rarity annotation
	working = raritySuffix.ReplaceAllString(working, "")

	// 3. Name / set-name split on the first " - "
	if index := strings.Index(working, " - "); index >= 0 {
		working = working[:index]
	}

	// 4. Alternate-art suffix
	working = altArtSuffix.ReplaceAllString(working, "")

	parsed.CardName = strings.TrimSpace(working)
	return parsed
}
