// Copyright (c) 2026 Mistwell Games. All rights reserved.

package enrich

import (
	"encoding/json"
	"strings"

	"github.com/mistwell/cardsync/internal/platform/constants"
	"github.com/mistwell/cardsync/internal/scryfall"
	"github.com/mistwell/cardsync/internal/shopify"
)

// trackedFormats are the play formats whose legality is written to the catalog.
var trackedFormats = []string{
	"standard",
	"pioneer",
	"modern",
	"legacy",
	"vintage",
	"commander",
	"pauper",
}

// Shopify metafield value types.
const (
	typeText     = "single_line_text_field"
	typeTextList = "list.single_line_text_field"
)

/*
BuildMetafields converts a resolved card into the catalog attribute set.

Description: Pure function, no I/O. Rules:

  - The scryfall_id attribute always leads the set: it doubles as the
    idempotency gate's sentinel, so it must be written whenever anything is.
  - Double-faced cards keep mana cost, colors, and power/toughness on their
    faces rather than the root; those fall back to the FIRST face's value.
  - cardType is the type line truncated at the first em-dash (drops subtypes)
    and at the first "//" (drops the back face).
  - One legality attribute is emitted per tracked format.
  - Empty values are omitted entirely, never written as empty strings.

Parameters:
  - card: *scryfall.Card (resolved canonical card)

Returns:
  - []shopify.MetafieldInput: Zero-or-more typed catalog attributes
*/
func BuildMetafields(card *scryfall.Card) []shopify.MetafieldInput {
	if card == nil {
		return nil
	}

	fields := make([]shopify.MetafieldInput, 0, 12)

	appendText := func(key, value string) {
		if value == "" {
			return
		}
		fields = append(fields, shopify.MetafieldInput{
			Namespace: constants.MetafieldNamespace,
			Key:       key,
			Value:     value,
			Type:      typeText,
		})
	}

	appendList := func(key string, values []string) {
		if len(values) == 0 {
			return
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return
		}
		fields = append(fields, shopify.MetafieldInput{
			Namespace: constants.MetafieldNamespace,
			Key:       key,
			Value:     string(encoded),
			Type:      typeTextList,
		})
	}

	// Face fallback for double-faced cards.
	manaCost := card.ManaCost
	colors := card.Colors
	power := card.Power
	toughness := card.Toughness

	if len(card.CardFaces) > 0 {
		face := card.CardFaces[0]
		if manaCost == "" {
			manaCost = face.ManaCost
		}
		if len(colors) == 0 {
			colors = face.Colors
		}
		if power == "" {
			power = face.Power
		}
		if toughness == "" {
			toughness = face.Toughness
		}
	}

	appendText(constants.MetafieldKeyScryfallID, card.ID)
	appendText("oracle_id", card.OracleID)
	appendText("card_name", card.Name)
	appendText("set_code", card.SetCode)
	appendText("collector_number", card.CollectorNumber)
	appendText("mana_cost", manaCost)
	appendText("card_type", cardType(card.TypeLine))
	appendText("oracle_text", card.OracleText)
	appendText("power", power)
	appendText("toughness", toughness)

	appendList("colors", colors)
	appendList("color_identity", card.ColorIdentity)
	appendList("keywords", card.Keywords)

	for _, format := range trackedFormats {
		appendText("legality_"+format, card.Legalities[format])
	}

	return fields
}

// cardType reduces a full type line to its card-type prefix.
// "Legendary Creature — Human Wizard // Land" becomes "Legendary Creature".
func cardType(typeLine string) string {
	working := typeLine

	if index := strings.Index(working, "—"); index >= 0 {
		working = working[:index]
	}
	if index := strings.Index(working, "//"); index >= 0 {
		working = working[:index]
	}

	return strings.TrimSpace(working)
}
