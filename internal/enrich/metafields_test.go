// Copyright (c) 2026 Mistwell Games. All rights reserved.

package enrich_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistwell/cardsync/internal/enrich"
	"github.com/mistwell/cardsync/internal/scryfall"
	"github.com/mistwell/cardsync/internal/shopify"
)

// fieldValues flattens a metafield set into key→value for assertions.
func fieldValues(fields []shopify.MetafieldInput) map[string]string {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field.Key] = field.Value
	}
	return values
}

/*
TestBuildMetafields_Complete checks the attribute set for a fully populated card.
*/
func TestBuildMetafields_Complete(t *testing.T) {
	card := &scryfall.Card{
		ID:              "f2a2a871-3c60-4a03-9ee2-cee1cbd300de",
		OracleID:        "d2c1d017-47ab-44ad-9ba3-a91bdad05d2e",
		Name:            "Ragavan, Nimble Pilferer",
		ManaCost:        "{R}",
		TypeLine:        "Legendary Creature — Monkey Pirate",
		Colors:          []string{"R"},
		ColorIdentity:   []string{"R"},
		Keywords:        []string{"Dash"},
		OracleText:      "Whenever Ragavan, Nimble Pilferer deals combat damage to a player...",
		Power:           "2",
		Toughness:       "1",
		Legalities:      map[string]string{"modern": "legal", "standard": "not_legal", "commander": "legal"},
		SetCode:         "mh2",
		CollectorNumber: "138",
	}

	fields := enrich.BuildMetafields(card)
	require.NotEmpty(t, fields)

	// The sentinel attribute must lead the set.
	assert.Equal(t, "scryfall_id", fields[0].Key)
	assert.Equal(t, card.ID, fields[0].Value)

	values := fieldValues(fields)
	assert.Equal(t, card.OracleID, values["oracle_id"])
	assert.Equal(t, "Ragavan, Nimble Pilferer", values["card_name"])
	assert.Equal(t, "mh2", values["set_code"])
	assert.Equal(t, "138", values["collector_number"])
	assert.Equal(t, "{R}", values["mana_cost"])
	assert.Equal(t, "Legendary Creature", values["card_type"])
	assert.Equal(t, "2", values["power"])
	assert.Equal(t, "1", values["toughness"])
	assert.Equal(t, `["R"]`, values["colors"])
	assert.Equal(t, `["Dash"]`, values["keywords"])
	assert.Equal(t, "legal", values["legality_modern"])
	assert.Equal(t, "not_legal", values["legality_standard"])
	assert.Equal(t, "legal", values["legality_commander"])

	// Formats absent from the legality map are omitted, not written empty.
	assert.NotContains(t, values, "legality_pauper")
}

/*
TestBuildMetafields_FaceFallback checks that double-faced cards fall back to
the first face for attributes absent on the root.
*/
func TestBuildMetafields_FaceFallback(t *testing.T) {
	card := &scryfall.Card{
		ID:       "5646ea43-ba27-4316-9d42-e0835e4f2520",
		OracleID: "b9987f61-a071-4401-9830-e81183fb9d9e",
		Name:     "Delver of Secrets // Insectile Aberration",
		TypeLine: "Creature — Human Wizard // Creature — Human Insect",
		CardFaces: []scryfall.Card{
			{
				Name:      "Delver of Secrets",
				ManaCost:  "{U}",
				Colors:    []string{"U"},
				Power:     "1",
				Toughness: "1",
			},
			{
				Name:      "Insectile Aberration",
				Colors:    []string{"U"},
				Power:     "3",
				Toughness: "2",
			},
		},
		SetCode:         "isd",
		CollectorNumber: "51",
	}

	values := fieldValues(enrich.BuildMetafields(card))

	assert.Equal(t, "{U}", values["mana_cost"])
	assert.Equal(t, `["U"]`, values["colors"])
	assert.Equal(t, "1", values["power"])
	assert.Equal(t, "1", values["toughness"])

	// Back face is dropped from the reduced type.
	assert.Equal(t, "Creature", values["card_type"])
}

/*
TestBuildMetafields_OmitsEmptyValues checks that lands and other sparse cards
produce no empty attributes.
*/
func TestBuildMetafields_OmitsEmptyValues(t *testing.T) {
	card := &scryfall.Card{
		ID:              "bd3d4b4b-cf31-4f89-8140-9650edb03c7b",
		OracleID:        "b34bb2dc-c1af-4d77-b0b3-a0fb342a5fc6",
		Name:            "Island",
		TypeLine:        "Basic Land — Island",
		SetCode:         "unf",
		CollectorNumber: "235",
	}

	values := fieldValues(enrich.BuildMetafields(card))

	assert.NotContains(t, values, "mana_cost")
	assert.NotContains(t, values, "power")
	assert.NotContains(t, values, "toughness")
	assert.NotContains(t, values, "colors")
	assert.NotContains(t, values, "oracle_text")
	assert.Equal(t, "Basic Land", values["card_type"])
}

/*
TestBuildMetafields_NilCard checks the nil guard.
*/
func TestBuildMetafields_NilCard(t *testing.T) {
	assert.Nil(t, enrich.BuildMetafields(nil))
}
