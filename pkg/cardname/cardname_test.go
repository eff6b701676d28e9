// Copyright (c) 2026 Mistwell Games. All rights reserved.

package cardname_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mistwell/cardsync/pkg/cardname"
)

/*
TestNormalize checks the canonical lookup-key transformation.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain_name", "Sol Ring", "sol ring"},
		{"lowercases", "Lightning Bolt", "lightning bolt"},
		{"strips_accents", "Lim-Dûl's Vault", "lim-duls vault"},
		{"strips_typographic_apostrophe", "Urza’s Saga", "urzas saga"},
		{"strips_commas", "Borborygmos, Enraged", "borborygmos enraged"},
		{"collapses_whitespace", "  Sol   Ring  ", "sol ring"},
		{"empty", "", ""},
		{"whitespace_only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cardname.Normalize(tt.input))
		})
	}
}

/*
TestNormalize_VariantSpellingsConverge checks that the spellings different
printings disagree on all land in the same bucket.
*/
func TestNormalize_VariantSpellingsConverge(t *testing.T) {
	variants := []string{
		"Lim-Dûl's Vault",
		"Lim-Dul's Vault",
		"lim-duls vault",
		"LIM-DULS VAULT",
	}

	expected := cardname.Normalize(variants[0])
	for _, variant := range variants {
		assert.Equal(t, expected, cardname.Normalize(variant), "variant %q diverged", variant)
	}
}
