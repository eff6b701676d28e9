// Copyright (c) 2026 Mistwell Games. All rights reserved.

package enrich_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mistwell/cardsync/internal/enrich"
)

/*
TestParseTitle covers the parsing cascade over realistic product titles.
*/
func TestParseTitle(t *testing.T) {
	tests := []struct {
		name           string
		title          string
		expectedName   string
		expectedSet    string
		expectedNumber string
	}{
		{
			name:           "full_title",
			title:          "Lightning Bolt - Masters 25 [A25-123]",
			expectedName:   "Lightning Bolt",
			expectedSet:    "a25",
			expectedNumber: "123",
		},
		{
			name:           "rarity_suffix_stripped",
			title:          "Sol Ring (Uncommon) [CMD16-222]",
			expectedName:   "Sol Ring",
			expectedSet:    "cmd16",
			expectedNumber: "222",
		},
		{
			name:           "mythic_rare_two_words",
			title:          "Ragavan, Nimble Pilferer (Mythic Rare) [MH2-138]",
			expectedName:   "Ragavan, Nimble Pilferer",
			expectedSet:    "mh2",
			expectedNumber: "138",
		},
		{
			name:           "no_bracket_token",
			title:          "Counterspell - Seventh Edition",
			expectedName:   "Counterspell",
			expectedSet:    "",
			expectedNumber: "",
		},
		{
			name:           "hyphenated_name_keeps_first_delimiter_split",
			title:          "Lim-Dul's Vault - Alliances [ALL-105]",
			expectedName:   "Lim-Dul's Vault",
			expectedSet:    "all",
			expectedNumber: "105",
		},
		{
			name:           "set_name_containing_delimiter_discarded",
			title:          "Brainstorm - Mystery Booster - The List [LIST-42]",
			expectedName:   "Brainstorm",
			expectedSet:    "list",
			expectedNumber: "42",
		},
		{
			name:           "alt_art_marker_stripped",
			title:          "Stitch in Time (V.2) - Secret Lair [SL-77]",
			expectedName:   "Stitch in Time",
			expectedSet:    "sl",
			expectedNumber: "77",
		},
		{
			name:           "bare_name_only",
			title:          "Black Lotus",
			expectedName:   "Black Lotus",
			expectedSet:    "",
			expectedNumber: "",
		},
		{
			name:           "alphanumeric_collector_number",
			title:          "Hymn to Tourach - Fallen Empires [FEM-31a]",
			expectedName:   "Hymn to Tourach",
			expectedSet:    "fem",
			expectedNumber: "31a",
		},
		{
			name:           "set_code_lowercased",
			title:          "Ponder - Magic 2012 [M12-66]",
			expectedName:   "Ponder",
			expectedSet:    "m12",
			expectedNumber: "66",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := enrich.ParseTitle(tt.title)

			assert.Equal(t, tt.expectedName, parsed.CardName)
			assert.Equal(t, tt.expectedSet, parsed.SetCode)
			assert.Equal(t, tt.expectedNumber, parsed.CollectorNumber)
			assert.True(t, parsed.Valid())
		})
	}
}

/*
TestParseTitle_TerminalFailures checks titles that yield no usable card name.
*/
func TestParseTitle_TerminalFailures(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{"empty", ""},
		{"whitespace_only", "   "},
		{"bracket_token_only", "[DOM-48]"},
		{"rarity_only", "(Rare)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := enrich.ParseTitle(tt.title)
			assert.False(t, parsed.Valid())
			assert.Empty(t, parsed.CardName)
		})
	}
}
