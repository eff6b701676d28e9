// Copyright (c) 2026 Mistwell Games. All rights reserved.

package scryfall_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mistwell/cardsync/internal/scryfall"
)

/*
TestResolveSetCode checks the single-code override table and its identity
fallback.
*/
func TestResolveSetCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"gatherer_era_dominaria", "dar", "dom"},
		{"gatherer_era_sixth", "6e", "6ed"},
		{"gatherer_era_seventh", "7e", "7ed"},
		{"distributor_mystery_booster", "mys", "mb1"},
		{"storefront_commander_2013", "cmd13", "c13"},
		{"storefront_commander_2016", "cmd16", "c16"},
		{"unknown_code_identity", "neo", "neo"},
		{"uppercase_input_lowered", "DAR", "dom"},
		{"uppercase_unknown_lowered", "MH2", "mh2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scryfall.ResolveSetCode(tt.code))
		})
	}
}

/*
TestAmbiguousCandidates checks the ordered candidate lists for codes that
straddle multiple sets.
*/
func TestAmbiguousCandidates(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected []string
	}{
		{"the_list", "list", []string{"plst", "mb1"}},
		{"secret_lair", "sl", []string{"sld", "slu"}},
		{"uppercase_input", "LIST", []string{"plst", "mb1"}},
		{"unambiguous_code", "dom", nil},
		{"overridden_code_is_not_ambiguous", "dar", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scryfall.AmbiguousCandidates(tt.code))
		})
	}
}
