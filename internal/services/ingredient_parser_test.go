package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(value string) *string {
	return &value
}

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected ParsedIngredient
	}{
		{
			name:     "mixed number with unit",
			line:     "1 1/2 cups sugar",
			expected: ParsedIngredient{Name: "sugar", Quantity: ptr("1 1/2"), Unit: ptr("cups")},
		},
		{
			name:     "whole number with unit",
			line:     "2 cups flour",
			expected: ParsedIngredient{Name: "flour", Quantity: ptr("2"), Unit: ptr("cups")},
		},
		{
			name:     "fraction with abbreviation",
			line:     "1/2 tsp salt",
			expected: ParsedIngredient{Name: "salt", Quantity: ptr("1/2"), Unit: ptr("tsp")},
		},
		{
			name:     "decimal",
			line:     "2.5 kg beef",
			expected: ParsedIngredient{Name: "beef", Quantity: ptr("2.5"), Unit: ptr("kg")},
		},
		{
			name:     "unit keeps original casing",
			line:     "3 Tbsp Olive Oil",
			expected: ParsedIngredient{Name: "Olive Oil", Quantity: ptr("3"), Unit: ptr("Tbsp")},
		},
		{
			name:     "singular unit",
			line:     "1 clove garlic",
			expected: ParsedIngredient{Name: "garlic", Quantity: ptr("1"), Unit: ptr("clove")},
		},
		{
			name:     "quantity without unit",
			line:     "1 onion",
			expected: ParsedIngredient{Name: "onion", Quantity: ptr("1")},
		},
		{
			name:     "size word is a unit",
			line:     "2 large eggs",
			expected: ParsedIngredient{Name: "eggs", Quantity: ptr("2"), Unit: ptr("large")},
		},
		{
			name:     "comma notes",
			line:     "1 lb ground beef, thawed",
			expected: ParsedIngredient{Name: "ground beef", Quantity: ptr("1"), Unit: ptr("lb"), Notes: ptr("thawed")},
		},
		{
			name:     "last comma wins",
			line:     "tomatoes, peeled, chopped",
			expected: ParsedIngredient{Name: "tomatoes, peeled", Notes: ptr("chopped")},
		},
		{
			name:     "parenthetical notes",
			line:     "2 cups milk (whole)",
			expected: ParsedIngredient{Name: "milk", Quantity: ptr("2"), Unit: ptr("cups"), Notes: ptr("whole")},
		},
		{
			name:     "parenthetical beats comma",
			line:     "1 cup onion, diced (about 1 medium)",
			expected: ParsedIngredient{Name: "onion, diced", Quantity: ptr("1"), Unit: ptr("cup"), Notes: ptr("about 1 medium")},
		},
		{
			name:     "no quantity no notes",
			line:     "Salt and pepper to taste",
			expected: ParsedIngredient{Name: "Salt and pepper to taste"},
		},
		{
			name:     "surrounding whitespace",
			line:     "   3 cloves garlic   ",
			expected: ParsedIngredient{Name: "garlic", Quantity: ptr("3"), Unit: ptr("cloves")},
		},
		{
			name:     "attached unit is not split",
			line:     "200g flour",
			expected: ParsedIngredient{Name: "200g flour"},
		},
		{
			name:     "empty parenthetical leaves no notes",
			line:     "basil ()",
			expected: ParsedIngredient{Name: "basil"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, ParseIngredientLine(test.line))
		})
	}
}

func TestParseIngredientLine_NonBreakingSpace(t *testing.T) {
	parsed := ParseIngredientLine("2\u00a0cups\u00a0flour")

	assert.Equal(t, ParsedIngredient{Name: "flour", Quantity: ptr("2"), Unit: ptr("cups")}, parsed)
}

func TestParseIngredientLine_Blank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t\n"} {
		parsed := ParseIngredientLine(line)
		assert.Equal(t, "", parsed.Name)
		assert.Nil(t, parsed.Quantity)
		assert.Nil(t, parsed.Unit)
		assert.Nil(t, parsed.Notes)
	}
}

func TestParseIngredientLine_NameDoesNotReparse(t *testing.T) {
	lines := []string{"1 1/2 cups sugar", "2 cups rice", "3 cloves garlic", "1 onion", "1 lb ground beef, thawed"}
	for _, line := range lines {
		first := ParseIngredientLine(line)
		again := ParseIngredientLine(first.Name)
		assert.Equal(t, first.Name, again.Name, line)
		assert.Nil(t, again.Quantity, line)
		assert.Nil(t, again.Unit, line)
	}
}

func TestParseIngredientText(t *testing.T) {
	parsed := ParseIngredientText("2 cups rice\n\n  \n1 onion\n")

	assert.Len(t, parsed, 2)
	assert.Equal(t, "rice", parsed[0].Name)
	assert.Equal(t, "onion", parsed[1].Name)
}
