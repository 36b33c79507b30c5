package services

import (
	"regexp"
	"strings"
)

type ParsedIngredient struct {
	Name     string  `json:"name"`
	Quantity *string `json:"quantity,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

var (
	quantityPattern      = regexp.MustCompile(`(?s)^(\d+\s+\d+/\d+|\d+/\d+|\d+\.\d+|\d+)(?:\s+|$)(.*)$`)
	parentheticalPattern = regexp.MustCompile(`(?s)^(.*?)\s*\(([^()]*)\)$`)
)

var knownUnits = map[string]bool{
	"cup": true, "cups": true,
	"tablespoon": true, "tablespoons": true, "tbsp": true,
	"teaspoon": true, "teaspoons": true, "tsp": true,
	"pound": true, "pounds": true, "lb": true, "lbs": true,
	"ounce": true, "ounces": true, "oz": true,
	"gram": true, "grams": true, "g": true,
	"kilogram": true, "kilograms": true, "kg": true, "ml": true,
	"liter": true, "liters": true, "l": true,
	"piece": true, "pieces": true,
	"slice": true, "slices": true,
	"clove": true, "cloves": true,
	"head": true, "heads": true,
	"bunch": true, "bunches": true,
	"stalk": true, "stalks": true,
	"sprig": true, "sprigs": true,
	"leaf": true, "leaves": true,
	"can": true, "cans": true,
	"jar": true, "jars": true,
	"package": true, "packages": true,
	"box": true, "boxes": true,
	"bag": true, "bags": true,
	"pinch": true, "pinches": true,
	"dash": true, "dashes": true,
	"handful": true, "handfuls": true,
	"large": true, "medium": true, "small": true,
}

// ParseIngredientLine splits a free-text ingredient line such as
// "1 1/2 cups sugar (sifted)" into quantity, unit, name and notes. It never
// fails; blank input yields an empty name.
func ParseIngredientLine(line string) ParsedIngredient {
	rest := strings.TrimSpace(strings.ReplaceAll(line, "\u00a0", " "))
	if rest == "" {
		return ParsedIngredient{}
	}

	var parsed ParsedIngredient

	if match := quantityPattern.FindStringSubmatch(rest); match != nil {
		quantity := match[1]
		parsed.Quantity = &quantity
		rest = match[2]

		token, remainder := splitFirstToken(rest)
		if token != "" && knownUnits[strings.ToLower(token)] {
			parsed.Unit = &token
			rest = remainder
		}
	}

	rest = strings.TrimSpace(rest)

	if match := parentheticalPattern.FindStringSubmatch(rest); match != nil {
		rest = match[1]
		parsed.Notes = nonEmpty(match[2])
	} else if index := strings.LastIndex(rest, ","); index >= 0 {
		parsed.Notes = nonEmpty(rest[index+1:])
		rest = rest[:index]
	}

	parsed.Name = strings.TrimSpace(rest)
	return parsed
}

// ParseIngredientText parses each non-blank line of a raw ingredient block.
func ParseIngredientText(text string) []ParsedIngredient {
	var parsed []ParsedIngredient
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parsed = append(parsed, ParseIngredientLine(line))
	}
	return parsed
}

func splitFirstToken(text string) (string, string) {
	text = strings.TrimLeft(text, " \t")
	index := strings.IndexAny(text, " \t")
	if index < 0 {
		return text, ""
	}
	return text[:index], text[index+1:]
}

func nonEmpty(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
