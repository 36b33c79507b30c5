package services

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// IngredientSource is one structured ingredient tagged with the recipe it
// came from.
type IngredientSource struct {
	Name       string
	Quantity   *string
	Unit       *string
	RecipeName string
}

type IngredientQuantity struct {
	Quantity   *string `json:"quantity"`
	Unit       *string `json:"unit"`
	RecipeName string  `json:"recipeName"`
}

type AggregatedIngredient struct {
	Name             string               `json:"name"`
	Quantities       []IngredientQuantity `json:"quantities"`
	CombinedQuantity *string              `json:"combinedQuantity,omitempty"`
	CombinedUnit     *string              `json:"combinedUnit,omitempty"`
	Notes            string               `json:"notes"`
}

// noUnit stands in for a nil or blank unit when checking that a group agrees
// on a single unit.
const noUnit = "\x00"

// AggregateIngredients groups sources by normalized name and returns one entry
// per group sorted by display name. Quantities sharing one unit are joined
// with " + ", never summed.
func AggregateIngredients(sources []IngredientSource) []AggregatedIngredient {
	var order []string
	groups := make(map[string]*AggregatedIngredient)

	for _, source := range sources {
		key := normalizeIngredientName(source.Name)
		group, ok := groups[key]
		if !ok {
			group = &AggregatedIngredient{Name: source.Name}
			groups[key] = group
			order = append(order, key)
		}
		group.Quantities = append(group.Quantities, IngredientQuantity{
			Quantity:   source.Quantity,
			Unit:       source.Unit,
			RecipeName: source.RecipeName,
		})
	}

	aggregated := make([]AggregatedIngredient, 0, len(order))
	for _, key := range order {
		group := groups[key]
		combineQuantities(group)
		group.Notes = provenance(group.Quantities)
		aggregated = append(aggregated, *group)
	}

	collator := collate.New(language.English, collate.Loose)
	sort.SliceStable(aggregated, func(i, j int) bool {
		return collator.CompareString(aggregated[i].Name, aggregated[j].Name) < 0
	})
	return aggregated
}

func normalizeIngredientName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func unitKey(unit *string) string {
	if unit == nil || strings.TrimSpace(*unit) == "" {
		return noUnit
	}
	return strings.ToLower(strings.TrimSpace(*unit))
}

func combineQuantities(group *AggregatedIngredient) {
	units := make(map[string]bool)
	var quantities []string
	for _, entry := range group.Quantities {
		units[unitKey(entry.Unit)] = true
		if entry.Quantity != nil {
			quantities = append(quantities, *entry.Quantity)
		}
	}

	if len(units) != 1 || len(quantities) == 0 {
		return
	}

	combined := strings.Join(quantities, " + ")
	group.CombinedQuantity = &combined

	for unit := range units {
		if unit != noUnit {
			group.CombinedUnit = &unit
		}
	}
}

func provenance(quantities []IngredientQuantity) string {
	seen := make(map[string]bool)
	var names []string
	for _, entry := range quantities {
		if seen[entry.RecipeName] {
			continue
		}
		seen[entry.RecipeName] = true
		names = append(names, entry.RecipeName)
	}
	return "From: " + strings.Join(names, ", ")
}
