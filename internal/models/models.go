package models

import "time"

type Tier string

const (
	TierFavorite   Tier = "favorite"
	TierNonRegular Tier = "non-regular"
	TierNew        Tier = "new"
)

func (tier Tier) Valid() bool {
	switch tier {
	case TierFavorite, TierNonRegular, TierNew:
		return true
	}
	return false
}

type StructuredIngredient struct {
	ID       string  `json:"id"`
	RecipeID string  `json:"recipeId"`
	Name     string  `json:"name"`
	Quantity *string `json:"quantity"`
	Unit     *string `json:"unit"`
	Notes    *string `json:"notes"`
	Order    int     `json:"order"`
}

type Recipe struct {
	ID                    string                 `json:"id"`
	Name                  string                 `json:"name"`
	Ingredients           string                 `json:"ingredients"`
	StructuredIngredients []StructuredIngredient `json:"structuredIngredients"`
	Instructions          string                 `json:"instructions"`
	ProteinType           *string                `json:"proteinType"`
	CarbType              *string                `json:"carbType"`
	PrepTime              *string                `json:"prepTime"`
	Tier                  Tier                   `json:"tier"`
	SourceURL             *string                `json:"sourceUrl"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

type MealSlot string

const (
	MealSlotLunch     MealSlot = "lunch"
	MealSlotProtein   MealSlot = "protein"
	MealSlotCarb      MealSlot = "carb"
	MealSlotVegetable MealSlot = "vegetable"
)

var MealSlots = []MealSlot{MealSlotLunch, MealSlotProtein, MealSlotCarb, MealSlotVegetable}

// MealPlanDay is one calendar date of a week. An empty recipe id means the
// slot is unassigned.
type MealPlanDay struct {
	ID                string    `json:"id,omitempty"`
	Date              string    `json:"date"`
	LunchRecipeID     string    `json:"lunchRecipeId"`
	ProteinRecipeID   string    `json:"proteinRecipeId"`
	CarbRecipeID      string    `json:"carbRecipeId"`
	VegetableRecipeID string    `json:"vegetableRecipeId"`
	CreatedAt         time.Time `json:"createdAt,omitzero"`
	UpdatedAt         time.Time `json:"updatedAt,omitzero"`
}

func (day MealPlanDay) RecipeID(slot MealSlot) string {
	switch slot {
	case MealSlotLunch:
		return day.LunchRecipeID
	case MealSlotProtein:
		return day.ProteinRecipeID
	case MealSlotCarb:
		return day.CarbRecipeID
	case MealSlotVegetable:
		return day.VegetableRecipeID
	}
	return ""
}

func (day *MealPlanDay) SetRecipeID(slot MealSlot, recipeID string) {
	switch slot {
	case MealSlotLunch:
		day.LunchRecipeID = recipeID
	case MealSlotProtein:
		day.ProteinRecipeID = recipeID
	case MealSlotCarb:
		day.CarbRecipeID = recipeID
	case MealSlotVegetable:
		day.VegetableRecipeID = recipeID
	}
}

type ItemSource string

const (
	ItemSourceMeal   ItemSource = "meal"
	ItemSourceManual ItemSource = "manual"
)

type ShoppingList struct {
	ID        string             `json:"id"`
	WeekStart string             `json:"weekStart"`
	Items     []ShoppingListItem `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type ShoppingListItem struct {
	ID             string     `json:"id"`
	ShoppingListID string     `json:"shoppingListId"`
	Name           string     `json:"name"`
	Quantity       *string    `json:"quantity"`
	Unit           *string    `json:"unit"`
	Notes          *string    `json:"notes"`
	Checked        bool       `json:"checked"`
	Source         ItemSource `json:"source"`
	Order          int        `json:"order"`
}

const SettingHouseholdName = "household_name"
