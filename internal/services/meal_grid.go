package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/bensuskins/meal-planner/internal/models"
)

// PlanModification is one day of an AI-suggested plan. Date is YYYY-MM-DD or
// an ISO timestamp; absent slots mean empty.
type PlanModification struct {
	Date              string `json:"date"`
	LunchRecipeID     string `json:"lunchRecipeId,omitempty"`
	ProteinRecipeID   string `json:"proteinRecipeId,omitempty"`
	CarbRecipeID      string `json:"carbRecipeId,omitempty"`
	VegetableRecipeID string `json:"vegetableRecipeId,omitempty"`
}

// SwapRecipesInPlan returns a copy of plan with slot's recipe id exchanged
// between the days at from and to.
func SwapRecipesInPlan(plan []models.MealPlanDay, slot models.MealSlot, from int, to int) ([]models.MealPlanDay, error) {
	if !validSlot(slot) {
		return nil, fmt.Errorf("unknown slot %q: %w", slot, ErrInvalidSwap)
	}
	if from < 0 || from >= len(plan) || to < 0 || to >= len(plan) {
		return nil, fmt.Errorf("day index out of range [0, %d): %w", len(plan), ErrInvalidSwap)
	}

	swapped := make([]models.MealPlanDay, len(plan))
	copy(swapped, plan)

	fromID := plan[from].RecipeID(slot)
	toID := plan[to].RecipeID(slot)
	swapped[from].SetRecipeID(slot, toID)
	swapped[to].SetRecipeID(slot, fromID)
	return swapped, nil
}

// ApplyGeneratedPlanToWeek overwrites all four slots of every day that has a
// modification for the same calendar date. When several modifications share a
// date the first one wins. Other days are copied unchanged.
func ApplyGeneratedPlanToWeek(plan []models.MealPlanDay, modifications []PlanModification) []models.MealPlanDay {
	byDate := make(map[string]PlanModification, len(modifications))
	for _, modification := range modifications {
		date, ok := modificationDate(modification.Date)
		if !ok {
			continue
		}
		if _, seen := byDate[date]; !seen {
			byDate[date] = modification
		}
	}

	applied := make([]models.MealPlanDay, len(plan))
	for index, day := range plan {
		applied[index] = day
		modification, ok := byDate[dayKey(day.Date)]
		if !ok {
			continue
		}
		applied[index].LunchRecipeID = modification.LunchRecipeID
		applied[index].ProteinRecipeID = modification.ProteinRecipeID
		applied[index].CarbRecipeID = modification.CarbRecipeID
		applied[index].VegetableRecipeID = modification.VegetableRecipeID
	}
	return applied
}

// CreateEmptyWeekPlan returns seven consecutive days from start with every
// slot empty. start need not be a Monday.
func CreateEmptyWeekPlan(start time.Time) []models.MealPlanDay {
	days := make([]models.MealPlanDay, 7)
	for index := range days {
		days[index] = models.MealPlanDay{Date: start.AddDate(0, 0, index).Format(DateLayout)}
	}
	return days
}

func validSlot(slot models.MealSlot) bool {
	for _, known := range models.MealSlots {
		if slot == known {
			return true
		}
	}
	return false
}

func modificationDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if date, err := time.Parse(DateLayout, value); err == nil {
		return date.Format(DateLayout), true
	}
	if date, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return date.Format(DateLayout), true
	}
	return "", false
}

func dayKey(date string) string {
	if key, ok := modificationDate(date); ok {
		return key
	}
	return date
}
