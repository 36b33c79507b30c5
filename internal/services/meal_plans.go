package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
)

// Week is a Monday-aligned meal plan. Saved is false when no day of the week
// is stored yet and Days is an empty plan.
type Week struct {
	StartDate   string               `json:"startDate"`
	EndDate     string               `json:"endDate"`
	Saved       bool                 `json:"saved"`
	Days        []models.MealPlanDay `json:"days"`
	Explanation string               `json:"explanation,omitempty"`
}

type MealPlanService struct {
	mealPlanRepo repository.MealPlanRepository
	recipeRepo   repository.RecipeRepository
	generator    *PlanGenerator
}

func NewMealPlanService(mealPlanRepo repository.MealPlanRepository, recipeRepo repository.RecipeRepository, generator *PlanGenerator) *MealPlanService {
	return &MealPlanService{mealPlanRepo: mealPlanRepo, recipeRepo: recipeRepo, generator: generator}
}

// GetWeek returns the stored week starting at start, or an unsaved empty
// plan. Missing days of a partially stored week are filled with empty days.
func (service *MealPlanService) GetWeek(ctx context.Context, start time.Time) (Week, error) {
	bounds := GetWeekBounds(start)
	stored, err := service.mealPlanRepo.FindRange(ctx, bounds.StartDate.Format(DateLayout), bounds.EndDate.Format(DateLayout))
	if err != nil {
		return Week{}, fmt.Errorf("loading meal plan: %w", err)
	}
	return Week{
		StartDate: bounds.StartDate.Format(DateLayout),
		EndDate:   bounds.EndDate.Format(DateLayout),
		Saved:     len(stored) > 0,
		Days:      mergeStoredDays(CreateEmptyWeekPlan(bounds.StartDate), stored),
	}, nil
}

func (service *MealPlanService) CreateWeek(ctx context.Context, start time.Time) (Week, error) {
	if err := ValidateMonday(start); err != nil {
		return Week{}, err
	}
	if err := service.mealPlanRepo.CreateDays(ctx, CreateEmptyWeekPlan(start)); err != nil {
		return Week{}, fmt.Errorf("creating meal plan: %w", err)
	}
	return service.GetWeek(ctx, start)
}

// UpdateDays saves the given days of the week. Every date must fall inside
// the week and every non-empty recipe id must exist.
func (service *MealPlanService) UpdateDays(ctx context.Context, start time.Time, days []models.MealPlanDay) (Week, error) {
	if err := ValidateMonday(start); err != nil {
		return Week{}, err
	}
	if len(days) == 0 {
		return Week{}, validationError("days are required")
	}

	inWeek := weekDates(start)
	normalized := make([]models.MealPlanDay, len(days))
	for index, day := range days {
		date, ok := modificationDate(day.Date)
		if !ok || !inWeek[date] {
			return Week{}, validationError(fmt.Sprintf("date %q is not in the week of %s", day.Date, start.Format(DateLayout)))
		}
		day.Date = date
		normalized[index] = day
	}

	if err := service.requireRecipes(ctx, normalized); err != nil {
		return Week{}, err
	}
	if err := service.mealPlanRepo.SaveDays(ctx, normalized); err != nil {
		return Week{}, fmt.Errorf("saving meal plan: %w", err)
	}
	return service.GetWeek(ctx, start)
}

func (service *MealPlanService) DeleteWeek(ctx context.Context, start time.Time) error {
	if err := ValidateMonday(start); err != nil {
		return err
	}
	bounds := GetWeekBounds(start)
	return service.mealPlanRepo.DeleteRange(ctx, bounds.StartDate.Format(DateLayout), bounds.EndDate.Format(DateLayout))
}

// Swap exchanges one slot between two days of a stored week.
func (service *MealPlanService) Swap(ctx context.Context, start time.Time, slot models.MealSlot, from int, to int) (Week, error) {
	week, err := service.storedWeek(ctx, start)
	if err != nil {
		return Week{}, err
	}

	swapped, err := SwapRecipesInPlan(week.Days, slot, from, to)
	if err != nil {
		return Week{}, err
	}
	if err := service.mealPlanRepo.SaveDays(ctx, swapped); err != nil {
		return Week{}, fmt.Errorf("saving swapped meal plan: %w", err)
	}
	return service.GetWeek(ctx, start)
}

// Generate applies an AI-suggested plan to the week. The suggestion must
// cover exactly seven distinct dates of the week and reference only recipes
// in the catalog.
func (service *MealPlanService) Generate(ctx context.Context, start time.Time, instruction string) (Week, error) {
	if err := ValidateMonday(start); err != nil {
		return Week{}, err
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return Week{}, validationError("instruction is required")
	}

	week, err := service.GetWeek(ctx, start)
	if err != nil {
		return Week{}, err
	}
	catalog, err := service.recipeRepo.FindAll(ctx)
	if err != nil {
		return Week{}, fmt.Errorf("loading recipe catalog: %w", err)
	}

	plan, err := service.generator.Generate(ctx, instruction, week.Days, catalog)
	if err != nil {
		return Week{}, err
	}
	if err := validateGeneratedPlan(plan, start, catalog); err != nil {
		return Week{}, err
	}

	applied := ApplyGeneratedPlanToWeek(week.Days, plan.Days)
	if err := service.mealPlanRepo.SaveDays(ctx, applied); err != nil {
		return Week{}, fmt.Errorf("saving generated meal plan: %w", err)
	}

	generated, err := service.GetWeek(ctx, start)
	if err != nil {
		return Week{}, err
	}
	generated.Explanation = plan.Explanation
	return generated, nil
}

func validateGeneratedPlan(plan GeneratedPlan, start time.Time, catalog []models.Recipe) error {
	if len(plan.Days) != 7 {
		return fmt.Errorf("%w: expected 7 days, got %d", ErrUpstream, len(plan.Days))
	}

	known := make(map[string]bool, len(catalog))
	for _, recipe := range catalog {
		known[recipe.ID] = true
	}

	inWeek := weekDates(start)
	seen := make(map[string]bool, 7)
	for _, day := range plan.Days {
		date, ok := modificationDate(day.Date)
		if !ok || !inWeek[date] {
			return fmt.Errorf("%w: date %q is outside the week", ErrUpstream, day.Date)
		}
		if seen[date] {
			return fmt.Errorf("%w: date %s appears twice", ErrUpstream, date)
		}
		seen[date] = true

		for _, id := range []string{day.LunchRecipeID, day.ProteinRecipeID, day.CarbRecipeID, day.VegetableRecipeID} {
			if id != "" && !known[id] {
				return fmt.Errorf("%w: unknown recipe id %q", ErrUpstream, id)
			}
		}
	}
	return nil
}

func (service *MealPlanService) storedWeek(ctx context.Context, start time.Time) (Week, error) {
	if err := ValidateMonday(start); err != nil {
		return Week{}, err
	}
	week, err := service.GetWeek(ctx, start)
	if err != nil {
		return Week{}, err
	}
	if !week.Saved {
		return Week{}, fmt.Errorf("meal plan for %s: %w", week.StartDate, repository.ErrNotFound)
	}
	return week, nil
}

func (service *MealPlanService) requireRecipes(ctx context.Context, days []models.MealPlanDay) error {
	var ids []string
	for _, day := range days {
		for _, slot := range models.MealSlots {
			if id := day.RecipeID(slot); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	recipes, err := service.recipeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("loading recipes: %w", err)
	}
	found := make(map[string]bool, len(recipes))
	for _, recipe := range recipes {
		found[recipe.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return validationError("unknown recipe ids: " + strings.Join(missing, ", "))
	}
	return nil
}

func weekDates(start time.Time) map[string]bool {
	dates := make(map[string]bool, 7)
	for _, day := range CreateEmptyWeekPlan(start) {
		dates[day.Date] = true
	}
	return dates
}

func mergeStoredDays(plan []models.MealPlanDay, stored []models.MealPlanDay) []models.MealPlanDay {
	byDate := make(map[string]models.MealPlanDay, len(stored))
	for _, day := range stored {
		byDate[day.Date] = day
	}
	for index, day := range plan {
		if storedDay, ok := byDate[day.Date]; ok {
			plan[index] = storedDay
		}
	}
	return plan
}
