package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
)

type ShoppingListService struct {
	mealPlanRepo     repository.MealPlanRepository
	recipeRepo       repository.RecipeRepository
	shoppingListRepo repository.ShoppingListRepository
}

func NewShoppingListService(
	mealPlanRepo repository.MealPlanRepository,
	recipeRepo repository.RecipeRepository,
	shoppingListRepo repository.ShoppingListRepository,
) *ShoppingListService {
	return &ShoppingListService{
		mealPlanRepo:     mealPlanRepo,
		recipeRepo:       recipeRepo,
		shoppingListRepo: shoppingListRepo,
	}
}

// GenerateForWeek aggregates the ingredients of every recipe assigned in the
// week starting at weekStart and stores them as the list's meal items. Manual
// items are kept.
func (service *ShoppingListService) GenerateForWeek(ctx context.Context, weekStart time.Time) (models.ShoppingList, error) {
	if err := ValidateMonday(weekStart); err != nil {
		return models.ShoppingList{}, err
	}

	sources, err := service.WeekIngredients(ctx, weekStart)
	if err != nil {
		return models.ShoppingList{}, err
	}
	items := ShoppingItems(AggregateIngredients(sources))

	weekKey := weekStart.Format(DateLayout)
	list, err := service.shoppingListRepo.GetOrCreate(ctx, weekKey)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("loading shopping list: %w", err)
	}
	if err := service.shoppingListRepo.ReplaceMealItems(ctx, list.ID, items); err != nil {
		return models.ShoppingList{}, fmt.Errorf("replacing meal items: %w", err)
	}
	return service.shoppingListRepo.FindByWeek(ctx, weekKey)
}

// WeekIngredients flattens the structured ingredients of every filled slot in
// the week, tagged with the recipe name. A recipe used in several slots
// contributes once per slot.
func (service *ShoppingListService) WeekIngredients(ctx context.Context, weekStart time.Time) ([]IngredientSource, error) {
	bounds := GetWeekBounds(weekStart)
	days, err := service.mealPlanRepo.FindRange(ctx, bounds.StartDate.Format(DateLayout), bounds.EndDate.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("loading meal plan: %w", err)
	}

	var assigned []string
	for _, day := range days {
		for _, slot := range models.MealSlots {
			if id := day.RecipeID(slot); id != "" {
				assigned = append(assigned, id)
			}
		}
	}

	recipes, err := service.recipeRepo.FindByIDs(ctx, assigned)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	byID := make(map[string]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}

	var sources []IngredientSource
	for _, id := range assigned {
		recipe, ok := byID[id]
		if !ok {
			continue
		}
		for _, ingredient := range recipe.StructuredIngredients {
			sources = append(sources, IngredientSource{
				Name:       ingredient.Name,
				Quantity:   ingredient.Quantity,
				Unit:       ingredient.Unit,
				RecipeName: recipe.Name,
			})
		}
	}
	return sources, nil
}

// ShoppingItems maps aggregated ingredients to unsaved meal items in order.
func ShoppingItems(aggregated []AggregatedIngredient) []models.ShoppingListItem {
	items := make([]models.ShoppingListItem, len(aggregated))
	for index, ingredient := range aggregated {
		notes := ingredient.Notes
		items[index] = models.ShoppingListItem{
			Name:     ingredient.Name,
			Quantity: ingredient.CombinedQuantity,
			Unit:     ingredient.CombinedUnit,
			Notes:    &notes,
			Source:   models.ItemSourceMeal,
			Order:    index,
		}
	}
	return items
}
