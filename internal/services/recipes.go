package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
)

type RecipeService struct {
	recipeRepo   repository.RecipeRepository
	mealPlanRepo repository.MealPlanRepository
}

func NewRecipeService(recipeRepo repository.RecipeRepository, mealPlanRepo repository.MealPlanRepository) *RecipeService {
	return &RecipeService{recipeRepo: recipeRepo, mealPlanRepo: mealPlanRepo}
}

func (service *RecipeService) Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if err := prepareRecipe(&recipe); err != nil {
		return models.Recipe{}, err
	}
	created, err := service.recipeRepo.Create(ctx, recipe)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}
	return created, nil
}

func (service *RecipeService) Update(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if err := prepareRecipe(&recipe); err != nil {
		return models.Recipe{}, err
	}
	updated, err := service.recipeRepo.Update(ctx, recipe)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}
	return updated, nil
}

// Delete removes the recipe after clearing it from every meal-plan slot.
func (service *RecipeService) Delete(ctx context.Context, id string) error {
	if _, err := service.recipeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := service.mealPlanRepo.ClearRecipeID(ctx, id); err != nil {
		return fmt.Errorf("clearing recipe from meal plans: %w", err)
	}
	return service.recipeRepo.Delete(ctx, id)
}

// prepareRecipe validates the recipe and fills in structured ingredients from
// the raw text when none were supplied.
func prepareRecipe(recipe *models.Recipe) error {
	recipe.Name = strings.TrimSpace(recipe.Name)
	if recipe.Name == "" {
		return validationError("name is required")
	}

	if recipe.Tier == "" {
		recipe.Tier = models.TierNew
	}
	if !recipe.Tier.Valid() {
		return validationError(fmt.Sprintf("invalid tier %q", recipe.Tier))
	}

	if len(recipe.StructuredIngredients) == 0 {
		recipe.StructuredIngredients = StructuredIngredientsFromText(recipe.Ingredients)
	}
	for _, ingredient := range recipe.StructuredIngredients {
		if strings.TrimSpace(ingredient.Name) == "" {
			return validationError("structured ingredient name is required")
		}
	}
	return nil
}

// StructuredIngredientsFromText parses each non-blank line of text into a
// storable ingredient. A line the parser leaves without a name, such as
// "2 cups", is kept whole as the name.
func StructuredIngredientsFromText(text string) []models.StructuredIngredient {
	var ingredients []models.StructuredIngredient
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\u00a0", " "))
		if line == "" {
			continue
		}
		parsed := ParseIngredientLine(line)
		if parsed.Name == "" {
			parsed = ParsedIngredient{Name: line}
		}
		ingredients = append(ingredients, models.StructuredIngredient{
			Name:     parsed.Name,
			Quantity: parsed.Quantity,
			Unit:     parsed.Unit,
			Notes:    parsed.Notes,
			Order:    len(ingredients),
		})
	}
	return ingredients
}
