package services_test

import (
	"context"
	"testing"

	"github.com/bensuskins/meal-planner/internal/llm"
	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
	"github.com/bensuskins/meal-planner/internal/testutil"
)

type stubGenerator struct {
	content string
	err     error
	prompts []string
}

func (stub *stubGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	stub.prompts = append(stub.prompts, prompt)
	if stub.err != nil {
		return llm.ContentResponse{}, stub.err
	}
	return llm.ContentResponse{Content: stub.content}, nil
}

type testRepositories struct {
	recipes       *repository.SQLiteRecipeRepository
	mealPlans     *repository.SQLiteMealPlanRepository
	shoppingLists *repository.SQLiteShoppingListRepository
}

func setupRepositories(t *testing.T) testRepositories {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	return testRepositories{
		recipes:       repository.NewRecipeRepository(db),
		mealPlans:     repository.NewMealPlanRepository(db),
		shoppingLists: repository.NewShoppingListRepository(db),
	}
}

func createRecipe(t *testing.T, repos testRepositories, name string, lines ...string) models.Recipe {
	t.Helper()
	var ingredients []models.StructuredIngredient
	for _, line := range lines {
		parsed := services.ParseIngredientLine(line)
		ingredients = append(ingredients, models.StructuredIngredient{
			Name: parsed.Name, Quantity: parsed.Quantity, Unit: parsed.Unit, Notes: parsed.Notes,
		})
	}
	recipe, err := repos.recipes.Create(context.Background(), models.Recipe{Name: name, StructuredIngredients: ingredients})
	if err != nil {
		t.Fatalf("creating recipe %s: %v", name, err)
	}
	return recipe
}
