package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/services"
)

var monday = time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

func TestShoppingListService_GenerateForWeek(t *testing.T) {
	repos := setupRepositories(t)
	service := services.NewShoppingListService(repos.mealPlans, repos.recipes, repos.shoppingLists)
	ctx := context.Background()

	a := createRecipe(t, repos, "A", "2 cups rice", "1 onion")
	b := createRecipe(t, repos, "B", "2 cups rice", "3 cloves garlic")
	outside := createRecipe(t, repos, "Next Week", "1 kg potatoes")

	err := repos.mealPlans.SaveDays(ctx, []models.MealPlanDay{
		{Date: "2026-02-09", ProteinRecipeID: a.ID},
		{Date: "2026-02-12", LunchRecipeID: b.ID},
		{Date: "2026-02-16", LunchRecipeID: outside.ID},
	})
	if err != nil {
		t.Fatalf("saving plan: %v", err)
	}

	list, err := service.GenerateForWeek(ctx, monday)
	if err != nil {
		t.Fatalf("generating list: %v", err)
	}
	if list.WeekStart != "2026-02-09" {
		t.Errorf("expected week start 2026-02-09, got %s", list.WeekStart)
	}
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(list.Items), list.Items)
	}

	names := []string{list.Items[0].Name, list.Items[1].Name, list.Items[2].Name}
	if names[0] != "garlic" || names[1] != "onion" || names[2] != "rice" {
		t.Errorf("expected [garlic onion rice], got %v", names)
	}

	rice := list.Items[2]
	if rice.Quantity == nil || *rice.Quantity != "2 + 2" {
		t.Errorf("expected rice quantity '2 + 2', got %v", rice.Quantity)
	}
	if rice.Unit == nil || *rice.Unit != "cups" {
		t.Errorf("expected rice unit 'cups', got %v", rice.Unit)
	}
	if rice.Notes == nil || *rice.Notes != "From: A, B" {
		t.Errorf("expected notes 'From: A, B', got %v", rice.Notes)
	}
	if rice.Source != models.ItemSourceMeal {
		t.Errorf("expected meal source, got %s", rice.Source)
	}
}

func TestShoppingListService_RegenerateKeepsManualItems(t *testing.T) {
	repos := setupRepositories(t)
	service := services.NewShoppingListService(repos.mealPlans, repos.recipes, repos.shoppingLists)
	ctx := context.Background()

	soup := createRecipe(t, repos, "Soup", "2 carrots", "1 leek")
	repos.mealPlans.SaveDays(ctx, []models.MealPlanDay{{Date: "2026-02-10", LunchRecipeID: soup.ID}})

	first, err := service.GenerateForWeek(ctx, monday)
	if err != nil {
		t.Fatalf("first generation: %v", err)
	}
	if _, err := repos.shoppingLists.AddItem(ctx, models.ShoppingListItem{ShoppingListID: first.ID, Name: "dish soap"}); err != nil {
		t.Fatalf("adding manual item: %v", err)
	}

	repos.mealPlans.SaveDays(ctx, []models.MealPlanDay{{Date: "2026-02-10"}})

	second, err := service.GenerateForWeek(ctx, monday)
	if err != nil {
		t.Fatalf("second generation: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected the same list to be reused")
	}
	if len(second.Items) != 1 || second.Items[0].Name != "dish soap" {
		t.Errorf("expected only the manual item to remain, got %+v", second.Items)
	}
}

func TestShoppingListService_RecipeUsedTwiceCountsTwice(t *testing.T) {
	repos := setupRepositories(t)
	service := services.NewShoppingListService(repos.mealPlans, repos.recipes, repos.shoppingLists)
	ctx := context.Background()

	pasta := createRecipe(t, repos, "Pasta", "500 g spaghetti")
	repos.mealPlans.SaveDays(ctx, []models.MealPlanDay{
		{Date: "2026-02-09", CarbRecipeID: pasta.ID},
		{Date: "2026-02-13", CarbRecipeID: pasta.ID},
	})

	list, err := service.GenerateForWeek(ctx, monday)
	if err != nil {
		t.Fatalf("generating list: %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(list.Items))
	}
	if *list.Items[0].Quantity != "500 + 500" || *list.Items[0].Notes != "From: Pasta" {
		t.Errorf("unexpected item: quantity=%s notes=%s", *list.Items[0].Quantity, *list.Items[0].Notes)
	}
}

func TestShoppingListService_RejectsNonMonday(t *testing.T) {
	repos := setupRepositories(t)
	service := services.NewShoppingListService(repos.mealPlans, repos.recipes, repos.shoppingLists)

	_, err := service.GenerateForWeek(context.Background(), monday.AddDate(0, 0, 1))
	if !errors.Is(err, services.ErrInvalidWeekStart) {
		t.Fatalf("expected ErrInvalidWeekStart, got %v", err)
	}
}

func TestShoppingItems(t *testing.T) {
	quantity, unit := "2 + 2", "cups"
	items := services.ShoppingItems([]services.AggregatedIngredient{
		{Name: "rice", CombinedQuantity: &quantity, CombinedUnit: &unit, Notes: "From: A, B"},
		{Name: "butter", Notes: "From: C"},
	})

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].Quantity != nil || items[1].Unit != nil {
		t.Errorf("expected nil quantity and unit for non-combinable group, got %+v", items[1])
	}
	if items[0].Order != 0 || items[1].Order != 1 {
		t.Errorf("unexpected order: %d, %d", items[0].Order, items[1].Order)
	}
}
