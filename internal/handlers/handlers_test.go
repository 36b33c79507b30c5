package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bensuskins/meal-planner/internal/llm"
	"github.com/bensuskins/meal-planner/internal/middleware"
	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
	"github.com/bensuskins/meal-planner/internal/testutil"
	"github.com/go-chi/chi/v5"
)

type stubGenerator struct {
	content string
	err     error
}

func (stub *stubGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	if stub.err != nil {
		return llm.ContentResponse{}, stub.err
	}
	return llm.ContentResponse{Content: stub.content}, nil
}

type testAPI struct {
	router        http.Handler
	recipes       *repository.SQLiteRecipeRepository
	mealPlans     *repository.SQLiteMealPlanRepository
	shoppingLists *repository.SQLiteShoppingListRepository
	settings      *repository.SQLiteSettingsRepository
}

// newTestAPI mounts the handlers on the same paths the server uses. A nil
// generator leaves the AI endpoints unconfigured.
func newTestAPI(t *testing.T, generator *stubGenerator) testAPI {
	t.Helper()
	db := testutil.NewTestDatabase(t)

	recipeRepo := repository.NewRecipeRepository(db)
	mealPlanRepo := repository.NewMealPlanRepository(db)
	shoppingListRepo := repository.NewShoppingListRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	var textGen llm.TextGenerator
	if generator != nil {
		textGen = generator
	}

	recipeHandler := NewRecipeHandler(recipeRepo, services.NewRecipeService(recipeRepo, mealPlanRepo), services.NewRecipeExtractor(textGen, http.DefaultClient))
	mealPlanHandler := NewMealPlanHandler(services.NewMealPlanService(mealPlanRepo, recipeRepo, services.NewPlanGenerator(textGen)), mealPlanRepo, recipeRepo)
	shoppingListHandler := NewShoppingListHandler(services.NewShoppingListService(mealPlanRepo, recipeRepo, shoppingListRepo), shoppingListRepo)
	settingsHandler := NewSettingsHandler(settingsRepo)

	router := chi.NewRouter()
	router.Use(middleware.InjectHouseholdName(settingsRepo))
	router.Route("/api", func(r chi.Router) {
		r.Get("/recipes", recipeHandler.List)
		r.Post("/recipes", recipeHandler.Create)
		r.Post("/recipes/extract", recipeHandler.Extract)
		r.Get("/recipes/{id}", recipeHandler.Get)
		r.Patch("/recipes/{id}", recipeHandler.Update)
		r.Delete("/recipes/{id}", recipeHandler.Delete)
		r.Post("/ingredients/parse", recipeHandler.ParseIngredients)

		r.Get("/meal-plans", mealPlanHandler.Get)
		r.Post("/meal-plans", mealPlanHandler.Create)
		r.Patch("/meal-plans/{startDate}", mealPlanHandler.Update)
		r.Delete("/meal-plans/{startDate}", mealPlanHandler.Delete)
		r.Post("/meal-plans/{startDate}/swap", mealPlanHandler.Swap)
		r.Post("/meal-plans/{startDate}/generate", mealPlanHandler.Generate)
		r.Get("/meal-plans/{startDate}/calendar.ics", mealPlanHandler.Calendar)

		r.Get("/shopping-lists/{weekStart}", shoppingListHandler.Get)
		r.Delete("/shopping-lists/{weekStart}", shoppingListHandler.Delete)
		r.Post("/shopping-lists/{weekStart}/generate", shoppingListHandler.Generate)
		r.Post("/shopping-lists/{weekStart}/items", shoppingListHandler.AddItem)
		r.Patch("/shopping-lists/{weekStart}/items/{itemID}", shoppingListHandler.UpdateItem)
		r.Delete("/shopping-lists/{weekStart}/items/{itemID}", shoppingListHandler.DeleteItem)

		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Update)
	})

	return testAPI{
		router:        router,
		recipes:       recipeRepo,
		mealPlans:     mealPlanRepo,
		shoppingLists: shoppingListRepo,
		settings:      settingsRepo,
	}
}

func (api testAPI) do(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("decoding response %q: %v", recorder.Body.String(), err)
	}
}

func expectStatus(t *testing.T, recorder *httptest.ResponseRecorder, status int) {
	t.Helper()
	if recorder.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, recorder.Code, recorder.Body.String())
	}
}

func (api testAPI) createRecipe(t *testing.T, name string, ingredients string) models.Recipe {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name, "ingredients": ingredients})
	recorder := api.do(t, http.MethodPost, "/api/recipes", string(body))
	expectStatus(t, recorder, http.StatusCreated)

	var recipe models.Recipe
	decodeBody(t, recorder, &recipe)
	return recipe
}
