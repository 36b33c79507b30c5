package handlers

import (
	"net/http"
	"strings"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
	"github.com/go-chi/chi/v5"
)

type RecipeHandler struct {
	recipeRepo    repository.RecipeRepository
	recipeService *services.RecipeService
	extractor     *services.RecipeExtractor
}

func NewRecipeHandler(recipeRepo repository.RecipeRepository, recipeService *services.RecipeService, extractor *services.RecipeExtractor) *RecipeHandler {
	return &RecipeHandler{recipeRepo: recipeRepo, recipeService: recipeService, extractor: extractor}
}

type recipeRequest struct {
	Name                  *string                        `json:"name"`
	Ingredients           *string                        `json:"ingredients"`
	StructuredIngredients *[]models.StructuredIngredient `json:"structuredIngredients"`
	Instructions          *string                        `json:"instructions"`
	ProteinType           *string                        `json:"proteinType"`
	CarbType              *string                        `json:"carbType"`
	PrepTime              *string                        `json:"prepTime"`
	Tier                  *models.Tier                   `json:"tier"`
	SourceURL             *string                        `json:"sourceUrl"`
}

// apply copies the fields present in the request onto recipe. Changing the
// raw ingredient text without structured ingredients triggers a re-parse.
func (request recipeRequest) apply(recipe *models.Recipe) {
	if request.Name != nil {
		recipe.Name = *request.Name
	}
	if request.Ingredients != nil {
		recipe.Ingredients = *request.Ingredients
		if request.StructuredIngredients == nil {
			recipe.StructuredIngredients = nil
		}
	}
	if request.StructuredIngredients != nil {
		recipe.StructuredIngredients = *request.StructuredIngredients
	}
	if request.Instructions != nil {
		recipe.Instructions = *request.Instructions
	}
	if request.ProteinType != nil {
		recipe.ProteinType = optional(*request.ProteinType)
	}
	if request.CarbType != nil {
		recipe.CarbType = optional(*request.CarbType)
	}
	if request.PrepTime != nil {
		recipe.PrepTime = optional(*request.PrepTime)
	}
	if request.Tier != nil {
		recipe.Tier = *request.Tier
	}
	if request.SourceURL != nil {
		recipe.SourceURL = optional(*request.SourceURL)
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func (handler *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := handler.recipeRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, "finding recipes", err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (handler *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe, err := handler.recipeRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "finding recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (handler *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request recipeRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding recipe", err)
		return
	}

	var recipe models.Recipe
	request.apply(&recipe)

	created, err := handler.recipeService.Create(r.Context(), recipe)
	if err != nil {
		writeError(w, "creating recipe", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recipe, err := handler.recipeRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "finding recipe", err)
		return
	}

	var request recipeRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding recipe", err)
		return
	}
	request.apply(&recipe)

	updated, err := handler.recipeService.Update(ctx, recipe)
	if err != nil {
		writeError(w, "updating recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (handler *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.recipeService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "deleting recipe", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type extractRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Extract returns an unsaved recipe read from text or a URL by the AI
// provider.
func (handler *RecipeHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var request extractRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding extract request", err)
		return
	}

	var (
		extracted services.ExtractedRecipe
		err       error
	)
	switch {
	case strings.TrimSpace(request.URL) != "":
		extracted, err = handler.extractor.ExtractFromURL(r.Context(), request.URL)
	case strings.TrimSpace(request.Text) != "":
		extracted, err = handler.extractor.ExtractFromText(r.Context(), request.Text)
	default:
		err = &services.ValidationError{Message: "text or url is required"}
	}
	if err != nil {
		writeError(w, "extracting recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, extracted)
}

type parseRequest struct {
	Lines []string `json:"lines"`
}

func (handler *RecipeHandler) ParseIngredients(w http.ResponseWriter, r *http.Request) {
	var request parseRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding parse request", err)
		return
	}

	parsed := make([]services.ParsedIngredient, len(request.Lines))
	for index, line := range request.Lines {
		parsed[index] = services.ParseIngredientLine(line)
	}
	writeJSON(w, http.StatusOK, parsed)
}
