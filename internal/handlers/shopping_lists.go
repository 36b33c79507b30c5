package handlers

import (
	"net/http"
	"strings"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
	"github.com/go-chi/chi/v5"
)

type ShoppingListHandler struct {
	shoppingListService *services.ShoppingListService
	shoppingListRepo    repository.ShoppingListRepository
}

func NewShoppingListHandler(shoppingListService *services.ShoppingListService, shoppingListRepo repository.ShoppingListRepository) *ShoppingListHandler {
	return &ShoppingListHandler{shoppingListService: shoppingListService, shoppingListRepo: shoppingListRepo}
}

func (handler *ShoppingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	start, err := services.ParseWeekStart(chi.URLParam(r, "weekStart"))
	if err != nil {
		writeError(w, "parsing week start", err)
		return
	}

	list, err := handler.shoppingListRepo.FindByWeek(r.Context(), start.Format(services.DateLayout))
	if err != nil {
		writeError(w, "loading shopping list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (handler *ShoppingListHandler) Generate(w http.ResponseWriter, r *http.Request) {
	start, err := services.ParseWeekStart(chi.URLParam(r, "weekStart"))
	if err != nil {
		writeError(w, "parsing week start", err)
		return
	}

	list, err := handler.shoppingListService.GenerateForWeek(r.Context(), start)
	if err != nil {
		writeError(w, "generating shopping list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type itemRequest struct {
	Name     *string `json:"name"`
	Quantity *string `json:"quantity"`
	Unit     *string `json:"unit"`
	Notes    *string `json:"notes"`
	Checked  *bool   `json:"checked"`
}

func (request itemRequest) apply(item *models.ShoppingListItem) {
	if request.Name != nil {
		item.Name = strings.TrimSpace(*request.Name)
	}
	if request.Quantity != nil {
		item.Quantity = optional(*request.Quantity)
	}
	if request.Unit != nil {
		item.Unit = optional(*request.Unit)
	}
	if request.Notes != nil {
		item.Notes = optional(*request.Notes)
	}
	if request.Checked != nil {
		item.Checked = *request.Checked
	}
}

// AddItem appends a manual item, creating the week's list when needed.
func (handler *ShoppingListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, err := services.ParseWeekStart(chi.URLParam(r, "weekStart"))
	if err != nil {
		writeError(w, "parsing week start", err)
		return
	}

	var request itemRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding shopping list item", err)
		return
	}

	var item models.ShoppingListItem
	request.apply(&item)
	if item.Name == "" {
		writeError(w, "adding shopping list item", &services.ValidationError{Message: "name is required"})
		return
	}

	list, err := handler.shoppingListRepo.GetOrCreate(ctx, start.Format(services.DateLayout))
	if err != nil {
		writeError(w, "loading shopping list", err)
		return
	}
	item.ShoppingListID = list.ID

	created, err := handler.shoppingListRepo.AddItem(ctx, item)
	if err != nil {
		writeError(w, "adding shopping list item", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *ShoppingListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, ok := handler.findList(w, r)
	if !ok {
		return
	}

	item, err := handler.shoppingListRepo.FindItem(ctx, list.ID, chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, "finding shopping list item", err)
		return
	}

	var request itemRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding shopping list item", err)
		return
	}
	request.apply(&item)
	if item.Name == "" {
		writeError(w, "updating shopping list item", &services.ValidationError{Message: "name is required"})
		return
	}

	if err := handler.shoppingListRepo.UpdateItem(ctx, item); err != nil {
		writeError(w, "updating shopping list item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (handler *ShoppingListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	list, ok := handler.findList(w, r)
	if !ok {
		return
	}

	if err := handler.shoppingListRepo.DeleteItem(r.Context(), list.ID, chi.URLParam(r, "itemID")); err != nil {
		writeError(w, "deleting shopping list item", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (handler *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	start, err := services.ParseWeekStart(chi.URLParam(r, "weekStart"))
	if err != nil {
		writeError(w, "parsing week start", err)
		return
	}

	if err := handler.shoppingListRepo.Delete(r.Context(), start.Format(services.DateLayout)); err != nil {
		writeError(w, "deleting shopping list", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (handler *ShoppingListHandler) findList(w http.ResponseWriter, r *http.Request) (models.ShoppingList, bool) {
	start, err := services.ParseWeekStart(chi.URLParam(r, "weekStart"))
	if err != nil {
		writeError(w, "parsing week start", err)
		return models.ShoppingList{}, false
	}

	list, err := handler.shoppingListRepo.FindByWeek(r.Context(), start.Format(services.DateLayout))
	if err != nil {
		writeError(w, "loading shopping list", err)
		return models.ShoppingList{}, false
	}
	return list, true
}
