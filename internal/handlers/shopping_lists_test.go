package handlers

import (
	"net/http"
	"testing"

	"github.com/bensuskins/meal-planner/internal/models"
)

func TestShoppingListHandler_GetMissing(t *testing.T) {
	api := newTestAPI(t, nil)

	recorder := api.do(t, http.MethodGet, "/api/shopping-lists/2026-02-09", "")
	expectStatus(t, recorder, http.StatusNotFound)

	recorder = api.do(t, http.MethodGet, "/api/shopping-lists/2026-02-10", "")
	expectStatus(t, recorder, http.StatusBadRequest)
}

func TestShoppingListHandler_GenerateKeepsManualItems(t *testing.T) {
	api := newTestAPI(t, nil)
	a := api.createRecipe(t, "A", "2 cups rice\n1 onion")
	b := api.createRecipe(t, "B", "2 cups rice")

	decodeWeek(t, api, http.MethodPost, "/api/meal-plans", `{"startDate": "2026-02-09"}`, http.StatusCreated)
	decodeWeek(t, api, http.MethodPatch, "/api/meal-plans/2026-02-09",
		`{"days": [{"date": "2026-02-09", "proteinRecipeId": "`+a.ID+`"}, {"date": "2026-02-10", "carbRecipeId": "`+b.ID+`"}]}`, http.StatusOK)

	recorder := api.do(t, http.MethodPost, "/api/shopping-lists/2026-02-09/items", `{"name": "coffee", "quantity": "1", "unit": "bag"}`)
	expectStatus(t, recorder, http.StatusCreated)
	var manual models.ShoppingListItem
	decodeBody(t, recorder, &manual)
	if manual.Source != models.ItemSourceManual {
		t.Errorf("expected manual source, got %s", manual.Source)
	}

	for i := 0; i < 2; i++ {
		recorder = api.do(t, http.MethodPost, "/api/shopping-lists/2026-02-09/generate", "")
		expectStatus(t, recorder, http.StatusOK)
	}

	var list models.ShoppingList
	decodeBody(t, recorder, &list)
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(list.Items), list.Items)
	}
	if list.Items[0].Name != "coffee" {
		t.Errorf("expected manual item first, got %q", list.Items[0].Name)
	}
	rice := list.Items[2]
	if rice.Name != "rice" || rice.Quantity == nil || *rice.Quantity != "2 + 2" {
		t.Errorf("unexpected rice item: %+v", rice)
	}
	if rice.Notes == nil || *rice.Notes != "From: A, B" {
		t.Errorf("unexpected rice notes: %v", rice.Notes)
	}
}

func TestShoppingListHandler_ItemLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)

	recorder := api.do(t, http.MethodPost, "/api/shopping-lists/2026-02-09/items", `{"name": "  "}`)
	expectStatus(t, recorder, http.StatusBadRequest)

	recorder = api.do(t, http.MethodPost, "/api/shopping-lists/2026-02-09/items", `{"name": "milk", "notes": "oat"}`)
	expectStatus(t, recorder, http.StatusCreated)
	var item models.ShoppingListItem
	decodeBody(t, recorder, &item)

	recorder = api.do(t, http.MethodPatch, "/api/shopping-lists/2026-02-09/items/"+item.ID, `{"checked": true}`)
	expectStatus(t, recorder, http.StatusOK)
	var updated models.ShoppingListItem
	decodeBody(t, recorder, &updated)
	if !updated.Checked || updated.Name != "milk" || updated.Notes == nil || *updated.Notes != "oat" {
		t.Errorf("expected only checked to change, got %+v", updated)
	}

	recorder = api.do(t, http.MethodPatch, "/api/shopping-lists/2026-02-09/items/missing", `{"checked": true}`)
	expectStatus(t, recorder, http.StatusNotFound)

	recorder = api.do(t, http.MethodDelete, "/api/shopping-lists/2026-02-09/items/"+item.ID, "")
	expectStatus(t, recorder, http.StatusOK)
	recorder = api.do(t, http.MethodDelete, "/api/shopping-lists/2026-02-09/items/"+item.ID, "")
	expectStatus(t, recorder, http.StatusNotFound)

	recorder = api.do(t, http.MethodDelete, "/api/shopping-lists/2026-02-09", "")
	expectStatus(t, recorder, http.StatusOK)
	recorder = api.do(t, http.MethodGet, "/api/shopping-lists/2026-02-09", "")
	expectStatus(t, recorder, http.StatusNotFound)
}
