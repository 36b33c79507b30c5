package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bensuskins/meal-planner/internal/middleware"
	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
	"github.com/go-chi/chi/v5"
)

type MealPlanHandler struct {
	mealPlanService *services.MealPlanService
	mealPlanRepo    repository.MealPlanRepository
	recipeRepo      repository.RecipeRepository
	now             func() time.Time
}

func NewMealPlanHandler(mealPlanService *services.MealPlanService, mealPlanRepo repository.MealPlanRepository, recipeRepo repository.RecipeRepository) *MealPlanHandler {
	return &MealPlanHandler{
		mealPlanService: mealPlanService,
		mealPlanRepo:    mealPlanRepo,
		recipeRepo:      recipeRepo,
		now:             time.Now,
	}
}

// Get returns the week starting at ?startDate, defaulting to the current
// week.
func (handler *MealPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	start, err := services.ParseStartDate(r.URL.Query().Get("startDate"), handler.now())
	if err == nil {
		err = services.ValidateMonday(start)
	}
	if err != nil {
		writeError(w, "parsing start date", err)
		return
	}

	week, err := handler.mealPlanService.GetWeek(r.Context(), start)
	if err != nil {
		writeError(w, "loading meal plan", err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

type createWeekRequest struct {
	StartDate string `json:"startDate"`
}

func (handler *MealPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request createWeekRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding meal plan", err)
		return
	}

	start, err := services.ParseWeekStart(request.StartDate)
	if err != nil {
		writeError(w, "parsing start date", err)
		return
	}

	week, err := handler.mealPlanService.CreateWeek(r.Context(), start)
	if err != nil {
		writeError(w, "creating meal plan", err)
		return
	}
	writeJSON(w, http.StatusCreated, week)
}

type updateWeekRequest struct {
	Days []models.MealPlanDay `json:"days"`
}

func (handler *MealPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	start, err := services.ParseWeekStart(chi.URLParam(r, "startDate"))
	if err != nil {
		writeError(w, "parsing start date", err)
		return
	}

	var request updateWeekRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding meal plan", err)
		return
	}

	week, err := handler.mealPlanService.UpdateDays(r.Context(), start, request.Days)
	if err != nil {
		writeError(w, "updating meal plan", err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

func (handler *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	start, err := services.ParseWeekStart(chi.URLParam(r, "startDate"))
	if err != nil {
		writeError(w, "parsing start date", err)
		return
	}

	if err := handler.mealPlanService.DeleteWeek(r.Context(), start); err != nil {
		writeError(w, "deleting meal plan", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type swapRequest struct {
	Slot models.MealSlot `json:"slot"`
	From int             `json:"from"`
	To   int             `json:"to"`
}

func (handler *MealPlanHandler) Swap(w http.ResponseWriter, r *http.Request) {
	start, err := services.ParseWeekStart(chi.URLParam(r, "startDate"))
	if err != nil {
		writeError(w, "parsing start date", err)
		return
	}

	var request swapRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding swap", err)
		return
	}

	week, err := handler.mealPlanService.Swap(r.Context(), start, request.Slot, request.From, request.To)
	if err != nil {
		writeError(w, "swapping meals", err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

type generateRequest struct {
	Instruction string `json:"instruction"`
}

func (handler *MealPlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	start, err := services.ParseWeekStart(chi.URLParam(r, "startDate"))
	if err != nil {
		writeError(w, "parsing start date", err)
		return
	}

	var request generateRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding generate request", err)
		return
	}

	week, err := handler.mealPlanService.Generate(r.Context(), start, request.Instruction)
	if err != nil {
		writeError(w, "generating meal plan", err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// Calendar serves the stored days of a week as an iCalendar feed named after
// the household.
func (handler *MealPlanHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, err := services.ParseWeekStart(chi.URLParam(r, "startDate"))
	if err != nil {
		writeError(w, "parsing start date", err)
		return
	}

	bounds := services.GetWeekBounds(start)
	days, err := handler.mealPlanRepo.FindRange(ctx, bounds.StartDate.Format(services.DateLayout), bounds.EndDate.Format(services.DateLayout))
	if err != nil {
		writeError(w, "loading meal plan", err)
		return
	}

	var recipeIDs []string
	for _, day := range days {
		for _, slot := range models.MealSlots {
			if id := day.RecipeID(slot); id != "" {
				recipeIDs = append(recipeIDs, id)
			}
		}
	}
	recipes, err := handler.recipeRepo.FindByIDs(ctx, recipeIDs)
	if err != nil {
		writeError(w, "loading recipes", err)
		return
	}
	recipeNames := make(map[string]string, len(recipes))
	for _, recipe := range recipes {
		recipeNames[recipe.ID] = recipe.Name
	}

	calendar := services.MealPlanCalendar(middleware.HouseholdName(ctx), days, recipeNames, handler.now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"meal-plan-%s.ics\"", start.Format(services.DateLayout)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(calendar))
}
