package handlers

import (
	"net/http"
	"strings"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
)

type SettingsHandler struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsHandler(settingsRepo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settingsRepo: settingsRepo}
}

type settingsResponse struct {
	HouseholdName string `json:"householdName"`
}

func (handler *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := handler.settingsRepo.GetAll(r.Context())
	if err != nil {
		writeError(w, "loading settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{HouseholdName: settings[models.SettingHouseholdName]})
}

type settingsRequest struct {
	HouseholdName string `json:"householdName"`
}

func (handler *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request settingsRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, "decoding settings", err)
		return
	}

	name := strings.TrimSpace(request.HouseholdName)
	if name == "" {
		writeError(w, "updating settings", &services.ValidationError{Message: "householdName is required"})
		return
	}

	if err := handler.settingsRepo.Set(r.Context(), models.SettingHouseholdName, name); err != nil {
		writeError(w, "updating settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{HouseholdName: name})
}
