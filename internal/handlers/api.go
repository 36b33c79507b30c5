package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return &services.ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// writeError maps err onto a status code. Internal failures are logged under
// action and answered with a generic message.
func writeError(w http.ResponseWriter, action string, err error) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, services.ErrInvalidWeekStart),
		errors.Is(err, services.ErrInvalidSwap):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, services.ErrUpstream):
		slog.Error(action, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		slog.Error(action, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
