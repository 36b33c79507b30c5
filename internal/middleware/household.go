package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/bensuskins/meal-planner/internal/repository"
)

type contextKey string

const HouseholdNameContextKey contextKey = "household_name"

const defaultHouseholdName = "Household"

// InjectHouseholdName stores the configured household name in the request
// context. Lookup failures fall back to the default name.
func InjectHouseholdName(settingsRepo repository.SettingsRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, err := settingsRepo.Get(r.Context(), models.SettingHouseholdName)
			if err != nil || name == "" {
				if err != nil {
					slog.Warn("loading household name", "error", err)
				}
				name = defaultHouseholdName
			}
			ctx := context.WithValue(r.Context(), HouseholdNameContextKey, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func HouseholdName(ctx context.Context) string {
	if name, ok := ctx.Value(HouseholdNameContextKey).(string); ok {
		return name
	}
	return defaultHouseholdName
}
