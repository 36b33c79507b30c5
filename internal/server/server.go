package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bensuskins/meal-planner/internal/config"
	"github.com/bensuskins/meal-planner/internal/handlers"
	"github.com/bensuskins/meal-planner/internal/llm"
	"github.com/bensuskins/meal-planner/internal/middleware"
	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

// New wires the repositories, services and handlers. textGen may be nil when
// no AI provider is configured; AI endpoints then answer with an error.
func New(database *sql.DB, cfg config.Config, textGen llm.TextGenerator) *Server {
	recipeRepo := repository.NewRecipeRepository(database)
	mealPlanRepo := repository.NewMealPlanRepository(database)
	shoppingListRepo := repository.NewShoppingListRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)

	recipeService := services.NewRecipeService(recipeRepo, mealPlanRepo)
	mealPlanService := services.NewMealPlanService(mealPlanRepo, recipeRepo, services.NewPlanGenerator(textGen))
	shoppingListService := services.NewShoppingListService(mealPlanRepo, recipeRepo, shoppingListRepo)
	extractor := services.NewRecipeExtractor(textGen, &http.Client{Timeout: cfg.AITimeout})

	recipeHandler := handlers.NewRecipeHandler(recipeRepo, recipeService, extractor)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService, mealPlanRepo, recipeRepo)
	shoppingListHandler := handlers.NewShoppingListHandler(shoppingListService, shoppingListRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))
	router.Use(middleware.InjectHouseholdName(settingsRepo))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

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

	server := &Server{
		router: router,
		config: cfg,
	}

	return server
}

func (server *Server) Handler() http.Handler {
	return server.router
}

const shutdownTimeout = 10 * time.Second

// Start serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Start(ctx context.Context) error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrors := make(chan error, 1)
	go func() {
		serveErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErrors:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-serveErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
