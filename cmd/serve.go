package cmd

import (
	"fmt"
	"log/slog"

	"github.com/bensuskins/meal-planner/internal/database"
	"github.com/bensuskins/meal-planner/internal/llm"
	"github.com/bensuskins/meal-planner/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if _, err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	textGen, closeTextGen, err := llm.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating ai client: %w", err)
	}
	defer closeTextGen()

	slog.Info("ai provider", "provider", cfg.AIProvider, "enabled", textGen != nil)
	slog.Info("public url", "url", cfg.BaseURL)

	srv := server.New(db, cfg, textGen)
	return srv.Start(ctx)
}
