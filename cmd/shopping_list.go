package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bensuskins/meal-planner/internal/database"
	"github.com/bensuskins/meal-planner/internal/repository"
	"github.com/bensuskins/meal-planner/internal/services"
	"github.com/spf13/cobra"
)

var weekFlag string

var shoppingListCmd = &cobra.Command{
	Use:   "shopping-list",
	Short: "Generate a week's shopping list from the stored meal plan and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var weekStart time.Time
		if weekFlag == "" {
			weekStart = services.MondayOnOrBefore(time.Now().UTC())
		} else {
			weekStart, err = services.ParseWeekStart(weekFlag)
			if err != nil {
				return err
			}
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

		shoppingListService := services.NewShoppingListService(
			repository.NewMealPlanRepository(db),
			repository.NewRecipeRepository(db),
			repository.NewShoppingListRepository(db),
		)
		list, err := shoppingListService.GenerateForWeek(ctx, weekStart)
		if err != nil {
			return fmt.Errorf("generating shopping list: %w", err)
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(list)
	},
}

func init() {
	shoppingListCmd.Flags().StringVar(&weekFlag, "week", "", "Monday of the week as YYYY-MM-DD (default: current week)")
}
