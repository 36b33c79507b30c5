package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/google/uuid"
)

type MealPlanRepository interface {
	FindRange(ctx context.Context, dateFrom string, dateTo string) ([]models.MealPlanDay, error)
	CreateDays(ctx context.Context, days []models.MealPlanDay) error
	SaveDays(ctx context.Context, days []models.MealPlanDay) error
	DeleteRange(ctx context.Context, dateFrom string, dateTo string) error
	ClearRecipeID(ctx context.Context, recipeID string) error
}

type SQLiteMealPlanRepository struct {
	database *sql.DB
}

func NewMealPlanRepository(database *sql.DB) *SQLiteMealPlanRepository {
	return &SQLiteMealPlanRepository{database: database}
}

// FindRange returns the stored days with dateFrom <= date <= dateTo, in date
// order. Dates are YYYY-MM-DD so string comparison is chronological.
func (repository *SQLiteMealPlanRepository) FindRange(ctx context.Context, dateFrom string, dateTo string) ([]models.MealPlanDay, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT id, date, lunch_recipe_id, protein_recipe_id, carb_recipe_id, vegetable_recipe_id,
			created_at, updated_at
		FROM meal_plan_days WHERE date >= ? AND date <= ?
		ORDER BY date ASC`,
		dateFrom, dateTo,
	)
	if err != nil {
		return nil, fmt.Errorf("finding meal plan days: %w", err)
	}
	defer rows.Close()

	days := []models.MealPlanDay{}
	for rows.Next() {
		var day models.MealPlanDay
		var lunch, protein, carb, vegetable sql.NullString
		if err := rows.Scan(
			&day.ID, &day.Date, &lunch, &protein, &carb, &vegetable,
			&day.CreatedAt, &day.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning meal plan day: %w", err)
		}
		day.LunchRecipeID = lunch.String
		day.ProteinRecipeID = protein.String
		day.CarbRecipeID = carb.String
		day.VegetableRecipeID = vegetable.String
		days = append(days, day)
	}
	return days, rows.Err()
}

// CreateDays inserts every day in one transaction. Dates that already exist
// are left untouched.
func (repository *SQLiteMealPlanRepository) CreateDays(ctx context.Context, days []models.MealPlanDay) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	now := time.Now()
	for _, day := range days {
		_, err := transaction.ExecContext(ctx,
			`INSERT INTO meal_plan_days (id, date, lunch_recipe_id, protein_recipe_id, carb_recipe_id,
				vegetable_recipe_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (date) DO NOTHING`,
			uuid.New().String(), day.Date,
			nullIfEmpty(day.LunchRecipeID), nullIfEmpty(day.ProteinRecipeID),
			nullIfEmpty(day.CarbRecipeID), nullIfEmpty(day.VegetableRecipeID),
			now, now,
		)
		if err != nil {
			return fmt.Errorf("creating meal plan day %s: %w", day.Date, err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing meal plan days: %w", err)
	}
	return nil
}

// SaveDays upserts the four slots of every day by date in one transaction.
func (repository *SQLiteMealPlanRepository) SaveDays(ctx context.Context, days []models.MealPlanDay) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	now := time.Now()
	for _, day := range days {
		_, err := transaction.ExecContext(ctx,
			`INSERT INTO meal_plan_days (id, date, lunch_recipe_id, protein_recipe_id, carb_recipe_id,
				vegetable_recipe_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (date) DO UPDATE SET
				lunch_recipe_id = excluded.lunch_recipe_id,
				protein_recipe_id = excluded.protein_recipe_id,
				carb_recipe_id = excluded.carb_recipe_id,
				vegetable_recipe_id = excluded.vegetable_recipe_id,
				updated_at = excluded.updated_at`,
			uuid.New().String(), day.Date,
			nullIfEmpty(day.LunchRecipeID), nullIfEmpty(day.ProteinRecipeID),
			nullIfEmpty(day.CarbRecipeID), nullIfEmpty(day.VegetableRecipeID),
			now, now,
		)
		if err != nil {
			return fmt.Errorf("saving meal plan day %s: %w", day.Date, err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing meal plan days: %w", err)
	}
	return nil
}

func (repository *SQLiteMealPlanRepository) DeleteRange(ctx context.Context, dateFrom string, dateTo string) error {
	result, err := repository.database.ExecContext(ctx,
		"DELETE FROM meal_plan_days WHERE date >= ? AND date <= ?", dateFrom, dateTo,
	)
	if err != nil {
		return fmt.Errorf("deleting meal plan days: %w", err)
	}
	return requireAffected(result, "deleting meal plan days")
}

var slotColumns = []string{"lunch_recipe_id", "protein_recipe_id", "carb_recipe_id", "vegetable_recipe_id"}

func (repository *SQLiteMealPlanRepository) ClearRecipeID(ctx context.Context, recipeID string) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	now := time.Now()
	for _, column := range slotColumns {
		_, err := transaction.ExecContext(ctx,
			"UPDATE meal_plan_days SET "+column+" = NULL, updated_at = ? WHERE "+column+" = ?",
			now, recipeID,
		)
		if err != nil {
			return fmt.Errorf("clearing recipe id from %s: %w", column, err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing cleared recipe id: %w", err)
	}
	return nil
}
