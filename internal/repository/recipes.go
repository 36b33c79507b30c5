package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/google/uuid"
)

type RecipeRepository interface {
	FindByID(ctx context.Context, id string) (models.Recipe, error)
	FindAll(ctx context.Context) ([]models.Recipe, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Recipe, error)
	Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Update(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Delete(ctx context.Context, id string) error
	ReplaceIngredients(ctx context.Context, recipeID string, ingredients []models.StructuredIngredient) ([]models.StructuredIngredient, error)
}

type SQLiteRecipeRepository struct {
	database *sql.DB
}

func NewRecipeRepository(database *sql.DB) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{database: database}
}

const recipeColumns = `id, name, ingredients, instructions, protein_type, carb_type, prep_time,
	tier, source_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (models.Recipe, error) {
	var recipe models.Recipe
	err := row.Scan(
		&recipe.ID, &recipe.Name, &recipe.Ingredients, &recipe.Instructions,
		&recipe.ProteinType, &recipe.CarbType, &recipe.PrepTime,
		&recipe.Tier, &recipe.SourceURL, &recipe.CreatedAt, &recipe.UpdatedAt,
	)
	return recipe, err
}

func (repository *SQLiteRecipeRepository) FindByID(ctx context.Context, id string) (models.Recipe, error) {
	recipe, err := scanRecipe(repository.database.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id,
	))
	if err != nil {
		return models.Recipe{}, notFound("finding recipe by id", err)
	}

	ingredients, err := repository.findIngredients(ctx, []string{id})
	if err != nil {
		return models.Recipe{}, err
	}
	recipe.StructuredIngredients = ingredients[id]
	if recipe.StructuredIngredients == nil {
		recipe.StructuredIngredients = []models.StructuredIngredient{}
	}
	return recipe, nil
}

// FindAll returns the catalog ordered by name, without structured ingredients.
func (repository *SQLiteRecipeRepository) FindAll(ctx context.Context) ([]models.Recipe, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY name COLLATE NOCASE ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// FindByIDs loads the given recipes with their structured ingredients. Unknown
// ids are skipped; the result follows the order of ids.
func (repository *SQLiteRecipeRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}

	placeholders, args := inClause(ids)
	rows, err := repository.database.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("finding recipes by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]models.Recipe, len(ids))
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		byID[recipe.ID] = recipe
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recipes: %w", err)
	}

	ingredients, err := repository.findIngredients(ctx, ids)
	if err != nil {
		return nil, err
	}

	recipes := make([]models.Recipe, 0, len(byID))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		recipe, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		recipe.StructuredIngredients = ingredients[id]
		if recipe.StructuredIngredients == nil {
			recipe.StructuredIngredients = []models.StructuredIngredient{}
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func (repository *SQLiteRecipeRepository) findIngredients(ctx context.Context, recipeIDs []string) (map[string][]models.StructuredIngredient, error) {
	placeholders, args := inClause(recipeIDs)
	rows, err := repository.database.QueryContext(ctx,
		`SELECT id, recipe_id, name, quantity, unit, notes, sort_order
		FROM structured_ingredients WHERE recipe_id IN (`+placeholders+`)
		ORDER BY recipe_id, sort_order ASC`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("finding structured ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make(map[string][]models.StructuredIngredient)
	for rows.Next() {
		var ingredient models.StructuredIngredient
		if err := rows.Scan(
			&ingredient.ID, &ingredient.RecipeID, &ingredient.Name,
			&ingredient.Quantity, &ingredient.Unit, &ingredient.Notes, &ingredient.Order,
		); err != nil {
			return nil, fmt.Errorf("scanning structured ingredient: %w", err)
		}
		ingredients[ingredient.RecipeID] = append(ingredients[ingredient.RecipeID], ingredient)
	}
	return ingredients, rows.Err()
}

func (repository *SQLiteRecipeRepository) Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if recipe.Tier == "" {
		recipe.Tier = models.TierNew
	}
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	_, err = transaction.ExecContext(ctx,
		`INSERT INTO recipes (`+recipeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID, recipe.Name, recipe.Ingredients, recipe.Instructions,
		recipe.ProteinType, recipe.CarbType, recipe.PrepTime,
		recipe.Tier, recipe.SourceURL, recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}

	recipe.StructuredIngredients, err = insertIngredients(ctx, transaction, recipe.ID, recipe.StructuredIngredients)
	if err != nil {
		return models.Recipe{}, err
	}

	if err := transaction.Commit(); err != nil {
		return models.Recipe{}, fmt.Errorf("committing recipe: %w", err)
	}
	return recipe, nil
}

// Update writes the recipe's fields and replaces its structured ingredients
// in the same transaction.
func (repository *SQLiteRecipeRepository) Update(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	recipe.UpdatedAt = time.Now()

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	result, err := transaction.ExecContext(ctx,
		`UPDATE recipes SET name = ?, ingredients = ?, instructions = ?, protein_type = ?,
			carb_type = ?, prep_time = ?, tier = ?, source_url = ?, updated_at = ?
		WHERE id = ?`,
		recipe.Name, recipe.Ingredients, recipe.Instructions, recipe.ProteinType,
		recipe.CarbType, recipe.PrepTime, recipe.Tier, recipe.SourceURL,
		recipe.UpdatedAt, recipe.ID,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}
	if err := requireAffected(result, "updating recipe"); err != nil {
		return models.Recipe{}, err
	}

	if _, err := transaction.ExecContext(ctx, "DELETE FROM structured_ingredients WHERE recipe_id = ?", recipe.ID); err != nil {
		return models.Recipe{}, fmt.Errorf("clearing structured ingredients: %w", err)
	}
	recipe.StructuredIngredients, err = insertIngredients(ctx, transaction, recipe.ID, recipe.StructuredIngredients)
	if err != nil {
		return models.Recipe{}, err
	}

	if err := transaction.Commit(); err != nil {
		return models.Recipe{}, fmt.Errorf("committing recipe: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return requireAffected(result, "deleting recipe")
}

// ReplaceIngredients deletes every structured ingredient of the recipe and
// inserts the given list in one transaction. Order is renumbered from zero.
func (repository *SQLiteRecipeRepository) ReplaceIngredients(ctx context.Context, recipeID string, ingredients []models.StructuredIngredient) ([]models.StructuredIngredient, error) {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	result, err := transaction.ExecContext(ctx,
		"UPDATE recipes SET updated_at = ? WHERE id = ?", time.Now(), recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("touching recipe: %w", err)
	}
	if err := requireAffected(result, "replacing structured ingredients"); err != nil {
		return nil, err
	}

	if _, err := transaction.ExecContext(ctx, "DELETE FROM structured_ingredients WHERE recipe_id = ?", recipeID); err != nil {
		return nil, fmt.Errorf("clearing structured ingredients: %w", err)
	}

	inserted, err := insertIngredients(ctx, transaction, recipeID, ingredients)
	if err != nil {
		return nil, err
	}

	if err := transaction.Commit(); err != nil {
		return nil, fmt.Errorf("committing structured ingredients: %w", err)
	}
	return inserted, nil
}

func insertIngredients(ctx context.Context, transaction *sql.Tx, recipeID string, ingredients []models.StructuredIngredient) ([]models.StructuredIngredient, error) {
	inserted := make([]models.StructuredIngredient, 0, len(ingredients))
	for index, ingredient := range ingredients {
		ingredient.ID = uuid.New().String()
		ingredient.RecipeID = recipeID
		ingredient.Order = index

		_, err := transaction.ExecContext(ctx,
			`INSERT INTO structured_ingredients (id, recipe_id, name, quantity, unit, notes, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ingredient.ID, ingredient.RecipeID, ingredient.Name,
			ingredient.Quantity, ingredient.Unit, ingredient.Notes, ingredient.Order,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting structured ingredient: %w", err)
		}
		inserted = append(inserted, ingredient)
	}
	return inserted, nil
}

func inClause(values []string) (string, []any) {
	args := make([]any, len(values))
	for index, value := range values {
		args[index] = value
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", "), args
}
