package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bensuskins/meal-planner/internal/models"
	"github.com/google/uuid"
)

type ShoppingListRepository interface {
	FindByWeek(ctx context.Context, weekStart string) (models.ShoppingList, error)
	GetOrCreate(ctx context.Context, weekStart string) (models.ShoppingList, error)
	ReplaceMealItems(ctx context.Context, listID string, items []models.ShoppingListItem) error
	FindItem(ctx context.Context, listID string, itemID string) (models.ShoppingListItem, error)
	AddItem(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error)
	UpdateItem(ctx context.Context, item models.ShoppingListItem) error
	DeleteItem(ctx context.Context, listID string, itemID string) error
	Delete(ctx context.Context, weekStart string) error
}

type SQLiteShoppingListRepository struct {
	database *sql.DB
}

func NewShoppingListRepository(database *sql.DB) *SQLiteShoppingListRepository {
	return &SQLiteShoppingListRepository{database: database}
}

func (repository *SQLiteShoppingListRepository) FindByWeek(ctx context.Context, weekStart string) (models.ShoppingList, error) {
	var list models.ShoppingList
	err := repository.database.QueryRowContext(ctx,
		`SELECT id, week_start, created_at, updated_at FROM shopping_lists WHERE week_start = ?`, weekStart,
	).Scan(&list.ID, &list.WeekStart, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		return models.ShoppingList{}, notFound("finding shopping list", err)
	}

	items, err := repository.findItems(ctx, list.ID)
	if err != nil {
		return models.ShoppingList{}, err
	}
	list.Items = items
	return list, nil
}

func (repository *SQLiteShoppingListRepository) GetOrCreate(ctx context.Context, weekStart string) (models.ShoppingList, error) {
	list, err := repository.FindByWeek(ctx, weekStart)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.ShoppingList{}, err
	}

	now := time.Now()
	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO shopping_lists (id, week_start, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (week_start) DO NOTHING`,
		uuid.New().String(), weekStart, now, now,
	)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("creating shopping list: %w", err)
	}
	return repository.FindByWeek(ctx, weekStart)
}

func (repository *SQLiteShoppingListRepository) findItems(ctx context.Context, listID string) ([]models.ShoppingListItem, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT id, shopping_list_id, name, quantity, unit, notes, checked, source, sort_order
		FROM shopping_list_items WHERE shopping_list_id = ?
		ORDER BY sort_order ASC`, listID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding shopping list items: %w", err)
	}
	defer rows.Close()

	items := []models.ShoppingListItem{}
	for rows.Next() {
		var item models.ShoppingListItem
		if err := rows.Scan(
			&item.ID, &item.ShoppingListID, &item.Name, &item.Quantity, &item.Unit,
			&item.Notes, &item.Checked, &item.Source, &item.Order,
		); err != nil {
			return nil, fmt.Errorf("scanning shopping list item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ReplaceMealItems deletes the list's meal-sourced items and inserts the given
// ones after the remaining manual items, all in one transaction.
func (repository *SQLiteShoppingListRepository) ReplaceMealItems(ctx context.Context, listID string, items []models.ShoppingListItem) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	if _, err := transaction.ExecContext(ctx,
		"DELETE FROM shopping_list_items WHERE shopping_list_id = ? AND source = ?",
		listID, models.ItemSourceMeal,
	); err != nil {
		return fmt.Errorf("clearing meal items: %w", err)
	}

	next, err := nextItemOrder(ctx, transaction, listID)
	if err != nil {
		return err
	}

	for index, item := range items {
		_, err := transaction.ExecContext(ctx,
			`INSERT INTO shopping_list_items (id, shopping_list_id, name, quantity, unit, notes, checked, source, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), listID, item.Name, item.Quantity, item.Unit, item.Notes,
			false, models.ItemSourceMeal, next+index,
		)
		if err != nil {
			return fmt.Errorf("inserting meal item: %w", err)
		}
	}

	result, err := transaction.ExecContext(ctx,
		"UPDATE shopping_lists SET updated_at = ? WHERE id = ?", time.Now(), listID,
	)
	if err != nil {
		return fmt.Errorf("touching shopping list: %w", err)
	}
	if err := requireAffected(result, "replacing meal items"); err != nil {
		return err
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing meal items: %w", err)
	}
	return nil
}

func nextItemOrder(ctx context.Context, transaction *sql.Tx, listID string) (int, error) {
	var maxOrder sql.NullInt64
	err := transaction.QueryRowContext(ctx,
		"SELECT MAX(sort_order) FROM shopping_list_items WHERE shopping_list_id = ?", listID,
	).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("finding last item order: %w", err)
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func (repository *SQLiteShoppingListRepository) FindItem(ctx context.Context, listID string, itemID string) (models.ShoppingListItem, error) {
	var item models.ShoppingListItem
	err := repository.database.QueryRowContext(ctx,
		`SELECT id, shopping_list_id, name, quantity, unit, notes, checked, source, sort_order
		FROM shopping_list_items WHERE id = ? AND shopping_list_id = ?`, itemID, listID,
	).Scan(
		&item.ID, &item.ShoppingListID, &item.Name, &item.Quantity, &item.Unit,
		&item.Notes, &item.Checked, &item.Source, &item.Order,
	)
	if err != nil {
		return models.ShoppingListItem{}, notFound("finding shopping list item", err)
	}
	return item, nil
}

// AddItem appends a manual item to the end of the list.
func (repository *SQLiteShoppingListRepository) AddItem(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	item.Order, err = nextItemOrder(ctx, transaction, item.ShoppingListID)
	if err != nil {
		return models.ShoppingListItem{}, err
	}
	item.ID = uuid.New().String()
	item.Source = models.ItemSourceManual

	_, err = transaction.ExecContext(ctx,
		`INSERT INTO shopping_list_items (id, shopping_list_id, name, quantity, unit, notes, checked, source, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ShoppingListID, item.Name, item.Quantity, item.Unit, item.Notes,
		item.Checked, item.Source, item.Order,
	)
	if err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("adding shopping list item: %w", err)
	}

	if err := transaction.Commit(); err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("committing shopping list item: %w", err)
	}
	return item, nil
}

func (repository *SQLiteShoppingListRepository) UpdateItem(ctx context.Context, item models.ShoppingListItem) error {
	result, err := repository.database.ExecContext(ctx,
		`UPDATE shopping_list_items SET name = ?, quantity = ?, unit = ?, notes = ?, checked = ?
		WHERE id = ? AND shopping_list_id = ?`,
		item.Name, item.Quantity, item.Unit, item.Notes, item.Checked,
		item.ID, item.ShoppingListID,
	)
	if err != nil {
		return fmt.Errorf("updating shopping list item: %w", err)
	}
	return requireAffected(result, "updating shopping list item")
}

func (repository *SQLiteShoppingListRepository) DeleteItem(ctx context.Context, listID string, itemID string) error {
	result, err := repository.database.ExecContext(ctx,
		"DELETE FROM shopping_list_items WHERE id = ? AND shopping_list_id = ?", itemID, listID,
	)
	if err != nil {
		return fmt.Errorf("deleting shopping list item: %w", err)
	}
	return requireAffected(result, "deleting shopping list item")
}

func (repository *SQLiteShoppingListRepository) Delete(ctx context.Context, weekStart string) error {
	result, err := repository.database.ExecContext(ctx,
		"DELETE FROM shopping_lists WHERE week_start = ?", weekStart,
	)
	if err != nil {
		return fmt.Errorf("deleting shopping list: %w", err)
	}
	return requireAffected(result, "deleting shopping list")
}
