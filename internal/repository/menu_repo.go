package repository

import (
	"context"
	"fmt"

	"pizza_service/internal/model"
)

// MenuRepository defines operations for the global menu catalog
type MenuRepository interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	Insert(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
}

type menuRepository struct {
	db DB
}

// NewMenuRepository creates a new MenuRepository
func NewMenuRepository(db DB) MenuRepository {
	return &menuRepository{db: db}
}

// List retrieves the full menu in id order
func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description, image, price FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}
	return items, nil
}

// Insert adds a new catalog entry
func (r *menuRepository) Insert(ctx context.Context, item *model.MenuItem) error {
	sql := `INSERT INTO menu_items (title, description, image, price) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, sql, item.Title, item.Description, item.Image, item.Price).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// Update replaces an existing catalog entry
func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	sql := `UPDATE menu_items SET title = $1, description = $2, image = $3, price = $4 WHERE id = $5`
	tag, err := r.db.Exec(ctx, sql, item.Title, item.Description, item.Image, item.Price, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu item %d: %w", item.ID, ErrNotFound)
	}
	return nil
}
