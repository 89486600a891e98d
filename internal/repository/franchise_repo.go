package repository

import (
	"context"
	"errors"
	"fmt"

	"pizza_service/internal/model"

	"github.com/jackc/pgx/v5"
)

// FranchiseRepository defines operations for franchise and store data
type FranchiseRepository interface {
	List(ctx context.Context, detailed bool) ([]model.Franchise, error)
	ListForUser(ctx context.Context, userID int) ([]model.Franchise, error)
	FindByID(ctx context.Context, id int) (*model.Franchise, error)
	Create(ctx context.Context, franchise *model.Franchise, adminIDs []int) error
	Delete(ctx context.Context, id int) error
	CreateStore(ctx context.Context, store *model.Store) error
	DeleteStore(ctx context.Context, franchiseID, storeID int) error
}

type franchiseRepository struct {
	db DB
}

// NewFranchiseRepository creates a new FranchiseRepository
func NewFranchiseRepository(db DB) FranchiseRepository {
	return &franchiseRepository{db: db}
}

// List retrieves all franchises in id order. With detailed set, the
// admin roster is included; anonymous callers only get names and stores.
func (r *franchiseRepository) List(ctx context.Context, detailed bool) ([]model.Franchise, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM franchises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query franchises: %w", err)
	}
	defer rows.Close()

	var franchises []model.Franchise
	for rows.Next() {
		var f model.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan franchise: %w", err)
		}
		franchises = append(franchises, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating franchises: %w", err)
	}

	for i := range franchises {
		if err := r.fill(ctx, &franchises[i], detailed); err != nil {
			return nil, err
		}
	}
	return franchises, nil
}

// ListForUser retrieves the franchises the user administers
func (r *franchiseRepository) ListForUser(ctx context.Context, userID int) ([]model.Franchise, error) {
	sql := `SELECT f.id, f.name FROM franchises f
            JOIN user_roles r ON r.object_id = f.id AND r.role = 'franchisee'
            WHERE r.user_id = $1 ORDER BY f.id`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user franchises: %w", err)
	}
	defer rows.Close()

	var franchises []model.Franchise
	for rows.Next() {
		var f model.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan franchise: %w", err)
		}
		franchises = append(franchises, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user franchises: %w", err)
	}

	for i := range franchises {
		if err := r.fill(ctx, &franchises[i], true); err != nil {
			return nil, err
		}
	}
	return franchises, nil
}

// FindByID retrieves a single franchise with admins and stores
func (r *franchiseRepository) FindByID(ctx context.Context, id int) (*model.Franchise, error) {
	f := &model.Franchise{}
	err := r.db.QueryRow(ctx, `SELECT id, name FROM franchises WHERE id = $1`, id).Scan(&f.ID, &f.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find franchise by ID: %w", err)
	}
	if err := r.fill(ctx, f, true); err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts the franchise and grants the franchisee role to each
// admin, all in one transaction.
func (r *franchiseRepository) Create(ctx context.Context, franchise *model.Franchise, adminIDs []int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `INSERT INTO franchises (name) VALUES ($1) RETURNING id`, franchise.Name).Scan(&franchise.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("franchise %q: %w", franchise.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create franchise: %w", err)
	}

	for _, adminID := range adminIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, 'franchisee', $2) ON CONFLICT DO NOTHING`,
			adminID, franchise.ID)
		if err != nil {
			return fmt.Errorf("failed to grant franchisee role: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Delete removes the franchise, its stores and its franchisee grants
// inside one transaction so a partial failure rolls everything back.
func (r *franchiseRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM stores WHERE franchise_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete franchise stores: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM user_roles WHERE role = 'franchisee' AND object_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete franchisee roles: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM franchises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete franchise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("franchise %d: %w", id, ErrNotFound)
	}

	return tx.Commit(ctx)
}

// CreateStore inserts a store under its franchise
func (r *franchiseRepository) CreateStore(ctx context.Context, store *model.Store) error {
	err := r.db.QueryRow(ctx, `INSERT INTO stores (franchise_id, name) VALUES ($1, $2) RETURNING id`,
		store.FranchiseID, store.Name).Scan(&store.ID)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// DeleteStore removes a store, scoped to its franchise id
func (r *franchiseRepository) DeleteStore(ctx context.Context, franchiseID, storeID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1 AND franchise_id = $2`, storeID, franchiseID)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store %d: %w", storeID, ErrNotFound)
	}
	return nil
}

// fill loads stores (with revenue) and, when detailed, the admin roster
func (r *franchiseRepository) fill(ctx context.Context, f *model.Franchise, detailed bool) error {
	stores, err := r.loadStores(ctx, f.ID)
	if err != nil {
		return err
	}
	f.Stores = stores

	if detailed {
		admins, err := r.loadAdmins(ctx, f.ID)
		if err != nil {
			return err
		}
		f.Admins = admins
	}
	return nil
}

func (r *franchiseRepository) loadStores(ctx context.Context, franchiseID int) ([]model.Store, error) {
	sql := `SELECT s.id, s.name, COALESCE(SUM(oi.price), 0)
            FROM stores s
            LEFT JOIN orders o ON o.store_id = s.id
            LEFT JOIN order_items oi ON oi.order_id = o.id
            WHERE s.franchise_id = $1
            GROUP BY s.id, s.name ORDER BY s.id`
	rows, err := r.db.Query(ctx, sql, franchiseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	stores := []model.Store{}
	for rows.Next() {
		s := model.Store{FranchiseID: franchiseID}
		if err := rows.Scan(&s.ID, &s.Name, &s.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}
	return stores, nil
}

func (r *franchiseRepository) loadAdmins(ctx context.Context, franchiseID int) ([]model.AdminRef, error) {
	sql := `SELECT u.id, u.name, u.email
            FROM users u
            JOIN user_roles r ON r.user_id = u.id
            WHERE r.role = 'franchisee' AND r.object_id = $1 ORDER BY u.id`
	rows, err := r.db.Query(ctx, sql, franchiseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query franchise admins: %w", err)
	}
	defer rows.Close()

	admins := []model.AdminRef{}
	for rows.Next() {
		var a model.AdminRef
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, fmt.Errorf("failed to scan franchise admin: %w", err)
		}
		admins = append(admins, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating franchise admins: %w", err)
	}
	return admins, nil
}
