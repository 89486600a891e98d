package repository

import (
	"context"
	"errors"
	"fmt"

	"pizza_service/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindIDByEmail(ctx context.Context, email string) (int, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and its role grants in one transaction.
// Returns ErrDuplicate when the email is already registered.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := `INSERT INTO users (name, email, password_hash, created_at)
            VALUES ($1, $2, $3, $4) RETURNING id`
	err = tx.QueryRow(ctx, sql, user.Name, user.Email, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %q: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range user.Roles {
		_, err = tx.Exec(ctx, `INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
			user.ID, role.Role, role.ObjectID)
		if err != nil {
			return fmt.Errorf("failed to create user role: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindByEmail retrieves a user and its roles by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user.Roles, err = r.loadRoles(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID retrieves a user and its roles by ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user.Roles, err = r.loadRoles(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// FindIDByEmail resolves an email to a user id without loading roles.
// Used when naming franchise admins by email.
func (r *userRepository) FindIDByEmail(ctx context.Context, email string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user %q: %w", email, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to resolve user by email: %w", err)
	}
	return id, nil
}

// Update modifies name, email and password hash of an existing user
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET name = $1, email = $2, password_hash = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, sql, user.Name, user.Email, user.PasswordHash, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %q: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the user and its role grants, including franchise
// admin links, in one transaction.
func (r *userRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user roles: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}

	return tx.Commit(ctx)
}

func (r *userRepository) loadRoles(ctx context.Context, userID int) ([]model.UserRole, error) {
	rows, err := r.db.Query(ctx, `SELECT role, object_id FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	var roles []model.UserRole
	for rows.Next() {
		var role model.UserRole
		if err := rows.Scan(&role.Role, &role.ObjectID); err != nil {
			return nil, fmt.Errorf("failed to scan user role: %w", err)
		}
		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user roles: %w", err)
	}
	return roles, nil
}
