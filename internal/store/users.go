package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
)

const userColumns = `id, username, full_name, password_hash, role, base_id, is_active, created_at`

// CreateUser creates a new user.
func CreateUser(ctx context.Context, q sqlx.ExtContext, username, fullName, passwordHash, role string, baseID *int64) (*model.User, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO users (username, full_name, password_hash, role, base_id) VALUES (?, ?, ?, ?, ?)`,
		username, fullName, passwordHash, role, baseID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, q, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, q sqlx.ExtContext, id int64) (*model.User, error) {
	u := &model.User{}
	err := sqlx.GetContext(ctx, q, u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username (including inactive ones, for auth checks).
func GetUserByUsername(ctx context.Context, q sqlx.ExtContext, username string) (*model.User, error) {
	u := &model.User{}
	err := sqlx.GetContext(ctx, q, u, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// ListUsers returns all active users.
func ListUsers(ctx context.Context, q sqlx.ExtContext) ([]model.User, error) {
	var users []model.User
	err := sqlx.SelectContext(ctx, q, &users,
		`SELECT `+userColumns+` FROM users WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// UpdateUser updates a user's role and base binding.
func UpdateUser(ctx context.Context, q sqlx.ExtContext, id int64, role string, baseID *int64) error {
	result, err := q.ExecContext(ctx,
		`UPDATE users SET role = ?, base_id = ? WHERE id = ? AND is_active = 1`,
		role, baseID, id,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	n, _ := result.RowsAffected()
	return affectedOne(n)
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, q sqlx.ExtContext, id int64, passwordHash string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND is_active = 1`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeactivateUser disables a user. Users are never deleted because ledger
// records reference them.
func DeactivateUser(ctx context.Context, q sqlx.ExtContext, id int64) error {
	_, err := q.ExecContext(ctx, `UPDATE users SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}
	return nil
}
