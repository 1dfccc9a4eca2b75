package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
)

const baseColumns = `id, name, code, location, is_active, created_at, updated_at`

// CreateBase creates a new active base. The code is stored upper-cased.
func CreateBase(ctx context.Context, q sqlx.ExtContext, name, code, location string) (*model.Base, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO bases (name, code, location) VALUES (?, ?, ?)`,
		strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(code)), strings.TrimSpace(location),
	)
	if err != nil {
		return nil, fmt.Errorf("creating base: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting base id: %w", err)
	}

	return GetBase(ctx, q, id)
}

// GetBase returns a base by ID.
func GetBase(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Base, error) {
	b := &model.Base{}
	err := sqlx.GetContext(ctx, q, b, `SELECT `+baseColumns+` FROM bases WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting base: %w", err)
	}
	return b, nil
}

// ListBases returns bases ordered by name, optionally filtered by active flag.
func ListBases(ctx context.Context, q sqlx.ExtContext, active *bool) ([]model.Base, error) {
	query := `SELECT ` + baseColumns + ` FROM bases`
	var args []any
	if active != nil {
		query += ` WHERE is_active = ?`
		args = append(args, *active)
	}
	query += ` ORDER BY name`

	var bases []model.Base
	if err := sqlx.SelectContext(ctx, q, &bases, query, args...); err != nil {
		return nil, fmt.Errorf("listing bases: %w", err)
	}
	return bases, nil
}

// UpdateBase overwrites a base's attributes.
func UpdateBase(ctx context.Context, q sqlx.ExtContext, b *model.Base) error {
	result, err := q.ExecContext(ctx,
		`UPDATE bases SET name = ?, code = ?, location = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		strings.TrimSpace(b.Name), strings.ToUpper(strings.TrimSpace(b.Code)), strings.TrimSpace(b.Location), b.IsActive, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating base: %w", err)
	}
	n, _ := result.RowsAffected()
	return affectedOne(n)
}
