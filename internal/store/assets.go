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

const assetSelect = `
	SELECT a.id, a.asset_number, a.equipment_type, a.name, a.description, a.base_id,
	       a.status, a.opening_balance, a.current_quantity, a.created_at, a.updated_at,
	       b.name AS base_name, b.code AS base_code
	FROM assets a
	JOIN bases b ON b.id = a.base_id`

// AssetKey identifies an asset by its (name, type, base) identity.
// AssetNumber is only used when a new asset has to be created.
type AssetKey struct {
	Name          string
	EquipmentType string
	BaseID        int64
	Description   string
	AssetNumber   string
}

// AssetFilter narrows asset listings.
type AssetFilter struct {
	BaseID        int64
	EquipmentType string
	InStock       bool
}

func getAssetWhere(ctx context.Context, q sqlx.ExtContext, where string, args ...any) (*model.Asset, error) {
	a := &model.Asset{}
	err := sqlx.GetContext(ctx, q, a, assetSelect+` WHERE `+where, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	return a, nil
}

// GetAsset returns an asset by ID.
func GetAsset(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Asset, error) {
	return getAssetWhere(ctx, q, `a.id = ?`, id)
}

// GetAssetByNumber returns an asset by its asset number.
func GetAssetByNumber(ctx context.Context, q sqlx.ExtContext, number string) (*model.Asset, error) {
	return getAssetWhere(ctx, q, `a.asset_number = ?`, number)
}

// FindAsset returns the asset with the given identity at a base.
func FindAsset(ctx context.Context, q sqlx.ExtContext, name, equipmentType string, baseID int64) (*model.Asset, error) {
	return getAssetWhere(ctx, q,
		`a.name = ? AND a.equipment_type = ? AND a.base_id = ?`,
		strings.TrimSpace(name), equipmentType, baseID)
}

// AssetNumberTaken reports whether an asset number is already in use.
func AssetNumberTaken(ctx context.Context, q sqlx.ExtContext, number string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n,
		`SELECT COUNT(*) FROM assets WHERE asset_number = ?`, number); err != nil {
		return false, fmt.Errorf("checking asset number: %w", err)
	}
	return n > 0, nil
}

// FindOrCreateAsset returns the asset matching key, inserting an
// empty available one when none exists. The bool result reports whether the
// asset was created.
func FindOrCreateAsset(ctx context.Context, q sqlx.ExtContext, key AssetKey) (*model.Asset, bool, error) {
	existing, err := FindAsset(ctx, q, key.Name, key.EquipmentType, key.BaseID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	if key.AssetNumber == "" {
		return nil, false, errors.New("creating asset: asset number is required")
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO assets (asset_number, equipment_type, name, description, base_id)
		 VALUES (?, ?, ?, ?, ?)`,
		key.AssetNumber, key.EquipmentType, strings.TrimSpace(key.Name), key.Description, key.BaseID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("creating asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("getting asset id: %w", err)
	}

	a, err := GetAsset(ctx, q, id)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// AdjustAssetQuantity applies delta to an asset's current quantity, clamping
// at zero. A non-empty status replaces the asset's status.
func AdjustAssetQuantity(ctx context.Context, q sqlx.ExtContext, id int64, delta int, status string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE assets
		 SET current_quantity = MAX(current_quantity + ?, 0),
		     status = CASE WHEN ? = '' THEN status ELSE ? END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		delta, status, status, id,
	)
	if err != nil {
		return fmt.Errorf("adjusting asset quantity: %w", err)
	}
	n, _ := result.RowsAffected()
	return affectedOne(n)
}

// TakeAssetQuantity decrements an asset's quantity by n only if at least n
// is available. A non-empty status replaces the asset's status.
func TakeAssetQuantity(ctx context.Context, q sqlx.ExtContext, id int64, n int, status string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE assets
		 SET current_quantity = current_quantity - ?,
		     status = CASE WHEN ? = '' THEN status ELSE ? END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND current_quantity >= ?`,
		n, status, status, id, n,
	)
	if err != nil {
		return fmt.Errorf("taking asset quantity: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 1 {
		return nil
	}

	a, err := GetAsset(ctx, q, id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	return ErrInsufficientQuantity
}

// ReceiveAsset adds newly acquired quantity: both the current quantity and
// the lifetime opening balance grow by n.
func ReceiveAsset(ctx context.Context, q sqlx.ExtContext, id int64, n int) error {
	result, err := q.ExecContext(ctx,
		`UPDATE assets
		 SET current_quantity = current_quantity + ?,
		     opening_balance = opening_balance + ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		n, n, id,
	)
	if err != nil {
		return fmt.Errorf("receiving asset quantity: %w", err)
	}
	rows, _ := result.RowsAffected()
	return affectedOne(rows)
}

// SetAssetStatus overwrites an asset's status hint.
func SetAssetStatus(ctx context.Context, q sqlx.ExtContext, id int64, status string) error {
	return AdjustAssetQuantity(ctx, q, id, 0, status)
}

// ListAssets returns assets matching the filter, ordered by base and name.
func ListAssets(ctx context.Context, q sqlx.ExtContext, f AssetFilter) ([]model.Asset, error) {
	query := assetSelect + ` WHERE 1 = 1`
	var args []any
	if f.BaseID > 0 {
		query += ` AND a.base_id = ?`
		args = append(args, f.BaseID)
	}
	if f.EquipmentType != "" {
		query += ` AND a.equipment_type = ?`
		args = append(args, f.EquipmentType)
	}
	if f.InStock {
		query += ` AND a.current_quantity > 0`
	}
	query += ` ORDER BY b.name, a.name`

	var assets []model.Asset
	if err := sqlx.SelectContext(ctx, q, &assets, query, args...); err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	return assets, nil
}
