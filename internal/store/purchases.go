package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
)

const purchaseSelect = `
	SELECT p.id, p.purchase_number, p.base_id, p.equipment_type, p.asset_id, p.quantity,
	       p.unit_price, p.total_amount, p.purchase_date, p.vendor, p.purchase_order_number,
	       p.notes, p.purchased_by, p.created_at,
	       a.name AS asset_name, a.asset_number AS asset_number,
	       b.name AS base_name, u.username AS purchased_by_name
	FROM purchases p
	JOIN assets a ON a.id = p.asset_id
	JOIN bases b ON b.id = p.base_id
	JOIN users u ON u.id = p.purchased_by`

// CreatePurchase inserts a purchase record and returns its ID.
func CreatePurchase(ctx context.Context, q sqlx.ExtContext, p *model.Purchase) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO purchases (purchase_number, base_id, equipment_type, asset_id, quantity,
		     unit_price, total_amount, purchase_date, vendor, purchase_order_number, notes, purchased_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PurchaseNumber, p.BaseID, p.EquipmentType, p.AssetID, p.Quantity,
		p.UnitPrice.String(), p.TotalAmount.String(), p.PurchaseDate.UTC(),
		p.Vendor, p.PurchaseOrderNumber, p.Notes, p.PurchasedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("creating purchase: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting purchase id: %w", err)
	}
	return id, nil
}

// GetPurchase returns a purchase by ID with display fields resolved.
func GetPurchase(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Purchase, error) {
	p := &model.Purchase{}
	err := sqlx.GetContext(ctx, q, p, purchaseSelect+` WHERE p.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting purchase: %w", err)
	}
	return p, nil
}

// ListPurchases returns purchases matching the filter, newest first.
func ListPurchases(ctx context.Context, q sqlx.ExtContext, f RecordFilter) ([]model.Purchase, error) {
	where, args := filterClauses(f, "p.purchase_date", "p.equipment_type", "p.base_id")
	page, pageArgs := pageClause(f)

	var purchases []model.Purchase
	err := sqlx.SelectContext(ctx, q, &purchases,
		purchaseSelect+` WHERE 1 = 1`+where+` ORDER BY p.purchase_date DESC, p.id DESC`+page,
		append(args, pageArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	return purchases, nil
}
