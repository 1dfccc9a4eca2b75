package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/arsenal/internal/model"
)

// MovementFilter selects ledger records for aggregation. From and To bound
// the record date inclusively; Before bounds it exclusively.
type MovementFilter struct {
	From          *time.Time
	To            *time.Time
	Before        *time.Time
	BaseID        int64
	EquipmentType string
}

// Transfer directions relative to MovementFilter.BaseID.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

func (f MovementFilter) clauses(dateCol, typeCol string, baseCols ...string) (string, []any) {
	where, args := filterClauses(RecordFilter{
		From:          f.From,
		To:            f.To,
		BaseID:        f.BaseID,
		EquipmentType: f.EquipmentType,
	}, dateCol, typeCol, baseCols...)
	if f.Before != nil {
		where += " AND " + dateCol + " < ?"
		args = append(args, f.Before.UTC())
	}
	return where, args
}

func sumQuantity(ctx context.Context, q sqlx.ExtContext, what, query string, args ...any) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, q, &total, query, args...); err != nil {
		return 0, fmt.Errorf("summing %s: %w", what, err)
	}
	return total, nil
}

// SumPurchaseQuantity returns the total quantity purchased.
func SumPurchaseQuantity(ctx context.Context, q sqlx.ExtContext, f MovementFilter) (int, error) {
	where, args := f.clauses("purchase_date", "equipment_type", "base_id")
	return sumQuantity(ctx, q, "purchases",
		`SELECT COALESCE(SUM(quantity), 0) FROM purchases WHERE 1 = 1`+where, args...)
}

// SumPurchaseAmount returns the total amount spent on purchases. Amounts are
// stored as decimal text, so they are summed here rather than in SQL.
func SumPurchaseAmount(ctx context.Context, q sqlx.ExtContext, f MovementFilter) (decimal.Decimal, error) {
	where, args := f.clauses("purchase_date", "equipment_type", "base_id")

	var amounts []decimal.Decimal
	if err := sqlx.SelectContext(ctx, q, &amounts,
		`SELECT total_amount FROM purchases WHERE 1 = 1`+where, args...); err != nil {
		return decimal.Zero, fmt.Errorf("summing purchase amounts: %w", err)
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

// SumTransferQuantity returns the total quantity of completed transfers
// into or out of the filtered base.
func SumTransferQuantity(ctx context.Context, q sqlx.ExtContext, f MovementFilter, direction string) (int, error) {
	baseCol := "from_base_id"
	if direction == DirectionIn {
		baseCol = "to_base_id"
	}
	where, args := f.clauses("transfer_date", "equipment_type", baseCol)
	return sumQuantity(ctx, q, "transfers "+direction,
		`SELECT COALESCE(SUM(quantity), 0) FROM transfers WHERE status = 'completed'`+where, args...)
}

// SumActiveAssignmentQuantity returns the quantity currently checked out on
// unreturned assignments.
func SumActiveAssignmentQuantity(ctx context.Context, q sqlx.ExtContext, f MovementFilter) (int, error) {
	where, args := f.clauses("assignment_date", "equipment_type", "base_id")
	return sumQuantity(ctx, q, "assignments",
		`SELECT COALESCE(SUM(quantity), 0) FROM assignments WHERE is_returned = 0`+where, args...)
}

// SumExpenditureQuantity returns the total quantity expended.
func SumExpenditureQuantity(ctx context.Context, q sqlx.ExtContext, f MovementFilter) (int, error) {
	where, args := f.clauses("expenditure_date", "equipment_type", "base_id")
	return sumQuantity(ctx, q, "expenditures",
		`SELECT COALESCE(SUM(quantity), 0) FROM expenditures WHERE 1 = 1`+where, args...)
}

// SumCurrentQuantity returns the registry's current quantity across matching
// assets. Dates do not apply to the registry.
func SumCurrentQuantity(ctx context.Context, q sqlx.ExtContext, baseID int64, equipmentType string) (int, error) {
	where, args := filterClauses(RecordFilter{BaseID: baseID, EquipmentType: equipmentType},
		"", "equipment_type", "base_id")
	return sumQuantity(ctx, q, "current quantity",
		`SELECT COALESCE(SUM(current_quantity), 0) FROM assets WHERE 1 = 1`+where, args...)
}

// ListDrift returns every asset whose current quantity differs from the
// quantity implied by its purchases, completed transfers, unreturned
// assignments and expenditures.
func ListDrift(ctx context.Context, q sqlx.ExtContext) ([]model.Drift, error) {
	var drift []model.Drift
	err := sqlx.SelectContext(ctx, q, &drift, `
		SELECT asset_id, asset_number, recorded, expected FROM (
			SELECT a.id AS asset_id, a.asset_number AS asset_number,
			       a.current_quantity AS recorded,
			       (SELECT COALESCE(SUM(quantity), 0) FROM purchases WHERE asset_id = a.id)
			     + (SELECT COALESCE(SUM(quantity), 0) FROM transfers
			        WHERE dest_asset_id = a.id AND status = 'completed')
			     - (SELECT COALESCE(SUM(quantity), 0) FROM transfers
			        WHERE asset_id = a.id AND status = 'completed')
			     - (SELECT COALESCE(SUM(quantity), 0) FROM assignments
			        WHERE asset_id = a.id AND is_returned = 0)
			     - (SELECT COALESCE(SUM(quantity), 0) FROM expenditures WHERE asset_id = a.id)
			       AS expected
			FROM assets a
		)
		WHERE recorded <> expected
		ORDER BY asset_id`)
	if err != nil {
		return nil, fmt.Errorf("listing drift: %w", err)
	}
	return drift, nil
}
