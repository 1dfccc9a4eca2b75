package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
)

const expenditureSelect = `
	SELECT e.id, e.expenditure_number, e.asset_id, e.equipment_type, e.base_id, e.quantity,
	       e.expenditure_date, e.reason, e.expended_by, e.notes,
	       a.name AS asset_name, a.asset_number AS asset_number,
	       b.name AS base_name, u.username AS expended_by_name
	FROM expenditures e
	JOIN assets a ON a.id = e.asset_id
	JOIN bases b ON b.id = e.base_id
	JOIN users u ON u.id = e.expended_by`

// CreateExpenditure inserts an expenditure record and returns its ID.
func CreateExpenditure(ctx context.Context, q sqlx.ExtContext, e *model.Expenditure) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO expenditures (expenditure_number, asset_id, equipment_type, base_id, quantity,
		     expenditure_date, reason, expended_by, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ExpenditureNumber, e.AssetID, e.EquipmentType, e.BaseID, e.Quantity,
		e.ExpenditureDate.UTC(), e.Reason, e.ExpendedBy, e.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("creating expenditure: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting expenditure id: %w", err)
	}
	return id, nil
}

// GetExpenditure returns an expenditure by ID with display fields resolved.
func GetExpenditure(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Expenditure, error) {
	e := &model.Expenditure{}
	err := sqlx.GetContext(ctx, q, e, expenditureSelect+` WHERE e.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting expenditure: %w", err)
	}
	return e, nil
}

// ListExpenditures returns expenditures matching the filter, newest first.
func ListExpenditures(ctx context.Context, q sqlx.ExtContext, f RecordFilter) ([]model.Expenditure, error) {
	where, args := filterClauses(f, "e.expenditure_date", "e.equipment_type", "e.base_id")
	page, pageArgs := pageClause(f)

	var expenditures []model.Expenditure
	err := sqlx.SelectContext(ctx, q, &expenditures,
		expenditureSelect+` WHERE 1 = 1`+where+` ORDER BY e.expenditure_date DESC, e.id DESC`+page,
		append(args, pageArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("listing expenditures: %w", err)
	}
	return expenditures, nil
}
