package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
)

const transferSelect = `
	SELECT t.id, t.transfer_number, t.asset_id, t.dest_asset_id, t.equipment_type, t.quantity,
	       t.from_base_id, t.to_base_id, t.transfer_date, t.status, t.initiated_by,
	       t.approved_by, t.rejected_by, t.rejected_at, t.completed_at, t.notes,
	       t.created_at, t.updated_at,
	       a.name AS asset_name, a.asset_number AS asset_number,
	       fb.name AS from_base_name, tb.name AS to_base_name,
	       iu.username AS initiated_by_name,
	       COALESCE(au.username, '') AS approved_by_name
	FROM transfers t
	JOIN assets a ON a.id = t.asset_id
	JOIN bases fb ON fb.id = t.from_base_id
	JOIN bases tb ON tb.id = t.to_base_id
	JOIN users iu ON iu.id = t.initiated_by
	LEFT JOIN users au ON au.id = t.approved_by`

// TransferFilter narrows transfer listings. BaseID matches either side.
type TransferFilter struct {
	RecordFilter
	Status string
}

// CreateTransfer inserts a pending transfer record and returns its ID.
func CreateTransfer(ctx context.Context, q sqlx.ExtContext, t *model.Transfer) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO transfers (transfer_number, asset_id, equipment_type, quantity,
		     from_base_id, to_base_id, transfer_date, status, initiated_by, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TransferNumber, t.AssetID, t.EquipmentType, t.Quantity,
		t.FromBaseID, t.ToBaseID, t.TransferDate.UTC(), model.TransferPending, t.InitiatedBy, t.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("creating transfer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting transfer id: %w", err)
	}
	return id, nil
}

// GetTransfer returns a transfer by ID with display fields resolved.
func GetTransfer(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Transfer, error) {
	t := &model.Transfer{}
	err := sqlx.GetContext(ctx, q, t, transferSelect+` WHERE t.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transfer: %w", err)
	}
	return t, nil
}

// ListTransfers returns transfers matching the filter, newest first.
func ListTransfers(ctx context.Context, q sqlx.ExtContext, f TransferFilter) ([]model.Transfer, error) {
	where, args := filterClauses(f.RecordFilter, "t.transfer_date", "t.equipment_type", "t.from_base_id", "t.to_base_id")
	if f.Status != "" {
		where += ` AND t.status = ?`
		args = append(args, f.Status)
	}
	page, pageArgs := pageClause(f.RecordFilter)

	var transfers []model.Transfer
	err := sqlx.SelectContext(ctx, q, &transfers,
		transferSelect+` WHERE 1 = 1`+where+` ORDER BY t.transfer_date DESC, t.id DESC`+page,
		append(args, pageArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	return transfers, nil
}

// ApproveTransfer moves a pending transfer to approved.
func ApproveTransfer(ctx context.Context, q sqlx.ExtContext, id, approvedBy int64) error {
	return transition(ctx, q, id, model.TransferPending,
		`status = 'approved', approved_by = ?`, approvedBy)
}

// RejectTransfer moves a pending transfer to rejected. A non-empty note is
// appended to the transfer's notes.
func RejectTransfer(ctx context.Context, q sqlx.ExtContext, id, rejectedBy int64, note string, at time.Time) error {
	return transition(ctx, q, id, model.TransferPending,
		`status = 'rejected', rejected_by = ?, rejected_at = ?,
		 notes = CASE WHEN ? = '' THEN notes WHEN notes = '' THEN ? ELSE notes || char(10) || ? END`,
		rejectedBy, at.UTC(), note, note, note)
}

// CompleteTransfer moves an approved transfer to completed, recording the
// asset that was credited at the destination.
func CompleteTransfer(ctx context.Context, q sqlx.ExtContext, id, destAssetID int64, at time.Time) error {
	return transition(ctx, q, id, model.TransferApproved,
		`status = 'completed', dest_asset_id = ?, completed_at = ?`,
		destAssetID, at.UTC())
}

// transition applies set to a transfer only while it is in status from.
// It returns ErrStaleState when the transfer has moved on and ErrNotFound
// when it does not exist.
func transition(ctx context.Context, q sqlx.ExtContext, id int64, from, set string, args ...any) error {
	args = append(args, id, from)
	result, err := q.ExecContext(ctx,
		`UPDATE transfers SET `+set+`, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating transfer: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 1 {
		return nil
	}

	var exists int
	if err := sqlx.GetContext(ctx, q, &exists, `SELECT COUNT(*) FROM transfers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("checking transfer: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrStaleState
}
