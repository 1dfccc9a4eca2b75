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

const assignmentSelect = `
	SELECT s.id, s.assignment_number, s.asset_id, s.equipment_type, s.base_id, s.quantity,
	       s.assigned_to, s.personnel_id, s.assignment_date, s.is_returned, s.return_date,
	       s.returned_by, s.assigned_by, s.notes,
	       a.name AS asset_name, a.asset_number AS asset_number,
	       b.name AS base_name, u.username AS assigned_by_name
	FROM assignments s
	JOIN assets a ON a.id = s.asset_id
	JOIN bases b ON b.id = s.base_id
	JOIN users u ON u.id = s.assigned_by`

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	RecordFilter
	Returned *bool
}

// CreateAssignment inserts an assignment record and returns its ID.
func CreateAssignment(ctx context.Context, q sqlx.ExtContext, s *model.Assignment) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO assignments (assignment_number, asset_id, equipment_type, base_id, quantity,
		     assigned_to, personnel_id, assignment_date, assigned_by, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.AssignmentNumber, s.AssetID, s.EquipmentType, s.BaseID, s.Quantity,
		s.AssignedTo, s.PersonnelID, s.AssignmentDate.UTC(), s.AssignedBy, s.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("creating assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting assignment id: %w", err)
	}
	return id, nil
}

// GetAssignment returns an assignment by ID with display fields resolved.
func GetAssignment(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Assignment, error) {
	s := &model.Assignment{}
	err := sqlx.GetContext(ctx, q, s, assignmentSelect+` WHERE s.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting assignment: %w", err)
	}
	return s, nil
}

// ListAssignments returns assignments matching the filter, newest first.
func ListAssignments(ctx context.Context, q sqlx.ExtContext, f AssignmentFilter) ([]model.Assignment, error) {
	where, args := filterClauses(f.RecordFilter, "s.assignment_date", "s.equipment_type", "s.base_id")
	if f.Returned != nil {
		where += ` AND s.is_returned = ?`
		args = append(args, *f.Returned)
	}
	page, pageArgs := pageClause(f.RecordFilter)

	var assignments []model.Assignment
	err := sqlx.SelectContext(ctx, q, &assignments,
		assignmentSelect+` WHERE 1 = 1`+where+` ORDER BY s.assignment_date DESC, s.id DESC`+page,
		append(args, pageArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	return assignments, nil
}

// MarkAssignmentReturned latches an assignment as returned. It returns
// ErrStaleState when the assignment was already returned and ErrNotFound
// when it does not exist.
func MarkAssignmentReturned(ctx context.Context, q sqlx.ExtContext, id, returnedBy int64, at time.Time) error {
	result, err := q.ExecContext(ctx,
		`UPDATE assignments SET is_returned = 1, return_date = ?, returned_by = ?
		 WHERE id = ? AND is_returned = 0`,
		at.UTC(), returnedBy, id,
	)
	if err != nil {
		return fmt.Errorf("returning assignment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 1 {
		return nil
	}

	var exists int
	if err := sqlx.GetContext(ctx, q, &exists, `SELECT COUNT(*) FROM assignments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("checking assignment: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrStaleState
}
