// Package store is the record store: one file per table, package-level
// functions that take a context and either the database handle or an open
// transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Sentinel errors returned by conditional updates.
var (
	ErrNotFound             = errors.New("record not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrStaleState           = errors.New("record changed state")
)

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// RecordFilter narrows ledger record listings.
type RecordFilter struct {
	From          *time.Time
	To            *time.Time
	BaseID        int64
	EquipmentType string
	Limit         int
	Offset        int
}

// filterClauses appends date, base and equipment type conditions for a
// record table. baseCols are OR-ed together so transfers match on either side.
func filterClauses(f RecordFilter, dateCol, typeCol string, baseCols ...string) (string, []any) {
	var b strings.Builder
	var args []any

	if f.From != nil {
		b.WriteString(" AND " + dateCol + " >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		b.WriteString(" AND " + dateCol + " <= ?")
		args = append(args, f.To.UTC())
	}
	if f.BaseID > 0 && len(baseCols) > 0 {
		conds := make([]string, len(baseCols))
		for i, c := range baseCols {
			conds[i] = c + " = ?"
			args = append(args, f.BaseID)
		}
		b.WriteString(" AND (" + strings.Join(conds, " OR ") + ")")
	}
	if f.EquipmentType != "" {
		b.WriteString(" AND " + typeCol + " = ?")
		args = append(args, f.EquipmentType)
	}
	return b.String(), args
}

// pageClause returns a LIMIT/OFFSET suffix when a limit is set.
func pageClause(f RecordFilter) (string, []any) {
	if f.Limit <= 0 {
		return "", nil
	}
	return " LIMIT ? OFFSET ?", []any{f.Limit, f.Offset}
}

// affectedOne returns ErrNotFound when an update touched no rows.
func affectedOne(n int64) error {
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
