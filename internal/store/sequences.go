package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Sequence names, one per numbered record type.
const (
	SeqPurchase    = "purchase"
	SeqTransfer    = "transfer"
	SeqAssignment  = "assignment"
	SeqExpenditure = "expenditure"
)

// NextSequence atomically increments and returns the named counter. The first
// call for a name returns 1.
func NextSequence(ctx context.Context, q sqlx.ExtContext, name string) (int64, error) {
	var v int64
	err := sqlx.GetContext(ctx, q, &v,
		`INSERT INTO sequences (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = value + 1
		 RETURNING value`, name,
	)
	if err != nil {
		return 0, fmt.Errorf("advancing sequence %s: %w", name, err)
	}
	return v, nil
}
