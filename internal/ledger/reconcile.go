package ledger

import (
	"context"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// Reconcile compares every asset's current quantity with the quantity its
// ledger history implies and returns the assets that disagree. Nothing is
// repaired.
func (s *Service) Reconcile(ctx context.Context) ([]model.Drift, error) {
	drift, err := store.ListDrift(ctx, s.db)
	if err != nil {
		return nil, internal("reconciling registry", err)
	}
	for _, d := range drift {
		s.logger.Warn("asset quantity drift",
			"asset_id", d.AssetID, "asset_number", d.AssetNumber,
			"recorded", d.Recorded, "expected", d.Expected)
	}
	return drift, nil
}
