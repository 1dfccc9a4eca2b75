package ledger

import (
	"context"
	"time"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// DashboardFilter scopes a dashboard report. Nil dates leave the range open.
type DashboardFilter struct {
	From          *time.Time
	To            *time.Time
	BaseID        int64
	EquipmentType string
}

// Dashboard aggregates balances and movements for the filter. The closing
// balance is read from the registry, not derived from the movements.
func (s *Service) Dashboard(ctx context.Context, f DashboardFilter) (*model.Dashboard, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, badRequest("end date is before start date")
	}
	if f.EquipmentType != "" && !model.ValidEquipmentType(f.EquipmentType) {
		return nil, badRequest("invalid equipment type %q", f.EquipmentType)
	}

	period := store.MovementFilter{
		From:          f.From,
		To:            f.To,
		BaseID:        f.BaseID,
		EquipmentType: f.EquipmentType,
	}
	// Opening balance counts purchases strictly before the range, or every
	// purchase when the range has no start.
	opening := store.MovementFilter{
		Before:        f.From,
		BaseID:        f.BaseID,
		EquipmentType: f.EquipmentType,
	}

	var (
		d   model.Dashboard
		err error
	)
	steps := []struct {
		what string
		run  func() error
	}{
		{"opening balance", func() (err error) {
			d.OpeningBalance, err = store.SumPurchaseQuantity(ctx, s.db, opening)
			return
		}},
		{"purchases", func() (err error) {
			d.NetMovement.Purchases, err = store.SumPurchaseQuantity(ctx, s.db, period)
			return
		}},
		{"purchase value", func() (err error) {
			d.PurchaseValue, err = store.SumPurchaseAmount(ctx, s.db, period)
			return
		}},
		{"transfers in", func() (err error) {
			d.NetMovement.TransfersIn, err = store.SumTransferQuantity(ctx, s.db, period, store.DirectionIn)
			return
		}},
		{"transfers out", func() (err error) {
			d.NetMovement.TransfersOut, err = store.SumTransferQuantity(ctx, s.db, period, store.DirectionOut)
			return
		}},
		{"assigned", func() (err error) {
			d.Assigned, err = store.SumActiveAssignmentQuantity(ctx, s.db, period)
			return
		}},
		{"expended", func() (err error) {
			d.Expended, err = store.SumExpenditureQuantity(ctx, s.db, period)
			return
		}},
		{"closing balance", func() (err error) {
			d.ClosingBalance, err = store.SumCurrentQuantity(ctx, s.db, f.BaseID, f.EquipmentType)
			return
		}},
	}
	for _, step := range steps {
		if err = step.run(); err != nil {
			return nil, internal("computing "+step.what, err)
		}
	}

	d.NetMovement.Total = d.NetMovement.Purchases + d.NetMovement.TransfersIn - d.NetMovement.TransfersOut
	return &d, nil
}

// ListAssets returns registry rows matching f.
func (s *Service) ListAssets(ctx context.Context, f store.AssetFilter) ([]model.Asset, error) {
	assets, err := store.ListAssets(ctx, s.db, f)
	if err != nil {
		return nil, internal("listing assets", err)
	}
	return assets, nil
}

// GetAsset returns a registry row by ID.
func (s *Service) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	a, err := store.GetAsset(ctx, s.db, id)
	if err != nil {
		return nil, internal("loading asset", err)
	}
	if a == nil {
		return nil, notFound("asset not found")
	}
	return a, nil
}
