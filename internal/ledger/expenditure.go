package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// ExpenditureInput describes quantity permanently consumed.
type ExpenditureInput struct {
	AssetID         int64
	BaseID          int64
	Quantity        int
	Reason          string
	ExpenditureDate *time.Time
	Notes           string
	ActorID         int64
}

// CreateExpenditure removes quantity from an asset for good.
func (s *Service) CreateExpenditure(ctx context.Context, in ExpenditureInput) (*model.Expenditure, error) {
	if in.Quantity < 1 {
		return nil, badRequest("quantity must be at least 1")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, badRequest("reason is required")
	}

	now := s.now()
	e := &model.Expenditure{
		AssetID:         in.AssetID,
		Quantity:        in.Quantity,
		Reason:          strings.TrimSpace(in.Reason),
		ExpenditureDate: dateOr(in.ExpenditureDate, now),
		Notes:           in.Notes,
		ExpendedBy:      in.ActorID,
	}

	var id int64
	err := s.inTx(ctx, "creating expenditure", func(tx *sqlx.Tx) error {
		if err := requireActor(ctx, tx, in.ActorID); err != nil {
			return err
		}
		asset, err := requireAsset(ctx, tx, in.AssetID)
		if err != nil {
			return err
		}
		if in.BaseID > 0 && in.BaseID != asset.BaseID {
			return conflict("asset is not at the given base")
		}
		if err := takeQuantity(ctx, tx, asset.ID, in.Quantity, model.AssetStatusExpended); err != nil {
			return err
		}

		e.BaseID = asset.BaseID
		e.EquipmentType = asset.EquipmentType
		e.ExpenditureNumber, err = recordNumber(ctx, tx, prefixExpenditure, store.SeqExpenditure, now)
		if err != nil {
			return err
		}
		id, err = store.CreateExpenditure(ctx, tx, e)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expenditure recorded",
		"number", e.ExpenditureNumber, "asset_id", e.AssetID, "quantity", e.Quantity,
		"reason", e.Reason, "actor", in.ActorID)
	return s.GetExpenditure(ctx, id)
}

// GetExpenditure returns an expenditure with its display fields.
func (s *Service) GetExpenditure(ctx context.Context, id int64) (*model.Expenditure, error) {
	e, err := store.GetExpenditure(ctx, s.db, id)
	if err != nil {
		return nil, internal("loading expenditure", err)
	}
	if e == nil {
		return nil, notFound("expenditure not found")
	}
	return e, nil
}

// ListExpenditures returns expenditures matching f.
func (s *Service) ListExpenditures(ctx context.Context, f store.RecordFilter) ([]model.Expenditure, error) {
	expenditures, err := store.ListExpenditures(ctx, s.db, f)
	if err != nil {
		return nil, internal("listing expenditures", err)
	}
	return expenditures, nil
}
