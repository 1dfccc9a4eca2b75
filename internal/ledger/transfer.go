package ledger

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// TransferInput describes a transfer request.
type TransferInput struct {
	AssetID      int64
	FromBaseID   int64
	ToBaseID     int64
	Quantity     int
	TransferDate *time.Time
	Notes        string
	ActorID      int64
}

// CreateTransfer opens a pending transfer. No quantity moves until the
// transfer is completed.
func (s *Service) CreateTransfer(ctx context.Context, in TransferInput) (*model.Transfer, error) {
	if in.Quantity < 1 {
		return nil, badRequest("quantity must be at least 1")
	}
	if in.FromBaseID <= 0 || in.ToBaseID <= 0 {
		return nil, badRequest("source and destination bases are required")
	}
	if in.FromBaseID == in.ToBaseID {
		return nil, badRequest("source and destination bases must differ")
	}

	now := s.now()
	t := &model.Transfer{
		AssetID:      in.AssetID,
		Quantity:     in.Quantity,
		FromBaseID:   in.FromBaseID,
		ToBaseID:     in.ToBaseID,
		TransferDate: dateOr(in.TransferDate, now),
		Notes:        in.Notes,
		InitiatedBy:  in.ActorID,
	}

	var id int64
	err := s.inTx(ctx, "creating transfer", func(tx *sqlx.Tx) error {
		if err := requireActor(ctx, tx, in.ActorID); err != nil {
			return err
		}
		asset, err := requireAsset(ctx, tx, in.AssetID)
		if err != nil {
			return err
		}
		if asset.BaseID != in.FromBaseID {
			return conflict("asset is not at the source base")
		}
		if asset.CurrentQuantity < in.Quantity {
			return ErrInsufficientQuantity
		}
		if _, err := activeBase(ctx, tx, in.FromBaseID, "source"); err != nil {
			return err
		}
		if _, err := activeBase(ctx, tx, in.ToBaseID, "destination"); err != nil {
			return err
		}

		t.EquipmentType = asset.EquipmentType
		t.TransferNumber, err = recordNumber(ctx, tx, prefixTransfer, store.SeqTransfer, now)
		if err != nil {
			return err
		}
		if id, err = store.CreateTransfer(ctx, tx, t); err != nil {
			return err
		}
		return store.SetAssetStatus(ctx, tx, asset.ID, model.AssetStatusTransferPending)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer requested",
		"number", t.TransferNumber, "asset_id", t.AssetID, "quantity", t.Quantity,
		"from_base_id", t.FromBaseID, "to_base_id", t.ToBaseID, "actor", in.ActorID)
	return s.GetTransfer(ctx, id)
}

// ApproveTransfer moves a pending transfer to approved.
func (s *Service) ApproveTransfer(ctx context.Context, id, actorID int64) (*model.Transfer, error) {
	err := s.inTx(ctx, "approving transfer", func(tx *sqlx.Tx) error {
		if err := requireActor(ctx, tx, actorID); err != nil {
			return err
		}
		return transitionErr(store.ApproveTransfer(ctx, tx, id, actorID), model.TransferApproved)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer approved", "transfer_id", id, "actor", actorID)
	return s.GetTransfer(ctx, id)
}

// RejectTransfer moves a pending transfer to rejected and clears the
// asset's pending hint. The reason, if any, is appended to the notes.
func (s *Service) RejectTransfer(ctx context.Context, id, actorID int64, reason string) (*model.Transfer, error) {
	err := s.inTx(ctx, "rejecting transfer", func(tx *sqlx.Tx) error {
		if err := requireActor(ctx, tx, actorID); err != nil {
			return err
		}
		if err := transitionErr(store.RejectTransfer(ctx, tx, id, actorID, reason, s.now()), model.TransferRejected); err != nil {
			return err
		}
		t, err := store.GetTransfer(ctx, tx, id)
		if err != nil {
			return err
		}
		return store.SetAssetStatus(ctx, tx, t.AssetID, model.AssetStatusAvailable)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer rejected", "transfer_id", id, "actor", actorID)
	return s.GetTransfer(ctx, id)
}

// CompleteTransfer moves quantity for an approved transfer: the source asset
// is debited and the matching asset at the destination is credited, or
// created when the destination does not hold one yet.
func (s *Service) CompleteTransfer(ctx context.Context, id, actorID int64) (*model.Transfer, error) {
	var destID int64
	err := s.inTx(ctx, "completing transfer", func(tx *sqlx.Tx) error {
		if err := requireActor(ctx, tx, actorID); err != nil {
			return err
		}
		t, err := store.GetTransfer(ctx, tx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("transfer not found")
		}
		if !model.CanTransition(t.Status, model.TransferCompleted) {
			return conflict("transfer must be approved first")
		}

		source, err := requireAsset(ctx, tx, t.AssetID)
		if err != nil {
			return err
		}
		if source.BaseID != t.FromBaseID {
			return conflict("source asset base mismatch")
		}
		if err := takeQuantity(ctx, tx, source.ID, t.Quantity, model.AssetStatusAvailable); err != nil {
			return err
		}

		now := s.now()
		if destID, err = s.creditDestination(ctx, tx, source, t, now); err != nil {
			return err
		}
		return transitionErr(store.CompleteTransfer(ctx, tx, id, destID, now), model.TransferCompleted)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer completed", "transfer_id", id, "dest_asset_id", destID, "actor", actorID)
	return s.GetTransfer(ctx, id)
}

// creditDestination adds a transfer's quantity to the destination asset and
// returns its ID.
func (s *Service) creditDestination(ctx context.Context, tx *sqlx.Tx, source *model.Asset, t *model.Transfer, now time.Time) (int64, error) {
	dest, err := store.FindAsset(ctx, tx, source.Name, source.EquipmentType, t.ToBaseID)
	if err != nil {
		return 0, err
	}
	if dest != nil {
		return dest.ID, store.AdjustAssetQuantity(ctx, tx, dest.ID, t.Quantity, "")
	}

	number, err := transferredAssetNumber(ctx, tx, source.AssetNumber, now)
	if err != nil {
		return 0, err
	}
	dest, _, err = store.FindOrCreateAsset(ctx, tx, store.AssetKey{
		Name:          source.Name,
		EquipmentType: source.EquipmentType,
		BaseID:        t.ToBaseID,
		Description:   source.Description,
		AssetNumber:   number,
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("asset registered", "asset_number", dest.AssetNumber, "name", dest.Name, "base_id", dest.BaseID)
	return dest.ID, store.ReceiveAsset(ctx, tx, dest.ID, t.Quantity)
}

// transitionErr maps a failed conditional transfer update onto ledger errors.
func transitionErr(err error, to string) error {
	switch err {
	case nil:
		return nil
	case store.ErrNotFound:
		return notFound("transfer not found")
	case store.ErrStaleState:
		return conflict("transfer cannot move to %s from its current status", to)
	default:
		return err
	}
}

// GetTransfer returns a transfer with its display fields.
func (s *Service) GetTransfer(ctx context.Context, id int64) (*model.Transfer, error) {
	t, err := store.GetTransfer(ctx, s.db, id)
	if err != nil {
		return nil, internal("loading transfer", err)
	}
	if t == nil {
		return nil, notFound("transfer not found")
	}
	return t, nil
}

// ListTransfers returns transfers matching f.
func (s *Service) ListTransfers(ctx context.Context, f store.TransferFilter) ([]model.Transfer, error) {
	transfers, err := store.ListTransfers(ctx, s.db, f)
	if err != nil {
		return nil, internal("listing transfers", err)
	}
	return transfers, nil
}
