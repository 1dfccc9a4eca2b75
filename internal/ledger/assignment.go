package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// AssignmentInput describes quantity checked out to a person. BaseID is
// optional; when set it must be the asset's base.
type AssignmentInput struct {
	AssetID        int64
	BaseID         int64
	Quantity       int
	AssignedTo     string
	PersonnelID    string
	AssignmentDate *time.Time
	Notes          string
	ActorID        int64
}

// CreateAssignment checks quantity out of an asset to a named person.
func (s *Service) CreateAssignment(ctx context.Context, in AssignmentInput) (*model.Assignment, error) {
	if in.Quantity < 1 {
		return nil, badRequest("quantity must be at least 1")
	}
	if strings.TrimSpace(in.AssignedTo) == "" {
		return nil, badRequest("assigned to is required")
	}

	now := s.now()
	a := &model.Assignment{
		AssetID:        in.AssetID,
		Quantity:       in.Quantity,
		AssignedTo:     strings.TrimSpace(in.AssignedTo),
		PersonnelID:    strings.TrimSpace(in.PersonnelID),
		AssignmentDate: dateOr(in.AssignmentDate, now),
		Notes:          in.Notes,
		AssignedBy:     in.ActorID,
	}

	var id int64
	err := s.inTx(ctx, "creating assignment", func(tx *sqlx.Tx) error {
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
		if err := takeQuantity(ctx, tx, asset.ID, in.Quantity, model.AssetStatusAssigned); err != nil {
			return err
		}

		a.BaseID = asset.BaseID
		a.EquipmentType = asset.EquipmentType
		a.AssignmentNumber, err = recordNumber(ctx, tx, prefixAssignment, store.SeqAssignment, now)
		if err != nil {
			return err
		}
		id, err = store.CreateAssignment(ctx, tx, a)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assignment recorded",
		"number", a.AssignmentNumber, "asset_id", a.AssetID, "quantity", a.Quantity,
		"assigned_to", a.AssignedTo, "actor", in.ActorID)
	return s.GetAssignment(ctx, id)
}

// ReturnAssignment latches an assignment as returned and credits its
// quantity back to the asset. A second return is a conflict.
func (s *Service) ReturnAssignment(ctx context.Context, id, actorID int64) (*model.Assignment, error) {
	err := s.inTx(ctx, "returning assignment", func(tx *sqlx.Tx) error {
		if err := requireActor(ctx, tx, actorID); err != nil {
			return err
		}
		switch err := store.MarkAssignmentReturned(ctx, tx, id, actorID, s.now()); err {
		case nil:
		case store.ErrNotFound:
			return notFound("assignment not found")
		case store.ErrStaleState:
			return conflict("assignment already returned")
		default:
			return err
		}

		a, err := store.GetAssignment(ctx, tx, id)
		if err != nil {
			return err
		}
		return store.AdjustAssetQuantity(ctx, tx, a.AssetID, a.Quantity, model.AssetStatusAvailable)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assignment returned", "assignment_id", id, "actor", actorID)
	return s.GetAssignment(ctx, id)
}

// GetAssignment returns an assignment with its display fields.
func (s *Service) GetAssignment(ctx context.Context, id int64) (*model.Assignment, error) {
	a, err := store.GetAssignment(ctx, s.db, id)
	if err != nil {
		return nil, internal("loading assignment", err)
	}
	if a == nil {
		return nil, notFound("assignment not found")
	}
	return a, nil
}

// ListAssignments returns assignments matching f.
func (s *Service) ListAssignments(ctx context.Context, f store.AssignmentFilter) ([]model.Assignment, error) {
	assignments, err := store.ListAssignments(ctx, s.db, f)
	if err != nil {
		return nil, internal("listing assignments", err)
	}
	return assignments, nil
}
