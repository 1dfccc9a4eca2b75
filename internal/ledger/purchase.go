package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// PurchaseInput describes a purchase. The asset is named either by AssetID or
// by AssetName, in which case EquipmentType and BaseID are required and the
// asset is created on first purchase.
type PurchaseInput struct {
	AssetID             int64
	AssetName           string
	Description         string
	EquipmentType       string
	BaseID              int64
	Quantity            int
	UnitPrice           decimal.Decimal
	PurchaseDate        *time.Time
	Vendor              string
	PurchaseOrderNumber string
	Notes               string
	ActorID             int64
}

// Purchase records acquired quantity and credits it to the asset's current
// quantity and opening balance.
func (s *Service) Purchase(ctx context.Context, in PurchaseInput) (*model.Purchase, error) {
	if in.Quantity < 1 {
		return nil, badRequest("quantity must be at least 1")
	}
	if in.UnitPrice.IsNegative() {
		return nil, badRequest("unit price must not be negative")
	}
	if in.AssetID <= 0 && strings.TrimSpace(in.AssetName) == "" {
		return nil, badRequest("asset or asset name is required")
	}
	if in.AssetID <= 0 && (in.EquipmentType == "" || in.BaseID <= 0) {
		return nil, badRequest("equipment type and base are required when purchasing by asset name")
	}
	if in.EquipmentType != "" && !model.ValidEquipmentType(in.EquipmentType) {
		return nil, badRequest("invalid equipment type %q", in.EquipmentType)
	}

	now := s.now()
	p := &model.Purchase{
		Quantity:            in.Quantity,
		UnitPrice:           in.UnitPrice,
		TotalAmount:         in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		PurchaseDate:        dateOr(in.PurchaseDate, now),
		Vendor:              strings.TrimSpace(in.Vendor),
		PurchaseOrderNumber: strings.TrimSpace(in.PurchaseOrderNumber),
		Notes:               in.Notes,
		PurchasedBy:         in.ActorID,
	}

	var id int64
	err := s.inTx(ctx, "recording purchase", func(tx *sqlx.Tx) error {
		if err := requireActor(ctx, tx, in.ActorID); err != nil {
			return err
		}

		asset, err := s.purchaseAsset(ctx, tx, in, now)
		if err != nil {
			return err
		}
		if _, err := activeBase(ctx, tx, asset.BaseID, "purchase"); err != nil {
			return err
		}

		p.AssetID = asset.ID
		p.BaseID = asset.BaseID
		p.EquipmentType = asset.EquipmentType
		p.PurchaseNumber, err = recordNumber(ctx, tx, prefixPurchase, store.SeqPurchase, now)
		if err != nil {
			return err
		}

		if id, err = store.CreatePurchase(ctx, tx, p); err != nil {
			return err
		}
		return store.ReceiveAsset(ctx, tx, asset.ID, in.Quantity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase recorded",
		"number", p.PurchaseNumber, "asset_id", p.AssetID, "base_id", p.BaseID,
		"quantity", p.Quantity, "total", p.TotalAmount.String(), "actor", in.ActorID)
	return s.GetPurchase(ctx, id)
}

// purchaseAsset resolves the asset a purchase credits, creating it when a
// named asset does not yet exist at the base.
func (s *Service) purchaseAsset(ctx context.Context, tx *sqlx.Tx, in PurchaseInput, now time.Time) (*model.Asset, error) {
	if in.AssetID > 0 {
		asset, err := requireAsset(ctx, tx, in.AssetID)
		if err != nil {
			return nil, err
		}
		if in.BaseID > 0 && in.BaseID != asset.BaseID {
			return nil, badRequest("asset %s is not held at base %d", asset.AssetNumber, in.BaseID)
		}
		if in.EquipmentType != "" && in.EquipmentType != asset.EquipmentType {
			return nil, badRequest("asset %s is a %s, not a %s", asset.AssetNumber, asset.EquipmentType, in.EquipmentType)
		}
		return asset, nil
	}

	if _, err := activeBase(ctx, tx, in.BaseID, "purchase"); err != nil {
		return nil, err
	}
	existing, err := store.FindAsset(ctx, tx, in.AssetName, in.EquipmentType, in.BaseID)
	if err != nil || existing != nil {
		return existing, err
	}

	number, err := purchasedAssetNumber(ctx, tx, in.EquipmentType, now)
	if err != nil {
		return nil, err
	}
	asset, _, err := store.FindOrCreateAsset(ctx, tx, store.AssetKey{
		Name:          in.AssetName,
		EquipmentType: in.EquipmentType,
		BaseID:        in.BaseID,
		Description:   in.Description,
		AssetNumber:   number,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("asset registered", "asset_number", asset.AssetNumber, "name", asset.Name, "base_id", asset.BaseID)
	return asset, nil
}

// GetPurchase returns a purchase with its display fields.
func (s *Service) GetPurchase(ctx context.Context, id int64) (*model.Purchase, error) {
	p, err := store.GetPurchase(ctx, s.db, id)
	if err != nil {
		return nil, internal("loading purchase", err)
	}
	if p == nil {
		return nil, notFound("purchase not found")
	}
	return p, nil
}

// ListPurchases returns purchases matching f.
func (s *Service) ListPurchases(ctx context.Context, f store.RecordFilter) ([]model.Purchase, error) {
	purchases, err := store.ListPurchases(ctx, s.db, f)
	if err != nil {
		return nil, internal("listing purchases", err)
	}
	return purchases, nil
}
