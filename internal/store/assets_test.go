package store

import (
	"context"
	"testing"

	"github.com/erazemk/arsenal/internal/db"
	"github.com/erazemk/arsenal/internal/model"
)

func TestFindOrCreateAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	base := mustBase(t, database, "Alpha", "ALP")

	key := AssetKey{Name: "Rifle", EquipmentType: model.EquipmentWeapon, BaseID: base.ID, AssetNumber: "WEA-1"}
	a, created, err := FindOrCreateAsset(ctx, database, key)
	if err != nil {
		t.Fatalf("FindOrCreateAsset: %v", err)
	}
	if !created {
		t.Error("expected asset to be created")
	}
	if a.CurrentQuantity != 0 || a.OpeningBalance != 0 || a.Status != model.AssetStatusAvailable {
		t.Errorf("unexpected new asset state: %+v", a)
	}
	if a.BaseCode != "ALP" {
		t.Errorf("expected joined base code ALP, got %q", a.BaseCode)
	}

	key.AssetNumber = "WEA-2"
	again, created, err := FindOrCreateAsset(ctx, database, key)
	if err != nil {
		t.Fatalf("FindOrCreateAsset: %v", err)
	}
	if created || again.ID != a.ID {
		t.Errorf("expected existing asset %d, got %d (created=%v)", a.ID, again.ID, created)
	}

	taken, _ := AssetNumberTaken(ctx, database, "WEA-1")
	if !taken {
		t.Error("expected WEA-1 to be taken")
	}
	taken, _ = AssetNumberTaken(ctx, database, "WEA-2")
	if taken {
		t.Error("expected WEA-2 to be free")
	}
}

func TestReceiveAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	base := mustBase(t, database, "Alpha", "ALP")
	a := mustAsset(t, database, "Rifle", base.ID, 0)

	ReceiveAsset(ctx, database, a.ID, 5)
	ReceiveAsset(ctx, database, a.ID, 3)

	got, _ := GetAsset(ctx, database, a.ID)
	if got.CurrentQuantity != 8 || got.OpeningBalance != 8 {
		t.Errorf("expected 8/8, got current=%d opening=%d", got.CurrentQuantity, got.OpeningBalance)
	}

	if err := ReceiveAsset(ctx, database, 999, 1); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTakeAssetQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	base := mustBase(t, database, "Alpha", "ALP")
	a := mustAsset(t, database, "Rifle", base.ID, 5)

	if err := TakeAssetQuantity(ctx, database, a.ID, 3, model.AssetStatusAssigned); err != nil {
		t.Fatalf("TakeAssetQuantity: %v", err)
	}
	got, _ := GetAsset(ctx, database, a.ID)
	if got.CurrentQuantity != 2 || got.Status != model.AssetStatusAssigned {
		t.Errorf("expected 2/assigned, got %d/%s", got.CurrentQuantity, got.Status)
	}

	if err := TakeAssetQuantity(ctx, database, a.ID, 3, model.AssetStatusExpended); err != ErrInsufficientQuantity {
		t.Errorf("expected ErrInsufficientQuantity, got %v", err)
	}
	got, _ = GetAsset(ctx, database, a.ID)
	if got.CurrentQuantity != 2 || got.Status != model.AssetStatusAssigned {
		t.Errorf("failed take changed asset: %d/%s", got.CurrentQuantity, got.Status)
	}

	if err := TakeAssetQuantity(ctx, database, 999, 1, ""); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdjustAssetQuantityClampsAtZero(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	base := mustBase(t, database, "Alpha", "ALP")
	a := mustAsset(t, database, "Rifle", base.ID, 2)

	if err := AdjustAssetQuantity(ctx, database, a.ID, -10, ""); err != nil {
		t.Fatalf("AdjustAssetQuantity: %v", err)
	}
	got, _ := GetAsset(ctx, database, a.ID)
	if got.CurrentQuantity != 0 {
		t.Errorf("expected clamp to 0, got %d", got.CurrentQuantity)
	}
	if got.Status != model.AssetStatusAvailable {
		t.Errorf("empty status should leave status unchanged, got %q", got.Status)
	}

	if err := AdjustAssetQuantity(ctx, database, 999, 1, ""); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAssets(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alpha := mustBase(t, database, "Alpha", "ALP")
	bravo := mustBase(t, database, "Bravo", "BRV")

	mustAsset(t, database, "Rifle", alpha.ID, 5)
	mustAsset(t, database, "Pistol", alpha.ID, 0)
	mustAsset(t, database, "Rifle", bravo.ID, 1)

	all, _ := ListAssets(ctx, database, AssetFilter{})
	if len(all) != 3 {
		t.Errorf("expected 3 assets, got %d", len(all))
	}
	atAlpha, _ := ListAssets(ctx, database, AssetFilter{BaseID: alpha.ID})
	if len(atAlpha) != 2 {
		t.Errorf("expected 2 assets at Alpha, got %d", len(atAlpha))
	}
	inStock, _ := ListAssets(ctx, database, AssetFilter{BaseID: alpha.ID, InStock: true})
	if len(inStock) != 1 || inStock[0].Name != "Rifle" {
		t.Errorf("expected only Rifle in stock at Alpha, got %v", inStock)
	}
	vehicles, _ := ListAssets(ctx, database, AssetFilter{EquipmentType: model.EquipmentVehicle})
	if len(vehicles) != 0 {
		t.Errorf("expected no vehicles, got %d", len(vehicles))
	}
}
