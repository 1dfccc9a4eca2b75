package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
)

func mustBase(t *testing.T, q sqlx.ExtContext, name, code string) *model.Base {
	t.Helper()
	b, err := CreateBase(context.Background(), q, name, code, "somewhere")
	if err != nil {
		t.Fatalf("CreateBase(%s): %v", name, err)
	}
	return b
}

func mustUser(t *testing.T, q sqlx.ExtContext, username string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), q, username, "", "hash", model.RoleAdmin, nil)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func mustAsset(t *testing.T, q sqlx.ExtContext, name string, baseID int64, qty int) *model.Asset {
	t.Helper()
	ctx := context.Background()
	a, _, err := FindOrCreateAsset(ctx, q, AssetKey{
		Name:          name,
		EquipmentType: model.EquipmentWeapon,
		BaseID:        baseID,
		AssetNumber:   name + "-num",
	})
	if err != nil {
		t.Fatalf("FindOrCreateAsset(%s): %v", name, err)
	}
	if qty > 0 {
		if err := ReceiveAsset(ctx, q, a.ID, qty); err != nil {
			t.Fatalf("ReceiveAsset: %v", err)
		}
	}
	a, _ = GetAsset(ctx, q, a.ID)
	return a
}
