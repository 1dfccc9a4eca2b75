package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

func TestAssignmentAndReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	x := f.stock(t, "Rifle", f.alpha, 10)

	a, err := f.svc.CreateAssignment(ctx, AssignmentInput{
		AssetID:     x.ID,
		Quantity:    3,
		AssignedTo:  "Sgt. Smith",
		PersonnelID: "S-1001",
		ActorID:     f.actor.ID,
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if want := fmt.Sprintf("ASN-%d-1", testNow.UnixMilli()); a.AssignmentNumber != want {
		t.Errorf("expected %s, got %s", want, a.AssignmentNumber)
	}
	if a.BaseID != f.alpha.ID || a.EquipmentType != model.EquipmentWeapon {
		t.Errorf("base and type must come from the asset: %+v", a)
	}
	if got := f.asset(t, x.ID); got.CurrentQuantity != 7 || got.Status != model.AssetStatusAssigned {
		t.Errorf("expected 7/assigned, got %d/%s", got.CurrentQuantity, got.Status)
	}

	returned, err := f.svc.ReturnAssignment(ctx, a.ID, f.actor.ID)
	if err != nil {
		t.Fatalf("ReturnAssignment: %v", err)
	}
	if !returned.IsReturned || returned.ReturnDate == nil {
		t.Errorf("unexpected returned assignment: %+v", returned)
	}
	if got := f.asset(t, x.ID); got.CurrentQuantity != 10 || got.Status != model.AssetStatusAvailable {
		t.Errorf("expected 10/available, got %d/%s", got.CurrentQuantity, got.Status)
	}

	_, err = f.svc.ReturnAssignment(ctx, a.ID, f.actor.ID)
	wantKind(t, err, KindConflict)
	if got := f.asset(t, x.ID); got.CurrentQuantity != 10 {
		t.Errorf("second return double-credited: %d", got.CurrentQuantity)
	}

	_, err = f.svc.ReturnAssignment(ctx, 999, f.actor.ID)
	wantKind(t, err, KindNotFound)
}

func TestAssignmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	x := f.stock(t, "Rifle", f.alpha, 2)

	tests := []struct {
		name string
		in   AssignmentInput
		kind Kind
	}{
		{"zero quantity", AssignmentInput{AssetID: x.ID, AssignedTo: "A"}, KindBadRequest},
		{"no assignee", AssignmentInput{AssetID: x.ID, Quantity: 1, AssignedTo: "  "}, KindBadRequest},
		{"missing asset", AssignmentInput{AssetID: 999, Quantity: 1, AssignedTo: "A"}, KindNotFound},
		{"wrong base", AssignmentInput{AssetID: x.ID, BaseID: f.bravo.ID, Quantity: 1, AssignedTo: "A"}, KindConflict},
		{"too many", AssignmentInput{AssetID: x.ID, Quantity: 3, AssignedTo: "A"}, KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.ActorID = f.actor.ID
			_, err := f.svc.CreateAssignment(ctx, tt.in)
			wantKind(t, err, tt.kind)
		})
	}

	open := false
	active, _ := f.svc.ListAssignments(ctx, store.AssignmentFilter{Returned: &open})
	if len(active) != 0 {
		t.Errorf("failed requests created %d assignments", len(active))
	}
}
