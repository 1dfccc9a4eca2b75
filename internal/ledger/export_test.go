package ledger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "Rifle", f.alpha, 12)
	f.stock(t, "Pistol", f.bravo, 3)

	x, name, err := f.svc.ExportDashboard(ctx, DashboardFilter{BaseID: f.alpha.ID})
	if err != nil {
		t.Fatalf("ExportDashboard: %v", err)
	}
	if !strings.HasSuffix(name, ".xlsx") {
		t.Errorf("unexpected file name %q", name)
	}

	var buf bytes.Buffer
	if err := x.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	x.Close()

	book, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer book.Close()

	closing, _ := book.GetCellValue("Summary", "B9")
	if closing != "12" {
		t.Errorf("expected closing balance 12, got %q", closing)
	}

	rows, err := book.GetRows("Assets")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and 1 asset row, got %d rows", len(rows))
	}
	if rows[1][1] != "Rifle" || rows[1][3] != "Alpha" {
		t.Errorf("unexpected asset row %v", rows[1])
	}
}
