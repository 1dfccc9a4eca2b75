package ledger

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/arsenal/internal/store"
)

var assetExportHeaders = []string{
	"Asset Number", "Name", "Type", "Base", "Status", "Opening Balance", "Current Quantity",
}

// ExportDashboard builds a workbook with the dashboard numbers on a Summary
// sheet and the matching registry rows on an Assets sheet. It also returns a
// suggested file name.
func (s *Service) ExportDashboard(ctx context.Context, f DashboardFilter) (*excelize.File, string, error) {
	d, err := s.Dashboard(ctx, f)
	if err != nil {
		return nil, "", err
	}
	assets, err := s.ListAssets(ctx, store.AssetFilter{BaseID: f.BaseID, EquipmentType: f.EquipmentType})
	if err != nil {
		return nil, "", err
	}

	x := excelize.NewFile()
	const summary, list = "Summary", "Assets"
	x.SetSheetName("Sheet1", summary)
	if _, err := x.NewSheet(list); err != nil {
		x.Close()
		return nil, "", internal("creating workbook", err)
	}

	bold, _ := x.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	rangeOf := func() string {
		from, to := "beginning", "now"
		if f.From != nil {
			from = f.From.Format("2006-01-02")
		}
		if f.To != nil {
			to = f.To.Format("2006-01-02")
		}
		return from + " to " + to
	}

	rows := [][2]any{
		{"Period", rangeOf()},
		{"Opening Balance", d.OpeningBalance},
		{"Purchases", d.NetMovement.Purchases},
		{"Transfers In", d.NetMovement.TransfersIn},
		{"Transfers Out", d.NetMovement.TransfersOut},
		{"Net Movement", d.NetMovement.Total},
		{"Assigned", d.Assigned},
		{"Expended", d.Expended},
		{"Closing Balance", d.ClosingBalance},
		{"Purchase Value", d.PurchaseValue.InexactFloat64()},
	}
	for i, r := range rows {
		row := i + 1
		x.SetCellValue(summary, fmt.Sprintf("A%d", row), r[0])
		x.SetCellStyle(summary, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
		x.SetCellValue(summary, fmt.Sprintf("B%d", row), r[1])
	}
	x.SetColWidth(summary, "A", "A", 20)
	x.SetColWidth(summary, "B", "B", 28)

	for i, h := range assetExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		x.SetCellValue(list, cell, h)
		x.SetCellStyle(list, cell, cell, bold)
	}
	for i, a := range assets {
		row := i + 2
		x.SetCellValue(list, fmt.Sprintf("A%d", row), a.AssetNumber)
		x.SetCellValue(list, fmt.Sprintf("B%d", row), a.Name)
		x.SetCellValue(list, fmt.Sprintf("C%d", row), a.EquipmentType)
		x.SetCellValue(list, fmt.Sprintf("D%d", row), a.BaseName)
		x.SetCellValue(list, fmt.Sprintf("E%d", row), a.Status)
		x.SetCellValue(list, fmt.Sprintf("F%d", row), a.OpeningBalance)
		x.SetCellValue(list, fmt.Sprintf("G%d", row), a.CurrentQuantity)
	}
	for i, w := range []float64{22, 24, 12, 18, 16, 16, 16} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		x.SetColWidth(list, col, col, w)
	}

	name := fmt.Sprintf("dashboard-%s.xlsx", s.now().Format("20060102-150405"))
	return x, name, nil
}
