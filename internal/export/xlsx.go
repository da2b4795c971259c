package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/tilepack/internal/model"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

var placementHeaders = []any{"ID", "Label", "Status", "X", "Y", "Width", "Height", "Flipped", "Source"}

// ExportXLSX writes an Excel report with one row per item on the
// Placements sheet and the overall statistics on the Summary sheet.
func ExportXLSX(path string, result model.PackResult) error {
	if len(result.Placed) == 0 && len(result.Unplaced) == 0 {
		return fmt.Errorf("no items to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", placementsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writePlacementRows(f, result); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	if err := writeSummaryRows(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writePlacementRows(f *excelize.File, result model.PackResult) error {
	if err := f.SetSheetRow(placementsSheet, "A1", &placementHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(placementsSheet, "A1", "I1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	row := 2
	write := func(it model.Item, status string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{it.ID, it.Label, status, it.X, it.Y, it.Width, it.Height, it.Flipped, it.Source}
		if status != "Placed" {
			// Unplaced items have no meaningful position
			values[3], values[4] = "", ""
		}
		if err := f.SetSheetRow(placementsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
		return nil
	}

	for _, it := range result.Placed {
		if err := write(it, "Placed"); err != nil {
			return err
		}
	}
	for _, it := range result.Unplaced {
		if err := write(it, "Unplaced"); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(placementsSheet, "B", "B", 24); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return f.SetColWidth(placementsSheet, "I", "I", 40)
}

func writeSummaryRows(f *excelize.File, result model.PackResult) error {
	rows := [][]any{
		{"Bin", result.Bin.String()},
		{"Size", result.Size.String()},
		{"Order", result.Order},
		{"Fallback", result.Fallback},
		{"Placed", len(result.Placed)},
		{"Unplaced", len(result.Unplaced)},
		{"Used Area", result.UsedArea()},
		{"Total Area", result.TotalArea()},
		{"Efficiency (%)", roundTo(result.Efficiency(), 2)},
		{"Leftover Area", model.TotalLeftoverArea(result.Leftovers)},
	}
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 18)
}
