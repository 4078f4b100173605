package records

import (
	"bytes"
	"fmt"

	"github.com/xelth-com/jobintake/internal/models"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Jobs"

var exportHeaders = []string{
	"Job Number", "Job Name", "Location", "Start Date",
	"Project Manager", "Superintendent", "Subcontractor", "Trade",
	"Submittal", "Scope of Work", "Special Requirements",
	"Contact Name", "Contact Phone", "Contact Email", "Notes", "Created At",
}

// ExportXLSX writes the given records to a single-sheet workbook
func ExportXLSX(records []models.JobRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F0F0F5"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to address header row: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, rec := range records {
		startDate := ""
		if t, ok := rec.StartDate(); ok {
			startDate = t.Format(models.DateLayout)
		}
		row := []interface{}{
			rec.JobNumber, rec.JobName, rec.Location, startDate,
			rec.PM, rec.Superintendent, rec.Sub, rec.Trade,
			rec.Submittal, rec.ScopeOfWork, rec.SpecialRequirements,
			rec.ContactName, rec.ContactPhone, rec.ContactEmail, rec.Notes,
			rec.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "D", 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "J", "K", 50); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
