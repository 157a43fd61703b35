// Package export writes blood requests to an .xlsx workbook.
package export

import (
	"fmt"
	"io"

	"bloodlink/internal/engine"
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"

	"github.com/xuri/excelize/v2"
)

const (
	RequestsSheet      = "Requests"
	CompatibilitySheet = "Compatibility"
)

var requestHeaders = []string{
	"ID", "Patient", "Blood Group", "Units", "Urgency", "Status",
	"Hospital", "Location", "Contact", "Needed By", "Requester", "Relation", "Description", "Created",
}

var requestColumnWidths = []float64{26, 22, 12, 8, 10, 11, 30, 24, 16, 20, 22, 12, 40, 20}

const timeLayout = "2006-01-02 15:04"

// WriteRequests writes reqs, one per row in the given order, plus the donor
// compatibility matrix on its own sheet.
func WriteRequests(w io.Writer, reqs []*types.BloodRequest) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RequestsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8D7DA"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, RequestsSheet, 1, toAny(requestHeaders)); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(requestHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(RequestsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range requestColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(RequestsSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, req := range reqs {
		neededBy := ""
		if req.NeededBy != nil {
			neededBy = req.NeededBy.Format(timeLayout)
		}

		row := []any{
			req.ID,
			req.PatientName,
			req.BloodType.String(),
			req.UnitsNeeded,
			string(req.Urgency),
			string(req.Status),
			req.Hospital,
			req.Location,
			req.ContactNumber,
			neededBy,
			req.RequesterName,
			req.RelationToPatient,
			utils.PtrString(req.Description),
			req.CreatedAt.Format(timeLayout),
		}
		if err := writeRow(f, RequestsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(RequestsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := writeCompatibility(f); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeCompatibility lays out recipients down the side and donors across the
// top, marking each pair that can be transfused.
func writeCompatibility(f *excelize.File) error {
	if _, err := f.NewSheet(CompatibilitySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []any{"Recipient \\ Donor"}
	for _, bt := range types.AllBloodTypes {
		header = append(header, bt.String())
	}
	if err := writeRow(f, CompatibilitySheet, 1, header); err != nil {
		return err
	}

	for i, recipient := range types.AllBloodTypes {
		row := []any{recipient.String()}
		for _, donor := range types.AllBloodTypes {
			ok, err := engine.IsCompatible(recipient, donor)
			if err != nil {
				return err
			}
			mark := ""
			if ok {
				mark = "Y"
			}
			row = append(row, mark)
		}
		if err := writeRow(f, CompatibilitySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
