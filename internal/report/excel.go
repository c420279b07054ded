package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"mileage/internal/core"
)

const (
	sheetSummary = "Summary"
	sheetDetails = "Details"

	headerFillColor = "FFFF99"
)

// WriteWorkbook streams an xlsx workbook with a Summary sheet and a
// Details sheet mirroring the full prepared set. Headers are bold on a
// yellow fill, the header row is frozen, cells are bordered, and column
// widths fit their longest value.
func WriteWorkbook(w io.Writer, ps core.PreparedSet, summary []core.VehicleSummary) error {
	f, err := BuildWorkbook(ps, summary)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook assembles the report workbook in memory.
func BuildWorkbook(ps core.PreparedSet, summary []core.VehicleSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetDetails); err != nil {
		f.Close()
		return nil, fmt.Errorf("add details sheet: %w", err)
	}

	headerStyle, cellStyle, err := workbookStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := fillSheet(f, sheetSummary, summaryHeader, summaryRecords(summary), headerStyle, cellStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}

	details := make([][]string, 0, len(ps.Trips))
	for _, t := range ps.Trips {
		details = append(details, detailRecord(ps, t))
	}
	if err := fillSheet(f, sheetDetails, detailHeader(ps, true), details, headerStyle, cellStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("details sheet: %w", err)
	}

	return f, nil
}

func workbookStyles(f *excelize.File) (header, cell int, err error) {
	borders := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Border: borders,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("header style: %w", err)
	}
	cell, err = f.NewStyle(&excelize.Style{Border: borders})
	if err != nil {
		return 0, 0, fmt.Errorf("cell style: %w", err)
	}
	return header, cell, nil
}

func fillSheet(f *excelize.File, sheet string, header []string, records [][]string, headerStyle, cellStyle int) error {
	widths := make([]int, len(header))
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		widths[i] = len(h)
	}
	for r, rec := range records {
		for i, v := range rec {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			if i < len(widths) && len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(w)+2); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if len(records) > 0 {
		if err := f.SetCellStyle(sheet, "A2", fmt.Sprintf("%s%d", last, len(records)+1), cellStyle); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
