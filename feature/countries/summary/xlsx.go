package summary

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Summary"

// XLSXRenderer writes the summary as a single-sheet workbook.
type XLSXRenderer struct{}

func (XLSXRenderer) Ext() string { return "xlsx" }

func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXRenderer) Render(s Summary, w *bytes.Buffer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})
	if err != nil {
		return err
	}

	header := []struct {
		cell   string
		values []interface{}
	}{
		{"A1", []interface{}{"Total countries", s.Total}},
		{"A2", []interface{}{"Last refreshed at", s.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z07:00")}},
		{"A4", []interface{}{"rank", "name", "region", "currency_code", "population", "estimated_gdp"}},
	}
	for _, h := range header {
		if err := f.SetSheetRow(reportSheet, h.cell, &h.values); err != nil {
			return fmt.Errorf("write header %s: %w", h.cell, err)
		}
	}
	if err := f.SetCellStyle(reportSheet, "A4", "F4", headerStyle); err != nil {
		return err
	}

	for i, c := range s.Top {
		cell, err := excelize.CoordinatesToCellName(1, 5+i)
		if err != nil {
			return err
		}
		row := []interface{}{i + 1, c.Name, deref(c.Region), deref(c.CurrencyCode), c.Population, c.EstimatedGDP}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
