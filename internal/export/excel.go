// Package export renders ranked deal batches for human consumption:
// Excel workbooks, HTML dashboards, email digests and terminal tables.
package export

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"flipfinder/internal/domain"
)

// ROI color thresholds for the analysis sheet
const (
	goodROIColor   = "90EE90" // >= 30%
	mediumROIColor = "FFFFE0" // >= 20%
	lowROIColor    = "FFC0CB"
	headerColor    = "CCCCCC"
)

var excelHeaders = []string{
	"Rank", "Score", "Address", "List Price", "ARV", "Repair Costs",
	"Closing Costs", "Holding Costs", "Total Investment", "Profit",
	"ROI (%)", "Max Purchase (70% Rule)", "Meets 70% Rule", "Qualifies",
}

// ExcelExporter writes deal analysis workbooks
type ExcelExporter struct {
	log zerolog.Logger
}

// NewExcelExporter creates an Excel exporter
func NewExcelExporter(log zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{log: log.With().Str("component", "excel_exporter").Logger()}
}

// Export writes the ranked deals to an .xlsx workbook with a formatted
// "Deal Analysis" sheet and a "Summary" sheet of batch aggregates.
func (e *ExcelExporter) Export(deals []domain.Deal, path string) error {
	if len(deals) == 0 {
		return fmt.Errorf("no deals to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Deal Analysis"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for col, header := range excelHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(excelHeaders), 1)
	_ = f.SetCellStyle(sheet, "A1", endHeader, headerStyle)

	for i, deal := range deals {
		row := i + 2
		values := []any{
			deal.Rank, deal.Score, deal.Address, deal.ListPrice, deal.ARV,
			deal.Repairs.Total, deal.ClosingCosts, deal.HoldingCosts,
			deal.TotalInvestment, deal.Profit, deal.ROI, deal.MaxPurchasePrice,
			deal.Meets70Rule, deal.Qualifies,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
		}

		// Traffic-light the ROI column
		color := lowROIColor
		switch {
		case deal.ROI >= 30:
			color = goodROIColor
		case deal.ROI >= 20:
			color = mediumROIColor
		}
		roiStyle, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err == nil {
			cell, _ := excelize.CoordinatesToCellName(11, row)
			_ = f.SetCellStyle(sheet, cell, cell, roiStyle)
		}
	}

	_ = f.SetColWidth(sheet, "C", "C", 40)
	_ = f.SetColWidth(sheet, "D", "N", 16)

	if err := e.writeSummary(f, headerStyle, deals); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	e.log.Info().Str("path", path).Int("deals", len(deals)).Msg("Exported deals to Excel")
	return nil
}

func (e *ExcelExporter) writeSummary(f *excelize.File, headerStyle int, deals []domain.Deal) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	var sumPrice, sumARV, sumRepairs, sumProfit, sumROI, maxProfit, maxROI float64
	qualifying, meets70 := 0, 0
	for _, d := range deals {
		sumPrice += d.ListPrice
		sumARV += d.ARV
		sumRepairs += d.Repairs.Total
		sumProfit += d.Profit
		sumROI += d.ROI
		if d.Profit > maxProfit {
			maxProfit = d.Profit
		}
		if d.ROI > maxROI {
			maxROI = d.ROI
		}
		if d.Qualifies {
			qualifying++
		}
		if d.Meets70Rule {
			meets70++
		}
	}
	n := float64(len(deals))

	metrics := []struct {
		name  string
		value any
	}{
		{"Deals Analyzed", len(deals)},
		{"Qualifying Deals", qualifying},
		{"Average List Price", sumPrice / n},
		{"Average ARV", sumARV / n},
		{"Average Repair Costs", sumRepairs / n},
		{"Average Profit", sumProfit / n},
		{"Average ROI (%)", sumROI / n},
		{"Highest Profit", maxProfit},
		{"Highest ROI (%)", maxROI},
		{"Deals Meeting 70% Rule", meets70},
	}

	_ = f.SetCellValue(sheet, "A1", "Metric")
	_ = f.SetCellValue(sheet, "B1", "Value")
	_ = f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	for i, m := range metrics {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), m.name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), m.value)
	}
	_ = f.SetColWidth(sheet, "A", "A", 30)
	_ = f.SetColWidth(sheet, "B", "B", 20)

	return nil
}
