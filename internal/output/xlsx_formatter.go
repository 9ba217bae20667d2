package output

import (
	"fmt"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxSummarySheet     = "Comparison"
	xlsxBreakdownSheet   = "Breakdown"
	xlsxAssumptionsSheet = "Assumptions"
)

// XLSXFormatter produces an Excel workbook with summary, breakdown and assumptions sheets.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(results *domain.Comparison) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSummarySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{xlsxBreakdownSheet, xlsxAssumptionsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F0F4F8"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	numFmt := "0.0"
	numberStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, err
	}
	bestStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"E3F9E5"}, Pattern: 1},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, err
	}

	if err := x.writeSummary(f, results, headerStyle, numberStyle, bestStyle); err != nil {
		return nil, err
	}
	if err := x.writeBreakdown(f, results, headerStyle, numberStyle); err != nil {
		return nil, err
	}
	if err := x.writeAssumptions(f, results, headerStyle); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (x XLSXFormatter) writeSummary(f *excelize.File, results *domain.Comparison, headerStyle, numberStyle, bestStyle int) error {
	sheet := xlsxSummarySheet
	header := []interface{}{"Structure", "Label", "EAT", "Annual saving", "10-year effect"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", headerStyle); err != nil {
		return err
	}

	for i, row := range results.Rows {
		r := i + 2
		values := []interface{}{row.Name, row.Structure.Label(), row.EAT.InexactFloat64(), optionalCell(row.Saving), optionalCell(row.Effect10)}
		if err := f.SetSheetRow(sheet, cellName(1, r), &values); err != nil {
			return err
		}
		style := numberStyle
		if results.IsBest(row) {
			style = bestStyle
		}
		if err := f.SetCellStyle(sheet, cellName(3, r), cellName(5, r), style); err != nil {
			return err
		}
	}

	next := len(results.Rows) + 3
	if !results.BaselineAvailable {
		if err := f.SetCellValue(sheet, cellName(1, next), results.Advisory); err != nil {
			return err
		}
	} else if rec := AnalyzeComparison(results); rec.Found {
		if err := f.SetCellValue(sheet, cellName(1, next), "Recommended: "+rec.Name); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "E", 16)
}

func (x XLSXFormatter) writeBreakdown(f *excelize.File, results *domain.Comparison, headerStyle, numberStyle int) error {
	sheet := xlsxBreakdownSheet
	header := []interface{}{"Structure", "EBT", "Corporate tax", "Dividend gross", "Personal tax", "Fund tax", "Sale proceeds", "Capital", "Taxable base", "Total tax", "EAT"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cellName(len(header), 1), headerStyle); err != nil {
		return err
	}
	for i, row := range results.Rows {
		b := row.Breakdown
		values := []interface{}{row.Name}
		for _, d := range []decimal.Decimal{row.EBT, b.CorporateTax, b.DividendGross, b.PersonalTax, b.FundTax, b.SaleProceeds, b.Capital, b.TaxableBase, b.TotalTax(), row.EAT} {
			values = append(values, d.InexactFloat64())
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName(2, i+2), cellName(len(values), i+2), numberStyle); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

func (x XLSXFormatter) writeAssumptions(f *excelize.File, results *domain.Comparison, headerStyle int) error {
	sheet := xlsxAssumptionsSheet
	if err := f.SetCellValue(sheet, "A1", "Key Assumptions"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", headerStyle); err != nil {
		return err
	}
	for i, a := range GenerateAssumptions(results.Inputs) {
		if err := f.SetCellValue(sheet, cellName(1, i+2), a); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 90)
}

// optionalCell returns the float value, or the placeholder for nil.
func optionalCell(d *decimal.Decimal) interface{} {
	if d == nil {
		return Placeholder
	}
	return d.InexactFloat64()
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
