package output

import (
	"bytes"
	"encoding/csv"

	"github.com/CapitalsFunds/site-demo/internal/domain"
)

// CSVDetailedExporter writes the intermediate amounts behind every structure's EAT.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Structure", "HorizonYears", "EBT", "CorporateTax", "DividendGross", "PersonalTax", "FundTax", "SaleProceeds", "Capital", "TaxableBase", "TotalTax", "EAT"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range results.Rows {
		b := row.Breakdown
		record := []string{
			row.Structure.ID(),
			intToString(results.Inputs.Horizon()),
			row.EBT.StringFixed(6),
			b.CorporateTax.StringFixed(6),
			b.DividendGross.StringFixed(6),
			b.PersonalTax.StringFixed(6),
			b.FundTax.StringFixed(6),
			b.SaleProceeds.StringFixed(6),
			b.Capital.StringFixed(6),
			b.TaxableBase.StringFixed(6),
			b.TotalTax().StringFixed(6),
			row.EAT.StringFixed(6),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
