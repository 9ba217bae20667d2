package output

import (
	"bytes"
	"encoding/csv"

	"github.com/CapitalsFunds/site-demo/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per structure).
// Unavailable savings and effects are left empty.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Structure", "Name", "Label", "EBT", "PersonalShare", "EAT", "Saving", "Effect10", "Best"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range results.Rows {
		eat := row.EAT
		ebt := row.EBT
		share := row.PersonalShare
		record := []string{
			row.Structure.ID(),
			row.Name,
			row.Structure.Label(),
			exact(&ebt),
			exact(&share),
			exact(&eat),
			exact(row.Saving),
			exact(row.Effect10),
			boolToString(results.IsBest(row)),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
