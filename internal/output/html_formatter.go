package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/CapitalsFunds/site-demo/pkg/dateutil"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":   FormatAmount,
	"opt":     FormatMillions,
	"pct":     FormatPercentage,
	"keyrate": FormatKeyRate,
	"stamp":   dateutil.Timestamp,
}).Parse(htmlTemplateSource))

type htmlRow struct {
	domain.StructureRow
	Label string
	Best  bool
}

func (h HTMLFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer

	rows := make([]htmlRow, 0, len(results.Rows))
	for _, r := range results.Rows {
		rows = append(rows, htmlRow{StructureRow: r, Label: r.Structure.Label(), Best: results.IsBest(r)})
	}

	data := struct {
		*domain.Comparison
		Table          []htmlRow
		BaselineName   string
		Recommendation Recommendation
		Assumptions    []string
	}{results, rows, baselineName(results), AnalyzeComparison(results), GenerateAssumptions(results.Inputs)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
