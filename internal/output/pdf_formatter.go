package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/CapitalsFunds/site-demo/pkg/dateutil"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 15.0
)

// PDFFormatter renders a one-page landscape PDF summary. Core fonts are
// Latin-1 only, so structures are listed by their English names.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(results *domain.Comparison) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - pdfMarginLeft - pdfMarginRight

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 10, "Ownership Structure Comparison", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(contentWidth, 5, "Generated "+dateutil.Timestamp(results.GeneratedAt), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	in := results.Inputs
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	summary := fmt.Sprintf("EBT %s | Personal share %s | Key rate %s | Horizon %d year(s) | Fees %s | Baseline %s",
		FormatAmount(in.EBT), FormatPercentage(in.PersonalSharePercent), FormatPercentage(in.KeyRatePercent),
		in.Horizon(), FormatAmount(in.Fees), baselineName(results))
	pdf.MultiCell(contentWidth, 5, tr(summary), "", "L", false)
	if results.KeyRate != nil {
		pdf.MultiCell(contentWidth, 5, tr("Key rate source: "+FormatKeyRate(results.KeyRate)), "", "L", false)
	}
	pdf.Ln(4)

	widths := []float64{contentWidth * 0.40, contentWidth * 0.20, contentWidth * 0.20, contentWidth * 0.20}
	headers := []string{"Structure", "EAT", "Annual saving", "10-year effect"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 244, 248)
	pdf.SetDrawColor(200, 200, 200)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range results.Rows {
		best := results.IsBest(row)
		if best {
			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(227, 249, 229)
		} else {
			pdf.SetFont("Arial", "", 10)
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{row.Name, FormatAmount(row.EAT), FormatMillions(row.Saving), FormatMillions(row.Effect10)}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	if !results.BaselineAvailable {
		pdf.SetTextColor(150, 80, 0)
		pdf.MultiCell(contentWidth, 5, tr(results.Advisory), "", "L", false)
	} else if rec := AnalyzeComparison(results); rec.Found {
		pdf.SetTextColor(0, 102, 51)
		pdf.MultiCell(contentWidth, 5, tr(fmt.Sprintf("Recommended: %s (saving %s per year, 10-year effect %s)", rec.Name, FormatAmount(rec.Saving), FormatAmount(rec.Effect10))), "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 7, "Key Assumptions", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(50, 50, 50)
	for _, a := range GenerateAssumptions(in) {
		pdf.MultiCell(contentWidth, 4.5, tr("- "+a), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
