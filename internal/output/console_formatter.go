package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/CapitalsFunds/site-demo/internal/domain"
)

// ConsoleFormatter renders the comparison as an aligned text table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	in := results.Inputs
	fmt.Fprintln(&buf, "OWNERSHIP STRUCTURE COMPARISON")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "EBT: %s  Personal share: %s  Key rate: %s  Horizon: %d year(s)  Fees: %s\n",
		FormatAmount(in.EBT), FormatPercentage(in.PersonalSharePercent), FormatPercentage(in.KeyRatePercent), in.Horizon(), FormatAmount(in.Fees))
	if results.KeyRate != nil {
		fmt.Fprintf(&buf, "Key rate source: %s\n", FormatKeyRate(results.KeyRate))
	}
	fmt.Fprintf(&buf, "Baseline: %s\n", baselineName(results))
	fmt.Fprintln(&buf)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tStructure\tLabel\tEAT\tSaving\t10y effect")
	for _, row := range results.Rows {
		marker := ""
		if results.IsBest(row) {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			marker, row.Name, row.Structure.Label(), FormatAmount(row.EAT), FormatMillions(row.Saving), FormatMillions(row.Effect10))
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	ranked := RankByEAT(results)
	names := make([]string, 0, len(ranked))
	for _, row := range ranked {
		names = append(names, row.Name)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Ranking by EAT: %s\n", strings.Join(names, " > "))

	if !results.BaselineAvailable {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Note: %s\n", results.Advisory)
	}
	rec := AnalyzeComparison(results)
	if rec.Found {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (saving %s per year, 10y effect %s)\n", rec.Name, FormatAmount(rec.Saving), FormatAmount(rec.Effect10))
	}
	return buf.Bytes(), nil
}

// baselineName returns the display name of the baseline, or the raw input when it does not resolve.
func baselineName(results *domain.Comparison) string {
	if s, ok := domain.ParseStructure(results.Inputs.Baseline); ok {
		return s.Name()
	}
	if results.Inputs.Baseline == "" {
		return Placeholder
	}
	return results.Inputs.Baseline + " (not found)"
}
