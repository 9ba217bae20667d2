package output

import (
	"sort"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the structure with the best 10-year effect.
type Recommendation struct {
	Structure domain.Structure
	Name      string
	EAT       decimal.Decimal
	Saving    decimal.Decimal
	Effect10  decimal.Decimal
	Found     bool
}

// AnalyzeComparison returns the recommended structure, if any row has a
// positive 10-year effect against the baseline.
func AnalyzeComparison(results *domain.Comparison) Recommendation {
	if results == nil || results.Best == nil {
		return Recommendation{}
	}
	row, ok := results.Row(*results.Best)
	if !ok || row.Saving == nil || row.Effect10 == nil {
		return Recommendation{}
	}
	return Recommendation{
		Structure: row.Structure,
		Name:      row.Name,
		EAT:       row.EAT,
		Saving:    *row.Saving,
		Effect10:  *row.Effect10,
		Found:     true,
	}
}

// RankByEAT returns the rows ordered by EAT, highest first. Ties keep display order.
func RankByEAT(results *domain.Comparison) []domain.StructureRow {
	rows := append([]domain.StructureRow(nil), results.Rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].EAT.GreaterThan(rows[j].EAT) })
	return rows
}
