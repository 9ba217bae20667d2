package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown holds the intermediate amounts behind a structure's EAT.
// Fields that do not apply to a structure stay zero.
type Breakdown struct {
	CorporateTax  decimal.Decimal `json:"corporate_tax"`
	PersonalTax   decimal.Decimal `json:"personal_tax"`
	FundTax       decimal.Decimal `json:"fund_tax"`
	DividendGross decimal.Decimal `json:"dividend_gross"`
	SaleProceeds  decimal.Decimal `json:"sale_proceeds"`
	Capital       decimal.Decimal `json:"capital"`
	TaxableBase   decimal.Decimal `json:"taxable_base"`
}

// TotalTax sums every tax component.
func (b Breakdown) TotalTax() decimal.Decimal {
	return b.CorporateTax.Add(b.PersonalTax).Add(b.FundTax)
}

// StructureRow is one line of the comparison table.
type StructureRow struct {
	Structure     Structure        `json:"structure"`
	Name          string           `json:"name"`
	EBT           decimal.Decimal  `json:"ebt"`
	PersonalShare decimal.Decimal  `json:"personal_share"`
	EAT           decimal.Decimal  `json:"eat"`
	Saving        *decimal.Decimal `json:"saving"`
	Effect10      *decimal.Decimal `json:"effect_10"`
	Breakdown     Breakdown        `json:"breakdown"`
}

// KeyRateQuote is the key rate reported by the central bank.
type KeyRateQuote struct {
	RatePercent decimal.Decimal `json:"rate"`
	AsOf        *time.Time      `json:"date"`
	Source      string          `json:"source"`
}

// Comparison is the full result of comparing all structures for one input bundle.
type Comparison struct {
	Inputs            Inputs           `json:"inputs"`
	Rows              []StructureRow   `json:"rows"`
	BaselineAvailable bool             `json:"baseline_available"`
	BaselineEAT       *decimal.Decimal `json:"baseline_eat"`
	Best              *Structure       `json:"best,omitempty"`
	Advisory          string           `json:"advisory,omitempty"`
	KeyRate           *KeyRateQuote    `json:"key_rate,omitempty"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// Row returns the row for a structure.
func (c *Comparison) Row(s Structure) (StructureRow, bool) {
	for _, r := range c.Rows {
		if r.Structure == s {
			return r, true
		}
	}
	return StructureRow{}, false
}

// IsBest reports whether the row holds the highest positive 10-year effect.
func (c *Comparison) IsBest(r StructureRow) bool {
	return c.Best != nil && *c.Best == r.Structure
}
