package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. All amounts are annual and expressed in millions of rubles.
//
// 2. Personal income tax (NDFL) on ordinary income is progressive:
//    0-2.4: 13%, 2.4-5: 15%, 5-20: 18%, 20-50: 20%, above 50: 22%
//
// 3. Dividends use their own two-step scale: 13% up to 2.4, 15% above.
//
// 4. Corporate income tax (CIT) is a flat 25%; a personal fund pays a flat 15%.
//
// 5. Bracket thresholds are not indexed over the horizon.

var (
	one     = decimal.NewFromInt(1)
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// TaxBracket is one marginal slice of a progressive scale. Upper is ignored
// when Unbounded is set.
type TaxBracket struct {
	Upper     decimal.Decimal
	Rate      decimal.Decimal
	Unbounded bool
}

// BracketTable is an ordered progressive scale starting at zero.
type BracketTable []TaxBracket

// OrdinaryTable is the progressive NDFL scale for ordinary income.
var OrdinaryTable = BracketTable{
	{Upper: decimal.NewFromFloat(2.4), Rate: decimal.NewFromFloat(0.13)},
	{Upper: decimal.NewFromInt(5), Rate: decimal.NewFromFloat(0.15)},
	{Upper: decimal.NewFromInt(20), Rate: decimal.NewFromFloat(0.18)},
	{Upper: decimal.NewFromInt(50), Rate: decimal.NewFromFloat(0.20)},
	{Rate: decimal.NewFromFloat(0.22), Unbounded: true},
}

// DividendTable is the NDFL scale for dividends.
var DividendTable = BracketTable{
	{Upper: decimal.NewFromFloat(2.4), Rate: decimal.NewFromFloat(0.13)},
	{Rate: decimal.NewFromFloat(0.15), Unbounded: true},
}

var (
	// CorporateTaxRate is the CIT rate applied to LLC/holding profit.
	CorporateTaxRate = decimal.NewFromFloat(0.25)
	// PersonalFundTaxRate is the flat rate paid by a personal fund.
	PersonalFundTaxRate = decimal.NewFromFloat(0.15)
)

// Tax returns the progressive tax due on amount. Non-positive amounts owe nothing.
func (t BracketTable) Tax(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	remaining := amount
	lower := decimal.Zero
	for _, b := range t {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		inBracket := remaining
		if !b.Unbounded {
			inBracket = decimal.Min(b.Upper.Sub(lower), remaining)
		}
		if inBracket.GreaterThan(decimal.Zero) {
			tax = tax.Add(inBracket.Mul(b.Rate))
		}
		remaining = remaining.Sub(inBracket)
		lower = b.Upper
	}
	return tax
}

// MaxRate returns the highest marginal rate in the table.
func (t BracketTable) MaxRate() decimal.Decimal {
	max := decimal.Zero
	for _, b := range t {
		if b.Rate.GreaterThan(max) {
			max = b.Rate
		}
	}
	return max
}

// MarginalRate returns the rate applied to the next unit above amount.
func (t BracketTable) MarginalRate(amount decimal.Decimal) decimal.Decimal {
	for _, b := range t {
		if b.Unbounded || amount.LessThan(b.Upper) {
			return b.Rate
		}
	}
	if len(t) == 0 {
		return decimal.Zero
	}
	return t[len(t)-1].Rate
}

// Validate checks that the brackets partition [0, +inf) without gaps.
func (t BracketTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("bracket table is empty")
	}
	prev := decimal.Zero
	for i, b := range t {
		if b.Rate.LessThan(decimal.Zero) || b.Rate.GreaterThanOrEqual(one) {
			return fmt.Errorf("bracket %d: rate %s must be in [0, 1)", i, b.Rate)
		}
		if b.Unbounded {
			if i != len(t)-1 {
				return fmt.Errorf("bracket %d: only the last bracket may be unbounded", i)
			}
			return nil
		}
		if b.Upper.LessThanOrEqual(prev) {
			return fmt.Errorf("bracket %d: upper bound %s must exceed %s", i, b.Upper, prev)
		}
		prev = b.Upper
	}
	return fmt.Errorf("last bracket must be unbounded")
}

// Tax applies table to amount.
func Tax(amount decimal.Decimal, table BracketTable) decimal.Decimal {
	return table.Tax(amount)
}

// OrdinaryTax is the progressive NDFL on ordinary income.
func OrdinaryTax(amount decimal.Decimal) decimal.Decimal {
	return OrdinaryTable.Tax(amount)
}

// DividendTax is the NDFL on dividends.
func DividendTax(amount decimal.Decimal) decimal.Decimal {
	return DividendTable.Tax(amount)
}
