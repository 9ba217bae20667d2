package calculation

import (
	"github.com/shopspring/decimal"
)

// GrossUpIterations is the fixed bisection budget for GrossUp. Sixty halvings
// shrink the initial bracket below decimal division precision for any
// realistic amount.
const GrossUpIterations = 60

// GrossUpSolver finds the gross payout whose net after progressive tax equals a target.
type GrossUpSolver struct {
	Table      BracketTable
	Iterations int
}

// NewDividendGrossUpSolver returns a solver over the dividend NDFL scale.
func NewDividendGrossUpSolver() *GrossUpSolver {
	return &GrossUpSolver{Table: DividendTable, Iterations: GrossUpIterations}
}

// Solve returns gross such that gross - tax(gross) = netTarget.
func (s *GrossUpSolver) Solve(netTarget decimal.Decimal) decimal.Decimal {
	if netTarget.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	// The average rate never exceeds the top marginal rate, so net/(1-max)
	// always nets at least the target.
	lo := netTarget
	hi := netTarget.Div(one.Sub(s.Table.MaxRate()))

	iterations := s.Iterations
	if iterations <= 0 {
		iterations = GrossUpIterations
	}
	for i := 0; i < iterations; i++ {
		mid := lo.Add(hi).Div(two)
		net := mid.Sub(s.Table.Tax(mid))
		if net.LessThan(netTarget) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo.Add(hi).Div(two)
}

// SolveWithTax returns the gross together with the tax withheld from it.
func (s *GrossUpSolver) SolveWithTax(netTarget decimal.Decimal) (gross, tax decimal.Decimal) {
	gross = s.Solve(netTarget)
	return gross, s.Table.Tax(gross)
}

// GrossUp grosses a net dividend up over the dividend scale.
func GrossUp(netTarget decimal.Decimal) decimal.Decimal {
	return NewDividendGrossUpSolver().Solve(netTarget)
}
