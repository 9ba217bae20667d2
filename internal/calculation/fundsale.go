package calculation

import (
	"fmt"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// FundSaleMaxIterations bounds the bisection over invested capital.
	FundSaleMaxIterations = 120
)

var (
	// FundSaleTolerance is the accepted absolute error on the net proceeds.
	FundSaleTolerance = decimal.NewFromFloat(1e-6)
	// FundSaleCapitalCap caps the exponential search for an upper bound.
	FundSaleCapitalCap = decimal.NewFromInt(1_000_000_000_000)
)

// GrowthFactor returns g = (1+r)^years - 1 for a rate given in percent.
// Non-positive horizons count as one year.
func GrowthFactor(ratePercent decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		years = 1
	}
	r := ratePercent.Div(hundred)
	return one.Add(r).Pow(decimal.NewFromInt(int64(years))).Sub(one)
}

// FundSaleSolver finds the capital to place into a fund so that selling the
// grown units and paying progressive tax on the gain nets a target amount.
type FundSaleSolver struct {
	Table         BracketTable
	MaxIterations int
	Tolerance     decimal.Decimal
	CapitalCap    decimal.Decimal
}

// NewFundSaleSolver returns a solver over the ordinary NDFL scale.
func NewFundSaleSolver() *FundSaleSolver {
	return &FundSaleSolver{
		Table:         OrdinaryTable,
		MaxIterations: FundSaleMaxIterations,
		Tolerance:     FundSaleTolerance,
		CapitalCap:    FundSaleCapitalCap,
	}
}

type fundSaleModel struct {
	table  BracketTable
	growth decimal.Decimal // g
	factor decimal.Decimal // 1+g
	fees   decimal.Decimal
}

func (m fundSaleModel) proceeds(capital decimal.Decimal) decimal.Decimal {
	return capital.Mul(m.factor)
}

func (m fundSaleModel) base(capital decimal.Decimal) decimal.Decimal {
	return decimal.Max(capital.Mul(m.growth).Sub(m.fees), decimal.Zero)
}

func (m fundSaleModel) net(capital decimal.Decimal) decimal.Decimal {
	return m.proceeds(capital).Sub(m.table.Tax(m.base(capital)))
}

// Solve returns the sale proceeds S and the taxable base for netTarget.
// GrossOrCapital carries S. When the capital cap is hit before the target is
// reachable the best estimate is returned with ErrSolverNonConvergence.
func (s *FundSaleSolver) Solve(netTarget, ratePercent decimal.Decimal, years int, fees decimal.Decimal) (domain.SolverResult, error) {
	if netTarget.LessThanOrEqual(decimal.Zero) {
		return domain.SolverResult{GrossOrCapital: decimal.Zero, TaxableBase: decimal.Zero}, nil
	}

	g := GrowthFactor(ratePercent, years)
	if g.LessThanOrEqual(one.Neg()) {
		return domain.SolverResult{GrossOrCapital: decimal.Zero, TaxableBase: decimal.Zero},
			fmt.Errorf("%w: key rate %s%% over %d years", ErrInvalidGrowthRate, ratePercent.String(), years)
	}
	m := fundSaleModel{table: s.Table, growth: g, factor: one.Add(g), fees: fees}

	// Grow the upper bound until it nets the target
	lo := decimal.Zero
	hi := one
	for m.net(hi).LessThan(netTarget) && hi.LessThan(s.CapitalCap) {
		hi = hi.Mul(two)
	}
	reachable := m.net(hi).GreaterThanOrEqual(netTarget)

	maxIterations := s.MaxIterations
	if maxIterations <= 0 {
		maxIterations = FundSaleMaxIterations
	}
	for i := 0; i < maxIterations; i++ {
		mid := lo.Add(hi).Div(two)
		diff := m.net(mid).Sub(netTarget)

		if diff.Abs().LessThan(s.Tolerance) {
			lo, hi = mid, mid
			break
		}

		if diff.LessThan(decimal.Zero) {
			lo = mid
		} else {
			hi = mid
		}
	}

	capital := lo.Add(hi).Div(two)
	result := domain.SolverResult{
		GrossOrCapital: m.proceeds(capital),
		TaxableBase:    m.base(capital),
	}
	if !reachable {
		return result, fmt.Errorf("%w: net target %s unreachable below capital %s", ErrSolverNonConvergence, netTarget.String(), s.CapitalCap.String())
	}
	return result, nil
}

// Capital returns the capital that grows into proceeds over the horizon.
// A zero growth multiplier leaves the proceeds unchanged.
func Capital(proceeds, ratePercent decimal.Decimal, years int) decimal.Decimal {
	factor := one.Add(GrowthFactor(ratePercent, years))
	if factor.LessThanOrEqual(decimal.Zero) {
		return proceeds
	}
	return proceeds.Div(factor)
}

// SolveFundSale runs the default fund-sale solver.
func SolveFundSale(netTarget, ratePercent decimal.Decimal, years int, fees decimal.Decimal) (domain.SolverResult, error) {
	return NewFundSaleSolver().Solve(netTarget, ratePercent, years, fees)
}
