package calculation

import (
	"testing"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inputs(ebt, sharePct, keyRatePct float64, years int, fees float64) domain.Inputs {
	return domain.Inputs{
		EBT:                  d(ebt),
		PersonalSharePercent: d(sharePct),
		KeyRatePercent:       d(keyRatePct),
		HorizonYears:         years,
		Fees:                 d(fees),
		Baseline:             domain.SoleProprietor.ID(),
	}
}

// TestStructureEAT checks every structure against independently computed values
func TestStructureEAT(t *testing.T) {
	calc := NewStructureCalculator()

	tests := []struct {
		name      string
		structure domain.Structure
		in        domain.Inputs
		expected  float64
	}{
		{"Sole proprietor, no share", domain.SoleProprietor, inputs(10, 0, 0, 1, 0), 8.398},
		{"Personal fund", domain.PersonalFund, inputs(10, 30, 0, 1, 0), 8.5},
		{"Holding", domain.Holding, inputs(10, 30, 16.5, 1, 0), 7.027058823529412},
		{"Holding, no share", domain.Holding, inputs(10, 0, 16.5, 1, 0), 7.5},
		{"Sole proprietor + fund", domain.SoleProprietorFund, inputs(10, 30, 16.5, 1, 0), 9.943727871131896},
		{"Sole proprietor + fund, five years", domain.SoleProprietorFund, inputs(10, 30, 10, 5, 0), 9.844496015658569},
		{"Holding + fund", domain.HoldingFund, inputs(10, 30, 16.5, 1, 0), 9.404089876293865},
		{"Holding + fund, five years", domain.HoldingFund, inputs(10, 30, 10, 5, 0), 9.197929336961948},
		{"Personal fund + fund", domain.PersonalFundFund, inputs(10, 30, 16.5, 1, 0), 9.936266094420601},
		{"Personal fund + fund, five years", domain.PersonalFundFund, inputs(10, 30, 10, 5, 0), 9.829414595376619},
		{"Large profit with fees", domain.PersonalFundFund, inputs(100, 50, 20, 3, 1), 96.99027777777778},
		{"Large profit holding + fund", domain.HoldingFund, inputs(100, 50, 20, 3, 1), 85.2933551198257},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := calc.Calculate(tt.structure, tt.in)
			require.NoError(t, err)
			assertNear(t, tt.expected, row.EAT, 1e-4, "%s EAT", tt.structure.ID())
			assert.Equal(t, tt.structure, row.Structure)
			assert.Nil(t, row.Saving)
			assert.Nil(t, row.Effect10)
		})
	}
}

func TestStructureEATEqualsEBTMinusBreakdown(t *testing.T) {
	calc := NewStructureCalculator()
	in := inputs(37.5, 45, 18, 4, 0.3)
	for _, s := range domain.AllStructures {
		row, err := calc.Calculate(s, in)
		require.NoError(t, err)
		assert.True(t, row.EAT.Equal(in.EBT.Sub(row.Breakdown.TotalTax())), "%s", s.ID())
		assert.False(t, row.Breakdown.TaxableBase.IsNegative(), "%s", s.ID())
	}
}

func TestNonPositiveEBTOwesNothing(t *testing.T) {
	calc := NewStructureCalculator()
	for _, ebt := range []float64{0, -4.2} {
		in := inputs(ebt, 30, 16, 3, 0.5)
		for _, s := range domain.AllStructures {
			row, err := calc.Calculate(s, in)
			require.NoError(t, err)
			assert.True(t, row.EAT.Equal(d(ebt)), "%s with EBT %v", s.ID(), ebt)
			assert.True(t, row.Breakdown.TotalTax().IsZero())
		}
	}
}

func TestZeroShareDisablesWrapperFlows(t *testing.T) {
	calc := NewStructureCalculator()
	in := inputs(10, 0, 16.5, 2, 0)

	cases := map[domain.Structure]float64{
		domain.SoleProprietorFund: 10,
		domain.HoldingFund:        10,
		domain.PersonalFundFund:   10,
		domain.Holding:            7.5,
	}
	for s, want := range cases {
		eat, err := calc.CalculateEAT(s, in)
		require.NoError(t, err)
		assertNear(t, want, eat, 1e-9, "%s", s.ID())
	}
}

func TestHoldingFundBreakdown(t *testing.T) {
	calc := NewStructureCalculator()
	row, err := calc.Calculate(domain.HoldingFund, inputs(10, 30, 10, 5, 0))
	require.NoError(t, err)

	b := row.Breakdown
	divGross := GrossUp(d(3))
	assert.True(t, b.DividendGross.Equal(divGross))
	assert.True(t, b.SaleProceeds.Equal(divGross), "proceeds equal the grossed-up dividend")
	assertNear(t, divGross.InexactFloat64()/1.61051, b.Capital, 1e-9)
	assertNear(t, divGross.InexactFloat64()*(1-1/1.61051), b.TaxableBase, 1e-9)
	assert.True(t, b.CorporateTax.Equal(b.TaxableBase.Mul(CorporateTaxRate)))
	assert.True(t, b.PersonalTax.Equal(DividendTax(divGross)))
}

func TestSoleProprietorFundUsesSolver(t *testing.T) {
	calc := NewStructureCalculator()
	in := inputs(10, 30, 16.5, 3, 0.1)
	row, err := calc.Calculate(domain.SoleProprietorFund, in)
	require.NoError(t, err)

	res, err := SolveFundSale(d(3), d(16.5), 3, d(0.1))
	require.NoError(t, err)
	assert.True(t, row.Breakdown.SaleProceeds.Equal(res.GrossOrCapital))
	assert.True(t, row.Breakdown.TaxableBase.Equal(res.TaxableBase))
	assert.True(t, row.EAT.Equal(d(10).Sub(OrdinaryTax(res.TaxableBase))))
}

func TestTotalLossKeyRateFallsBackToNoGain(t *testing.T) {
	calc := NewStructureCalculator()
	in := inputs(10, 30, -100, 1, 0)
	for _, s := range []domain.Structure{domain.SoleProprietorFund, domain.PersonalFundFund} {
		eat, err := calc.CalculateEAT(s, in)
		require.NoError(t, err)
		assertNear(t, 10, eat, 1e-9, "%s", s.ID())
	}
}

func TestUnknownStructure(t *testing.T) {
	calc := NewStructureCalculator()
	_, err := calc.Calculate(domain.Structure(42), inputs(10, 30, 0, 1, 0))
	assert.ErrorIs(t, err, ErrUnknownStructure)
}

func TestStructureCalculationIsPure(t *testing.T) {
	calc := NewStructureCalculator()
	in := inputs(12.3, 40, 15, 2, 0.05)
	for _, s := range domain.AllStructures {
		a, err := calc.CalculateEAT(s, in)
		require.NoError(t, err)
		b, err := calc.CalculateEAT(s, in)
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "%s", s.ID())
	}
	assert.True(t, in.EBT.Equal(decimal.NewFromFloat(12.3)), "inputs untouched")
}
