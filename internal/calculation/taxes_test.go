package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func assertNear(t *testing.T, want float64, got decimal.Decimal, tol float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want, got.InexactFloat64(), tol, msgAndArgs...)
}

// TestOrdinaryTax tests the progressive NDFL scale on ordinary income
func TestOrdinaryTax(t *testing.T) {
	tests := []struct {
		name        string
		amount      decimal.Decimal
		expectedTax decimal.Decimal
		description string
	}{
		{
			name:        "Zero income",
			amount:      decimal.Zero,
			expectedTax: decimal.Zero,
			description: "No income, no tax",
		},
		{
			name:        "Negative income",
			amount:      d(-5),
			expectedTax: decimal.Zero,
			description: "Losses owe nothing",
		},
		{
			name:        "First bracket only",
			amount:      d(1),
			expectedTax: d(0.13),
			description: "1 * 13%",
		},
		{
			name:        "Exactly at first boundary",
			amount:      d(2.4),
			expectedTax: d(0.312),
			description: "2.4 * 13%",
		},
		{
			name:        "Ten million",
			amount:      d(10),
			expectedTax: d(1.602), // 2.4*0.13 + 2.6*0.15 + 5*0.18
			description: "Spans three brackets",
		},
		{
			name:        "Above top boundary",
			amount:      d(60),
			expectedTax: d(11.602), // 0.312 + 0.39 + 2.7 + 6 + 10*0.22
			description: "Reaches the 22% bracket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := OrdinaryTax(tt.amount)
			assert.True(t, tax.Equal(tt.expectedTax),
				"%s: expected %s, got %s", tt.description, tt.expectedTax.String(), tax.String())
		})
	}
}

func TestDividendTax(t *testing.T) {
	assert.True(t, DividendTax(d(-1)).IsZero())
	assert.True(t, DividendTax(d(2)).Equal(d(0.26)))
	assert.True(t, DividendTax(d(3)).Equal(d(0.402)), "2.4*0.13 + 0.6*0.15")
	assert.True(t, Tax(d(3), DividendTable).Equal(DividendTax(d(3))))
}

func TestTaxNonPositiveIsZero(t *testing.T) {
	for _, table := range []BracketTable{OrdinaryTable, DividendTable} {
		for _, x := range []float64{0, -0.0001, -1, -1e6} {
			assert.True(t, table.Tax(d(x)).IsZero(), "tax(%v) should be zero", x)
		}
	}
}

func TestTaxMonotonicAndSlopeBounded(t *testing.T) {
	for _, table := range []BracketTable{OrdinaryTable, DividendTable} {
		maxRate := table.MaxRate()
		prevX := decimal.Zero
		prevTax := decimal.Zero
		for x := 0.05; x < 120; x += 0.35 {
			cur := d(x)
			tax := table.Tax(cur)
			require.True(t, tax.GreaterThanOrEqual(prevTax), "tax must not decrease at %v", x)
			limit := cur.Sub(prevX).Mul(maxRate)
			require.True(t, tax.Sub(prevTax).LessThanOrEqual(limit), "slope above max rate at %v", x)
			prevX, prevTax = cur, tax
		}
	}
}

func TestTaxContinuousAtBoundaries(t *testing.T) {
	eps := d(0.000001)
	for _, boundary := range []float64{2.4, 5, 20, 50} {
		b := d(boundary)
		below := OrdinaryTax(b.Sub(eps))
		above := OrdinaryTax(b.Add(eps))
		assert.True(t, above.Sub(below).LessThan(d(0.000001)), "jump at %v", boundary)
	}
}

func TestMarginalRate(t *testing.T) {
	assert.True(t, OrdinaryTable.MarginalRate(d(1)).Equal(d(0.13)))
	assert.True(t, OrdinaryTable.MarginalRate(d(2.4)).Equal(d(0.15)))
	assert.True(t, OrdinaryTable.MarginalRate(d(30)).Equal(d(0.20)))
	assert.True(t, OrdinaryTable.MarginalRate(d(500)).Equal(d(0.22)))
	assert.True(t, DividendTable.MaxRate().Equal(d(0.15)))
}

func TestBracketTableValidate(t *testing.T) {
	require.NoError(t, OrdinaryTable.Validate())
	require.NoError(t, DividendTable.Validate())

	tests := []struct {
		name  string
		table BracketTable
	}{
		{"empty", BracketTable{}},
		{"not unbounded", BracketTable{{Upper: d(1), Rate: d(0.1)}}},
		{"decreasing", BracketTable{{Upper: d(5), Rate: d(0.1)}, {Upper: d(3), Rate: d(0.2)}, {Rate: d(0.3), Unbounded: true}}},
		{"unbounded in middle", BracketTable{{Rate: d(0.1), Unbounded: true}, {Upper: d(3), Rate: d(0.2)}}},
		{"rate of one", BracketTable{{Rate: d(1), Unbounded: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.table.Validate())
		})
	}
}
