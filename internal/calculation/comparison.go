package calculation

import (
	"github.com/shopspring/decimal"
)

// EffectYears is the horizon over which an annual saving is compounded.
const EffectYears = 10

// AnnuityFV returns the future value of an annual payment a over n years at rate r:
// a*((1+r)^n - 1)/r, or a*n when r is zero.
func AnnuityFV(a, r decimal.Decimal, n int) decimal.Decimal {
	if r.IsZero() {
		return a.Mul(decimal.NewFromInt(int64(n)))
	}
	growth := one.Add(r).Pow(decimal.NewFromInt(int64(n))).Sub(one)
	return a.Mul(growth).Div(r)
}

// EffectFromSaving compounds a saving over EffectYears. Negative savings are
// floored to zero: a structure that loses money is never shown recovering it.
func EffectFromSaving(saving, r decimal.Decimal) decimal.Decimal {
	return AnnuityFV(decimal.Max(saving, decimal.Zero), r, EffectYears)
}
