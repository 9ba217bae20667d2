package calculation

import (
	"errors"
	"fmt"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/shopspring/decimal"
)

// StructureCalculator computes the after-tax result (EAT) of each ownership structure.
type StructureCalculator struct {
	OrdinaryTable       BracketTable
	CorporateTaxRate    decimal.Decimal
	PersonalFundTaxRate decimal.Decimal
	GrossUp             *GrossUpSolver
	FundSale            *FundSaleSolver
	Logger              Logger
}

// NewStructureCalculator creates a calculator with the statutory rates.
func NewStructureCalculator() *StructureCalculator {
	return &StructureCalculator{
		OrdinaryTable:       OrdinaryTable,
		CorporateTaxRate:    CorporateTaxRate,
		PersonalFundTaxRate: PersonalFundTaxRate,
		GrossUp:             NewDividendGrossUpSolver(),
		FundSale:            NewFundSaleSolver(),
		Logger:              NopLogger{},
	}
}

// Calculate returns the row for one structure. Saving and Effect10 are left nil;
// they depend on the baseline and are filled by the comparison.
func (sc *StructureCalculator) Calculate(s domain.Structure, in domain.Inputs) (domain.StructureRow, error) {
	if !s.Valid() {
		return domain.StructureRow{}, fmt.Errorf("%w: %d", ErrUnknownStructure, int(s))
	}

	ebt := in.EBT
	share := in.PersonalShare()
	row := domain.StructureRow{
		Structure:     s,
		Name:          s.Name(),
		EBT:           ebt,
		PersonalShare: share,
	}

	// Losses and break-even years owe nothing under any structure
	if ebt.LessThanOrEqual(decimal.Zero) {
		row.EAT = ebt
		return row, nil
	}

	var b domain.Breakdown
	switch s {
	case domain.SoleProprietor:
		b.TaxableBase = ebt
		b.PersonalTax = sc.OrdinaryTable.Tax(ebt)

	case domain.Holding:
		b.CorporateTax = ebt.Mul(sc.CorporateTaxRate)
		b.DividendGross, b.PersonalTax = sc.GrossUp.SolveWithTax(ebt.Mul(share))

	case domain.PersonalFund:
		b.TaxableBase = ebt
		b.FundTax = ebt.Mul(sc.PersonalFundTaxRate)

	case domain.SoleProprietorFund:
		res, err := sc.FundSale.Solve(ebt.Mul(share), in.KeyRatePercent, in.Horizon(), in.Fees)
		if err != nil {
			if !errors.Is(err, ErrSolverNonConvergence) && !errors.Is(err, ErrInvalidGrowthRate) {
				return domain.StructureRow{}, fmt.Errorf("%s: %w", s.ID(), err)
			}
			sc.Logger.Warnf("%s: using best estimate: %v", s.ID(), err)
		}
		b.SaleProceeds = res.GrossOrCapital
		b.Capital = Capital(res.GrossOrCapital, in.KeyRatePercent, in.Horizon())
		b.TaxableBase = res.TaxableBase
		b.PersonalTax = sc.OrdinaryTable.Tax(res.TaxableBase)

	case domain.HoldingFund:
		divGross, divTax := sc.GrossUp.SolveWithTax(ebt.Mul(share))
		b.DividendGross = divGross
		b.PersonalTax = divTax
		b.SaleProceeds = divGross
		b.Capital = Capital(divGross, in.KeyRatePercent, in.Horizon())
		b.TaxableBase = gainNetOfFees(b.SaleProceeds, b.Capital, in.Fees)
		b.CorporateTax = b.TaxableBase.Mul(sc.CorporateTaxRate)

	case domain.PersonalFundFund:
		b.SaleProceeds = ebt.Mul(share)
		b.Capital = Capital(b.SaleProceeds, in.KeyRatePercent, in.Horizon())
		b.TaxableBase = gainNetOfFees(b.SaleProceeds, b.Capital, in.Fees)
		b.FundTax = b.TaxableBase.Mul(sc.PersonalFundTaxRate)

	default:
		return domain.StructureRow{}, fmt.Errorf("%w: %s", ErrUnknownStructure, s.ID())
	}

	row.Breakdown = b
	row.EAT = ebt.Sub(b.TotalTax())
	sc.Logger.Debugf("%s: EBT=%s EAT=%s tax=%s", s.ID(), ebt.StringFixed(4), row.EAT.StringFixed(4), b.TotalTax().StringFixed(4))
	return row, nil
}

// CalculateEAT is a shorthand returning only the EAT.
func (sc *StructureCalculator) CalculateEAT(s domain.Structure, in domain.Inputs) (decimal.Decimal, error) {
	row, err := sc.Calculate(s, in)
	if err != nil {
		return decimal.Zero, err
	}
	return row.EAT, nil
}

func gainNetOfFees(proceeds, capital, fees decimal.Decimal) decimal.Decimal {
	return decimal.Max(proceeds.Sub(capital).Sub(fees), decimal.Zero)
}
