package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInputs marks a parameter bundle outside the supported domain.
var ErrInvalidInputs = errors.New("invalid inputs")

var hundred = decimal.NewFromInt(100)

// Inputs is the parameter bundle every structure calculation receives.
// Amounts are in millions of currency units; percentages are 0-100.
type Inputs struct {
	EBT                  decimal.Decimal `yaml:"ebt" json:"ebt"`
	PersonalSharePercent decimal.Decimal `yaml:"personal_share_percent" json:"personal_share_percent"`
	KeyRatePercent       decimal.Decimal `yaml:"key_rate_percent" json:"key_rate_percent"`
	HorizonYears         int             `yaml:"horizon_years" json:"horizon_years"`
	Fees                 decimal.Decimal `yaml:"fees" json:"fees"`
	Baseline             string          `yaml:"baseline" json:"baseline"`
}

// DefaultInputs mirrors the defaults of the calculator form.
func DefaultInputs() Inputs {
	return Inputs{
		EBT:                  decimal.NewFromInt(10),
		PersonalSharePercent: decimal.NewFromInt(30),
		KeyRatePercent:       decimal.Zero,
		HorizonYears:         1,
		Fees:                 decimal.Zero,
		Baseline:             SoleProprietor.ID(),
	}
}

// PersonalShare returns the personal share as a fraction.
func (in Inputs) PersonalShare() decimal.Decimal {
	return in.PersonalSharePercent.Div(hundred)
}

// KeyRate returns the key rate as a fraction.
func (in Inputs) KeyRate() decimal.Decimal {
	return in.KeyRatePercent.Div(hundred)
}

// Horizon returns the growth horizon, treating non-positive values as one year.
func (in Inputs) Horizon() int {
	if in.HorizonYears <= 0 {
		return 1
	}
	return in.HorizonYears
}

// Validate rejects bundles the engine cannot model: a share outside 0-100%,
// a key rate below -100%, negative fees or a negative horizon.
func (in Inputs) Validate() error {
	if in.PersonalSharePercent.LessThan(decimal.Zero) || in.PersonalSharePercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: personal share must be between 0 and 100%%, got %s", ErrInvalidInputs, in.PersonalSharePercent)
	}
	if in.KeyRatePercent.LessThan(hundred.Neg()) {
		return fmt.Errorf("%w: key rate cannot be less than -100%%, got %s", ErrInvalidInputs, in.KeyRatePercent)
	}
	if in.Fees.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: fees cannot be negative, got %s", ErrInvalidInputs, in.Fees)
	}
	if in.HorizonYears < 0 {
		return fmt.Errorf("%w: horizon cannot be negative, got %d", ErrInvalidInputs, in.HorizonYears)
	}
	return nil
}

// SolverResult is the output of the gross-up and fund-sale solvers.
type SolverResult struct {
	GrossOrCapital decimal.Decimal `json:"gross_or_capital"`
	TaxableBase    decimal.Decimal `json:"taxable_base"`
}

// Configuration is the YAML document accepted by the CLI.
type Configuration struct {
	Inputs Inputs `yaml:"inputs" json:"inputs"`
	// FetchKeyRate asks the CLI to replace KeyRatePercent with the current CBR key rate.
	FetchKeyRate bool `yaml:"fetch_key_rate,omitempty" json:"fetch_key_rate,omitempty"`
	// Formats lists the report formats to produce when none is given on the command line.
	Formats []string `yaml:"formats,omitempty" json:"formats,omitempty"`
}
