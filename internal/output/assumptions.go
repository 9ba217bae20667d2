package output

import (
	"fmt"

	"github.com/CapitalsFunds/site-demo/internal/domain"
)

// DefaultAssumptions lists the tax rules every comparison is computed under.
var DefaultAssumptions = []string{
	"Amounts are in millions of currency units per year",
	"Personal income tax (NDFL): 13% to 2.4, 15% to 5, 18% to 20, 20% to 50, 22% above",
	"Dividend tax: 13% to 2.4, 15% above",
	"Corporate profit tax: 25%",
	"Personal fund tax: 15% of profit",
	"Fund capital grows at the key rate, compounded annually over the horizon",
	"10-year effect: positive annual saving reinvested at the key rate for 10 years",
}

// GenerateAssumptions extends the defaults with the values of one request.
func GenerateAssumptions(in domain.Inputs) []string {
	baseline := in.Baseline
	if s, ok := domain.ParseStructure(in.Baseline); ok {
		baseline = s.Name()
	}
	return append(append([]string(nil), DefaultAssumptions...),
		fmt.Sprintf("Key rate: %s", FormatPercentage(in.KeyRatePercent)),
		fmt.Sprintf("Fund horizon: %d year(s)", in.Horizon()),
		fmt.Sprintf("Fund fees: %s", FormatAmount(in.Fees)),
		fmt.Sprintf("Baseline structure: %s", baseline),
	)
}
