package output

import (
	"strconv"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/CapitalsFunds/site-demo/pkg/dateutil"
	pkgdecimal "github.com/CapitalsFunds/site-demo/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Placeholder stands in for values that cannot be computed.
const Placeholder = pkgdecimal.Placeholder

// FormatMillions formats an optional amount in millions with one decimal,
// or the placeholder when it is nil.
func FormatMillions(amount *decimal.Decimal) string { return pkgdecimal.FormatMillions(amount) }

// FormatAmount formats an amount in millions with one decimal.
func FormatAmount(amount decimal.Decimal) string { return pkgdecimal.NewMoneyFromDecimal(amount).String() }

// FormatPercentage formats a percentage value with one decimal.
func FormatPercentage(amount decimal.Decimal) string { return pkgdecimal.FormatPercent(amount) }

// FormatKeyRate describes a fetched key rate, e.g. "16.5% as of 2025-10-27 (CBR MainInfoXML (SOAP))".
func FormatKeyRate(q *domain.KeyRateQuote) string {
	if q == nil {
		return Placeholder
	}
	return FormatPercentage(q.RatePercent) + " as of " + dateutil.FormatDate(q.AsOf, Placeholder) + " (" + q.Source + ")"
}

// exact renders a decimal for machine-readable outputs; nil becomes empty.
func exact(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(6)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
