package output

import (
	"strconv"

	"github.com/rpgo/glidepath/internal/domain"
	money "github.com/rpgo/glidepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as USD currency with 2 decimals and thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatSplit renders an equity fraction as "equity/fixed" percentages, e.g. 80.00/20.00
func FormatSplit(allocation decimal.Decimal) string {
	equity := allocation.Mul(hundred)
	return equity.StringFixed(2) + "/" + hundred.Sub(equity).StringFixed(2)
}

func intToString(v int) string { return strconv.Itoa(v) }

func monthOrBlank(r *domain.RunResult) string {
	if r.EndedAt.IsZero() {
		return ""
	}
	return r.EndedAt.String()
}

// termination renders the run status for humans
func termination(r *domain.RunResult) string {
	switch r.Termination {
	case domain.EndedEarly:
		return "ended early " + r.EndedAt.String()
	case domain.Insolvent:
		return "insolvent " + r.EndedAt.String()
	default:
		return "completed"
	}
}
