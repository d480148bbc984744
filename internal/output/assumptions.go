package output

import (
	"fmt"

	"github.com/rpgo/glidepath/internal/domain"
)

// DefaultAssumptions lists the modeling rules every run follows.
var DefaultAssumptions = []string{
	"Equity grows by the monthly percent change of the return series",
	fmt.Sprintf("Equity pays a %s%% annual dividend, credited quarterly (Mar/Jun/Sep/Dec)", domain.DefaultDividendAnnualRate.Mul(hundred).StringFixed(1)),
	"Fixed income accrues its annual yield / 12 each month",
	"Allocation glides linearly from start to end and is restored every January",
	"Contributions follow the target allocation; withdrawals come from the overweight bucket",
}

// GenerateAssumptions adds the per-scenario yields and increases to the default list
func GenerateAssumptions(report *domain.SimulationReport) []string {
	out := append([]string(nil), DefaultAssumptions...)
	for _, o := range report.Outcomes {
		s := o.Scenario
		out = append(out, fmt.Sprintf("%s: fixed yield %s annually, cash flow raised %s every January",
			s.Name, FormatPercentage(s.FixedYieldPercent), FormatPercentage(s.AnnualIncreasePercent)))
	}
	return out
}
