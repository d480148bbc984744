package output

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/glidepath/internal/domain"
)

// MonthlyFormatter prints the month-by-month state of every leg: balances, allocation split,
// the cash-flow rate in effect and the running total.
type MonthlyFormatter struct{}

func (m MonthlyFormatter) Name() string { return "monthly" }

func (m MonthlyFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "MONTHLY PORTFOLIO LOG")
	for _, outcome := range report.Outcomes {
		for _, leg := range outcome.Legs() {
			fmt.Fprintf(&buf, "\n%s (%s) %s - %s\n", outcome.Scenario.Name, leg.Policy, leg.StartMonth, leg.EndMonth)

			rateHeader := "Contribution"
			if leg.Policy == string(domain.KindDecumulation) {
				rateHeader = "Withdrawal"
			}
			table := tablewriter.NewWriter(&buf)
			table.Header("Date", "Equity", "Fixed", "Allocation", rateHeader, "Total")
			for _, snap := range leg.History {
				rate := snap.CashFlowRate.StringFixed(2)
				if leg.Policy == string(domain.KindDecumulation) {
					rate = snap.CashFlowRate.StringFixed(4)
				}
				if err := table.Append(
					snap.Month.String(),
					snap.Equity.StringFixed(2),
					snap.Fixed.StringFixed(2),
					FormatSplit(snap.Allocation),
					rate,
					snap.Total().StringFixed(2),
				); err != nil {
					return nil, err
				}
			}
			if err := table.Render(); err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "Final: %s  Total %s: %s\n", FormatCurrency(leg.FinalBalance), cashFlowVerb(leg), FormatCurrency(leg.CashFlowTotal))
		}
	}
	return buf.Bytes(), nil
}

func cashFlowVerb(r *domain.RunResult) string {
	if r.Policy == string(domain.KindDecumulation) {
		return "withdrawn"
	}
	return "contributed"
}
