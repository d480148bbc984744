package output

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/glidepath/internal/domain"
)

// ConsoleFormatter renders one table row per scenario leg.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "GLIDE PATH SIMULATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if report.DataSource != "" {
		fmt.Fprintf(&buf, "Returns: %s\n", report.DataSource)
	}
	fmt.Fprintln(&buf)

	table := tablewriter.NewWriter(&buf)
	table.Header("Scenario", "Leg", "Period", "Months", "Final Balance", "Contributed/Withdrawn", "Avg Monthly", "Status")
	for _, outcome := range report.Outcomes {
		for _, leg := range outcome.Legs() {
			if err := table.Append(
				outcome.Scenario.Name,
				leg.Policy,
				fmt.Sprintf("%s - %s", leg.StartMonth, leg.EndMonth),
				intToString(leg.Months),
				FormatCurrency(leg.FinalBalance),
				FormatCurrency(leg.CashFlowTotal),
				FormatCurrency(leg.AverageMonthlyCashFlow()),
				termination(leg),
			); err != nil {
				return nil, err
			}
		}
	}
	if err := table.Render(); err != nil {
		return nil, err
	}

	for _, outcome := range report.Outcomes {
		for _, leg := range outcome.Legs() {
			if leg.IsDepleted() {
				fmt.Fprintf(&buf, "%s: portfolio exhausted in %s, shortfall %s\n",
					outcome.Scenario.Name, leg.EndedAt, FormatCurrency(leg.Shortfall))
			}
		}
	}
	return buf.Bytes(), nil
}
