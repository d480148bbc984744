package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/glidepath/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario leg).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.SimulationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Policy", "Start", "End", "Months", "FinalEquity", "FinalFixed", "FinalBalance", "CashFlowTotal", "AvgMonthlyCashFlow", "Termination", "EndedAt", "Shortfall"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, outcome := range report.Outcomes {
		for _, leg := range outcome.Legs() {
			row := []string{
				outcome.Scenario.Name,
				leg.Policy,
				leg.StartMonth.String(),
				leg.EndMonth.String(),
				intToString(leg.Months),
				leg.FinalEquity.StringFixed(2),
				leg.FinalFixed.StringFixed(2),
				leg.FinalBalance.StringFixed(2),
				leg.CashFlowTotal.StringFixed(2),
				leg.AverageMonthlyCashFlow().StringFixed(2),
				string(leg.Termination),
				monthOrBlank(leg),
				leg.Shortfall.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
