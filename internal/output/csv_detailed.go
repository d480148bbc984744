package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/glidepath/internal/domain"
)

// CSVDetailedExporter writes every recorded month of every leg.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.SimulationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Policy", "Month", "Equity", "Fixed", "Allocation", "CashFlowRate", "Total"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, outcome := range report.Outcomes {
		for _, leg := range outcome.Legs() {
			for _, snap := range leg.History {
				row := []string{
					outcome.Scenario.Name,
					leg.Policy,
					snap.Month.String(),
					snap.Equity.StringFixed(2),
					snap.Fixed.StringFixed(2),
					snap.Allocation.StringFixed(4),
					snap.CashFlowRate.StringFixed(4),
					snap.Total().StringFixed(2),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
