package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExperimentRow aggregates the runs for one value of the swept variable
type ExperimentRow struct {
	Label              string          `json:"label"`
	FinalBalance       decimal.Decimal `json:"final_balance"`         // average over runs
	CashFlowTotal      decimal.Decimal `json:"cash_flow_total"`       // average over runs
	AvgMonthlyCashFlow decimal.Decimal `json:"avg_monthly_cash_flow"` // CashFlowTotal spread over the span
	Runs               int             `json:"runs"`
	Insolvent          int             `json:"insolvent"`
	EndedEarly         int             `json:"ended_early"`
	P10                decimal.Decimal `json:"p10"`
	P50                decimal.Decimal `json:"p50"`
	P90                decimal.Decimal `json:"p90"`
}

// ExperimentSection is one swept variable
type ExperimentSection struct {
	Name string          `json:"name"`
	Rows []ExperimentRow `json:"rows"`
}

// ExperimentReport is the result of a full sweep
type ExperimentReport struct {
	ID          string              `json:"id"`
	Kind        ScenarioKind        `json:"kind"`
	GeneratedAt time.Time           `json:"generated_at"`
	Sections    []ExperimentSection `json:"sections"`
}

// CashFlowHeaders returns the column titles for the cash-flow total and its monthly average
func (r ExperimentReport) CashFlowHeaders() (string, string) {
	if r.Kind == KindDecumulation {
		return "Total Withdraw", "Average Monthly Withdrawal"
	}
	return "Total Contribution", "Average Monthly Contribution"
}
