package domain

import (
	"time"

	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Termination describes how a run's monthly loop stopped
type Termination string

const (
	Completed  Termination = "completed"
	EndedEarly Termination = "ended_early" // return data missing for EndedAt
	Insolvent  Termination = "insolvent"   // both buckets exhausted at EndedAt
)

// RunResult is the outcome of one engine run
type RunResult struct {
	Policy        string             `json:"policy"`
	StartMonth    dateutil.YearMonth `json:"start_month"`
	EndMonth      dateutil.YearMonth `json:"end_month"`
	FinalEquity   decimal.Decimal    `json:"final_equity"`
	FinalFixed    decimal.Decimal    `json:"final_fixed"`
	FinalBalance  decimal.Decimal    `json:"final_balance"`
	CashFlowTotal decimal.Decimal    `json:"cash_flow_total"` // contributed or withdrawn
	Months        int                `json:"months"`
	Termination   Termination        `json:"termination"`
	EndedAt       dateutil.YearMonth `json:"ended_at,omitempty"`
	Shortfall     decimal.Decimal    `json:"shortfall"` // debt credited back on insolvency
	History       []MonthSnapshot    `json:"history,omitempty"`
}

// AverageMonthlyCashFlow spreads the cash-flow total over the recorded months
func (r RunResult) AverageMonthlyCashFlow() decimal.Decimal {
	if r.Months <= 0 {
		return decimal.Zero
	}
	return r.CashFlowTotal.Div(decimal.NewFromInt(int64(r.Months)))
}

// IsDepleted reports whether the run ended insolvent
func (r RunResult) IsDepleted() bool {
	return r.Termination == Insolvent
}

// ScenarioOutcome holds the legs produced by one scenario
type ScenarioOutcome struct {
	Scenario     Scenario   `json:"scenario"`
	Accumulation *RunResult `json:"accumulation,omitempty"`
	Decumulation *RunResult `json:"decumulation,omitempty"`
}

// Final returns the last leg that ran
func (o ScenarioOutcome) Final() *RunResult {
	if o.Decumulation != nil {
		return o.Decumulation
	}
	return o.Accumulation
}

// Legs returns the legs in execution order
func (o ScenarioOutcome) Legs() []*RunResult {
	var legs []*RunResult
	if o.Accumulation != nil {
		legs = append(legs, o.Accumulation)
	}
	if o.Decumulation != nil {
		legs = append(legs, o.Decumulation)
	}
	return legs
}

// SimulationReport is the result of running all configured scenarios
type SimulationReport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	DataSource  string            `json:"data_source"`
	Outcomes    []ScenarioOutcome `json:"outcomes"`
}
