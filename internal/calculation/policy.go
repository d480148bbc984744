package calculation

import (
	"fmt"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/shopspring/decimal"
)

// Policy is the monthly cash-flow rule plugged into the engine
type Policy interface {
	// Name identifies the policy in results
	Name() string
	// ApplyCashFlow moves this month's contribution or withdrawal into or out of the buckets
	ApplyCashFlow(state *domain.PortfolioState)
	// AdjustAnnually grows the policy's rate; called every January
	AdjustAnnually()
	// Total is the running amount contributed or withdrawn
	Total() decimal.Decimal
	// Rate is the current contribution amount or monthly withdrawal fraction
	Rate() decimal.Decimal
}

// Settler is implemented by policies that can overdraw the portfolio. Settle runs after the
// monthly cash flow and reports whether the run must stop.
type Settler interface {
	Settle(state *domain.PortfolioState) (insolvent bool, shortfall decimal.Decimal)
}

// NewPolicy creates the policy for the first leg of a scenario
func NewPolicy(scenario domain.Scenario) (Policy, error) {
	switch scenario.Kind {
	case domain.KindAccumulation, domain.KindLifecycle:
		return NewAccumulationPolicy(scenario.MonthlyContribution, scenario.AnnualIncreasePercent), nil
	case domain.KindDecumulation:
		return NewDecumulationPolicy(scenario.AnnualWithdrawalRate, scenario.AnnualIncreasePercent), nil
	default:
		return nil, fmt.Errorf("unknown scenario kind %q", scenario.Kind)
	}
}
