package calculation

import (
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/internal/market"
)

// SimulationEngine steps a portfolio month by month from its start to its end month
type SimulationEngine struct {
	Returns market.ReturnProvider
	Logger  Logger
}

// NewSimulationEngine creates an engine reading equity returns from the provider
func NewSimulationEngine(returns market.ReturnProvider) *SimulationEngine {
	return &SimulationEngine{
		Returns: returns,
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *SimulationEngine) SetLogger(l Logger) {
	e.Logger = OrNop(l)
}

// Run simulates state under policy. Missing return data and insolvency stop the loop early
// and are reported through the result's Termination; neither is an error.
func (e *SimulationEngine) Run(state *domain.PortfolioState, policy Policy) domain.RunResult {
	result := domain.RunResult{
		Policy:      policy.Name(),
		StartMonth:  state.StartMonth,
		EndMonth:    state.EndMonth,
		Termination: domain.Completed,
	}

	// month zero
	UpdateAllocation(state)
	e.rebalance(state)
	policy.ApplyCashFlow(state)
	state.Advance()

	settler, canOverdraw := policy.(Settler)

	for !state.Done() {
		month := state.CurrentMonth
		pct, err := e.Returns.PercentChange(month, month.Previous())
		if err != nil {
			e.Logger.Warnf("%s run ended early at %s: %v", policy.Name(), month, err)
			result.Termination = domain.EndedEarly
			result.EndedAt = month
			break
		}

		ApplyMarketReturn(state, pct)

		if month.IsJanuary() {
			UpdateAllocation(state)
			e.rebalance(state)
			policy.AdjustAnnually()
		}

		ApplyDividend(state)
		ApplyFixedYield(state)
		policy.ApplyCashFlow(state)

		if canOverdraw {
			if insolvent, shortfall := settler.Settle(state); insolvent {
				e.Logger.Infof("%s run out of money at %s (shortfall %s)", policy.Name(), month, shortfall.StringFixed(2))
				result.Termination = domain.Insolvent
				result.EndedAt = month
				result.Shortfall = shortfall
				break
			}
		}

		state.Record(policy.Rate())
		state.Advance()
	}

	state.CurrentAllocation = state.EndAllocation
	e.rebalance(state)

	result.FinalEquity = state.EquityBalance
	result.FinalFixed = state.FixedBalance
	result.FinalBalance = state.Total()
	result.CashFlowTotal = policy.Total()
	result.Months = state.Months()
	result.History = state.History()
	return result
}

func (e *SimulationEngine) rebalance(state *domain.PortfolioState) {
	state.Rebalance()
	e.Logger.Debugf("rebalanced at %s to %s equity", state.CurrentMonth, state.CurrentAllocation.StringFixed(4))
}
