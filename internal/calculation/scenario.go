package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/internal/market"
	"github.com/shopspring/decimal"
)

// Runner builds portfolios and policies from scenarios and runs them through the engine
type Runner struct {
	Engine     *SimulationEngine
	DataSource string
	Logger     Logger
}

// NewRunner creates a runner over a return provider
func NewRunner(returns market.ReturnProvider) *Runner {
	return &Runner{
		Engine: NewSimulationEngine(returns),
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the runner and its engine
func (r *Runner) SetLogger(l Logger) {
	r.Logger = OrNop(l)
	r.Engine.SetLogger(l)
}

// Run creates the portfolio state and runs one policy over it
func (r *Runner) Run(params domain.PortfolioParams, policy Policy) (domain.RunResult, error) {
	state, err := domain.NewPortfolioState(params)
	if err != nil {
		return domain.RunResult{}, err
	}
	return r.Engine.Run(state, policy), nil
}

// Accumulate runs an accumulation with a monthly contribution
func (r *Runner) Accumulate(params domain.PortfolioParams, monthlyContribution, annualIncreasePercent decimal.Decimal) (domain.RunResult, error) {
	return r.Run(params, NewAccumulationPolicy(monthlyContribution, annualIncreasePercent))
}

// Withdraw runs a decumulation with an annual withdrawal fraction
func (r *Runner) Withdraw(params domain.PortfolioParams, annualWithdrawalFraction, annualIncreasePercent decimal.Decimal) (domain.RunResult, error) {
	return r.Run(params, NewDecumulationPolicy(annualWithdrawalFraction, annualIncreasePercent))
}

// RunScenario runs a configured scenario. Lifecycle scenarios chain a decumulation leg that starts at
// the accumulation end month with the accumulated balance.
func (r *Runner) RunScenario(ctx context.Context, scenario domain.Scenario) (*domain.ScenarioOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	policy, err := NewPolicy(scenario)
	if err != nil {
		return nil, err
	}

	r.Logger.Infof("running scenario %q (%s) %s to %s", scenario.Name, scenario.Kind, scenario.StartMonth, scenario.EndMonth)

	first, err := r.Run(scenario.PortfolioParams(), policy)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	outcome := &domain.ScenarioOutcome{Scenario: scenario}
	switch scenario.Kind {
	case domain.KindDecumulation:
		outcome.Decumulation = &first
	default:
		outcome.Accumulation = &first
	}

	if scenario.Kind == domain.KindLifecycle {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if scenario.Withdrawal == nil {
			return nil, fmt.Errorf("scenario %q: lifecycle scenario has no withdrawal phase", scenario.Name)
		}
		w := scenario.Withdrawal
		second, err := r.Withdraw(scenario.WithdrawalParams(first.FinalBalance), w.AnnualWithdrawalRate, w.AnnualIncreasePercent)
		if err != nil {
			return nil, fmt.Errorf("scenario %q withdrawal phase: %w", scenario.Name, err)
		}
		outcome.Decumulation = &second
	}

	final := outcome.Final()
	r.Logger.Infof("scenario %q finished: %s, final balance %s", scenario.Name, final.Termination, final.FinalBalance.StringFixed(2))
	return outcome, nil
}

// RunScenarios runs all scenarios and returns a report
func (r *Runner) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.SimulationReport, error) {
	report := &domain.SimulationReport{
		GeneratedAt: time.Now(),
		DataSource:  r.DataSource,
		Outcomes:    make([]domain.ScenarioOutcome, 0, len(config.Scenarios)),
	}

	for _, scenario := range config.Scenarios {
		outcome, err := r.RunScenario(ctx, scenario)
		if err != nil {
			return nil, fmt.Errorf("RunScenario failed: %w", err)
		}
		report.Outcomes = append(report.Outcomes, *outcome)
	}

	return report, nil
}
