package experiment

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/glidepath/internal/calculation"
	"github.com/rpgo/glidepath/internal/domain"
	money "github.com/rpgo/glidepath/pkg/decimal"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Driver executes parameter sweeps. Trials run concurrently; each owns its portfolio and policy
// while the runner's return provider is shared read-only.
type Driver struct {
	Runner  *calculation.Runner
	Workers int
	Logger  calculation.Logger
}

// NewDriver creates a driver. A non-positive worker count uses one worker per CPU.
func NewDriver(runner *calculation.Runner, workers int) *Driver {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Driver{
		Runner:  runner,
		Workers: workers,
		Logger:  calculation.NopLogger{},
	}
}

// SetLogger sets the driver's logger. If nil is provided, a no-op logger is used.
func (d *Driver) SetLogger(l calculation.Logger) {
	d.Logger = calculation.OrNop(l)
}

// Run executes every section of the sweep and aggregates the results
func (d *Driver) Run(ctx context.Context, params Params) (*domain.ExperimentReport, error) {
	report := &domain.ExperimentReport{
		ID:          uuid.NewString(),
		Kind:        params.Kind,
		GeneratedAt: time.Now(),
	}

	for _, plan := range params.plan() {
		d.Logger.Infof("experiment %s: testing %s (%d rows)", params.Kind, plan.name, len(plan.rows))

		section := domain.ExperimentSection{Name: plan.name}
		for _, row := range plan.rows {
			results, err := d.runTrials(ctx, params.Kind, row.trials)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", plan.name, row.label, err)
			}
			section.Rows = append(section.Rows, aggregate(row, results))
		}
		report.Sections = append(report.Sections, section)
	}

	return report, nil
}

// runTrials executes the trials with at most Workers in flight; results keep trial order
func (d *Driver) runTrials(ctx context.Context, kind domain.ScenarioKind, trials []trial) ([]domain.RunResult, error) {
	results := make([]domain.RunResult, len(trials))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Workers)

	for i, t := range trials {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := d.Runner.Run(t.portfolio, t.policy(kind))
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// aggregate averages final balances and cash-flow totals over a row's runs
func aggregate(plan rowPlan, results []domain.RunResult) domain.ExperimentRow {
	row := domain.ExperimentRow{Label: plan.label, Runs: len(results)}
	if len(results) == 0 {
		return row
	}

	finals := make([]decimal.Decimal, len(results))
	totals := make([]decimal.Decimal, len(results))
	for i, r := range results {
		finals[i] = r.FinalBalance
		totals[i] = r.CashFlowTotal
		switch r.Termination {
		case domain.Insolvent:
			row.Insolvent++
		case domain.EndedEarly:
			row.EndedEarly++
		}
	}

	row.FinalBalance = money.Mean(finals)
	row.CashFlowTotal = money.Mean(totals)
	row.AvgMonthlyCashFlow = money.NewMoneyFromDecimal(row.CashFlowTotal).PerMonth(plan.months).Decimal
	row.P10 = money.Percentile(finals, 10)
	row.P50 = money.Percentile(finals, 50)
	row.P90 = money.Percentile(finals, 90)
	return row
}
