package experiment

import (
	"context"
	"testing"
	"time"

	"github.com/rpgo/glidepath/internal/calculation"
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/internal/market"
	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// smallParams keeps the sweep short: two one-year windows per value
func smallParams(t *testing.T, kind domain.ScenarioKind) Params {
	t.Helper()
	p, err := Defaults(kind)
	require.NoError(t, err)
	p.Runs = 2
	p.SpanYears = 1
	p.Years = []int{2, 10}
	p.LastDataYear = 1990
	p.SpecialPeriods = []Period{{dateutil.NewYearMonth(2000, time.May), dateutil.NewYearMonth(2002, time.May)}}
	return p
}

func newDriver() *Driver {
	return NewDriver(calculation.NewRunner(market.NewConstantProvider(d("0"))), 4)
}

func TestDefaults(t *testing.T) {
	acc, err := Defaults(domain.KindAccumulation)
	require.NoError(t, err)
	assert.True(t, acc.CashFlow.Equal(d("1000")))
	assert.Len(t, acc.Allocations, 6)
	assert.Equal(t, 10, acc.Runs)
	assert.Equal(t, 30, acc.SpanYears)
	assert.Equal(t, 2024, acc.LastDataYear)

	dec, err := Defaults(domain.KindDecumulation)
	require.NoError(t, err)
	assert.True(t, dec.InitialBalance.Equal(d("1000000")))
	assert.True(t, dec.CashFlow.Equal(d("0.04")))
	assert.Len(t, dec.Allocations, 5)

	_, err = Defaults(domain.KindLifecycle)
	assert.Error(t, err)

	tuned := acc.WithConfig(domain.ExperimentConfig{WindowCount: 3, LastDataYear: 2020})
	assert.Equal(t, 3, tuned.Runs)
	assert.Equal(t, 30, tuned.SpanYears)
	assert.Equal(t, 2020, tuned.LastDataYear)
}

func TestPlanSections(t *testing.T) {
	acc, err := Defaults(domain.KindAccumulation)
	require.NoError(t, err)

	plans := acc.plan()
	var names []string
	for _, s := range plans {
		names = append(names, s.name)
	}
	assert.Equal(t, []string{"Allocation", "Time", "Monthly Contribution", "Annual Increase", "Initial Balance", "Yield", "Glide Path", "Special Periods"}, names)

	first := plans[0].rows[0]
	assert.Equal(t, "100.00", first.label)
	require.Len(t, first.trials, 10)
	assert.Equal(t, "05/1985", first.trials[0].portfolio.StartMonth.String())
	assert.Equal(t, "05/2015", first.trials[0].portfolio.EndMonth.String())
	assert.Equal(t, "05/1994", first.trials[9].portfolio.StartMonth.String())
	assert.Equal(t, 360, first.months)

	glide := plans[6].rows[1]
	assert.True(t, glide.trials[0].portfolio.StartAllocation.Equal(d("0.6")))
	assert.True(t, glide.trials[0].portfolio.EndAllocation.Equal(d("0.8")))

	special := plans[7].rows[0]
	assert.Equal(t, "05/2000 - 05/2012", special.label)
	assert.Equal(t, 144, special.months)

	dec, err := Defaults(domain.KindDecumulation)
	require.NoError(t, err)
	withdraw := dec.plan()[2]
	assert.Equal(t, "Withdraw Amount", withdraw.name)
	assert.Equal(t, "4.00", withdraw.rows[2].label)
	assert.True(t, withdraw.rows[2].trials[0].cashFlow.Equal(d("0.04")), "percent converted to a fraction")
	assert.Equal(t, "05/2000", dec.plan()[7].rows[0].trials[0].portfolio.StartMonth.String())
}

func TestTimeSectionWindows(t *testing.T) {
	p := smallParams(t, domain.KindAccumulation)
	section := p.timeSection()
	require.Len(t, section.rows, 2)

	two := section.rows[0]
	assert.Len(t, two.trials, 4, "1985..1988 starts fit before 1990")
	assert.Equal(t, 24, two.months)

	ten := section.rows[1]
	require.Len(t, ten.trials, 1, "no ten-year window fits, so the full range runs once")
	assert.Equal(t, "05/1985", ten.trials[0].portfolio.StartMonth.String())
	assert.Equal(t, "12/1990", ten.trials[0].portfolio.EndMonth.String())
	assert.Equal(t, 67, ten.months)
}

func TestDriverAccumulation(t *testing.T) {
	p := smallParams(t, domain.KindAccumulation)
	report, err := newDriver().Run(context.Background(), p)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, domain.KindAccumulation, report.Kind)
	require.Len(t, report.Sections, 8)

	alloc := report.Sections[0]
	require.Len(t, alloc.Rows, 6)
	row := alloc.Rows[0]
	assert.Equal(t, 2, row.Runs)
	// month zero plus twelve stepped months
	assert.True(t, row.CashFlowTotal.Equal(d("13000")), "total %s", row.CashFlowTotal)
	assert.True(t, row.AvgMonthlyCashFlow.Equal(d("13000").Div(d("12"))))
	// identical constant returns in every window
	assert.True(t, row.P10.Equal(row.FinalBalance))
	assert.True(t, row.P90.Equal(row.FinalBalance))
	assert.Zero(t, row.Insolvent)

	timeRows := report.Sections[1].Rows
	assert.Equal(t, 4, timeRows[0].Runs)
	assert.Equal(t, 1, timeRows[1].Runs)
	assert.True(t, timeRows[1].CashFlowTotal.Equal(d("68000")))
	assert.True(t, timeRows[1].AvgMonthlyCashFlow.Equal(d("68000").Div(d("67"))))

	contrib := report.Sections[2].Rows
	assert.True(t, contrib[0].CashFlowTotal.Equal(d("6500")), "500 a month")
}

func TestDriverDecumulation(t *testing.T) {
	p := smallParams(t, domain.KindDecumulation)
	report, err := newDriver().Run(context.Background(), p)
	require.NoError(t, err)

	withdraw := report.Sections[2]
	assert.Equal(t, "Withdraw Amount", withdraw.Name)
	assert.True(t, withdraw.Rows[0].CashFlowTotal.IsZero(), "0% withdraws nothing")
	assert.True(t, withdraw.Rows[5].CashFlowTotal.GreaterThan(withdraw.Rows[1].CashFlowTotal))

	total, avg := report.CashFlowHeaders()
	assert.Equal(t, "Total Withdraw", total)
	assert.Equal(t, "Average Monthly Withdrawal", avg)
}

func TestDriverCountsEarlyEnds(t *testing.T) {
	provider := market.ConstantProvider{Percent: d("0"), To: dateutil.NewYearMonth(1985, time.December)}
	driver := NewDriver(calculation.NewRunner(provider), 2)

	p := smallParams(t, domain.KindAccumulation)
	report, err := driver.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sections[0].Rows[0].EndedEarly)
}

func TestDriverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDriver().Run(ctx, smallParams(t, domain.KindAccumulation))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriverInvalidPeriod(t *testing.T) {
	p := smallParams(t, domain.KindAccumulation)
	p.SpecialPeriods = []Period{{dateutil.NewYearMonth(2010, time.May), dateutil.NewYearMonth(2009, time.May)}}
	_, err := newDriver().Run(context.Background(), p)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestNewDriverDefaultsWorkers(t *testing.T) {
	driver := NewDriver(calculation.NewRunner(market.NewConstantProvider(d("0"))), 0)
	assert.Positive(t, driver.Workers)
	driver.SetLogger(nil)
	assert.IsType(t, calculation.NopLogger{}, driver.Logger)
}
