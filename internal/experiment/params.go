package experiment

import (
	"fmt"
	"time"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Period is a fixed start/end pair
type Period struct {
	Start dateutil.YearMonth
	End   dateutil.YearMonth
}

// Params holds the baseline of a sweep and the values each section varies.
// CashFlow is a monthly contribution for accumulation and an annual withdrawal fraction for decumulation;
// CashFlows lists contributions in currency or withdrawal rates in percent.
type Params struct {
	Kind           domain.ScenarioKind
	InitialBalance decimal.Decimal
	CashFlow       decimal.Decimal
	Allocation     decimal.Decimal
	FixedYield     decimal.Decimal
	AnnualIncrease decimal.Decimal
	GlideStart     decimal.Decimal

	Allocations     []decimal.Decimal // percent
	InitialBalances []decimal.Decimal
	CashFlows       []decimal.Decimal
	Yields          []decimal.Decimal // percent
	Increases       []decimal.Decimal // percent
	Years           []int
	SpecialPeriods  []Period

	Runs         int // rolling windows per value
	SpanYears    int
	FirstYear    int
	StartMonth   time.Month
	LastDataYear int
}

func decimals(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func shared(kind domain.ScenarioKind) Params {
	return Params{
		Kind:           kind,
		Allocation:     decimal.NewFromFloat(0.80),
		FixedYield:     decimal.NewFromInt(2),
		AnnualIncrease: decimal.Zero,
		GlideStart:     decimal.NewFromFloat(0.60),
		Yields:         decimals(0, 2, 4, 6, 8, 10),
		Increases:      decimals(0, 2, 4, 6, 8, 10),
		Years:          []int{10, 15, 20, 25, 30, 35, 40},
		SpecialPeriods: []Period{
			{dateutil.NewYearMonth(2000, time.May), dateutil.NewYearMonth(2012, time.May)},
			{dateutil.NewYearMonth(2000, time.May), dateutil.NewYearMonth(2009, time.May)},
			{dateutil.NewYearMonth(2007, time.May), dateutil.NewYearMonth(2017, time.May)},
			{dateutil.NewYearMonth(2009, time.May), dateutil.NewYearMonth(2019, time.May)},
		},
		Runs:         10,
		SpanYears:    30,
		FirstYear:    1985,
		StartMonth:   time.May,
		LastDataYear: 2024,
	}
}

// Defaults returns the standard sweep for a policy kind
func Defaults(kind domain.ScenarioKind) (Params, error) {
	p := shared(kind)
	switch kind {
	case domain.KindAccumulation:
		p.InitialBalance = decimal.Zero
		p.CashFlow = decimal.NewFromInt(1000)
		p.Allocations = decimals(100, 80, 60, 40, 20, 0)
		p.InitialBalances = decimals(0, 10_000, 20_000, 50_000, 100_000)
		p.CashFlows = decimals(500, 1000, 1500, 2000, 2500, 3000)
	case domain.KindDecumulation:
		p.InitialBalance = decimal.NewFromInt(1_000_000)
		p.CashFlow = decimal.NewFromFloat(0.04)
		p.Allocations = decimals(20, 40, 60, 80, 100)
		p.InitialBalances = decimals(1_000_000, 2_000_000, 3_000_000, 4_000_000, 5_000_000)
		p.CashFlows = decimals(0, 2, 4, 6, 8, 10)
	default:
		return Params{}, fmt.Errorf("no experiment defined for %q", kind)
	}
	return p, nil
}

// WithConfig overrides window settings from configuration; zero values keep the defaults
func (p Params) WithConfig(cfg domain.ExperimentConfig) Params {
	if cfg.WindowCount > 0 {
		p.Runs = cfg.WindowCount
	}
	if cfg.WindowSpanYears > 0 {
		p.SpanYears = cfg.WindowSpanYears
	}
	if cfg.LastDataYear > 0 {
		p.LastDataYear = cfg.LastDataYear
	}
	return p
}

// cashFlowSectionName names the section sweeping the contribution or withdrawal rate
func (p Params) cashFlowSectionName() string {
	if p.Kind == domain.KindDecumulation {
		return "Withdraw Amount"
	}
	return "Monthly Contribution"
}

// cashFlowValue converts a swept cash-flow value into the policy input
func (p Params) cashFlowValue(v decimal.Decimal) decimal.Decimal {
	if p.Kind == domain.KindDecumulation {
		return v.Div(decimal.NewFromInt(100))
	}
	return v
}
