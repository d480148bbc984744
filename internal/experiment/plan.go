package experiment

import (
	"fmt"
	"time"

	"github.com/rpgo/glidepath/internal/calculation"
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// trial is one engine run
type trial struct {
	portfolio domain.PortfolioParams
	cashFlow  decimal.Decimal
	increase  decimal.Decimal
}

// rowPlan is the set of trials averaged into one report row
type rowPlan struct {
	label  string
	trials []trial
	months int // divisor for the average monthly cash flow
}

type sectionPlan struct {
	name string
	rows []rowPlan
}

// variant describes how a row departs from the baseline
type variant struct {
	initial    decimal.Decimal
	cashFlow   decimal.Decimal
	startAlloc decimal.Decimal
	endAlloc   decimal.Decimal
	yield      decimal.Decimal
	increase   decimal.Decimal
}

func (p Params) baseline() variant {
	return variant{
		initial:    p.InitialBalance,
		cashFlow:   p.CashFlow,
		startAlloc: p.Allocation,
		endAlloc:   p.Allocation,
		yield:      p.FixedYield,
		increase:   p.AnnualIncrease,
	}
}

func (v variant) trial(start, end dateutil.YearMonth) trial {
	return trial{
		portfolio: domain.PortfolioParams{
			StartAmount:             v.initial,
			StartAllocation:         v.startAlloc,
			EndAllocation:           v.endAlloc,
			FixedYieldAnnualPercent: v.yield,
			StartMonth:              start,
			EndMonth:                end,
		},
		cashFlow: v.cashFlow,
		increase: v.increase,
	}
}

// policy creates a fresh policy for the trial
func (t trial) policy(kind domain.ScenarioKind) calculation.Policy {
	if kind == domain.KindDecumulation {
		return calculation.NewDecumulationPolicy(t.cashFlow, t.increase)
	}
	return calculation.NewAccumulationPolicy(t.cashFlow, t.increase)
}

// rolling runs the variant over Runs windows of SpanYears starting in consecutive years
func (p Params) rolling(label string, v variant) rowPlan {
	row := rowPlan{label: label, months: 12 * p.SpanYears}
	for i := 0; i < p.Runs; i++ {
		start := dateutil.NewYearMonth(p.FirstYear+i, p.StartMonth)
		end := dateutil.NewYearMonth(p.FirstYear+i+p.SpanYears, p.StartMonth)
		row.trials = append(row.trials, v.trial(start, end))
	}
	return row
}

func label(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func (p Params) plan() []sectionPlan {
	var sections []sectionPlan

	allocation := sectionPlan{name: "Allocation"}
	for _, pct := range p.Allocations {
		v := p.baseline()
		v.startAlloc = pct.Div(hundred)
		v.endAlloc = v.startAlloc
		allocation.rows = append(allocation.rows, p.rolling(label(pct), v))
	}
	sections = append(sections, allocation)

	sections = append(sections, p.timeSection())

	cashFlow := sectionPlan{name: p.cashFlowSectionName()}
	for _, amount := range p.CashFlows {
		v := p.baseline()
		v.cashFlow = p.cashFlowValue(amount)
		cashFlow.rows = append(cashFlow.rows, p.rolling(label(amount), v))
	}
	sections = append(sections, cashFlow)

	increase := sectionPlan{name: "Annual Increase"}
	for _, pct := range p.Increases {
		v := p.baseline()
		v.increase = pct
		increase.rows = append(increase.rows, p.rolling(label(pct), v))
	}
	sections = append(sections, increase)

	initial := sectionPlan{name: "Initial Balance"}
	for _, amount := range p.InitialBalances {
		v := p.baseline()
		v.initial = amount
		initial.rows = append(initial.rows, p.rolling(label(amount), v))
	}
	sections = append(sections, initial)

	yield := sectionPlan{name: "Yield"}
	for _, pct := range p.Yields {
		v := p.baseline()
		v.yield = pct
		yield.rows = append(yield.rows, p.rolling(label(pct), v))
	}
	sections = append(sections, yield)

	glide := sectionPlan{name: "Glide Path"}
	for _, pct := range p.Allocations {
		v := p.baseline()
		v.startAlloc = p.GlideStart
		v.endAlloc = pct.Div(hundred)
		glide.rows = append(glide.rows, p.rolling(label(pct), v))
	}
	sections = append(sections, glide)

	special := sectionPlan{name: "Special Periods"}
	for _, period := range p.SpecialPeriods {
		special.rows = append(special.rows, rowPlan{
			label:  fmt.Sprintf("%s - %s", period.Start, period.End),
			trials: []trial{p.baseline().trial(period.Start, period.End)},
			months: 12 * (period.End.Year - period.Start.Year),
		})
	}
	sections = append(sections, special)

	return sections
}

// timeSection runs every window of each length that fits before LastDataYear. A length with no
// fitting window runs once over the full data range, from StartMonth of FirstYear to December of LastDataYear.
func (p Params) timeSection() sectionPlan {
	section := sectionPlan{name: "Time"}
	for _, years := range p.Years {
		row := rowPlan{label: fmt.Sprintf("%d", years), months: 12 * years}
		for startYear := p.FirstYear; startYear+years <= p.LastDataYear; startYear++ {
			start := dateutil.NewYearMonth(startYear, p.StartMonth)
			end := dateutil.NewYearMonth(startYear+years, p.StartMonth)
			row.trials = append(row.trials, p.baseline().trial(start, end))
		}
		if len(row.trials) == 0 {
			start := dateutil.NewYearMonth(p.FirstYear, p.StartMonth)
			end := dateutil.NewYearMonth(p.LastDataYear, time.December)
			row.trials = []trial{p.baseline().trial(start, end)}
			row.months = dateutil.MonthsBetween(start, end)
		}
		section.rows = append(section.rows, row)
	}
	return section
}
