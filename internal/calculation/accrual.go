package calculation

import (
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	four    = decimal.NewFromInt(4)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// ApplyMarketReturn grows equity by a percent change (e.g. -3.5 for -3.5%)
func ApplyMarketReturn(state *domain.PortfolioState, percentChange decimal.Decimal) {
	state.EquityBalance = state.EquityBalance.Mul(one.Add(percentChange.Div(hundred)))
}

// ApplyDividend pays a quarter of the annual dividend rate on equity in March, June, September and December
func ApplyDividend(state *domain.PortfolioState) {
	if !state.CurrentMonth.IsQuarterEnd() {
		return
	}
	state.EquityBalance = state.EquityBalance.Mul(one.Add(state.DividendAnnualRate.Div(four)))
}

// ApplyFixedYield accrues one month of the annual fixed-income yield
func ApplyFixedYield(state *domain.PortfolioState) {
	monthly := state.FixedYieldAnnualPercent.Div(twelve).Div(hundred)
	state.FixedBalance = state.FixedBalance.Mul(one.Add(monthly))
}
