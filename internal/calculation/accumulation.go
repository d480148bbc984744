package calculation

import (
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/shopspring/decimal"
)

// AccumulationPolicy deposits a monthly contribution split by the current allocation.
// The contribution is fixed within a calendar year.
type AccumulationPolicy struct {
	Contribution          decimal.Decimal
	AnnualIncreasePercent decimal.Decimal
	TotalContributed      decimal.Decimal
}

// NewAccumulationPolicy creates a policy contributing monthlyContribution each month
func NewAccumulationPolicy(monthlyContribution, annualIncreasePercent decimal.Decimal) *AccumulationPolicy {
	return &AccumulationPolicy{
		Contribution:          monthlyContribution,
		AnnualIncreasePercent: annualIncreasePercent,
	}
}

func (p *AccumulationPolicy) Name() string { return string(domain.KindAccumulation) }

// ApplyCashFlow adds c*a to equity and c*(1-a) to fixed
func (p *AccumulationPolicy) ApplyCashFlow(state *domain.PortfolioState) {
	toEquity := p.Contribution.Mul(state.CurrentAllocation)
	toFixed := p.Contribution.Mul(one.Sub(state.CurrentAllocation))
	state.EquityBalance = state.EquityBalance.Add(toEquity)
	state.FixedBalance = state.FixedBalance.Add(toFixed)
	p.TotalContributed = p.TotalContributed.Add(p.Contribution)
}

// AdjustAnnually raises the contribution by the annual increase percentage
func (p *AccumulationPolicy) AdjustAnnually() {
	p.Contribution = p.Contribution.Mul(one.Add(p.AnnualIncreasePercent.Div(hundred)))
}

func (p *AccumulationPolicy) Total() decimal.Decimal { return p.TotalContributed }

func (p *AccumulationPolicy) Rate() decimal.Decimal { return p.Contribution }
