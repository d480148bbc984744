package calculation

import (
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/shopspring/decimal"
)

// DecumulationPolicy withdraws a fraction of the total each month, drawing from the overweight bucket.
// The withdrawal input is an annual fraction; WithdrawalFraction holds the monthly rate.
type DecumulationPolicy struct {
	WithdrawalFraction    decimal.Decimal
	AnnualIncreasePercent decimal.Decimal
	TotalWithdrawn        decimal.Decimal
}

// NewDecumulationPolicy creates a policy from an annual withdrawal fraction (0.04 for 4%)
func NewDecumulationPolicy(annualWithdrawalFraction, annualIncreasePercent decimal.Decimal) *DecumulationPolicy {
	return &DecumulationPolicy{
		WithdrawalFraction:    annualWithdrawalFraction.Div(twelve),
		AnnualIncreasePercent: annualIncreasePercent,
	}
}

func (p *DecumulationPolicy) Name() string { return string(domain.KindDecumulation) }

// ApplyCashFlow withdraws WithdrawalFraction of the total. Underweight equity draws from fixed,
// overweight equity draws from equity, on-target splits by the current allocation.
func (p *DecumulationPolicy) ApplyCashFlow(state *domain.PortfolioState) {
	draw := p.WithdrawalFraction.Mul(state.Total())

	switch state.RealTimeAllocation().Cmp(state.CurrentAllocation) {
	case -1:
		state.FixedBalance = state.FixedBalance.Sub(draw)
	case 1:
		state.EquityBalance = state.EquityBalance.Sub(draw)
	default:
		state.EquityBalance = state.EquityBalance.Sub(draw.Mul(state.CurrentAllocation))
		state.FixedBalance = state.FixedBalance.Sub(draw.Mul(one.Sub(state.CurrentAllocation)))
	}

	p.TotalWithdrawn = p.TotalWithdrawn.Add(draw)
}

// AdjustAnnually raises the withdrawal fraction by the annual increase percentage
func (p *DecumulationPolicy) AdjustAnnually() {
	p.WithdrawalFraction = p.WithdrawalFraction.Mul(one.Add(p.AnnualIncreasePercent.Div(hundred)))
}

func (p *DecumulationPolicy) Total() decimal.Decimal { return p.TotalWithdrawn }

func (p *DecumulationPolicy) Rate() decimal.Decimal { return p.WithdrawalFraction }

// Settle rebalances when a bucket went negative. If the rebalanced portfolio is still in debt
// on both sides the insolvency is resolved and the run must stop.
func (p *DecumulationPolicy) Settle(state *domain.PortfolioState) (bool, decimal.Decimal) {
	if !state.EquityBalance.IsNegative() && !state.FixedBalance.IsNegative() {
		return false, decimal.Zero
	}

	state.Rebalance()

	// an allocation of exactly 0 or 1 leaves one bucket at zero, which does not count as exhausted
	if !state.EquityBalance.IsNegative() || !state.FixedBalance.IsNegative() {
		return false, decimal.Zero
	}
	return true, p.ResolveInsolvency(state)
}

// ResolveInsolvency credits the debt back against the withdrawn total and zeroes both buckets.
// It returns the debt.
func (p *DecumulationPolicy) ResolveInsolvency(state *domain.PortfolioState) decimal.Decimal {
	debt := state.Total().Neg()
	p.TotalWithdrawn = p.TotalWithdrawn.Sub(debt)
	state.EquityBalance = decimal.Zero
	state.FixedBalance = decimal.Zero
	return debt
}
