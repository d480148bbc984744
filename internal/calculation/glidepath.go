package calculation

import (
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/shopspring/decimal"
)

// GlideAllocation linearly interpolates the equity allocation:
// start + elapsed/total * (end - start). The result is not clamped.
func GlideAllocation(start, end decimal.Decimal, elapsed, total int) decimal.Decimal {
	if total <= 0 {
		return end
	}
	progress := decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(total)))
	return start.Add(progress.Mul(end.Sub(start)))
}

// UpdateAllocation sets the state's current allocation from its glide path
func UpdateAllocation(state *domain.PortfolioState) {
	state.CurrentAllocation = GlideAllocation(state.StartAllocation, state.EndAllocation, state.ElapsedMonths, state.TotalMonths)
}
