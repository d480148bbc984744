package domain

import (
	"errors"
	"fmt"

	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRange is returned when a simulation ends before it starts
	ErrInvalidRange = errors.New("end month precedes start month")
	// ErrInvalidTotalMonths is returned when start and end fall in the same month
	ErrInvalidTotalMonths = errors.New("simulation must span at least one month")
)

// DefaultDividendAnnualRate is the equity dividend yield, paid quarterly at a quarter of the rate
var DefaultDividendAnnualRate = decimal.NewFromFloat(0.02)

// PortfolioParams are the construction inputs of a single simulation run
type PortfolioParams struct {
	StartAmount             decimal.Decimal
	StartAllocation         decimal.Decimal // equity share at start, 0..1
	EndAllocation           decimal.Decimal // equity share at end, 0..1
	FixedYieldAnnualPercent decimal.Decimal // e.g. 2 for 2%
	StartMonth              dateutil.YearMonth
	EndMonth                dateutil.YearMonth
}

// PortfolioState is the mutable record of one run: balances, allocation schedule and month pointer.
// Total balance is always derived from the two buckets.
type PortfolioState struct {
	EquityBalance decimal.Decimal
	FixedBalance  decimal.Decimal

	StartAllocation   decimal.Decimal
	EndAllocation     decimal.Decimal
	CurrentAllocation decimal.Decimal

	FixedYieldAnnualPercent decimal.Decimal
	DividendAnnualRate      decimal.Decimal

	StartMonth    dateutil.YearMonth
	EndMonth      dateutil.YearMonth
	CurrentMonth  dateutil.YearMonth
	TotalMonths   int
	ElapsedMonths int

	history []MonthSnapshot
}

// MonthSnapshot is the state of the portfolio after one completed month
type MonthSnapshot struct {
	Month        dateutil.YearMonth `json:"month"`
	Equity       decimal.Decimal    `json:"equity"`
	Fixed        decimal.Decimal    `json:"fixed"`
	Allocation   decimal.Decimal    `json:"allocation"`
	CashFlowRate decimal.Decimal    `json:"cash_flow_rate"`
}

// Total returns equity plus fixed
func (m MonthSnapshot) Total() decimal.Decimal {
	return m.Equity.Add(m.Fixed)
}

// NewPortfolioState validates the month range and splits the starting amount by the start allocation
func NewPortfolioState(p PortfolioParams) (*PortfolioState, error) {
	if p.EndMonth.Before(p.StartMonth) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidRange, p.StartMonth, p.EndMonth)
	}
	totalMonths := dateutil.MonthsBetween(p.StartMonth, p.EndMonth)
	if totalMonths == 0 {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTotalMonths, p.StartMonth, p.EndMonth)
	}

	s := &PortfolioState{
		StartAllocation:         p.StartAllocation,
		EndAllocation:           p.EndAllocation,
		CurrentAllocation:       p.StartAllocation,
		FixedYieldAnnualPercent: p.FixedYieldAnnualPercent,
		DividendAnnualRate:      DefaultDividendAnnualRate,
		StartMonth:              p.StartMonth,
		EndMonth:                p.EndMonth,
		CurrentMonth:            p.StartMonth,
		TotalMonths:             totalMonths,
		history:                 make([]MonthSnapshot, 0, totalMonths),
	}
	s.EquityBalance = p.StartAmount.Mul(p.StartAllocation)
	s.FixedBalance = p.StartAmount.Sub(s.EquityBalance)
	return s, nil
}

// Total returns the derived total balance
func (s *PortfolioState) Total() decimal.Decimal {
	return s.EquityBalance.Add(s.FixedBalance)
}

// Rebalance redistributes the total between the buckets according to CurrentAllocation.
// A negative total is redistributed by the same formula.
func (s *PortfolioState) Rebalance() {
	total := s.Total()
	s.EquityBalance = total.Mul(s.CurrentAllocation)
	s.FixedBalance = total.Mul(decimal.NewFromInt(1).Sub(s.CurrentAllocation))
}

// RealTimeAllocation is the equity share of the current total. A zero total reports CurrentAllocation.
func (s *PortfolioState) RealTimeAllocation() decimal.Decimal {
	total := s.Total()
	if total.IsZero() {
		return s.CurrentAllocation
	}
	return s.EquityBalance.Div(total)
}

// Advance moves the month pointer forward one calendar month
func (s *PortfolioState) Advance() {
	s.CurrentMonth = s.CurrentMonth.Next()
	s.ElapsedMonths++
}

// Done reports whether the month pointer has passed EndMonth
func (s *PortfolioState) Done() bool {
	return s.CurrentMonth.After(s.EndMonth)
}

// Record appends a snapshot of the current month
func (s *PortfolioState) Record(cashFlowRate decimal.Decimal) {
	s.history = append(s.history, MonthSnapshot{
		Month:        s.CurrentMonth,
		Equity:       s.EquityBalance,
		Fixed:        s.FixedBalance,
		Allocation:   s.CurrentAllocation,
		CashFlowRate: cashFlowRate,
	})
}

// History returns a copy of the recorded snapshots
func (s *PortfolioState) History() []MonthSnapshot {
	out := make([]MonthSnapshot, len(s.history))
	copy(out, s.history)
	return out
}

// Months returns the number of recorded monthly steps
func (s *PortfolioState) Months() int {
	return len(s.history)
}
