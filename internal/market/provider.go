package market

import (
	"errors"
	"fmt"

	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ErrDataUnavailable signals that no return exists for the requested month transition
var ErrDataUnavailable = errors.New("market data unavailable")

// ReturnProvider maps a calendar month to the equity percent change relative to the previous month.
// Implementations must be safe for concurrent readers.
type ReturnProvider interface {
	PercentChange(month, previous dateutil.YearMonth) (decimal.Decimal, error)
}

// ConstantProvider returns the same percent change every month. When From/To are set, months
// outside the window are unavailable.
type ConstantProvider struct {
	Percent decimal.Decimal
	From    dateutil.YearMonth
	To      dateutil.YearMonth
}

// NewConstantProvider creates an unbounded constant provider
func NewConstantProvider(percent decimal.Decimal) ConstantProvider {
	return ConstantProvider{Percent: percent}
}

// PercentChange implements ReturnProvider
func (c ConstantProvider) PercentChange(month, previous dateutil.YearMonth) (decimal.Decimal, error) {
	for _, m := range []dateutil.YearMonth{month, previous} {
		if !c.From.IsZero() && m.Before(c.From) {
			return decimal.Zero, fmt.Errorf("%w: %s before %s", ErrDataUnavailable, m, c.From)
		}
		if !c.To.IsZero() && m.After(c.To) {
			return decimal.Zero, fmt.Errorf("%w: %s after %s", ErrDataUnavailable, m, c.To)
		}
	}
	return c.Percent, nil
}

// TableProvider serves explicit per-month percent changes; months absent from the table are unavailable
type TableProvider map[dateutil.YearMonth]decimal.Decimal

// PercentChange implements ReturnProvider
func (t TableProvider) PercentChange(month, previous dateutil.YearMonth) (decimal.Decimal, error) {
	pct, ok := t[month]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no change recorded for %s", ErrDataUnavailable, month)
	}
	return pct, nil
}
