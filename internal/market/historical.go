package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	money "github.com/rpgo/glidepath/pkg/decimal"
	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// extremeMovePercent flags month-over-month moves larger than this as suspicious
var extremeMovePercent = decimal.NewFromInt(25)

// PricePoint is one month's closing price
type PricePoint struct {
	Month dateutil.YearMonth `json:"month"`
	Close decimal.Decimal    `json:"close"`
}

// SeriesStatistics summarises the monthly percent changes of a series
type SeriesStatistics struct {
	Mean          decimal.Decimal      `json:"mean"`
	Median        decimal.Decimal      `json:"median"`
	StdDev        decimal.Decimal      `json:"std_dev"`
	Min           decimal.Decimal      `json:"min"`
	Max           decimal.Decimal      `json:"max"`
	Count         int                  `json:"count"`
	MissingMonths []dateutil.YearMonth `json:"missing_months"`
}

// HistoricalSeries is a month-indexed history of closing prices. It is read-only after loading
// and may be shared between concurrent runs.
type HistoricalSeries struct {
	Name   string       `json:"name"`
	Source string       `json:"source"`
	Points []PricePoint `json:"points"`

	closes map[dateutil.YearMonth]decimal.Decimal
}

// LoadHistoricalSeries loads a CSV file of monthly closes
func LoadHistoricalSeries(path string) (*HistoricalSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	series, err := ParseHistoricalSeries(file, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	series.Source = path
	return series, nil
}

// ParseHistoricalSeries reads `month,close` rows after a header. Rows with an unparseable month or
// close are skipped. Duplicate months keep the last value.
func ParseHistoricalSeries(r io.Reader, name string) (*HistoricalSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	closes := make(map[dateutil.YearMonth]decimal.Decimal)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}

		if len(record) < 2 {
			continue // Skip malformed rows
		}

		month, err := dateutil.ParseYearMonth(record[0])
		if err != nil {
			continue
		}

		value, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}
		closes[month] = value
	}

	if len(closes) == 0 {
		return nil, fmt.Errorf("no valid data points found")
	}

	points := make([]PricePoint, 0, len(closes))
	for m, c := range closes {
		points = append(points, PricePoint{Month: m, Close: c})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })

	return &HistoricalSeries{Name: name, Points: points, closes: closes}, nil
}

// NewHistoricalSeries builds a series from in-memory points
func NewHistoricalSeries(name string, points []PricePoint) *HistoricalSeries {
	closes := make(map[dateutil.YearMonth]decimal.Decimal, len(points))
	for _, p := range points {
		closes[p.Month] = p.Close
	}
	sorted := make([]PricePoint, 0, len(closes))
	for m, c := range closes {
		sorted = append(sorted, PricePoint{Month: m, Close: c})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Month.Before(sorted[j].Month) })
	return &HistoricalSeries{Name: name, Points: sorted, closes: closes}
}

// PercentChange returns (close[month] - close[previous]) / close[previous] * 100
func (h *HistoricalSeries) PercentChange(month, previous dateutil.YearMonth) (decimal.Decimal, error) {
	current, ok := h.closes[month]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no close for %s", ErrDataUnavailable, month)
	}
	prior, ok := h.closes[previous]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no close for %s", ErrDataUnavailable, previous)
	}
	if prior.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero close for %s", ErrDataUnavailable, previous)
	}
	return current.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)), nil
}

// Close returns the closing price of a month
func (h *HistoricalSeries) Close(month dateutil.YearMonth) (decimal.Decimal, bool) {
	c, ok := h.closes[month]
	return c, ok
}

// Coverage returns the first and last months with data
func (h *HistoricalSeries) Coverage() (dateutil.YearMonth, dateutil.YearMonth) {
	if len(h.Points) == 0 {
		return dateutil.YearMonth{}, dateutil.YearMonth{}
	}
	return h.Points[0].Month, h.Points[len(h.Points)-1].Month
}

// Len returns the number of months with data
func (h *HistoricalSeries) Len() int {
	return len(h.Points)
}

// Changes returns every available consecutive-month percent change, in month order
func (h *HistoricalSeries) Changes() []decimal.Decimal {
	var changes []decimal.Decimal
	for _, p := range h.Points {
		if pct, err := h.PercentChange(p.Month, p.Month.Previous()); err == nil {
			changes = append(changes, pct)
		}
	}
	return changes
}

// Statistics summarises the monthly percent changes and lists months missing inside the covered range
func (h *HistoricalSeries) Statistics() SeriesStatistics {
	changes := h.Changes()
	stats := SeriesStatistics{
		Count:         len(changes),
		MissingMonths: h.missingMonths(),
	}
	if len(changes) == 0 {
		return stats
	}

	stats.Mean = money.Mean(changes)
	stats.Median = money.Percentile(changes, 50)
	stats.StdDev = money.StdDev(changes)
	stats.Min, stats.Max = money.MinMax(changes)
	return stats
}

func (h *HistoricalSeries) missingMonths() []dateutil.YearMonth {
	first, last := h.Coverage()
	if len(h.Points) < 2 || len(h.Points) == dateutil.MonthsBetween(first, last)+1 {
		return nil
	}
	var missing []dateutil.YearMonth
	for m := first; !m.After(last); m = m.Next() {
		if _, ok := h.closes[m]; !ok {
			missing = append(missing, m)
		}
	}
	return missing
}

// ValidateDataQuality reports gaps, non-positive closes and extreme monthly moves
func (h *HistoricalSeries) ValidateDataQuality() []string {
	var issues []string

	if missing := h.missingMonths(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = m.String()
		}
		issues = append(issues, fmt.Sprintf("Missing months in %s: %s", h.Name, strings.Join(names, ", ")))
	}

	for _, p := range h.Points {
		if !p.Close.IsPositive() {
			issues = append(issues, fmt.Sprintf("Non-positive close in %s for %s: %s", h.Name, p.Month, p.Close))
			continue
		}
		pct, err := h.PercentChange(p.Month, p.Month.Previous())
		if err != nil {
			continue
		}
		if pct.Abs().GreaterThan(extremeMovePercent) {
			issues = append(issues, fmt.Sprintf("Extreme move in %s for %s: %s%%", h.Name, p.Month, pct.StringFixed(2)))
		}
	}

	return issues
}
