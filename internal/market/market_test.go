package market

import (
	"strings"
	"testing"

	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ym(s string) dateutil.YearMonth { return dateutil.MustParseYearMonth(s) }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLoadHistoricalSeries(t *testing.T) {
	series, err := LoadHistoricalSeries("testdata/closes.csv")
	require.NoError(t, err)

	assert.Equal(t, "closes", series.Name)
	assert.Equal(t, "testdata/closes.csv", series.Source)
	assert.Equal(t, 7, series.Len(), "malformed rows are skipped")

	first, last := series.Coverage()
	assert.Equal(t, "01/2000", first.String())
	assert.Equal(t, "09/2000", last.String())
}

func TestPercentChange(t *testing.T) {
	series, err := LoadHistoricalSeries("testdata/closes.csv")
	require.NoError(t, err)

	tests := []struct {
		month string
		want  string
	}{
		{"02/2000", "10"},
		{"03/2000", "-10"},
		{"04/2000", "0"},
		{"05/2000", "31"},
		{"09/2000", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			m := ym(tt.month)
			got, err := series.PercentChange(m, m.Previous())
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}

func TestPercentChangeUnavailable(t *testing.T) {
	series, err := LoadHistoricalSeries("testdata/closes.csv")
	require.NoError(t, err)

	for _, month := range []string{"01/2000", "06/2000", "07/2000", "08/2000", "10/2000"} {
		m := ym(month)
		_, err := series.PercentChange(m, m.Previous())
		assert.ErrorIs(t, err, ErrDataUnavailable, month)
	}
}

func TestParseHistoricalSeriesErrors(t *testing.T) {
	_, err := ParseHistoricalSeries(strings.NewReader(""), "empty")
	assert.Error(t, err)

	_, err = ParseHistoricalSeries(strings.NewReader("month\n01/2000\n"), "narrow")
	assert.Error(t, err)

	_, err = ParseHistoricalSeries(strings.NewReader("month,close\nbad,1\n"), "nothing")
	assert.Error(t, err)

	_, err = LoadHistoricalSeries("testdata/does-not-exist.csv")
	assert.Error(t, err)
}

func TestStatisticsAndQuality(t *testing.T) {
	series, err := LoadHistoricalSeries("testdata/closes.csv")
	require.NoError(t, err)

	stats := series.Statistics()
	assert.Equal(t, 5, stats.Count)
	assert.True(t, stats.Min.Equal(d("-10")))
	assert.True(t, stats.Max.Equal(d("31")))
	assert.True(t, stats.Mean.Equal(d("8.2")))
	assert.True(t, stats.Median.Equal(d("10")))
	require.Len(t, stats.MissingMonths, 2)
	assert.Equal(t, "06/2000", stats.MissingMonths[0].String())
	assert.Equal(t, "07/2000", stats.MissingMonths[1].String())

	issues := series.ValidateDataQuality()
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0], "Missing months")
	assert.Contains(t, issues[1], "Extreme move")
	assert.Contains(t, issues[1], "05/2000")
}

func TestNewHistoricalSeriesSortsPoints(t *testing.T) {
	series := NewHistoricalSeries("mem", []PricePoint{
		{Month: ym("03/2001"), Close: d("12")},
		{Month: ym("01/2001"), Close: d("10")},
		{Month: ym("02/2001"), Close: d("0")},
	})
	first, last := series.Coverage()
	assert.Equal(t, "01/2001", first.String())
	assert.Equal(t, "03/2001", last.String())

	_, err := series.PercentChange(ym("03/2001"), ym("02/2001"))
	assert.ErrorIs(t, err, ErrDataUnavailable, "zero previous close")

	c, ok := series.Close(ym("01/2001"))
	assert.True(t, ok)
	assert.True(t, c.Equal(d("10")))
	assert.Empty(t, series.Statistics().MissingMonths)
	assert.Contains(t, series.ValidateDataQuality()[0], "Non-positive close")
}

func TestConstantProvider(t *testing.T) {
	p := NewConstantProvider(d("1.5"))
	got, err := p.PercentChange(ym("01/1900"), ym("12/1899"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("1.5")))

	bounded := ConstantProvider{Percent: d("1"), From: ym("01/2000"), To: ym("12/2000")}
	_, err = bounded.PercentChange(ym("01/2000"), ym("12/1999"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
	_, err = bounded.PercentChange(ym("01/2001"), ym("12/2000"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
	_, err = bounded.PercentChange(ym("12/2000"), ym("11/2000"))
	assert.NoError(t, err)
}

func TestTableProvider(t *testing.T) {
	p := TableProvider{ym("02/2000"): d("-3")}
	got, err := p.PercentChange(ym("02/2000"), ym("01/2000"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("-3")))

	_, err = p.PercentChange(ym("03/2000"), ym("02/2000"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}
