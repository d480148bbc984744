//go:build unit

package output

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	v := decimal.NewFromFloat(1234.567)
	got := FormatCurrency(v)
	want := "$1,234.57"
	if got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	got := FormatPercentage(v)
	want := "12.35%"
	if got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatSplit(t *testing.T) {
	cases := map[string]string{"0.8": "80.00/20.00", "1": "100.00/0.00", "0": "0.00/100.00", "0.333": "33.30/66.70"}
	for in, want := range cases {
		if got := FormatSplit(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatSplit(%s) = %q, want %q", in, got, want)
		}
	}
}
