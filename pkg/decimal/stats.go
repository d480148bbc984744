package decimal

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Sum adds all values
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Mean returns the arithmetic mean, or zero for an empty slice
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return Sum(values).Div(decimal.NewFromInt(int64(len(values))))
}

// StdDev returns the population standard deviation
func StdDev(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	mean := Mean(values)
	var varianceSum decimal.Decimal
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(decimal.NewFromInt(int64(len(values))))
	// decimal has no square root; float precision is plenty for a dispersion figure
	return decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}

// Percentile returns the p-th percentile (0..100) using linear interpolation between closest ranks.
// The input does not need to be sorted and is not modified.
func Percentile(values []decimal.Decimal, p float64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := decimal.NewFromFloat(p).Div(decimal.NewFromInt(100)).Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	floor := rank.Floor()
	lower := int(floor.IntPart())
	weight := rank.Sub(floor)
	if weight.IsZero() {
		return sorted[lower]
	}
	return sorted[lower].Add(sorted[lower+1].Sub(sorted[lower]).Mul(weight))
}

// MinMax returns the smallest and largest values
func MinMax(values []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if len(values) == 0 {
		return decimal.Zero, decimal.Zero
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v.LessThan(lo) {
			lo = v
		}
		if v.GreaterThan(hi) {
			hi = v
		}
	}
	return lo, hi
}
