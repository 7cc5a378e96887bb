package metrics

import (
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/shopspring/decimal"
)

var (
	hundred        = decimal.NewFromInt(100)
	improvingRatio = decimal.RequireFromString("1.05")
	decliningRatio = decimal.RequireFromString("0.95")
)

// roundHalfUp rounds a non-negative quantity to the nearest integer, halves going up.
func roundHalfUp(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}

// ratio returns part/whole as an unrounded percentage, 0 for an empty whole.
func ratio(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole)))
}

// percent is ratio rounded for output.
func percent(part, whole int) int {
	return roundHalfUp(ratio(part, whole))
}

// mean returns sum/n rounded, 0 for n == 0.
func mean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return roundHalfUp(decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(n))))
}

// classifyTrend compares the mean of the later half of an ascending series with the
// earlier half. Fewer than two points is stable.
func classifyTrend(minutes []int) metrics.Trend {
	if len(minutes) < 2 {
		return metrics.TrendStable
	}

	half := len(minutes) / 2
	first := average(minutes[:half])
	second := average(minutes[half:])

	switch {
	case second.GreaterThan(first.Mul(improvingRatio)):
		return metrics.TrendImproving
	case second.LessThan(first.Mul(decliningRatio)):
		return metrics.TrendDeclining
	default:
		return metrics.TrendStable
	}
}

func average(values []int) decimal.Decimal {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(values))))
}
