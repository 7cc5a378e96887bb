package metrics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateFor(t *testing.T) {
	tests := []struct {
		name        string
		achievement string
		idle        string
		want        Rating
	}{
		{"excellent", "95", "5", RatingExcellent},
		{"idle overrides high achievement", "95", "30", RatingCritical},
		{"good", "80", "14", RatingGood},
		{"high achiever with moderate idle", "92", "18", RatingAverage},
		{"critical on low achievement", "40", "0", RatingCritical},
		{"needs improvement on achievement", "55", "10", RatingNeedsImprovement},
		{"needs improvement on idle", "70", "22", RatingNeedsImprovement},
		{"average", "65", "18", RatingAverage},
		{"idle just above excellent gate", "100", "12.4", RatingGood},
		{"idle exactly on excellent gate", "90", "12", RatingExcellent},
		{"idle just above critical gate", "100", "25.1", RatingCritical},
		{"achievement just below good gate", "74.9", "5", RatingAverage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RateFor(decimal.RequireFromString(tt.achievement), decimal.RequireFromString(tt.idle)))
		})
	}
}

func TestDistribution_Add(t *testing.T) {
	var d Distribution
	for _, r := range []Rating{RatingExcellent, RatingExcellent, RatingCritical, RatingAverage} {
		d.Add(r)
	}
	assert.Equal(t, Distribution{Excellent: 2, Average: 1, Critical: 1}, d)
}
