package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

func TestUpperBoundMinutes(t *testing.T) {
	tests := []struct {
		estimate string
		want     int
	}{
		{"30 minutes", 30},
		{"15-30 minutes", 30},
		{"60-120 minutes", 120},
		{"5 minutes", 5},
		{"unknown", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.estimate, func(t *testing.T) {
			assert.Equal(t, tt.want, upperBoundMinutes(tt.estimate))
		})
	}
}

func TestTotalDuration(t *testing.T) {
	steps := []model.UpgradeStep{
		{EstimatedDuration: "30 minutes"},
		{EstimatedDuration: "15-30 minutes"},
	}
	assert.Equal(t, "1h 0m", TotalDuration(steps))

	assert.Equal(t, "30 minutes", TotalDuration(steps[:1]))
	assert.Equal(t, "0 minutes", TotalDuration(nil))

	long := []model.UpgradeStep{
		{EstimatedDuration: "60-120 minutes"},
		{EstimatedDuration: "15-30 minutes"},
	}
	assert.Equal(t, "2h 30m", TotalDuration(long))
}

// Adding a step never decreases the total.
func TestTotalDurationMonotonic(t *testing.T) {
	steps := []model.UpgradeStep{}
	prev := 0
	for _, estimate := range []string{"30 minutes", "unknown", "15-30 minutes", "60-120 minutes", "5 minutes"} {
		steps = append(steps, model.UpgradeStep{EstimatedDuration: estimate})
		total := 0
		for _, s := range steps {
			total += upperBoundMinutes(s.EstimatedDuration)
		}
		assert.GreaterOrEqual(t, total, prev)
		prev = total
	}
}

func TestFixedOffsetEstimator(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	est := NewFixedOffsetEstimator()

	until := est.SupportedUntil(now, &model.UpgradePath{})

	assert.Equal(t, time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC), until)
}
