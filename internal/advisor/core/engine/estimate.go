package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

// durationPattern matches a fixed value ("30 minutes") or a range
// ("15-30 minutes"). Estimates are always expressed in minutes.
var durationPattern = regexp.MustCompile(`(\d+)(?:\s*-\s*(\d+))?`)

// upperBoundMinutes extracts the pessimistic bound of one step estimate.
// Unparsable estimates count as zero.
func upperBoundMinutes(estimate string) int {
	m := durationPattern.FindStringSubmatch(estimate)
	if m == nil {
		return 0
	}
	if m[2] != "" {
		upper, _ := strconv.Atoi(m[2])
		return upper
	}
	single, _ := strconv.Atoi(m[1])
	return single
}

// TotalDuration sums the upper bound of every step estimate and renders
// the result, minutes-only below one hour and "Xh Ym" above.
func TotalDuration(steps []model.UpgradeStep) string {
	total := 0
	for _, step := range steps {
		total += upperBoundMinutes(step.EstimatedDuration)
	}
	return formatMinutes(total)
}

func formatMinutes(total int) string {
	if total < 60 {
		return fmt.Sprintf("%d minutes", total)
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// SupportEstimator estimates the supported lifetime the platform gains
// after applying a path. It is an explicit collaborator so the
// provisional fixed-offset policy can be replaced by authoritative
// per-target-version lifecycle dates without touching path generation.
type SupportEstimator interface {
	SupportedUntil(now time.Time, path *model.UpgradePath) time.Time
}

// FixedOffsetEstimator is the provisional default policy: a fixed
// interval past the generation time, regardless of the path contents.
//
// TODO: replace with dates from the lifecycle metadata provider once it
// exposes per-target-version support windows.
type FixedOffsetEstimator struct {
	// Months past now that the resulting state is assumed supported.
	Months int
}

// NewFixedOffsetEstimator returns the default 18-month estimator.
func NewFixedOffsetEstimator() *FixedOffsetEstimator {
	return &FixedOffsetEstimator{Months: 18}
}

func (e *FixedOffsetEstimator) SupportedUntil(now time.Time, _ *model.UpgradePath) time.Time {
	return now.AddDate(0, e.Months, 0)
}
