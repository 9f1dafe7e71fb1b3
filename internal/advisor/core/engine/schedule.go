package engine

import (
	"fmt"
	"time"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

// Window identifiers. Stable API values.
const (
	WindowCritical = "critical-remediation"
	WindowRegular  = "regular-maintenance"
	WindowSupport  = "support-expiry"
)

// supportExpiryThresholdDays is the point at which approaching platform
// support expiry starts driving its own maintenance window.
const supportExpiryThresholdDays = 90

// ScheduleWindows converts generated paths and platform-wide risk
// counters into prioritized maintenance windows.
//
// Windows are emitted in a fixed escalation order (immediate-critical,
// then routine, then lifecycle-driven) rather than sorted by date or
// priority.
func (e *Engine) ScheduleWindows(snapshot *model.PlatformSnapshot, paths []model.UpgradePath) []model.MaintenanceWindow {
	now := e.clock.Now()
	criticalCount := snapshot.CriticalIssueCount()

	byID := make(map[string]*model.UpgradePath, len(paths))
	for i := range paths {
		byID[paths[i].ID] = &paths[i]
	}

	var windows []model.MaintenanceWindow

	if criticalCount > 0 {
		if path := byID[PathCriticalIssues]; path != nil {
			windows = append(windows, model.MaintenanceWindow{
				ID:                WindowCritical,
				RecommendedDate:   now.AddDate(0, 0, 7),
				Priority:          model.PriorityHigh,
				Reason:            "critical issues detected",
				Components:        path.ComponentTargets(),
				EstimatedDuration: path.TotalDuration,
				Path:              path,
			})
		}
	}

	if path := byID[PathBalanced]; path != nil {
		priority := model.PriorityMedium
		if criticalCount > 0 {
			priority = model.PriorityHigh
		}
		windows = append(windows, model.MaintenanceWindow{
			ID:                WindowRegular,
			RecommendedDate:   now.AddDate(0, 0, 30),
			Priority:          priority,
			Reason:            "regular maintenance",
			Components:        path.ComponentTargets(),
			EstimatedDuration: path.TotalDuration,
			Path:              path,
		})
	}

	if snapshot.SupportExpiresIn != nil && *snapshot.SupportExpiresIn < supportExpiryThresholdDays {
		if path := byID[PathAggressive]; path != nil {
			windows = append(windows, model.MaintenanceWindow{
				ID:                WindowSupport,
				RecommendedDate:   now.AddDate(0, 0, 14),
				Priority:          model.PriorityHigh,
				Reason:            fmt.Sprintf("platform support expires in %d days", *snapshot.SupportExpiresIn),
				Components:        path.ComponentTargets(),
				EstimatedDuration: path.TotalDuration,
				Path:              path,
			})
		}
	}

	return windows
}

// daysUntil converts an absolute expiry date into whole days from now,
// never negative.
func daysUntil(now time.Time, expiry time.Time) int {
	days := int(expiry.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
