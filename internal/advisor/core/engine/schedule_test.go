package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

func intPtr(n int) *int { return &n }

// snapshotWithPaths builds a snapshot plus generated paths for scheduler
// tests: one critical component and one significantly outdated one, so
// that the critical, balanced and aggressive strategies all produce a
// path.
func snapshotWithPaths(e *Engine, critical bool, supportExpiresIn *int) (*model.PlatformSnapshot, []model.UpgradePath) {
	snapshot := platform("4.16.0", "4.16.1", "4.16.5")
	snapshot.SupportExpiresIn = supportExpiresIn

	outdated := withUpgrades(component("b", "1.0.0", "stable"),
		model.AvailableUpgrade{TargetVersion: "1.4.0", Channel: "stable-1.4"})
	snapshot.Components = append(snapshot.Components, *outdated)

	if critical {
		y := withIssue(
			withUpgrades(component("y", "1.5.0", "stable"),
				model.AvailableUpgrade{TargetVersion: "2.0.0", Channel: "stable"}),
			model.SeverityCritical, model.IssueVersionCeiling,
		)
		snapshot.Components = append(snapshot.Components, *y)
	}

	return snapshot, e.GeneratePaths(snapshot)
}

func TestScheduleWindowsEscalationOrder(t *testing.T) {
	e := newTestEngine()
	snapshot, paths := snapshotWithPaths(e, true, intPtr(45))

	windows := e.ScheduleWindows(snapshot, paths)

	require.Len(t, windows, 3)
	assert.Equal(t, WindowCritical, windows[0].ID)
	assert.Equal(t, WindowRegular, windows[1].ID)
	assert.Equal(t, WindowSupport, windows[2].ID)

	assert.Equal(t, testNow.AddDate(0, 0, 7), windows[0].RecommendedDate)
	assert.Equal(t, testNow.AddDate(0, 0, 30), windows[1].RecommendedDate)
	assert.Equal(t, testNow.AddDate(0, 0, 14), windows[2].RecommendedDate)

	assert.Equal(t, model.PriorityHigh, windows[0].Priority)
	assert.Equal(t, model.PriorityHigh, windows[1].Priority, "regular window escalates with critical issues present")
	assert.Equal(t, model.PriorityHigh, windows[2].Priority)

	assert.Equal(t, "critical issues detected", windows[0].Reason)
	assert.Equal(t, "regular maintenance", windows[1].Reason)
	assert.Contains(t, windows[2].Reason, "45 days")

	assert.Contains(t, windows[0].Components, "y")
	assert.NotContains(t, windows[0].Components, "cluster", "verification steps are not affected components")
}

func TestScheduleWindowsWithoutCriticals(t *testing.T) {
	e := newTestEngine()
	snapshot, paths := snapshotWithPaths(e, false, intPtr(45))

	windows := e.ScheduleWindows(snapshot, paths)

	require.Len(t, windows, 2)
	assert.Equal(t, WindowRegular, windows[0].ID)
	assert.Equal(t, model.PriorityMedium, windows[0].Priority)
	assert.Equal(t, WindowSupport, windows[1].ID)
	assert.Equal(t, testNow.AddDate(0, 0, 14), windows[1].RecommendedDate)
}

func TestScheduleWindowsSupportThreshold(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name        string
		expiresIn   *int
		wantSupport bool
	}{
		{"under threshold", intPtr(45), true},
		{"at threshold", intPtr(90), false},
		{"unknown expiry", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, paths := snapshotWithPaths(e, false, tt.expiresIn)
			windows := e.ScheduleWindows(snapshot, paths)

			found := false
			for _, w := range windows {
				if w.ID == WindowSupport {
					found = true
				}
			}
			assert.Equal(t, tt.wantSupport, found)
		})
	}
}

func TestScheduleWindowsEmptyWithoutPaths(t *testing.T) {
	e := newTestEngine()
	snapshot := platform("4.16.0")

	assert.Empty(t, e.ScheduleWindows(snapshot, nil))
}
