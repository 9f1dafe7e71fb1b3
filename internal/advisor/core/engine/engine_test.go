package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

// Scenario: a component on a deprecated channel with no available
// upgrades. The issue must surface on the component status, but no path
// may contain the component as a step.
func TestRecommendIssueWithoutRemediation(t *testing.T) {
	e := newTestEngine()

	z := component("z", "1.0.0", "old-channel")
	z.Channels = []model.Channel{
		{Name: "old-channel", CurrentVersion: "1.0.0", Deprecated: true},
	}

	snapshot := platform("4.16.0", "4.16.1")
	snapshot.Components = []model.ComponentStatus{*z}

	bundle := e.Recommend(*snapshot)

	require.Len(t, bundle.Snapshot.Components, 1)
	status := bundle.Snapshot.Components[0]
	require.Len(t, status.Issues, 1)
	assert.Equal(t, model.IssueStaleChannel, status.Issues[0].Kind)
	assert.Equal(t, model.SeverityWarning, status.Issues[0].Severity)
	assert.Equal(t, model.HealthDegraded, status.Health)

	for _, path := range bundle.Paths {
		for _, step := range path.Steps {
			assert.NotEqual(t, "z", step.Target, "path %s must not plan an upgrade without a remediation", path.ID)
		}
	}
}

func TestRecommendDerivesSupportExpiry(t *testing.T) {
	e := newTestEngine()

	eol := testNow.AddDate(0, 0, 45)
	snapshot := platform("4.16.0", "4.16.1")
	snapshot.EndOfLife = &eol
	snapshot.Components = []model.ComponentStatus{
		*withUpgrades(component("a", "1.0.0", "stable"),
			model.AvailableUpgrade{TargetVersion: "1.4.0", Channel: "stable-1.4"}),
	}

	bundle := e.Recommend(*snapshot)

	require.NotNil(t, bundle.Snapshot.SupportExpiresIn)
	assert.Equal(t, 45, *bundle.Snapshot.SupportExpiresIn)

	var support *model.MaintenanceWindow
	for i := range bundle.Windows {
		if bundle.Windows[i].ID == WindowSupport {
			support = &bundle.Windows[i]
		}
	}
	require.NotNil(t, support, "aggressive path plus near expiry must schedule a support window")
	assert.Contains(t, support.Reason, "45 days")
}

func TestRecommendIdempotent(t *testing.T) {
	e := newTestEngine()

	build := func() model.PlatformSnapshot {
		y := withUpgrades(component("y", "1.5.0", "stable"),
			model.AvailableUpgrade{TargetVersion: "2.0.0", Channel: "stable"})
		y.Lifecycle.Phase = model.PhaseEndOfLife
		s := platform("4.16.0", "4.16.1", "4.16.5")
		s.Components = []model.ComponentStatus{*y}
		return *s
	}

	first := e.Recommend(build())
	second := e.Recommend(build())

	assert.Equal(t, first, second)
}

func TestRecommendHealthRollup(t *testing.T) {
	e := newTestEngine()

	healthy := component("h", "1.0.0", "stable")
	eolComp := component("c", "2.0.0", "stable")
	eolComp.Lifecycle.Phase = model.PhaseEndOfLife

	snapshot := platform("4.16.0")
	snapshot.Components = []model.ComponentStatus{*healthy, *eolComp}

	bundle := e.Recommend(*snapshot)

	assert.Equal(t, model.HealthHealthy, bundle.Snapshot.Components[0].Health)
	assert.Equal(t, model.HealthCritical, bundle.Snapshot.Components[1].Health)
	assert.Equal(t, 1, bundle.Snapshot.CriticalIssueCount())
}

// The bundle must survive a JSON round trip without losing fields, since
// the transport layer serializes it as-is.
func TestBundleRoundTripsJSON(t *testing.T) {
	e := newTestEngine()

	y := withIssue(
		withUpgrades(component("y", "1.5.0", "stable"),
			model.AvailableUpgrade{TargetVersion: "2.0.0", Channel: "stable"}),
		model.SeverityCritical, model.IssueVersionCeiling,
	)
	eol := testNow.AddDate(0, 0, 60)
	snapshot := platform("4.16.0", "4.16.1")
	snapshot.EndOfLife = &eol
	snapshot.Components = []model.ComponentStatus{*y}

	bundle := e.Recommend(*snapshot)

	raw, err := json.Marshal(bundle)
	require.NoError(t, err)

	var decoded model.RecommendationBundle
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, bundle.GeneratedAt.UTC(), decoded.GeneratedAt.UTC())
	assert.Equal(t, len(bundle.Paths), len(decoded.Paths))
	assert.Equal(t, len(bundle.Windows), len(decoded.Windows))
	require.NotEmpty(t, decoded.Snapshot.Components)
	assert.Equal(t, bundle.Snapshot.Components[0].Issues, decoded.Snapshot.Components[0].Issues)
	require.NotNil(t, decoded.Snapshot.EndOfLife)
	assert.True(t, decoded.Snapshot.EndOfLife.Equal(eol))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 45, daysUntil(now, now.AddDate(0, 0, 45)))
	assert.Equal(t, 0, daysUntil(now, now.AddDate(0, 0, -3)), "past expiry clamps to zero")
}
