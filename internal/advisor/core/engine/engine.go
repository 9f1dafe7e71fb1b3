// Package engine is the recommendation core: issue detection, the four
// path-generation strategies, duration and support estimation, and
// maintenance-window scheduling. It is a pure, read-only computation
// over one immutable platform snapshot; it holds no mutable state across
// invocations and is safe for concurrent use.
package engine

import (
	"k8s.io/utils/clock"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

// Engine composes the detection, planning and scheduling stages into the
// final recommendation bundle.
type Engine struct {
	clock   clock.PassiveClock
	support SupportEstimator
}

// New creates an engine with the given clock and support estimator.
// Both are injected so tests and alternative policies can substitute
// them.
func New(c clock.PassiveClock, support SupportEstimator) *Engine {
	if c == nil {
		c = clock.RealClock{}
	}
	if support == nil {
		support = NewFixedOffsetEstimator()
	}
	return &Engine{clock: c, support: support}
}

// Recommend runs the full pipeline over the snapshot: per-component
// issue detection and health, platform support derivation, the four path
// strategies, and window scheduling. The input snapshot's component
// installations, lifecycle facts, channels and upgrades must already be
// populated; Recommend fills in issues, health and the aggregates.
//
// Invoking Recommend twice on the identical snapshot value yields
// structurally identical output apart from timestamps taken from the
// injected clock.
func (e *Engine) Recommend(snapshot model.PlatformSnapshot) *model.RecommendationBundle {
	now := e.clock.Now()

	for i := range snapshot.Components {
		status := &snapshot.Components[i]
		status.Issues = DetectIssues(status, &snapshot, now)
		status.Health = ComputeHealth(status.Issues)
	}

	if snapshot.SupportExpiresIn == nil && snapshot.EndOfLife != nil {
		days := daysUntil(now, *snapshot.EndOfLife)
		snapshot.SupportExpiresIn = &days
	}

	paths := e.GeneratePaths(&snapshot)
	windows := e.ScheduleWindows(&snapshot, paths)

	return &model.RecommendationBundle{
		Snapshot:    snapshot,
		Paths:       paths,
		Windows:     windows,
		GeneratedAt: now,
	}
}
