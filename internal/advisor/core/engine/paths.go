package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/pkg/semver"
)

// Path identifiers. These are stable API values.
const (
	PathCriticalIssues = "critical-issues"
	PathConservative   = "conservative"
	PathAggressive     = "aggressive"
	PathBalanced       = "balanced"
)

const (
	verificationDuration = "30 minutes"
	componentDuration    = "15-30 minutes"
	platformDuration     = "60-120 minutes"

	// stableChannelMarker is the substring that marks a channel as the
	// vendor's stable/recommended track.
	stableChannelMarker = "stable"
)

// verificationStep is the fixed first step of every path: a cluster
// health check plus backup.
func verificationStep() model.UpgradeStep {
	return model.UpgradeStep{
		Order:             1,
		Kind:              model.StepVerification,
		Target:            "cluster",
		Description:       "Verify cluster health and take a backup of etcd and component state.",
		EstimatedDuration: verificationDuration,
		Rollback:          "restore from backup",
	}
}

func componentStep(order int, status *model.ComponentStatus, upgrade *model.AvailableUpgrade) model.UpgradeStep {
	return model.UpgradeStep{
		Order:       order,
		Kind:        model.StepComponent,
		Target:      status.Installation.Name,
		FromVersion: status.Installation.CurrentVersion,
		ToVersion:   upgrade.TargetVersion,
		Channel:     upgrade.Channel,
		Description: fmt.Sprintf("Upgrade %s from %s to %s on channel %q.",
			status.Installation.Name, status.Installation.CurrentVersion, upgrade.TargetVersion, upgrade.Channel),
		EstimatedDuration: componentDuration,
		Prerequisites:     []string{"Cluster verification completed"},
		Rollback:          "reinstall the previous component version from the catalog",
	}
}

func platformStep(order int, current, target string) model.UpgradeStep {
	return model.UpgradeStep{
		Order:             order,
		Kind:              model.StepPlatform,
		Target:            "platform",
		FromVersion:       current,
		ToVersion:         target,
		Description:       fmt.Sprintf("Update the platform from %s to %s.", current, target),
		EstimatedDuration: platformDuration,
		Prerequisites:     []string{"All blocking component upgrades completed"},
		Rollback:          "platform rollback is not supported; restore from backup",
	}
}

// finishPath suppresses no-op paths: a path whose only step is the
// verification step is returned as nil, not as an empty path.
func (e *Engine) finishPath(id, description string, confidence model.Confidence, steps []model.UpgradeStep, benefits, risks []string, now time.Time) *model.UpgradePath {
	if len(steps) <= 1 {
		return nil
	}

	path := &model.UpgradePath{
		ID:            id,
		Description:   description,
		TotalDuration: TotalDuration(steps),
		Confidence:    confidence,
		Steps:         steps,
		Benefits:      benefits,
		Risks:         risks,
	}
	path.SupportedUntil = e.support.SupportedUntil(now, path)
	return path
}

// GeneratePaths runs all four strategies over the snapshot. Strategies
// are independent and each may decline to propose a path; absent paths
// are omitted from the result rather than returned empty.
func (e *Engine) GeneratePaths(snapshot *model.PlatformSnapshot) []model.UpgradePath {
	now := e.clock.Now()

	var paths []model.UpgradePath
	for _, p := range []*model.UpgradePath{
		e.criticalIssuesPath(snapshot, now),
		e.conservativePath(snapshot, now),
		e.aggressivePath(snapshot, now),
		e.balancedPath(snapshot, now),
	} {
		if p != nil {
			paths = append(paths, *p)
		}
	}
	return paths
}

// criticalIssuesPath remediates every component that currently carries a
// critical issue, taking each component's first listed upgrade. The
// first-found candidate is a deliberate "earliest known fix" policy, not
// a magnitude-based choice. Ends with a platform step to the *next*
// available update when one exists.
func (e *Engine) criticalIssuesPath(snapshot *model.PlatformSnapshot, now time.Time) *model.UpgradePath {
	affected := componentsWithSeverity(snapshot, model.SeverityCritical)
	if len(affected) == 0 {
		return nil
	}

	steps := []model.UpgradeStep{verificationStep()}
	for _, status := range affected {
		if len(status.Upgrades) == 0 {
			// An issue without a remediation path stays an issue only.
			continue
		}
		steps = append(steps, componentStep(len(steps)+1, status, &status.Upgrades[0]))
	}

	if next, ok := snapshot.NextUpdate(); ok {
		steps = append(steps, platformStep(len(steps)+1, snapshot.CurrentVersion, next))
	}

	return e.finishPath(
		PathCriticalIssues,
		"Resolve critical issues first, then take the next platform update.",
		model.ConfidenceHigh,
		steps,
		[]string{"Removes upgrade blockers", "Restores supported configurations quickly"},
		[]string{"Only addresses components with critical findings"},
		now,
	)
}

// conservativePath upgrades only warning-affected components, always by
// the smallest available jump. It never selects a major-magnitude
// upgrade and never touches the platform.
func (e *Engine) conservativePath(snapshot *model.PlatformSnapshot, now time.Time) *model.UpgradePath {
	affected := componentsWithSeverity(snapshot, model.SeverityWarning)
	if len(affected) == 0 {
		return nil
	}

	steps := []model.UpgradeStep{verificationStep()}
	for _, status := range affected {
		upgrade := smallestUpgrade(status.Installation.CurrentVersion, status.Upgrades)
		if upgrade == nil {
			continue
		}
		steps = append(steps, componentStep(len(steps)+1, status, upgrade))
	}

	return e.finishPath(
		PathConservative,
		"Minimal, low-risk upgrades for components with warnings. The platform is left untouched.",
		model.ConfidenceHigh,
		steps,
		[]string{"Smallest possible change surface", "No platform downtime"},
		[]string{"Leaves the platform and healthy components on older releases"},
		now,
	)
}

// aggressivePath takes every component to its numerically highest
// available target and the platform to the *latest* known update.
func (e *Engine) aggressivePath(snapshot *model.PlatformSnapshot, now time.Time) *model.UpgradePath {
	steps := []model.UpgradeStep{verificationStep()}

	for i := range snapshot.Components {
		status := &snapshot.Components[i]
		upgrade := highestUpgrade(status.Upgrades)
		if upgrade == nil {
			continue
		}
		steps = append(steps, componentStep(len(steps)+1, status, upgrade))
	}

	if latest, ok := snapshot.LatestUpdate(); ok {
		steps = append(steps, platformStep(len(steps)+1, snapshot.CurrentVersion, latest))
	}

	return e.finishPath(
		PathAggressive,
		"Bring every component and the platform to the newest known releases.",
		model.ConfidenceMedium,
		steps,
		[]string{"Maximum currency and longest support runway"},
		[]string{"Largest change surface", "Higher exposure to breaking changes"},
		now,
	)
}

// balancedPath upgrades components that carry any issue or are
// significantly outdated (minor/major drift to their furthest candidate;
// patch-only drift does not qualify). Candidate choice prefers the last
// upgrade whose channel name signals a stable track, falling back to the
// middle element by list position. Positional selection is preserved
// as-is rather than reinterpreted as a semantic ranking.
func (e *Engine) balancedPath(snapshot *model.PlatformSnapshot, now time.Time) *model.UpgradePath {
	steps := []model.UpgradeStep{verificationStep()}

	for i := range snapshot.Components {
		status := &snapshot.Components[i]
		if len(status.Upgrades) == 0 {
			continue
		}
		if len(status.Issues) == 0 && !significantlyOutdated(status) {
			continue
		}
		steps = append(steps, componentStep(len(steps)+1, status, balancedUpgrade(status.Upgrades)))
	}

	// No qualifying component means no balanced path, even when a
	// platform update is available.
	if len(steps) == 1 {
		return nil
	}

	if next, ok := snapshot.NextUpdate(); ok {
		steps = append(steps, platformStep(len(steps)+1, snapshot.CurrentVersion, next))
	}

	return e.finishPath(
		PathBalanced,
		"Address findings and significant drift on stable channels, then take the next platform update.",
		model.ConfidenceHigh,
		steps,
		[]string{"Good currency without chasing the bleeding edge", "Prefers vendor stable channels"},
		[]string{"Skips healthy components with only patch-level drift"},
		now,
	)
}

// componentsWithSeverity returns components carrying at least one issue
// of the given severity, in snapshot order.
func componentsWithSeverity(snapshot *model.PlatformSnapshot, severity model.Severity) []*model.ComponentStatus {
	var out []*model.ComponentStatus
	for i := range snapshot.Components {
		for _, issue := range snapshot.Components[i].Issues {
			if issue.Severity == severity {
				out = append(out, &snapshot.Components[i])
				break
			}
		}
	}
	return out
}

// smallestUpgrade picks the lowest-risk candidate: any patch-magnitude
// jump beats every minor jump, and among minor jumps the lowest target
// version wins. Major jumps are never selected; nil means no acceptable
// candidate exists.
func smallestUpgrade(current string, upgrades []model.AvailableUpgrade) *model.AvailableUpgrade {
	var bestPatch, bestMinor *model.AvailableUpgrade

	for i := range upgrades {
		candidate := &upgrades[i]
		switch semver.DiffMagnitude(current, candidate.TargetVersion) {
		case semver.MagnitudePatch:
			if bestPatch == nil || lessThan(candidate.TargetVersion, bestPatch.TargetVersion) {
				bestPatch = candidate
			}
		case semver.MagnitudeMinor:
			if bestMinor == nil || lessThan(candidate.TargetVersion, bestMinor.TargetVersion) {
				bestMinor = candidate
			}
		}
	}

	if bestPatch != nil {
		return bestPatch
	}
	return bestMinor
}

// highestUpgrade picks the numerically highest target version.
// Incomparable candidates are skipped.
func highestUpgrade(upgrades []model.AvailableUpgrade) *model.AvailableUpgrade {
	var best *model.AvailableUpgrade
	for i := range upgrades {
		candidate := &upgrades[i]
		if !semver.Parsable(candidate.TargetVersion) {
			continue
		}
		if best == nil || lessThan(best.TargetVersion, candidate.TargetVersion) {
			best = candidate
		}
	}
	return best
}

// balancedUpgrade prefers candidates on a stable-designated channel,
// keeping the last such match; otherwise it falls back to the middle
// element by list position. Callers guarantee upgrades is non-empty.
func balancedUpgrade(upgrades []model.AvailableUpgrade) *model.AvailableUpgrade {
	var lastStable *model.AvailableUpgrade
	for i := range upgrades {
		if strings.Contains(upgrades[i].Channel, stableChannelMarker) {
			lastStable = &upgrades[i]
		}
	}
	if lastStable != nil {
		return lastStable
	}
	return &upgrades[len(upgrades)/2]
}

// significantlyOutdated reports whether the furthest available upgrade
// is a minor or major jump away from the installed version.
func significantlyOutdated(status *model.ComponentStatus) bool {
	furthest := highestUpgrade(status.Upgrades)
	if furthest == nil {
		return false
	}
	magnitude := semver.DiffMagnitude(status.Installation.CurrentVersion, furthest.TargetVersion)
	return magnitude == semver.MagnitudeMinor || magnitude == semver.MagnitudeMajor
}

func lessThan(a, b string) bool {
	order, ok := semver.Compare(a, b)
	return ok && order == semver.Less
}
