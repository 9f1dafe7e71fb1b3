package engine

import (
	"fmt"
	"time"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/pkg/semver"
)

// DetectIssues evaluates one component independently and returns its
// typed, severity-ranked issues. Checks run in a fixed order so the
// output is deterministic: stale-channel, lifecycle-expiring,
// version-ceiling, incompatible-cluster, outdated-version.
//
// Missing or unparsable data always degrades to "cannot evaluate this
// check": no issue is emitted, and no error is ever returned.
func DetectIssues(status *model.ComponentStatus, platform *model.PlatformSnapshot, now time.Time) []model.Issue {
	var issues []model.Issue

	name := status.Installation.Name

	if issue := detectStaleChannel(status, now); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := detectLifecycleExpiring(status, now); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := detectVersionCeiling(status, platform, now); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := detectIncompatibleCluster(status, platform, now); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := detectOutdatedVersion(status, now); issue != nil {
		issues = append(issues, *issue)
	}

	for i := range issues {
		issues[i].Component = name
		issues[i].ID = model.IssueID(name, issues[i].Kind)
		issues[i].DetectedAt = now
	}

	return issues
}

// detectStaleChannel flags a subscription whose current channel has been
// deprecated by the catalog.
func detectStaleChannel(status *model.ComponentStatus, now time.Time) *model.Issue {
	ch := status.CurrentChannel()
	if ch == nil || !ch.Deprecated {
		return nil
	}

	desc := fmt.Sprintf("Channel %q is deprecated.", ch.Name)
	if ch.DeprecationMessage != "" {
		desc = fmt.Sprintf("Channel %q is deprecated: %s", ch.Name, ch.DeprecationMessage)
	}

	return &model.Issue{
		Severity:       model.SeverityWarning,
		Kind:           model.IssueStaleChannel,
		Title:          "Subscribed channel is deprecated",
		Description:    desc,
		Recommendation: fmt.Sprintf("Move the subscription off the deprecated channel %q to a supported channel.", ch.Name),
	}
}

// detectLifecycleExpiring flags versions in maintenance support or past
// end of life. End of life blocks the platform upgrade.
func detectLifecycleExpiring(status *model.ComponentStatus, now time.Time) *model.Issue {
	switch status.Lifecycle.Phase {
	case model.PhaseMaintenanceSupport:
		desc := fmt.Sprintf("Version %s is in maintenance support.", status.Installation.CurrentVersion)
		if status.Lifecycle.MaintenanceEnds != nil {
			desc = fmt.Sprintf("Version %s is in maintenance support until %s.",
				status.Installation.CurrentVersion, status.Lifecycle.MaintenanceEnds.Format("2006-01-02"))
		}
		return &model.Issue{
			Severity:       model.SeverityWarning,
			Kind:           model.IssueLifecycleExpiring,
			Title:          "Installed version is leaving support",
			Description:    desc,
			Recommendation: "Plan an upgrade to a fully supported version before maintenance support ends.",
		}
	case model.PhaseEndOfLife:
		return &model.Issue{
			Severity:               model.SeverityCritical,
			Kind:                   model.IssueLifecycleExpiring,
			Title:                  "Installed version is end of life",
			Description:            fmt.Sprintf("Version %s has reached end of life and no longer receives fixes.", status.Installation.CurrentVersion),
			Recommendation:         "Upgrade to a supported version immediately.",
			AffectsPlatformUpgrade: true,
		}
	default:
		return nil
	}
}

// detectVersionCeiling compares the component's declared maximum
// compatible platform version against the platform's *next* available
// update (not the latest). Both sides must parse; a missing or
// unparsable bound never assumes a block.
func detectVersionCeiling(status *model.ComponentStatus, platform *model.PlatformSnapshot, now time.Time) *model.Issue {
	bound := status.Lifecycle.MaxPlatformVersion
	if bound == "" {
		return nil
	}

	next, ok := platform.NextUpdate()
	if !ok {
		return nil
	}

	order, comparable := semver.Compare(next, bound)
	if !comparable || order != semver.Greater {
		return nil
	}

	return &model.Issue{
		Severity: model.SeverityCritical,
		Kind:     model.IssueVersionCeiling,
		Title:    "Component blocks the next platform update",
		Description: fmt.Sprintf("The installed version declares max platform version %s, but the next platform update is %s.",
			bound, next),
		Recommendation:         "Upgrade this component to a version compatible with the next platform release before updating the platform.",
		AffectsPlatformUpgrade: true,
	}
}

// detectIncompatibleCluster flags a component whose declared minimum
// compatible platform version exceeds the platform version actually
// running.
func detectIncompatibleCluster(status *model.ComponentStatus, platform *model.PlatformSnapshot, now time.Time) *model.Issue {
	bound := status.Lifecycle.MinPlatformVersion
	if bound == "" {
		return nil
	}

	order, comparable := semver.Compare(bound, platform.CurrentVersion)
	if !comparable || order != semver.Greater {
		return nil
	}

	return &model.Issue{
		Severity: model.SeverityWarning,
		Kind:     model.IssueIncompatibleCluster,
		Title:    "Component requires a newer platform",
		Description: fmt.Sprintf("The installed version declares min platform version %s, but the platform runs %s.",
			bound, platform.CurrentVersion),
		Recommendation: "Update the platform, or pin this component to a version compatible with the current platform.",
	}
}

// detectOutdatedVersion flags a component whose furthest available
// upgrade is a minor or major jump away. Patch-only drift is not
// reported.
func detectOutdatedVersion(status *model.ComponentStatus, now time.Time) *model.Issue {
	furthest := highestUpgrade(status.Upgrades)
	if furthest == nil {
		return nil
	}

	magnitude := semver.DiffMagnitude(status.Installation.CurrentVersion, furthest.TargetVersion)
	if magnitude != semver.MagnitudeMinor && magnitude != semver.MagnitudeMajor {
		return nil
	}

	return &model.Issue{
		Severity: model.SeverityInfo,
		Kind:     model.IssueOutdatedVersion,
		Title:    "Newer releases are available",
		Description: fmt.Sprintf("Version %s lags the newest available release %s by a %s version.",
			status.Installation.CurrentVersion, furthest.TargetVersion, magnitude),
		Recommendation: fmt.Sprintf("Consider upgrading towards %s on channel %q.", furthest.TargetVersion, furthest.Channel),
	}
}

// ComputeHealth summarizes an issue list into a component health value.
func ComputeHealth(issues []model.Issue) model.Health {
	health := model.HealthHealthy
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityCritical:
			return model.HealthCritical
		case model.SeverityWarning:
			health = model.HealthDegraded
		}
	}
	return health
}

// DeriveUpgrades computes the candidate upgrades for a component by
// comparing its installed version against every known channel's current
// version. Incomparable pairs are skipped: an upgrade is never
// recommended based on versions that cannot be ordered.
func DeriveUpgrades(installation model.ComponentInstallation, channels []model.Channel) []model.AvailableUpgrade {
	var upgrades []model.AvailableUpgrade
	for _, ch := range channels {
		order, comparable := semver.Compare(ch.CurrentVersion, installation.CurrentVersion)
		if !comparable || order != semver.Greater {
			continue
		}
		upgrades = append(upgrades, model.AvailableUpgrade{
			Component:     installation.Name,
			TargetVersion: ch.CurrentVersion,
			Channel:       ch.Name,
			Lifecycle:     model.DefaultLifecycleInfo(installation.Name, ch.CurrentVersion),
		})
	}
	return upgrades
}
