package model

import "time"

// LifecycleModel describes how a component's release stream relates to
// the platform's own release track.
type LifecycleModel string

const (
	LifecycleModelPlatformAligned  LifecycleModel = "platform-aligned"
	LifecycleModelPlatformAgnostic LifecycleModel = "platform-agnostic"
	LifecycleModelRollingRelease   LifecycleModel = "rolling-release"
	LifecycleModelUnknown          LifecycleModel = "unknown"
)

// SupportPhase is the lifecycle stage of one component version.
type SupportPhase string

const (
	PhaseFullSupport        SupportPhase = "full-support"
	PhaseMaintenanceSupport SupportPhase = "maintenance-support"
	PhaseEndOfLife          SupportPhase = "end-of-life"
	PhaseDeprecated         SupportPhase = "deprecated"
	PhaseUnknown            SupportPhase = "unknown"
)

// ComponentInstallation is the immutable snapshot fact describing one
// installed component. It is created fresh on every snapshot fetch and
// never mutated by the engine.
type ComponentInstallation struct {
	Name           string    `json:"name"`
	Namespace      string    `json:"namespace"`
	DisplayName    string    `json:"displayName,omitempty"`
	CurrentVersion string    `json:"currentVersion"`
	CurrentChannel string    `json:"currentChannel,omitempty"`
	CatalogSource  string    `json:"catalogSource,omitempty"`
	AutoApproval   bool      `json:"autoApproval"`
	InstalledAt    time.Time `json:"installedAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// LifecycleInfo carries support-phase and end-of-support facts for one
// component version. It is looked up from the lifecycle metadata
// provider, never derived by the engine. Absence of data defaults to
// full-support with an unknown model so that missing facts never
// fabricate urgency.
type LifecycleInfo struct {
	Component string         `json:"component"`
	Version   string         `json:"version"`
	Model     LifecycleModel `json:"model"`
	Phase     SupportPhase   `json:"phase"`

	FullSupportEnds *time.Time `json:"fullSupportEnds,omitempty"`
	MaintenanceEnds *time.Time `json:"maintenanceEnds,omitempty"`
	EndOfLife       *time.Time `json:"endOfLife,omitempty"`

	// Min/MaxPlatformVersion bound the platform versions this component
	// version is declared compatible with. Either may be empty.
	MinPlatformVersion string `json:"minPlatformVersion,omitempty"`
	MaxPlatformVersion string `json:"maxPlatformVersion,omitempty"`
}

// DefaultLifecycleInfo returns the conservative fallback used when no
// lifecycle facts are available for a component version.
func DefaultLifecycleInfo(component, version string) LifecycleInfo {
	return LifecycleInfo{
		Component: component,
		Version:   version,
		Model:     LifecycleModelUnknown,
		Phase:     PhaseFullSupport,
	}
}

// Channel is a named update track for a component.
type Channel struct {
	Name           string `json:"name"`
	CurrentVersion string `json:"currentVersion"`

	// AvailableVersions lists the versions historically published on the
	// channel, oldest first.
	AvailableVersions []string `json:"availableVersions,omitempty"`

	Deprecated         bool   `json:"deprecated"`
	DeprecationMessage string `json:"deprecationMessage,omitempty"`

	MinPlatformVersion string `json:"minPlatformVersion,omitempty"`
	MaxPlatformVersion string `json:"maxPlatformVersion,omitempty"`
}

// AvailableUpgrade is one candidate upgrade for a component, derived by
// comparing the installed version against each known channel's current
// version.
type AvailableUpgrade struct {
	Component     string        `json:"component"`
	TargetVersion string        `json:"targetVersion"`
	Channel       string        `json:"channel"`
	Lifecycle     LifecycleInfo `json:"lifecycle"`
}

// Health summarizes a component's issue list.
type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthDegraded Health = "degraded"
	HealthCritical Health = "critical"
)

// ComponentStatus bundles everything known about one installed component.
type ComponentStatus struct {
	Installation ComponentInstallation `json:"installation"`
	Lifecycle    LifecycleInfo         `json:"lifecycle"`
	Channels     []Channel             `json:"channels,omitempty"`
	Upgrades     []AvailableUpgrade    `json:"upgrades,omitempty"`
	Issues       []Issue               `json:"issues,omitempty"`
	Health       Health                `json:"health,omitempty"`
}

// CurrentChannel returns the channel the installation is subscribed to,
// or nil when it is not among the known channels.
func (c *ComponentStatus) CurrentChannel() *Channel {
	for i := range c.Channels {
		if c.Channels[i].Name == c.Installation.CurrentChannel {
			return &c.Channels[i]
		}
	}
	return nil
}

// PlatformSnapshot is the point-in-time input the engine computes over.
//
// AvailableUpdates is ordered ascending by release recency: index 0 is
// the immediately-next platform update, the last index is the newest
// known. Path generation relies on this ordering contract.
type PlatformSnapshot struct {
	CurrentVersion string `json:"currentVersion"`
	DesiredVersion string `json:"desiredVersion,omitempty"`
	Channel        string `json:"channel,omitempty"`

	AvailableUpdates []string `json:"availableUpdates,omitempty"`

	EUS bool `json:"eus"`

	FullSupportEnds *time.Time `json:"fullSupportEnds,omitempty"`
	EndOfLife       *time.Time `json:"endOfLife,omitempty"`

	// SupportExpiresIn is the number of days until the platform leaves
	// support, derived from EndOfLife when present.
	SupportExpiresIn *int `json:"supportExpiresIn,omitempty"`

	Components []ComponentStatus `json:"components"`

	CollectedAt time.Time `json:"collectedAt"`
}

// NextUpdate returns the immediately-next platform update, if any.
func (s *PlatformSnapshot) NextUpdate() (string, bool) {
	if len(s.AvailableUpdates) == 0 {
		return "", false
	}
	return s.AvailableUpdates[0], true
}

// LatestUpdate returns the newest known platform update, if any.
func (s *PlatformSnapshot) LatestUpdate() (string, bool) {
	if len(s.AvailableUpdates) == 0 {
		return "", false
	}
	return s.AvailableUpdates[len(s.AvailableUpdates)-1], true
}

// CriticalIssueCount counts critical issues across all components.
func (s *PlatformSnapshot) CriticalIssueCount() int {
	n := 0
	for i := range s.Components {
		for _, issue := range s.Components[i].Issues {
			if issue.Severity == SeverityCritical {
				n++
			}
		}
	}
	return n
}
