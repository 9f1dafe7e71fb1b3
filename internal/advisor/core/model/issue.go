package model

import (
	"fmt"
	"time"
)

// Severity ranks how urgently an issue needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// IssueKind is the typed category of a detected risk finding.
type IssueKind string

const (
	IssueVersionCeiling      IssueKind = "version-ceiling"
	IssueStaleChannel        IssueKind = "stale-channel"
	IssueOutdatedVersion     IssueKind = "outdated-version"
	IssueLifecycleExpiring   IssueKind = "lifecycle-expiring"
	IssueIncompatibleCluster IssueKind = "incompatible-cluster"
)

// Issue is one risk finding for one component. IDs are deterministic per
// component and kind, so repeated detection on the same snapshot is
// idempotent.
type Issue struct {
	ID        string    `json:"id"`
	Component string    `json:"component"`
	Severity  Severity  `json:"severity"`
	Kind      IssueKind `json:"kind"`

	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation,omitempty"`

	// AffectsPlatformUpgrade marks issues that block the platform's own
	// next update.
	AffectsPlatformUpgrade bool `json:"affectsPlatformUpgrade"`

	DetectedAt time.Time `json:"detectedAt"`
}

// IssueID builds the deterministic identifier for a component/kind pair.
func IssueID(component string, kind IssueKind) string {
	return fmt.Sprintf("%s-%s", component, kind)
}
