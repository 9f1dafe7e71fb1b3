package model

import "time"

// StepKind distinguishes the three kinds of upgrade steps.
type StepKind string

const (
	StepVerification StepKind = "verification"
	StepComponent    StepKind = "component"
	StepPlatform     StepKind = "platform"
)

// UpgradeStep is one discrete action within an upgrade path. Order is
// 1-based and strictly increasing within a path.
type UpgradeStep struct {
	Order int      `json:"order"`
	Kind  StepKind `json:"kind"`

	// Target identifies what the step acts on: a component name, or the
	// platform itself.
	Target string `json:"target"`

	FromVersion string `json:"fromVersion,omitempty"`
	ToVersion   string `json:"toVersion,omitempty"`
	Channel     string `json:"channel,omitempty"`

	Description string `json:"description"`

	// EstimatedDuration is a fixed value or range in minutes,
	// e.g. "30 minutes" or "15-30 minutes".
	EstimatedDuration string `json:"estimatedDuration"`

	Prerequisites []string `json:"prerequisites,omitempty"`
	Rollback      string   `json:"rollback,omitempty"`
}

// Confidence expresses how likely a path is to complete without surprises.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// UpgradePath is one complete, ordered upgrade strategy.
type UpgradePath struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	TotalDuration string     `json:"totalDuration"`
	Confidence    Confidence `json:"confidence"`

	Steps []UpgradeStep `json:"steps"`

	Benefits []string `json:"benefits,omitempty"`
	Risks    []string `json:"risks,omitempty"`

	SupportedUntil time.Time `json:"supportedUntil"`
}

// ComponentTargets lists the targets of all non-verification steps.
func (p *UpgradePath) ComponentTargets() []string {
	targets := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		if step.Kind != StepVerification {
			targets = append(targets, step.Target)
		}
	}
	return targets
}
