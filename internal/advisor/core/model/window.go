package model

import "time"

// Priority ranks a maintenance window.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// MaintenanceWindow is a scheduled, prioritized recommendation to
// execute one upgrade path by a target date.
type MaintenanceWindow struct {
	ID              string   `json:"id"`
	RecommendedDate time.Time `json:"recommendedDate"`
	Priority        Priority  `json:"priority"`
	Reason          string    `json:"reason"`

	// Components lists the identifiers affected by the window's path.
	Components []string `json:"components,omitempty"`

	EstimatedDuration string `json:"estimatedDuration"`

	// Path is the upgrade path the window is built from.
	Path *UpgradePath `json:"path,omitempty"`
}

// RecommendationBundle is the complete engine output for one snapshot.
type RecommendationBundle struct {
	Snapshot PlatformSnapshot    `json:"snapshot"`
	Paths    []UpgradePath       `json:"paths"`
	Windows  []MaintenanceWindow `json:"windows"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Path returns the generated path with the given id, or nil.
func (b *RecommendationBundle) Path(id string) *UpgradePath {
	for i := range b.Paths {
		if b.Paths[i].ID == id {
			return &b.Paths[i]
		}
	}
	return nil
}
