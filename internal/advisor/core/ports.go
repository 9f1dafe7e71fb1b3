package core

import (
	"context"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

// InventoryRepository supplies a point-in-time snapshot of the platform
// and its installed components. In UpgradePilot this is implemented by
// the K8s adapter.
//
// Snapshot returns the platform facts plus per-component installation
// and channel data; lifecycle facts, upgrades and issues are resolved
// afterwards by the service and engine. Failure to obtain the platform's
// own version data is fatal; failure to collect a single component is
// not, that component is simply omitted.
type InventoryRepository interface {
	Snapshot(ctx context.Context) (*model.PlatformSnapshot, error)
}

// LifecycleRepository resolves support-phase and end-of-support facts
// for one component version. Implementations may be backed by a remote
// service with a TTL cache; callers must tolerate entries as stale as
// the cache window. Lookup never fabricates urgency: when no facts are
// known it returns the conservative default.
type LifecycleRepository interface {
	Lookup(ctx context.Context, component, version string) (model.LifecycleInfo, error)
}

// BundleNotifier publishes a summary of a freshly generated
// recommendation bundle to interested external systems.
type BundleNotifier interface {
	Publish(ctx context.Context, bundle *model.RecommendationBundle) error
}
