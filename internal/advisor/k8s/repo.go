package k8s

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/utils/clock"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/internal/pkg/metrics"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

var _ core.InventoryRepository = (*inventoryRepository)(nil)

// inventoryRepository implements core.InventoryRepository against the
// cluster's platform and operator resources.
type inventoryRepository struct {
	client  client.Client
	workers int
	timeout time.Duration
	clock   clock.PassiveClock
}

// NewInventoryRepository creates the K8s-backed inventory source. A nil
// clock defaults to the real one.
func NewInventoryRepository(c client.Client, opts *options.KubeOptions, clk clock.PassiveClock) core.InventoryRepository {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &inventoryRepository{
		client:  c,
		workers: opts.FetchWorkers,
		timeout: opts.FetchTimeout,
		clock:   clk,
	}
}

// Snapshot collects the platform version plus every subscribed
// component. Platform data is mandatory; a component whose detail fetch
// fails is logged, counted and omitted.
func (r *inventoryRepository) Snapshot(ctx context.Context) (*model.PlatformSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cv := &unstructured.Unstructured{}
	cv.SetGroupVersionKind(clusterVersionGVK)
	if err := r.client.Get(ctx, client.ObjectKey{Name: "version"}, cv); err != nil {
		return nil, fmt.Errorf("fetching cluster version: %w", err)
	}
	snapshot := platformFromClusterVersion(cv)
	snapshot.CollectedAt = r.clock.Now()

	subs := &unstructured.UnstructuredList{}
	subs.SetGroupVersionKind(subscriptionListGVK)
	if err := r.client.List(ctx, subs); err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range subs.Items {
		sub := subs.Items[i]
		g.Go(func() error {
			status, err := r.componentStatus(gctx, &sub)
			if err != nil {
				// A cancelled or expired snapshot is fatal; a single
				// failed component is not, it is simply omitted.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				metrics.ComponentFetchFailures.Inc()
				log.Warn("omitting component from snapshot",
					"subscription", sub.GetName(), "namespace", sub.GetNamespace(), "error", err)
				return nil
			}
			mu.Lock()
			snapshot.Components = append(snapshot.Components, *status)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collecting components: %w", err)
	}

	sortComponents(snapshot.Components)
	return snapshot, nil
}

func (r *inventoryRepository) componentStatus(ctx context.Context, sub *unstructured.Unstructured) (*model.ComponentStatus, error) {
	var csv *unstructured.Unstructured
	if csvName := installedCSVName(sub); csvName != "" {
		csv = &unstructured.Unstructured{}
		csv.SetGroupVersionKind(clusterServiceVersionGVK)
		key := client.ObjectKey{Namespace: sub.GetNamespace(), Name: csvName}
		if err := r.client.Get(ctx, key, csv); err != nil {
			return nil, fmt.Errorf("fetching csv %s: %w", csvName, err)
		}
	}

	status := &model.ComponentStatus{
		Installation: installationFromSubscription(sub, csv),
	}
	if status.Installation.CurrentVersion == "" {
		return nil, fmt.Errorf("no resolvable installed version for subscription %s", sub.GetName())
	}

	status.Channels = r.channels(ctx, sub, status.Installation.Name)
	return status, nil
}

// channels resolves the component's catalog channels. A missing package
// manifest degrades the component to channel-less, it does not omit it.
func (r *inventoryRepository) channels(ctx context.Context, sub *unstructured.Unstructured, pkg string) []model.Channel {
	catalogNS, _, _ := unstructured.NestedString(sub.Object, "spec", "sourceNamespace")

	manifest := &unstructured.Unstructured{}
	manifest.SetGroupVersionKind(packageManifestGVK)
	key := client.ObjectKey{Namespace: catalogNS, Name: pkg}
	if err := r.client.Get(ctx, key, manifest); err != nil {
		log.Debug("no package manifest for component", "package", pkg, "error", err)
		return nil
	}

	return channelsFromPackageManifest(manifest)
}

// sortComponents makes snapshot ordering deterministic regardless of
// worker completion order.
func sortComponents(components []model.ComponentStatus) {
	sort.Slice(components, func(i, j int) bool {
		return componentKey(components[i]) < componentKey(components[j])
	})
}

func componentKey(c model.ComponentStatus) string {
	return c.Installation.Namespace + "/" + c.Installation.Name
}
