// Package service implements the advisor's use cases: refreshing the
// cluster snapshot, resolving lifecycle facts, running the
// recommendation engine and serving the latest bundle to transports.
package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/engine"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/internal/pkg/metrics"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
)

// Service orchestrates calls between the inventory and lifecycle ports,
// the engine and the notifier, and holds the latest bundle for readers.
type Service struct {
	inventory core.InventoryRepository
	lifecycle core.LifecycleRepository
	notifier  core.BundleNotifier
	engine    *engine.Engine
	workers   int

	mu     sync.RWMutex
	bundle *model.RecommendationBundle
}

// New creates the advisor service. The notifier may be nil when
// publishing is not configured. workers bounds the lifecycle lookup
// fan-out during a refresh.
func New(
	inventory core.InventoryRepository,
	lifecycle core.LifecycleRepository,
	notifier core.BundleNotifier,
	eng *engine.Engine,
	workers int,
) *Service {
	if eng == nil {
		eng = engine.New(nil, nil)
	}
	if workers < 1 {
		workers = 1
	}
	return &Service{
		inventory: inventory,
		lifecycle: lifecycle,
		notifier:  notifier,
		engine:    eng,
		workers:   workers,
	}
}

// Refresh fetches a fresh snapshot, enriches it with lifecycle facts and
// derived upgrades, runs the engine and atomically replaces the served
// bundle. A failed refresh leaves the previous bundle in place.
func (s *Service) Refresh(ctx context.Context) error {
	snapshot, err := s.inventory.Snapshot(ctx)
	if err != nil {
		metrics.SnapshotRefreshTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("refreshing inventory snapshot: %w", err)
	}

	degraded := s.enrich(ctx, snapshot)

	bundle := s.engine.Recommend(*snapshot)

	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()

	result := "success"
	if degraded {
		result = "degraded"
	}
	metrics.SnapshotRefreshTotal.WithLabelValues(result).Inc()
	observeIssues(bundle)

	log.Info("recommendation bundle refreshed",
		"components", len(bundle.Snapshot.Components),
		"paths", len(bundle.Paths),
		"windows", len(bundle.Windows),
		"degraded", degraded)

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, bundle); err != nil {
			// Publishing is best-effort; readers still get the bundle
			// over the API.
			log.Warn("failed to publish recommendation bundle", "error", err)
		}
	}

	return nil
}

// enrich resolves lifecycle facts for every installed component and its
// upgrade targets, bounded by the worker limit. Lookup failures degrade
// the component to default lifecycle facts rather than failing the
// refresh; the return value reports whether any lookup degraded.
func (s *Service) enrich(ctx context.Context, snapshot *model.PlatformSnapshot) bool {
	var mu sync.Mutex
	degraded := false

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range snapshot.Components {
		status := &snapshot.Components[i]
		g.Go(func() error {
			if !s.enrichComponent(gctx, status) {
				mu.Lock()
				degraded = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return degraded
}

func (s *Service) enrichComponent(ctx context.Context, status *model.ComponentStatus) bool {
	ok := true

	status.Lifecycle = s.lookup(ctx, status.Installation.Name, status.Installation.CurrentVersion, &ok)
	status.Upgrades = engine.DeriveUpgrades(status.Installation, status.Channels)
	for i := range status.Upgrades {
		up := &status.Upgrades[i]
		up.Lifecycle = s.lookup(ctx, up.Component, up.TargetVersion, &ok)
	}

	return ok
}

func (s *Service) lookup(ctx context.Context, component, version string, ok *bool) model.LifecycleInfo {
	info, err := s.lifecycle.Lookup(ctx, component, version)
	if err != nil {
		log.Warn("lifecycle lookup degraded to defaults",
			"component", component, "version", version, "error", err)
		*ok = false
		return model.DefaultLifecycleInfo(component, version)
	}
	return info
}

// observeIssues resets and republishes the per-severity issue gauge so
// that resolved issues disappear from it.
func observeIssues(bundle *model.RecommendationBundle) {
	counts := map[model.Severity]int{
		model.SeverityCritical: 0,
		model.SeverityWarning:  0,
		model.SeverityInfo:     0,
	}
	for i := range bundle.Snapshot.Components {
		for _, issue := range bundle.Snapshot.Components[i].Issues {
			counts[issue.Severity]++
		}
	}
	for severity, n := range counts {
		metrics.IssuesDetected.WithLabelValues(string(severity)).Set(float64(n))
	}
}

// Bundle returns the latest recommendation bundle, or nil before the
// first successful refresh.
func (s *Service) Bundle() *model.RecommendationBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// Components returns the component statuses of the latest bundle.
func (s *Service) Components() []model.ComponentStatus {
	if b := s.Bundle(); b != nil {
		return b.Snapshot.Components
	}
	return nil
}

// Paths returns the upgrade paths of the latest bundle.
func (s *Service) Paths() []model.UpgradePath {
	if b := s.Bundle(); b != nil {
		return b.Paths
	}
	return nil
}

// Windows returns the maintenance windows of the latest bundle.
func (s *Service) Windows() []model.MaintenanceWindow {
	if b := s.Bundle(); b != nil {
		return b.Windows
	}
	return nil
}
