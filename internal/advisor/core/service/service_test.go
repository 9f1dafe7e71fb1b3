package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/engine"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

type fakeInventory struct {
	snapshot *model.PlatformSnapshot
	err      error
	calls    int
}

func (f *fakeInventory) Snapshot(context.Context) (*model.PlatformSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.snapshot
	copied.Components = append([]model.ComponentStatus(nil), f.snapshot.Components...)
	return &copied, nil
}

type fakeLifecycle struct {
	entries map[string]model.LifecycleInfo
	err     error
}

func (f *fakeLifecycle) Lookup(_ context.Context, component, version string) (model.LifecycleInfo, error) {
	if f.err != nil {
		return model.LifecycleInfo{}, f.err
	}
	if info, ok := f.entries[component+"@"+version]; ok {
		return info, nil
	}
	return model.DefaultLifecycleInfo(component, version), nil
}

type fakeNotifier struct {
	published []*model.RecommendationBundle
	err       error
}

func (f *fakeNotifier) Publish(_ context.Context, bundle *model.RecommendationBundle) error {
	f.published = append(f.published, bundle)
	return f.err
}

func testSnapshot() *model.PlatformSnapshot {
	return &model.PlatformSnapshot{
		CurrentVersion:   "4.16.0",
		AvailableUpdates: []string{"4.16.1", "4.16.5"},
		Components: []model.ComponentStatus{
			{
				Installation: model.ComponentInstallation{
					Name:           "etcd-operator",
					Namespace:      "etcd-system",
					CurrentVersion: "3.5.9",
					CurrentChannel: "stable-3.5",
				},
				Channels: []model.Channel{
					{Name: "stable-3.5", CurrentVersion: "3.5.12"},
					{Name: "alpha", CurrentVersion: "3.6.0"},
				},
			},
		},
	}
}

func newTestService(inv *fakeInventory, lc *fakeLifecycle, n *fakeNotifier) *Service {
	clk := clocktesting.NewFakePassiveClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	var notifier core.BundleNotifier
	if n != nil {
		notifier = n
	}
	return New(inv, lc, notifier, engine.New(clk, nil), 4)
}

func TestRefreshBuildsBundle(t *testing.T) {
	eol := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	lc := &fakeLifecycle{entries: map[string]model.LifecycleInfo{
		"etcd-operator@3.5.9": {
			Component: "etcd-operator", Version: "3.5.9",
			Model: model.LifecycleModelPlatformAgnostic,
			Phase: model.PhaseMaintenanceSupport,
			EndOfLife: &eol,
		},
	}}
	inv := &fakeInventory{snapshot: testSnapshot()}
	notifier := &fakeNotifier{}
	svc := newTestService(inv, lc, notifier)

	require.Nil(t, svc.Bundle(), "no bundle before the first refresh")
	require.NoError(t, svc.Refresh(context.Background()))

	bundle := svc.Bundle()
	require.NotNil(t, bundle)
	require.Len(t, bundle.Snapshot.Components, 1)

	status := bundle.Snapshot.Components[0]
	assert.Equal(t, model.PhaseMaintenanceSupport, status.Lifecycle.Phase,
		"installed version lifecycle is resolved through the repository")
	require.Len(t, status.Upgrades, 2, "both channels offer a newer version")
	for _, up := range status.Upgrades {
		assert.Equal(t, model.PhaseFullSupport, up.Lifecycle.Phase,
			"unknown target versions default conservatively")
	}

	require.Len(t, notifier.published, 1)
	assert.Same(t, bundle, notifier.published[0])
}

func TestRefreshFailureKeepsPreviousBundle(t *testing.T) {
	inv := &fakeInventory{snapshot: testSnapshot()}
	svc := newTestService(inv, &fakeLifecycle{}, nil)

	require.NoError(t, svc.Refresh(context.Background()))
	previous := svc.Bundle()
	require.NotNil(t, previous)

	inv.err = errors.New("apiserver unavailable")
	err := svc.Refresh(context.Background())
	require.Error(t, err)

	assert.Same(t, previous, svc.Bundle(), "a failed refresh must not drop the served bundle")
}

func TestRefreshLifecycleFailureDegrades(t *testing.T) {
	inv := &fakeInventory{snapshot: testSnapshot()}
	svc := newTestService(inv, &fakeLifecycle{err: errors.New("lifecycle service down")}, nil)

	require.NoError(t, svc.Refresh(context.Background()), "lifecycle outage degrades, it does not fail the refresh")

	status := svc.Components()[0]
	assert.Equal(t, model.DefaultLifecycleInfo("etcd-operator", "3.5.9"), status.Lifecycle)
}

func TestRefreshNotifierFailureIsNotFatal(t *testing.T) {
	inv := &fakeInventory{snapshot: testSnapshot()}
	notifier := &fakeNotifier{err: errors.New("broker unreachable")}
	svc := newTestService(inv, &fakeLifecycle{}, notifier)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.NotNil(t, svc.Bundle())
}

func TestAccessorsBeforeRefresh(t *testing.T) {
	svc := newTestService(&fakeInventory{snapshot: testSnapshot()}, &fakeLifecycle{}, nil)

	assert.Nil(t, svc.Components())
	assert.Nil(t, svc.Paths())
	assert.Nil(t, svc.Windows())
}
