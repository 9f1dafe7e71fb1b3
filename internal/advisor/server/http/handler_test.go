package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/engine"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/service"
	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

type staticInventory struct {
	snapshot model.PlatformSnapshot
}

func (s *staticInventory) Snapshot(context.Context) (*model.PlatformSnapshot, error) {
	copied := s.snapshot
	return &copied, nil
}

type defaultLifecycle struct{}

func (defaultLifecycle) Lookup(_ context.Context, component, version string) (model.LifecycleInfo, error) {
	return model.DefaultLifecycleInfo(component, version), nil
}

func refreshedService(t *testing.T) *service.Service {
	t.Helper()

	inv := &staticInventory{snapshot: model.PlatformSnapshot{
		CurrentVersion:   "4.16.0",
		AvailableUpdates: []string{"4.16.1"},
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
				},
			},
		},
	}}

	clk := clocktesting.NewFakePassiveClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := service.New(inv, defaultLifecycle{}, nil, engine.New(clk, nil), 2)
	require.NoError(t, svc.Refresh(context.Background()))
	return svc
}

func testServer(svc *service.Service) *httptest.Server {
	srv := NewServer(options.NewHttpOptions(), svc, nil)
	return httptest.NewServer(srv.server.Handler)
}

func TestGetRecommendations(t *testing.T) {
	ts := testServer(refreshedService(t))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/recommendations")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var bundle model.RecommendationBundle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bundle))
	assert.Equal(t, "4.16.0", bundle.Snapshot.CurrentVersion)
	require.Len(t, bundle.Snapshot.Components, 1)
}

func TestGetPathByID(t *testing.T) {
	svc := refreshedService(t)
	ts := testServer(svc)
	defer ts.Close()

	require.NotEmpty(t, svc.Paths())
	id := svc.Paths()[0].ID

	resp, err := http.Get(ts.URL + "/api/v1/paths/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var path model.UpgradePath
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&path))
	assert.Equal(t, id, path.ID)
}

func TestGetPathUnknownID(t *testing.T) {
	ts := testServer(refreshedService(t))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/paths/no-such-path")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIUnavailableBeforeFirstRefresh(t *testing.T) {
	inv := &staticInventory{}
	svc := service.New(inv, defaultLifecycle{}, nil, nil, 1)
	ts := testServer(svc)
	defer ts.Close()

	for _, route := range []string{"/api/v1/recommendations", "/api/v1/components", "/api/v1/paths", "/api/v1/windows"} {
		resp, err := http.Get(ts.URL + route)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, route)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	ts := testServer(refreshedService(t))
	defer ts.Close()

	for _, route := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(ts.URL + route)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, route)
	}
}
