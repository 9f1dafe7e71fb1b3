package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

// apiClient is a thin JSON client for the advisor API.
type apiClient struct {
	server string
	http   *http.Client
}

func newAPIClient(server string) *apiClient {
	return &apiClient{
		server: server,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) get(path string, out interface{}) error {
	resp, err := c.http.Get(c.server + path)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("the advisor has no recommendation bundle yet; try again shortly")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("advisor returned %s for %s: %s", resp.Status, path, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) recommendations() (*model.RecommendationBundle, error) {
	var bundle model.RecommendationBundle
	if err := c.get("/api/v1/recommendations", &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (c *apiClient) components() ([]model.ComponentStatus, error) {
	var components []model.ComponentStatus
	if err := c.get("/api/v1/components", &components); err != nil {
		return nil, err
	}
	return components, nil
}

func (c *apiClient) paths() ([]model.UpgradePath, error) {
	var paths []model.UpgradePath
	if err := c.get("/api/v1/paths", &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func (c *apiClient) windows() ([]model.MaintenanceWindow, error) {
	var windows []model.MaintenanceWindow
	if err := c.get("/api/v1/windows", &windows); err != nil {
		return nil, err
	}
	return windows, nil
}
