// Package lifecycle implements the lifecycle metadata provider: a
// chained lookup over in-cluster overrides, a remote lifecycle service
// and conservative defaults, fronted by an injectable TTL cache.
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/internal/pkg/metrics"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

// entryDTO is the loosely-typed wire payload of the remote lifecycle
// service and of ConfigMap overrides. It is converted into the typed
// model at this boundary with explicit defaulting.
type entryDTO struct {
	Model string `json:"model,omitempty"`
	Phase string `json:"phase,omitempty"`

	FullSupportEnds string `json:"fullSupportEnds,omitempty"`
	MaintenanceEnds string `json:"maintenanceEnds,omitempty"`
	EndOfLife       string `json:"endOfLife,omitempty"`

	MinPlatformVersion string `json:"minPlatformVersion,omitempty"`
	MaxPlatformVersion string `json:"maxPlatformVersion,omitempty"`
}

// toModel validates the DTO and fills the conservative defaults for
// anything missing or unrecognized.
func (d *entryDTO) toModel(component, version string) model.LifecycleInfo {
	info := model.DefaultLifecycleInfo(component, version)

	switch model.LifecycleModel(d.Model) {
	case model.LifecycleModelPlatformAligned, model.LifecycleModelPlatformAgnostic, model.LifecycleModelRollingRelease:
		info.Model = model.LifecycleModel(d.Model)
	}
	switch model.SupportPhase(d.Phase) {
	case model.PhaseFullSupport, model.PhaseMaintenanceSupport, model.PhaseEndOfLife, model.PhaseDeprecated:
		info.Phase = model.SupportPhase(d.Phase)
	}

	info.FullSupportEnds = parseDate(d.FullSupportEnds)
	info.MaintenanceEnds = parseDate(d.MaintenanceEnds)
	info.EndOfLife = parseDate(d.EndOfLife)
	info.MinPlatformVersion = d.MinPlatformVersion
	info.MaxPlatformVersion = d.MaxPlatformVersion

	return info
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// remoteRepository looks lifecycle facts up from the remote lifecycle
// metadata service.
type remoteRepository struct {
	base   *url.URL
	client *http.Client
}

var _ core.LifecycleRepository = (*remoteRepository)(nil)

// NewRemoteRepository creates a repository backed by the remote
// lifecycle service at the given base URL.
func NewRemoteRepository(endpoint string, timeout time.Duration) (core.LifecycleRepository, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid lifecycle endpoint %q: %w", endpoint, err)
	}

	return &remoteRepository{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (r *remoteRepository) Lookup(ctx context.Context, component, version string) (model.LifecycleInfo, error) {
	u := r.base.JoinPath("api", "v1", "lifecycle", url.PathEscape(component), url.PathEscape(version))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.LifecycleInfo{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return model.LifecycleInfo{}, fmt.Errorf("lifecycle lookup for %s/%s failed: %w", component, version, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// The service does not know this version; that is a data gap,
		// not an error.
		metrics.LifecycleLookupTotal.WithLabelValues("default").Inc()
		return model.DefaultLifecycleInfo(component, version), nil
	default:
		return model.LifecycleInfo{}, fmt.Errorf("lifecycle service returned %s for %s/%s", resp.Status, component, version)
	}

	var dto entryDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return model.LifecycleInfo{}, fmt.Errorf("decoding lifecycle payload for %s/%s: %w", component, version, err)
	}

	metrics.LifecycleLookupTotal.WithLabelValues("remote").Inc()
	return dto.toModel(component, version), nil
}

// defaultRepository always answers with the conservative default.
type defaultRepository struct{}

var _ core.LifecycleRepository = (*defaultRepository)(nil)

// NewDefaultRepository creates the terminal fallback repository.
func NewDefaultRepository() core.LifecycleRepository {
	return &defaultRepository{}
}

func (defaultRepository) Lookup(_ context.Context, component, version string) (model.LifecycleInfo, error) {
	metrics.LifecycleLookupTotal.WithLabelValues("default").Inc()
	return model.DefaultLifecycleInfo(component, version), nil
}

// chainRepository tries each repository in order, falling through on
// error. The last element is expected to always succeed.
type chainRepository struct {
	chain []core.LifecycleRepository
}

var _ core.LifecycleRepository = (*chainRepository)(nil)

// NewChainRepository composes repositories in priority order.
func NewChainRepository(repos ...core.LifecycleRepository) core.LifecycleRepository {
	return &chainRepository{chain: repos}
}

func (c *chainRepository) Lookup(ctx context.Context, component, version string) (model.LifecycleInfo, error) {
	var lastErr error
	for _, repo := range c.chain {
		info, err := repo.Lookup(ctx, component, version)
		if err == nil {
			return info, nil
		}
		lastErr = err
		log.Debug("lifecycle lookup fell through", "component", component, "version", version, "error", err)
	}
	return model.DefaultLifecycleInfo(component, version), lastErr
}

// Build assembles the full provider from options: overrides (when
// configured), the remote service (when configured), defaults, and the
// TTL cache in front. The overrides repository may be nil.
func Build(opts *options.LifecycleOptions, overrides core.LifecycleRepository) (core.LifecycleRepository, error) {
	var chain []core.LifecycleRepository

	if overrides != nil {
		chain = append(chain, overrides)
	}

	if opts.Endpoint != "" {
		remote, err := NewRemoteRepository(opts.Endpoint, opts.Timeout)
		if err != nil {
			return nil, err
		}
		chain = append(chain, remote)
	}

	chain = append(chain, NewDefaultRepository())

	return NewCachingRepository(NewChainRepository(chain...), opts.CacheTTL, nil), nil
}
