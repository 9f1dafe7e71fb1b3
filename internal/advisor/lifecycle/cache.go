package lifecycle

import (
	"context"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
	"github.com/upgradepilot-io/upgradepilot/internal/pkg/metrics"
)

type cacheEntry struct {
	info      model.LifecycleInfo
	expiresAt time.Time
}

// CachingRepository fronts another repository with a per-key TTL cache.
// Errors are never cached, so a degraded backend is retried on the next
// lookup.
type CachingRepository struct {
	delegate core.LifecycleRepository
	ttl      time.Duration
	clock    clock.PassiveClock

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

var _ core.LifecycleRepository = (*CachingRepository)(nil)

// NewCachingRepository wraps delegate with a TTL cache. A nil clock
// defaults to the real one.
func NewCachingRepository(delegate core.LifecycleRepository, ttl time.Duration, c clock.PassiveClock) *CachingRepository {
	if c == nil {
		c = clock.RealClock{}
	}
	return &CachingRepository{
		delegate: delegate,
		ttl:      ttl,
		clock:    c,
		entries:  make(map[string]cacheEntry),
	}
}

func (r *CachingRepository) Lookup(ctx context.Context, component, version string) (model.LifecycleInfo, error) {
	key := component + "@" + version
	now := r.clock.Now()

	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()

	if ok && now.Before(entry.expiresAt) {
		metrics.LifecycleLookupTotal.WithLabelValues("cache").Inc()
		return entry.info, nil
	}

	info, err := r.delegate.Lookup(ctx, component, version)
	if err != nil {
		return info, err
	}

	r.mu.Lock()
	r.entries[key] = cacheEntry{info: info, expiresAt: now.Add(r.ttl)}
	r.mu.Unlock()

	return info, nil
}

// Purge drops all cached entries.
func (r *CachingRepository) Purge() {
	r.mu.Lock()
	r.entries = make(map[string]cacheEntry)
	r.mu.Unlock()
}
