package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/model"
)

type countingRepository struct {
	calls int
	info  model.LifecycleInfo
	err   error
}

func (c *countingRepository) Lookup(_ context.Context, component, version string) (model.LifecycleInfo, error) {
	c.calls++
	if c.err != nil {
		return model.LifecycleInfo{}, c.err
	}
	return c.info, nil
}

func TestCachingRepositoryServesWithinTTL(t *testing.T) {
	clk := clocktesting.NewFakePassiveClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	backend := &countingRepository{info: model.DefaultLifecycleInfo("etcd-operator", "3.5.9")}
	repo := NewCachingRepository(backend, 30*time.Minute, clk)

	first, err := repo.Lookup(context.Background(), "etcd-operator", "3.5.9")
	require.NoError(t, err)

	clk.SetTime(clk.Now().Add(29 * time.Minute))
	second, err := repo.Lookup(context.Background(), "etcd-operator", "3.5.9")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.calls, "second lookup within the TTL must hit the cache")
}

func TestCachingRepositoryExpires(t *testing.T) {
	clk := clocktesting.NewFakePassiveClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	backend := &countingRepository{info: model.DefaultLifecycleInfo("etcd-operator", "3.5.9")}
	repo := NewCachingRepository(backend, 30*time.Minute, clk)

	_, err := repo.Lookup(context.Background(), "etcd-operator", "3.5.9")
	require.NoError(t, err)

	clk.SetTime(clk.Now().Add(31 * time.Minute))
	_, err = repo.Lookup(context.Background(), "etcd-operator", "3.5.9")
	require.NoError(t, err)

	assert.Equal(t, 2, backend.calls)
}

func TestCachingRepositoryKeysPerVersion(t *testing.T) {
	clk := clocktesting.NewFakePassiveClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	backend := &countingRepository{info: model.DefaultLifecycleInfo("etcd-operator", "3.5.9")}
	repo := NewCachingRepository(backend, 30*time.Minute, clk)

	_, err := repo.Lookup(context.Background(), "etcd-operator", "3.5.9")
	require.NoError(t, err)
	_, err = repo.Lookup(context.Background(), "etcd-operator", "3.5.10")
	require.NoError(t, err)

	assert.Equal(t, 2, backend.calls, "distinct versions must not share an entry")
}

func TestCachingRepositoryDoesNotCacheErrors(t *testing.T) {
	clk := clocktesting.NewFakePassiveClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	backend := &countingRepository{err: errors.New("backend down")}
	repo := NewCachingRepository(backend, 30*time.Minute, clk)

	_, err := repo.Lookup(context.Background(), "etcd-operator", "3.5.9")
	require.Error(t, err)

	backend.err = nil
	backend.info = model.DefaultLifecycleInfo("etcd-operator", "3.5.9")
	_, err = repo.Lookup(context.Background(), "etcd-operator", "3.5.9")
	require.NoError(t, err)

	assert.Equal(t, 2, backend.calls)
}

func TestCachingRepositoryPurge(t *testing.T) {
	clk := clocktesting.NewFakePassiveClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	backend := &countingRepository{info: model.DefaultLifecycleInfo("etcd-operator", "3.5.9")}
	repo := NewCachingRepository(backend, 30*time.Minute, clk)

	_, _ = repo.Lookup(context.Background(), "etcd-operator", "3.5.9")
	repo.Purge()
	_, _ = repo.Lookup(context.Background(), "etcd-operator", "3.5.9")

	assert.Equal(t, 2, backend.calls)
}
