package authgate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data   map[string]string
	getErr error
	setErr error
	delErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.delErr != nil {
		return redis.NewIntResult(0, f.delErr)
	}
	var removed int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

type countingResolver struct {
	role  string
	err   error
	calls int
}

func (c *countingResolver) Resolve(_ context.Context, _ string) (string, error) {
	c.calls++
	return c.role, c.err
}

func (c *countingResolver) Invalidate(_ context.Context, _ string) error {
	return nil
}

func TestRedisResolverCacheHitSkipsInner(t *testing.T) {
	cache := newFakeCache()
	cache.data["role:u1"] = "designer"
	inner := &countingResolver{role: "client"}

	r := NewRedisRoleResolver(inner, cache, time.Minute)

	role, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "designer", role)
	assert.Zero(t, inner.calls)
}

func TestRedisResolverMissFillsCache(t *testing.T) {
	cache := newFakeCache()
	inner := &countingResolver{role: "client"}

	r := NewRedisRoleResolver(inner, cache, time.Minute)

	role, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "client", role)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "client", cache.data["role:u1"])

	// Second lookup is served from the cache.
	role, err = r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "client", role)
	assert.Equal(t, 1, inner.calls)
}

func TestRedisResolverFallsThroughOnCacheError(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	inner := &countingResolver{role: "project_manager"}

	r := NewRedisRoleResolver(inner, cache, time.Minute)

	role, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "project_manager", role)
	assert.Equal(t, 1, inner.calls)
}

func TestRedisResolverPropagatesInnerErrors(t *testing.T) {
	cache := newFakeCache()
	inner := &countingResolver{err: ErrProfileNotFound}

	r := NewRedisRoleResolver(inner, cache, time.Minute)

	_, err := r.Resolve(context.Background(), "u1")
	require.ErrorIs(t, err, ErrProfileNotFound)
	assert.Empty(t, cache.data)
}

func TestRedisResolverInvalidateDropsEntry(t *testing.T) {
	cache := newFakeCache()
	cache.data["role:u1"] = "client"
	inner := &countingResolver{role: "project_manager"}

	r := NewRedisRoleResolver(inner, cache, time.Minute)

	require.NoError(t, r.Invalidate(context.Background(), "u1"))
	assert.NotContains(t, cache.data, "role:u1")

	// A lookup after invalidation sees the fresh role.
	role, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "project_manager", role)
	assert.Equal(t, 1, inner.calls)
}

func TestRedisResolverInvalidateSurfacesCacheError(t *testing.T) {
	cache := newFakeCache()
	cache.delErr = errors.New("connection refused")

	r := NewRedisRoleResolver(&countingResolver{}, cache, time.Minute)

	require.Error(t, r.Invalidate(context.Background(), "u1"))
}
