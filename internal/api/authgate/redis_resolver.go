package authgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoleCache is the slice of the redis client the resolver needs.
// *redis.Client satisfies it.
type RoleCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRoleResolver wraps another resolver with a Redis cache so that
// role lookups do not hit the database on every authorized request.
// Entries expire after ttl; role changes and profile deletions must call
// Invalidate so stale roles never outlive an admin action.
type RedisRoleResolver struct {
	inner     RoleResolver
	client    RoleCache
	keyPrefix string
	ttl       time.Duration
}

func NewRedisRoleResolver(inner RoleResolver, client RoleCache, ttl time.Duration) *RedisRoleResolver {
	return &RedisRoleResolver{
		inner:     inner,
		client:    client,
		keyPrefix: "role:",
		ttl:       ttl,
	}
}

func (r *RedisRoleResolver) key(userID string) string {
	return r.keyPrefix + userID
}

func (r *RedisRoleResolver) Resolve(ctx context.Context, userID string) (string, error) {
	cached, err := r.client.Get(ctx, r.key(userID)).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		// Cache trouble should not take auth down; fall through to the
		// inner resolver.
		slog.WarnContext(ctx, "Role cache read failed", slog.Any("error", err))
	}

	role, err := r.inner.Resolve(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := r.client.Set(ctx, r.key(userID), role, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Role cache write failed", slog.Any("error", err))
	}

	return role, nil
}

func (r *RedisRoleResolver) Invalidate(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached role: %w", err)
	}
	return nil
}
