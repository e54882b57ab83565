package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
)

// snapshotKey is the single Redis key holding the serialized sellable catalog
const snapshotKey = "catalog:snapshot"

// RedisSnapshotCache caches the sellable catalog in Redis so that slot
// resolution does not hit the database on every storefront request.
// A cache miss or Redis failure always falls back to the database.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSnapshotCache creates a Redis-backed snapshot cache
func NewRedisSnapshotCache(cfg RedisConfig, ttl time.Duration) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshotCache{client: client, ttl: ttl}, nil
}

// NewRedisSnapshotCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components
func NewRedisSnapshotCacheWithClient(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached sellable items. The second return value reports
// whether the cache held a value
func (c *RedisSnapshotCache) Get(ctx context.Context) ([]catalog.Item, bool, error) {
	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}

	var items []catalog.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		// A corrupt entry behaves like a miss so the caller refreshes it
		return nil, false, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}

	return items, true, nil
}

// Set stores the sellable items with the configured TTL
func (c *RedisSnapshotCache) Set(ctx context.Context, items []catalog.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store catalog snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot, forcing the next read to hit the
// database. Called after admin catalog mutations
func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

// Ensure RedisSnapshotCache implements the application port
var _ appcatalog.SnapshotCache = (*RedisSnapshotCache)(nil)
