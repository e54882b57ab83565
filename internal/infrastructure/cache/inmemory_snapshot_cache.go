package cache

import (
	"context"
	"sync"
	"time"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
)

// InMemorySnapshotCache caches the sellable catalog in process memory.
// Suitable for single-instance deployments and tests; distributed
// deployments should use RedisSnapshotCache so instances agree on the
// snapshot they serve.
type InMemorySnapshotCache struct {
	mu        sync.RWMutex
	items     []catalog.Item
	expiresAt time.Time
	ttl       time.Duration
}

// NewInMemorySnapshotCache creates an in-memory snapshot cache
func NewInMemorySnapshotCache(ttl time.Duration) *InMemorySnapshotCache {
	return &InMemorySnapshotCache{ttl: ttl}
}

// Get returns the cached sellable items if present and not expired
func (c *InMemorySnapshotCache) Get(ctx context.Context) ([]catalog.Item, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.items == nil || time.Now().After(c.expiresAt) {
		return nil, false, nil
	}

	// Copy so callers cannot mutate the cached slice
	items := make([]catalog.Item, len(c.items))
	copy(items, c.items)
	return items, true, nil
}

// Set stores the sellable items with the configured TTL
func (c *InMemorySnapshotCache) Set(ctx context.Context, items []catalog.Item) error {
	stored := make([]catalog.Item, len(items))
	copy(stored, items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = stored
	c.expiresAt = time.Now().Add(c.ttl)
	return nil
}

// Invalidate drops the cached snapshot
func (c *InMemorySnapshotCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.expiresAt = time.Time{}
	return nil
}

// Ensure InMemorySnapshotCache implements the application port
var _ appcatalog.SnapshotCache = (*InMemorySnapshotCache)(nil)
