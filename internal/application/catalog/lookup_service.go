package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// SnapshotCache caches the sellable item set between catalog reads.
// A miss is not an error; Get reports it through the second return.
type SnapshotCache interface {
	Get(ctx context.Context) ([]catalog.Item, bool, error)
	Set(ctx context.Context, items []catalog.Item) error
}

// LookupService produces catalog snapshots for rule resolution and
// pricing. Each call yields one consistent snapshot; the cache is a
// read-through accelerator and never a source of emptiness: when both
// the cache and the database fail the lookup reports
// CATALOG_UNAVAILABLE instead of returning an empty catalog.
type LookupService struct {
	itemRepo catalog.ItemRepository
	cache    SnapshotCache
	logger   *zap.Logger
}

// NewLookupService creates a new LookupService. The cache may be nil,
// in which case every snapshot reads from the repository.
func NewLookupService(itemRepo catalog.ItemRepository, cache SnapshotCache, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{
		itemRepo: itemRepo,
		cache:    cache,
		logger:   logger,
	}
}

// Snapshot returns a point-in-time view of the sellable catalog
func (s *LookupService) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("catalog snapshot cache read failed", zap.Error(err))
		} else if ok {
			return catalog.NewSnapshot(items), nil
		}
	}

	items, err := s.itemRepo.FindAllSellable(ctx)
	if err != nil {
		s.logger.Error("catalog read failed", zap.Error(err))
		return nil, shared.ErrCatalogUnavailable
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, items); err != nil {
			s.logger.Warn("catalog snapshot cache write failed", zap.Error(err))
		}
	}

	return catalog.NewSnapshot(items), nil
}
