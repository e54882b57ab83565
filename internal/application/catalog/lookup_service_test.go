package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAllSellable(ctx context.Context) ([]catalog.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSnapshotCache is a mock implementation of SnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context) ([]catalog.Item, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]catalog.Item), args.Bool(1), args.Error(2)
}

func (m *MockSnapshotCache) Set(ctx context.Context, items []catalog.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func sellableItems(t *testing.T) []catalog.Item {
	t.Helper()
	a, err := catalog.NewItem("OUD-50", "Royal Oud 50ml", decimal.NewFromInt(250))
	require.NoError(t, err)
	b, err := catalog.NewItem("MUSK-50", "White Musk 50ml", decimal.NewFromInt(180))
	require.NoError(t, err)
	return []catalog.Item{*a, *b}
}

func TestLookupServiceSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		repo := new(MockItemRepository)
		cache := new(MockSnapshotCache)
		items := sellableItems(t)
		cache.On("Get", ctx).Return(items, true, nil)

		svc := NewLookupService(repo, cache, nil)
		snap, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Len())
		repo.AssertNotCalled(t, "FindAllSellable", mock.Anything)
	})

	t.Run("cache miss reads the repository and backfills", func(t *testing.T) {
		repo := new(MockItemRepository)
		cache := new(MockSnapshotCache)
		items := sellableItems(t)
		cache.On("Get", ctx).Return(nil, false, nil)
		repo.On("FindAllSellable", ctx).Return(items, nil)
		cache.On("Set", ctx, items).Return(nil)

		svc := NewLookupService(repo, cache, nil)
		snap, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Len())
		cache.AssertCalled(t, "Set", ctx, items)
	})

	t.Run("cache failure falls through to the repository", func(t *testing.T) {
		repo := new(MockItemRepository)
		cache := new(MockSnapshotCache)
		items := sellableItems(t)
		cache.On("Get", ctx).Return(nil, false, errors.New("redis down"))
		repo.On("FindAllSellable", ctx).Return(items, nil)
		cache.On("Set", ctx, items).Return(errors.New("redis down"))

		svc := NewLookupService(repo, cache, nil)
		snap, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Len())
	})

	t.Run("repository failure reports catalog unavailable", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("FindAllSellable", ctx).Return(nil, errors.New("connection refused"))

		svc := NewLookupService(repo, nil, nil)
		_, err := svc.Snapshot(ctx)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCatalogUnavailable.Code, domainErr.Code)
	})

	t.Run("works without a cache", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("FindAllSellable", ctx).Return(sellableItems(t), nil)

		svc := NewLookupService(repo, nil, nil)
		snap, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Len())
	})
}
