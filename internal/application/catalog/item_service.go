package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// SnapshotInvalidator drops a cached catalog snapshot after admin mutations
// so storefront reads pick up the change on the next request
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ItemService handles catalog item management operations
type ItemService struct {
	itemRepo    catalog.ItemRepository
	invalidator SnapshotInvalidator
}

// NewItemService creates a new ItemService. The invalidator may be nil when
// no snapshot cache is configured
func NewItemService(itemRepo catalog.ItemRepository, invalidator SnapshotInvalidator) *ItemService {
	return &ItemService{itemRepo: itemRepo, invalidator: invalidator}
}

// invalidateSnapshot is best effort; a failed invalidation only delays
// freshness until the cache TTL expires
func (s *ItemService) invalidateSnapshot(ctx context.Context) {
	if s.invalidator != nil {
		_ = s.invalidator.Invalidate(ctx)
	}
}

// Create creates a new catalog item or variation
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	existing, err := s.itemRepo.FindBySKU(ctx, req.SKU)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Item with this SKU already exists")
	}

	var item *catalog.Item
	if req.ParentID != nil {
		parent, err := s.itemRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_INPUT", "Parent product not found")
			}
			return nil, err
		}
		item, err = catalog.NewVariation(parent.ID, req.SKU, req.Name, req.RegularPrice)
		if err != nil {
			return nil, err
		}
	} else {
		item, err = catalog.NewItem(req.SKU, req.Name, req.RegularPrice)
		if err != nil {
			return nil, err
		}
	}

	item.Description = req.Description
	if req.SalePrice != nil {
		if err := item.SetPricing(req.RegularPrice, req.SalePrice); err != nil {
			return nil, err
		}
	}
	if len(req.CategoryIDs) > 0 {
		item.AssignCategories(req.CategoryIDs)
	}
	if len(req.TagIDs) > 0 {
		item.AssignTags(req.TagIDs)
	}
	if req.InStock != nil {
		item.SetStock(*req.InStock)
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateSnapshot(ctx)
	return NewItemResponse(item), nil
}

// Update updates an existing catalog item
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.RegularPrice != nil || req.SalePrice != nil {
		regular := item.RegularPrice
		if req.RegularPrice != nil {
			regular = *req.RegularPrice
		}
		sale := item.SalePrice
		if req.SalePrice != nil {
			sale = req.SalePrice
		}
		if err := item.SetPricing(regular, sale); err != nil {
			return nil, err
		}
	}
	if req.CategoryIDs != nil {
		item.AssignCategories(req.CategoryIDs)
	}
	if req.TagIDs != nil {
		item.AssignTags(req.TagIDs)
	}
	if req.InStock != nil {
		item.SetStock(*req.InStock)
	}
	if req.Active != nil {
		if *req.Active {
			item.Activate()
		} else {
			item.Deactivate()
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateSnapshot(ctx)
	return NewItemResponse(item), nil
}

// Get returns a single catalog item
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewItemResponse(item), nil
}

// List returns catalog items matching the filter
func (s *ItemService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ItemResponse], error) {
	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *NewItemResponse(&items[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete removes a catalog item
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSnapshot(ctx)
	return nil
}
