package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateItemRequest carries the data for creating a catalog item
type CreateItemRequest struct {
	SKU          string           `json:"sku" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	RegularPrice decimal.Decimal  `json:"regular_price" binding:"required"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
	CategoryIDs  []uuid.UUID      `json:"category_ids"`
	TagIDs       []uuid.UUID      `json:"tag_ids"`
	ParentID     *uuid.UUID       `json:"parent_id"`
	InStock      *bool            `json:"in_stock"`
}

// UpdateItemRequest carries the data for updating a catalog item
type UpdateItemRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	RegularPrice *decimal.Decimal `json:"regular_price"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
	CategoryIDs  []uuid.UUID      `json:"category_ids"`
	TagIDs       []uuid.UUID      `json:"tag_ids"`
	InStock      *bool            `json:"in_stock"`
	Active       *bool            `json:"active"`
}

// ItemResponse is the API representation of a catalog item
type ItemResponse struct {
	ID             uuid.UUID        `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	RegularPrice   decimal.Decimal  `json:"regular_price"`
	SalePrice      *decimal.Decimal `json:"sale_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	CategoryIDs    []string         `json:"category_ids"`
	TagIDs         []string         `json:"tag_ids"`
	ParentID       *uuid.UUID       `json:"parent_id,omitempty"`
	VariationIDs   []uuid.UUID      `json:"variation_ids,omitempty"`
	PublishedAt    time.Time        `json:"published_at"`
	TotalSales     int              `json:"total_sales"`
	InStock        bool             `json:"in_stock"`
	Status         string           `json:"status"`
}

// NewItemResponse maps a catalog item to its API representation
func NewItemResponse(item *catalog.Item) *ItemResponse {
	return &ItemResponse{
		ID:             item.ID,
		SKU:            item.SKU,
		Name:           item.Name,
		Description:    item.Description,
		RegularPrice:   item.RegularPrice,
		SalePrice:      item.SalePrice,
		EffectivePrice: item.EffectivePrice(),
		CategoryIDs:    item.CategoryIDs,
		TagIDs:         item.TagIDs,
		ParentID:       item.ParentID,
		PublishedAt:    item.PublishedAt,
		TotalSales:     item.TotalSales,
		InStock:        item.InStock,
		Status:         string(item.Status),
	}
}
