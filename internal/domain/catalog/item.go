package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// ItemStatus represents the publication status of a catalog item
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// Item represents a purchasable product or product variation in the catalog.
// It is the aggregate root for catalog operations. Variations carry a
// ParentID pointing at the product they belong to.
type Item struct {
	shared.BaseAggregateRoot
	SKU          string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name         string           `gorm:"type:varchar(200);not null"`
	Description  string           `gorm:"type:text"`
	RegularPrice decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CategoryIDs  pq.StringArray   `gorm:"type:text[]"`
	TagIDs       pq.StringArray   `gorm:"type:text[]"`
	ParentID     *uuid.UUID       `gorm:"type:uuid;index"`
	PublishedAt  time.Time        `gorm:"not null"`
	TotalSales   int              `gorm:"not null;default:0"`
	InStock      bool             `gorm:"not null;default:true"`
	Status       ItemStatus       `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "catalog_items"
}

// NewItem creates a new top-level catalog item
func NewItem(sku, name string, regularPrice decimal.Decimal) (*Item, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if regularPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Regular price cannot be negative")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		RegularPrice:      regularPrice,
		PublishedAt:       time.Now(),
		InStock:           true,
		Status:            ItemStatusActive,
	}, nil
}

// NewVariation creates a catalog item that is a variation of a parent product
func NewVariation(parentID uuid.UUID, sku, name string, regularPrice decimal.Decimal) (*Item, error) {
	item, err := NewItem(sku, name, regularPrice)
	if err != nil {
		return nil, err
	}
	item.ParentID = &parentID
	return item, nil
}

// IsVariation reports whether the item is a variation of another product
func (i *Item) IsVariation() bool {
	return i.ParentID != nil
}

// EffectivePrice returns the sale price when one is set below the regular
// price, otherwise the regular price.
func (i *Item) EffectivePrice() decimal.Decimal {
	if i.SalePrice != nil && i.SalePrice.LessThan(i.RegularPrice) {
		return *i.SalePrice
	}
	return i.RegularPrice
}

// SetPricing updates the item's regular and optional sale price
func (i *Item) SetPricing(regularPrice decimal.Decimal, salePrice *decimal.Decimal) error {
	if regularPrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Regular price cannot be negative")
	}
	if salePrice != nil && salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Sale price cannot be negative")
	}

	i.RegularPrice = regularPrice
	i.SalePrice = salePrice
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// AssignCategories replaces the item's category assignments
func (i *Item) AssignCategories(categoryIDs []uuid.UUID) {
	i.CategoryIDs = uuidsToStrings(categoryIDs)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// AssignTags replaces the item's tag assignments
func (i *Item) AssignTags(tagIDs []uuid.UUID) {
	i.TagIDs = uuidsToStrings(tagIDs)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// InCategory reports whether the item is assigned to the given category
func (i *Item) InCategory(categoryID uuid.UUID) bool {
	return containsString(i.CategoryIDs, categoryID.String())
}

// HasTag reports whether the item carries the given tag
func (i *Item) HasTag(tagID uuid.UUID) bool {
	return containsString(i.TagIDs, tagID.String())
}

// Activate makes the item visible and purchasable
func (i *Item) Activate() {
	i.Status = ItemStatusActive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Deactivate hides the item from the storefront
func (i *Item) Deactivate() {
	i.Status = ItemStatusInactive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// SetStock updates the item's stock availability flag
func (i *Item) SetStock(inStock bool) {
	i.InStock = inStock
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// RecordSales adds to the item's lifetime sales counter used for
// popularity ordering
func (i *Item) RecordSales(units int) {
	if units <= 0 {
		return
	}
	i.TotalSales += units
	i.UpdatedAt = time.Now()
}

// IsActive reports whether the item is active
func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_INPUT", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_INPUT", "SKU cannot exceed 64 characters")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Name cannot exceed 200 characters")
	}
	return nil
}

func uuidsToStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
