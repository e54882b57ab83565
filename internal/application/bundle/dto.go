package bundle

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/bundle"
	"github.com/storefront/backend/internal/domain/checkout"
)

// CreateBundleRequest carries the data for creating a bundle
// configuration. Slot and pricing details are validated by the domain.
type CreateBundleRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Type        bundle.BundleType     `json:"type" binding:"required"`
	ProductID   uuid.UUID             `json:"product_id" binding:"required"`
	Slots       []bundle.Slot         `json:"slots" binding:"required"`
	Pricing     bundle.PricingSpec    `json:"pricing" binding:"required"`
	Shipping    bundle.ShippingPolicy `json:"shipping" binding:"required"`
}

// UpdateBundleRequest replaces a bundle configuration wholesale.
// Concurrent updates race at the record level and the last write wins.
type UpdateBundleRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Type        bundle.BundleType     `json:"type" binding:"required"`
	Slots       []bundle.Slot         `json:"slots" binding:"required"`
	Pricing     bundle.PricingSpec    `json:"pricing" binding:"required"`
	Shipping    bundle.ShippingPolicy `json:"shipping" binding:"required"`
}

// SelectionRequest is the shopper's slot selection as submitted by the
// storefront client
type SelectionRequest struct {
	Slots []SlotSelectionRequest `json:"slots" binding:"required"`
}

// SlotSelectionRequest is the selection for one slot
type SlotSelectionRequest struct {
	SlotID uuid.UUID             `json:"slot_id" binding:"required"`
	Items  []SelectedItemRequest `json:"items"`
}

// SelectedItemRequest is one chosen item with its unit count
type SelectedItemRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required"`
}

// toDomain converts the request into the domain selection type
func (r SelectionRequest) toDomain() bundle.Selection {
	sel := bundle.Selection{Slots: make([]bundle.SlotSelection, 0, len(r.Slots))}
	for _, slot := range r.Slots {
		items := make([]bundle.SelectedItem, 0, len(slot.Items))
		for _, item := range slot.Items {
			items = append(items, bundle.SelectedItem{ItemID: item.ItemID, Quantity: item.Quantity})
		}
		sel.Slots = append(sel.Slots, bundle.SlotSelection{SlotID: slot.SlotID, Items: items})
	}
	return sel
}

// AddToCartRequest adds a priced selection to a cart session. The
// session may come from the body or the X-Session-ID header; the
// transport layer enforces that one of the two is present.
type AddToCartRequest struct {
	SessionID string           `json:"session_id"`
	Selection SelectionRequest `json:"selection" binding:"required"`
}

// SlotView is the storefront representation of a resolved slot. Items
// are listed in the slot's configured order, and RuleResolutionEmpty
// flags a slot whose rule matched nothing in the current catalog.
type SlotView struct {
	ID                  uuid.UUID                 `json:"id"`
	Title               string                    `json:"title"`
	MinQuantity         int                       `json:"min_quantity"`
	MaxQuantity         int                       `json:"max_quantity"`
	IsOptional          bool                      `json:"is_optional"`
	ShowPrice           bool                      `json:"show_price"`
	DefaultItemID       *uuid.UUID                `json:"default_item_id,omitempty"`
	DiscountType        *bundle.DiscountType      `json:"discount_type,omitempty"`
	DiscountValue       decimal.Decimal           `json:"discount_value"`
	Items               []appcatalog.ItemResponse `json:"items"`
	RuleResolutionEmpty bool                      `json:"rule_resolution_empty"`
}

// BundleView is the full storefront representation of a bundle.
// ResolvedAt is the timestamp of the catalog snapshot the slot lists
// were resolved against.
type BundleView struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Type        bundle.BundleType     `json:"type"`
	ProductID   uuid.UUID             `json:"product_id"`
	Pricing     bundle.PricingSpec    `json:"pricing"`
	Shipping    bundle.ShippingPolicy `json:"shipping"`
	Enabled     bool                  `json:"enabled"`
	Slots       []SlotView            `json:"slots"`
	ResolvedAt  time.Time             `json:"resolved_at"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ShippingPolicyResponse reports how shipping applies to a bundle
type ShippingPolicyResponse struct {
	BundleID uuid.UUID             `json:"bundle_id"`
	Policy   bundle.ShippingPolicy `json:"policy"`
}

// CartLineResponse is the API representation of a cart line
type CartLineResponse struct {
	ID            uuid.UUID             `json:"id"`
	SessionID     string                `json:"session_id"`
	BundleID      uuid.UUID             `json:"bundle_id"`
	BundleName    string                `json:"bundle_name"`
	TotalOverride decimal.Decimal       `json:"total_override"`
	Shipping      bundle.ShippingPolicy `json:"shipping"`
	Breakdown     bundle.PriceBreakdown `json:"breakdown"`
	CreatedAt     time.Time             `json:"created_at"`
}

// NewCartLineResponse maps a cart line to its API representation
func NewCartLineResponse(line *checkout.CartLine) *CartLineResponse {
	return &CartLineResponse{
		ID:            line.ID,
		SessionID:     line.SessionID,
		BundleID:      line.BundleID,
		BundleName:    line.BundleName,
		TotalOverride: line.TotalOverride,
		Shipping:      line.Shipping,
		Breakdown:     line.Breakdown.PriceBreakdown,
		CreatedAt:     line.CreatedAt,
	}
}
