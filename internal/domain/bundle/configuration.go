package bundle

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// BundleType categorizes a bundle for merchandising purposes
type BundleType string

const (
	BundleTypeBirthday      BundleType = "birthday"
	BundleTypeSpecialEvents BundleType = "special_events"
	BundleTypeGiftSets      BundleType = "gift_sets"
	BundleTypeSeasonal      BundleType = "seasonal"
	BundleTypeCorporate     BundleType = "corporate"
	BundleTypeWedding       BundleType = "wedding"
	BundleTypeCustom        BundleType = "custom"
)

// PricingMode selects how a bundle's total price is computed.
// The set of modes is closed: every mode carries its own required
// parameters and anything outside the set is rejected at validation.
type PricingMode string

const (
	PricingModeBoxFixedPrice          PricingMode = "box_fixed_price"
	PricingModeProductsOnly           PricingMode = "products_only"
	PricingModeBoxPlusProducts        PricingMode = "box_plus_products"
	PricingModeIncludedItemsWithExtras PricingMode = "included_items_with_extras"
)

// ExtraItemCharging selects which physical units are charged once the
// included allowance of an included_items_with_extras bundle is used up
type ExtraItemCharging string

const (
	ChargeCheapestFirst      ExtraItemCharging = "cheapest_first"
	ChargeMostExpensiveFirst ExtraItemCharging = "most_expensive_first"
)

// ShippingPolicy describes how shipping fees apply to a bundle
type ShippingPolicy string

const (
	ShippingPerItem       ShippingPolicy = "per_item"
	ShippingOncePerBundle ShippingPolicy = "once_per_bundle"
	ShippingFree          ShippingPolicy = "free"
	ShippingDeferred      ShippingPolicy = "deferred"
)

// SortKey orders the items a slot resolves to
type SortKey string

const (
	SortByPrice      SortKey = "price"
	SortByName       SortKey = "name"
	SortByDate       SortKey = "date"
	SortByPopularity SortKey = "popularity"
)

// SortOrder is the direction of a slot's item ordering
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DiscountType selects how a slot's discount value is interpreted
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// EligibilityRule decides which catalog items a slot offers. Inclusion
// axes are unioned; when every inclusion axis is empty the whole
// catalog snapshot is eligible. Exclusion axes are subtracted last and
// always win over inclusions.
type EligibilityRule struct {
	IncludeCategoryIDs  []uuid.UUID `json:"include_category_ids,omitempty"`
	IncludeTagIDs       []uuid.UUID `json:"include_tag_ids,omitempty"`
	IncludeProductIDs   []uuid.UUID `json:"include_product_ids,omitempty"`
	IncludeVariationsOf []uuid.UUID `json:"include_variations_of,omitempty"`
	ExcludeCategoryIDs  []uuid.UUID `json:"exclude_category_ids,omitempty"`
	ExcludeTagIDs       []uuid.UUID `json:"exclude_tag_ids,omitempty"`
	ExcludeProductIDs   []uuid.UUID `json:"exclude_product_ids,omitempty"`
	ExcludeVariationsOf []uuid.UUID `json:"exclude_variations_of,omitempty"`
}

// IsOpen reports whether the rule has no inclusion constraints, in
// which case every snapshot item is eligible before exclusions.
func (r EligibilityRule) IsOpen() bool {
	return len(r.IncludeCategoryIDs) == 0 &&
		len(r.IncludeTagIDs) == 0 &&
		len(r.IncludeProductIDs) == 0 &&
		len(r.IncludeVariationsOf) == 0
}

// Slot is one selectable position in a bundle. Shoppers fill a slot
// with items drawn from the set its eligibility rule resolves to.
type Slot struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Rule          EligibilityRule `json:"rule"`
	SortBy        SortKey         `json:"sort_by"`
	SortOrder     SortOrder       `json:"sort_order"`
	MinQuantity   int             `json:"min_quantity"`
	MaxQuantity   int             `json:"max_quantity"`
	IsOptional    bool            `json:"is_optional"`
	DefaultItemID *uuid.UUID      `json:"default_item_id,omitempty"`
	DiscountType  *DiscountType   `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	ShowPrice     bool            `json:"show_price"`
}

// HasDiscount reports whether the slot carries a discount
func (s Slot) HasDiscount() bool {
	return s.DiscountType != nil && s.DiscountValue.IsPositive()
}

// SlotList is a JSON-serialized slice of slots stored in a single column
type SlotList []Slot

// Value implements driver.Valuer for database storage
func (l SlotList) Value() (driver.Value, error) {
	if l == nil {
		l = SlotList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *SlotList) Scan(value any) error {
	if value == nil {
		*l = SlotList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SlotList", value)
	}
	return json.Unmarshal(data, l)
}

// PricingSpec carries a bundle's pricing mode and the parameters the
// mode needs. Parameters that do not belong to the mode must be zero.
type PricingSpec struct {
	Mode               PricingMode       `json:"mode" gorm:"column:pricing_mode;type:varchar(40);not null"`
	BoxPrice           decimal.Decimal   `json:"box_price" gorm:"column:box_price;type:decimal(18,4);not null;default:0"`
	IncludedItemsCount int               `json:"included_items_count" gorm:"column:included_items_count;not null;default:0"`
	ExtraItemCharging  ExtraItemCharging `json:"extra_item_charging,omitempty" gorm:"column:extra_item_charging;type:varchar(30)"`
	ShowItemPrices     bool              `json:"show_item_prices" gorm:"column:show_item_prices;not null;default:true"`
}

// UsesBoxPrice reports whether the mode adds a base box price
func (p PricingSpec) UsesBoxPrice() bool {
	switch p.Mode {
	case PricingModeBoxFixedPrice, PricingModeBoxPlusProducts, PricingModeIncludedItemsWithExtras:
		return true
	}
	return false
}

// BundleConfiguration is the aggregate root describing a configurable
// bundle: the storefront product it is attached to, its slots, its
// pricing mode and its shipping policy.
type BundleConfiguration struct {
	shared.BaseAggregateRoot
	Name        string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	Type        BundleType     `gorm:"type:varchar(30);not null"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Slots       SlotList       `gorm:"type:jsonb;not null"`
	Pricing     PricingSpec    `gorm:"embedded"`
	Shipping    ShippingPolicy `gorm:"type:varchar(30);not null;default:'per_item'"`
	Enabled     bool           `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (BundleConfiguration) TableName() string {
	return "bundle_configurations"
}

// NewBundleConfiguration creates a bundle configuration and validates
// its invariants. New bundles start disabled.
func NewBundleConfiguration(
	name string,
	bundleType BundleType,
	productID uuid.UUID,
	slots []Slot,
	pricing PricingSpec,
	shipping ShippingPolicy,
) (*BundleConfiguration, error) {
	cfg := &BundleConfiguration{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              bundleType,
		ProductID:         productID,
		Slots:             slots,
		Pricing:           pricing,
		Shipping:          shipping,
		Enabled:           false,
	}
	for i := range cfg.Slots {
		if cfg.Slots[i].ID == uuid.Nil {
			cfg.Slots[i].ID = uuid.New()
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every structural invariant of the configuration.
// Any failure is reported as CONFIGURATION_INVALID.
func (c *BundleConfiguration) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalidConfig("bundle name cannot be empty")
	}
	if !validBundleType(c.Type) {
		return invalidConfig(fmt.Sprintf("unknown bundle type %q", c.Type))
	}
	if c.ProductID == uuid.Nil {
		return invalidConfig("bundle must be attached to a storefront product")
	}
	if len(c.Slots) == 0 {
		return invalidConfig("bundle must define at least one slot")
	}
	if !validShippingPolicy(c.Shipping) {
		return invalidConfig(fmt.Sprintf("unknown shipping policy %q", c.Shipping))
	}

	seen := make(map[uuid.UUID]bool, len(c.Slots))
	for i, slot := range c.Slots {
		if err := validateSlot(i, slot); err != nil {
			return err
		}
		if seen[slot.ID] {
			return invalidConfig(fmt.Sprintf("slot %q appears more than once", slot.ID))
		}
		seen[slot.ID] = true
	}

	return validatePricing(c.Pricing)
}

// ReplaceSlots swaps the slot definitions for a new set
func (c *BundleConfiguration) ReplaceSlots(slots []Slot) error {
	for i := range slots {
		if slots[i].ID == uuid.Nil {
			slots[i].ID = uuid.New()
		}
	}
	old := c.Slots
	c.Slots = slots
	if err := c.Validate(); err != nil {
		c.Slots = old
		return err
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// UpdateDetails changes the bundle's descriptive fields
func (c *BundleConfiguration) UpdateDetails(name, description string, bundleType BundleType) error {
	if strings.TrimSpace(name) == "" {
		return invalidConfig("bundle name cannot be empty")
	}
	if !validBundleType(bundleType) {
		return invalidConfig(fmt.Sprintf("unknown bundle type %q", bundleType))
	}
	c.Name = name
	c.Description = description
	c.Type = bundleType
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// UpdatePricing replaces the pricing specification
func (c *BundleConfiguration) UpdatePricing(pricing PricingSpec) error {
	if err := validatePricing(pricing); err != nil {
		return err
	}
	c.Pricing = pricing
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// UpdateShipping replaces the shipping policy
func (c *BundleConfiguration) UpdateShipping(policy ShippingPolicy) error {
	if !validShippingPolicy(policy) {
		return invalidConfig(fmt.Sprintf("unknown shipping policy %q", policy))
	}
	c.Shipping = policy
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Enable makes the bundle visible on the storefront
func (c *BundleConfiguration) Enable() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.Enabled = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Disable hides the bundle from the storefront
func (c *BundleConfiguration) Disable() {
	c.Enabled = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SlotByID returns the slot with the given id
func (c *BundleConfiguration) SlotByID(id uuid.UUID) (*Slot, bool) {
	for i := range c.Slots {
		if c.Slots[i].ID == id {
			return &c.Slots[i], true
		}
	}
	return nil, false
}

func validateSlot(index int, slot Slot) error {
	if strings.TrimSpace(slot.Title) == "" {
		return invalidConfig(fmt.Sprintf("slot %d: title cannot be empty", index))
	}
	if slot.MinQuantity < 0 {
		return invalidConfig(fmt.Sprintf("slot %d: min quantity cannot be negative", index))
	}
	if slot.MaxQuantity < 1 {
		return invalidConfig(fmt.Sprintf("slot %d: max quantity must be at least 1", index))
	}
	if slot.MinQuantity > slot.MaxQuantity {
		return invalidConfig(fmt.Sprintf("slot %d: min quantity exceeds max quantity", index))
	}
	if !validSortKey(slot.SortBy) {
		return invalidConfig(fmt.Sprintf("slot %d: unknown sort key %q", index, slot.SortBy))
	}
	if !validSortOrder(slot.SortOrder) {
		return invalidConfig(fmt.Sprintf("slot %d: unknown sort order %q", index, slot.SortOrder))
	}
	if slot.DiscountType != nil {
		switch *slot.DiscountType {
		case DiscountPercentage:
			if slot.DiscountValue.IsNegative() || slot.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
				return invalidConfig(fmt.Sprintf("slot %d: percentage discount must be between 0 and 100", index))
			}
		case DiscountFixed:
			if slot.DiscountValue.IsNegative() {
				return invalidConfig(fmt.Sprintf("slot %d: fixed discount cannot be negative", index))
			}
		default:
			return invalidConfig(fmt.Sprintf("slot %d: unknown discount type %q", index, *slot.DiscountType))
		}
	}
	return nil
}

func validatePricing(p PricingSpec) error {
	switch p.Mode {
	case PricingModeBoxFixedPrice, PricingModeBoxPlusProducts:
		if p.BoxPrice.IsNegative() {
			return invalidConfig("box price cannot be negative")
		}
	case PricingModeProductsOnly:
		// no parameters
	case PricingModeIncludedItemsWithExtras:
		if p.BoxPrice.IsNegative() {
			return invalidConfig("box price cannot be negative")
		}
		if p.IncludedItemsCount < 0 {
			return invalidConfig("included items count cannot be negative")
		}
		switch p.ExtraItemCharging {
		case ChargeCheapestFirst, ChargeMostExpensiveFirst:
		default:
			return invalidConfig(fmt.Sprintf("unknown extra item charging method %q", p.ExtraItemCharging))
		}
	default:
		return invalidConfig(fmt.Sprintf("unknown pricing mode %q", p.Mode))
	}
	return nil
}

func validBundleType(t BundleType) bool {
	switch t {
	case BundleTypeBirthday, BundleTypeSpecialEvents, BundleTypeGiftSets,
		BundleTypeSeasonal, BundleTypeCorporate, BundleTypeWedding, BundleTypeCustom:
		return true
	}
	return false
}

func validShippingPolicy(p ShippingPolicy) bool {
	switch p {
	case ShippingPerItem, ShippingOncePerBundle, ShippingFree, ShippingDeferred:
		return true
	}
	return false
}

func validSortKey(k SortKey) bool {
	switch k {
	case SortByPrice, SortByName, SortByDate, SortByPopularity:
		return true
	}
	return false
}

func validSortOrder(o SortOrder) bool {
	switch o {
	case SortAsc, SortDesc:
		return true
	}
	return false
}

func invalidConfig(message string) *shared.DomainError {
	return shared.NewDomainError(shared.ErrConfigurationInvalid.Code, message)
}
