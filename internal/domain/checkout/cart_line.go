package checkout

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/bundle"
	"github.com/storefront/backend/internal/domain/shared"
)

// BreakdownDocument stores a bundle price breakdown as a JSON column.
// The document is written once when the line is created and never
// recomputed, so the shopper keeps the price they saw.
type BreakdownDocument struct {
	bundle.PriceBreakdown
}

// Value implements driver.Valuer for database storage
func (d BreakdownDocument) Value() (driver.Value, error) {
	return json.Marshal(d.PriceBreakdown)
}

// Scan implements sql.Scanner for database retrieval
func (d *BreakdownDocument) Scan(value any) error {
	if value == nil {
		*d = BreakdownDocument{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BreakdownDocument", value)
	}
	return json.Unmarshal(data, &d.PriceBreakdown)
}

// CartLine is one configured bundle placed in a shopping cart. The
// line carries the selection, the frozen price breakdown and a total
// override equal to the breakdown total, which is what checkout
// charges instead of summing component prices.
type CartLine struct {
	shared.BaseAggregateRoot
	SessionID     string                `gorm:"type:varchar(128);not null;index"`
	BundleID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	BundleName    string                `gorm:"type:varchar(200);not null"`
	Selection     SelectionDocument     `gorm:"type:jsonb;not null"`
	Breakdown     BreakdownDocument     `gorm:"type:jsonb;not null"`
	TotalOverride decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Shipping      bundle.ShippingPolicy `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (CartLine) TableName() string {
	return "cart_lines"
}

// SelectionDocument stores the shopper's slot selection as JSON
type SelectionDocument struct {
	bundle.Selection
}

// Value implements driver.Valuer for database storage
func (d SelectionDocument) Value() (driver.Value, error) {
	return json.Marshal(d.Selection)
}

// Scan implements sql.Scanner for database retrieval
func (d *SelectionDocument) Scan(value any) error {
	if value == nil {
		*d = SelectionDocument{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SelectionDocument", value)
	}
	return json.Unmarshal(data, &d.Selection)
}

// NewCartLine freezes a validated, priced bundle selection into a cart
// line. The total override is taken from the breakdown's rounded total.
func NewCartLine(
	sessionID string,
	cfg *bundle.BundleConfiguration,
	sel bundle.Selection,
	breakdown *bundle.PriceBreakdown,
) (*CartLine, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Session id cannot be empty")
	}
	if breakdown == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Price breakdown is required")
	}

	return &CartLine{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		BundleID:          cfg.ID,
		BundleName:        cfg.Name,
		Selection:         SelectionDocument{Selection: sel},
		Breakdown:         BreakdownDocument{PriceBreakdown: *breakdown},
		TotalOverride:     breakdown.Total.Amount(),
		Shipping:          cfg.Shipping,
	}, nil
}

// Touch refreshes the update timestamp without repricing the line
func (l *CartLine) Touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
