package bundle

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// PriceLine is one selected item's contribution to a bundle price.
// ChargedUnits is the number of physical units actually billed, which
// can be lower than Quantity when the pricing mode absorbs units into
// a box price or an included allowance.
type PriceLine struct {
	SlotID              uuid.UUID          `json:"slot_id"`
	ItemID              uuid.UUID          `json:"item_id"`
	Name                string             `json:"name"`
	Quantity            int                `json:"quantity"`
	UnitPrice           valueobject.Money  `json:"unit_price"`
	DiscountedUnitPrice valueobject.Money  `json:"discounted_unit_price"`
	ChargedUnits        int                `json:"charged_units"`
	LineTotal           valueobject.Money  `json:"line_total"`
}

// PriceBreakdown is the full pricing result for a bundle selection
type PriceBreakdown struct {
	Mode       PricingMode          `json:"mode"`
	Currency   valueobject.Currency `json:"currency"`
	BoxPrice   valueobject.Money    `json:"box_price"`
	Lines      []PriceLine          `json:"lines"`
	ItemsTotal valueobject.Money    `json:"items_total"`
	Total      valueobject.Money    `json:"total"`
}

// PriceSelection computes the price of a validated selection against a
// catalog snapshot. Slot discounts apply to item unit prices only; the
// box price is never discounted. All arithmetic stays exact and the
// final total alone is rounded, half up, to two decimal places.
func PriceSelection(cfg *BundleConfiguration, sel Selection, snap *catalog.Snapshot) (*PriceBreakdown, error) {
	if err := validatePricing(cfg.Pricing); err != nil {
		return nil, err
	}

	lines, err := buildLines(cfg, sel, snap)
	if err != nil {
		return nil, err
	}

	switch cfg.Pricing.Mode {
	case PricingModeBoxFixedPrice:
		chargeNothing(lines)
	case PricingModeProductsOnly, PricingModeBoxPlusProducts:
		chargeEverything(lines)
	case PricingModeIncludedItemsWithExtras:
		chargeExtras(lines, cfg.Pricing.IncludedItemsCount, cfg.Pricing.ExtraItemCharging)
	}

	itemsTotal := decimal.Zero
	for _, line := range lines {
		itemsTotal = itemsTotal.Add(line.LineTotal.Amount())
	}

	boxPrice := decimal.Zero
	if cfg.Pricing.UsesBoxPrice() {
		boxPrice = cfg.Pricing.BoxPrice
	}

	total := boxPrice.Add(itemsTotal)

	return &PriceBreakdown{
		Mode:       cfg.Pricing.Mode,
		Currency:   valueobject.DefaultCurrency,
		BoxPrice:   valueobject.NewMoneyAED(boxPrice),
		Lines:      lines,
		ItemsTotal: valueobject.NewMoneyAED(itemsTotal),
		Total:      valueobject.NewMoneyAED(total).Round(2),
	}, nil
}

// buildLines materializes one price line per selected item, in slot
// order, with slot discounts already applied to unit prices.
func buildLines(cfg *BundleConfiguration, sel Selection, snap *catalog.Snapshot) ([]PriceLine, error) {
	selected := sel.bySlot()

	lines := make([]PriceLine, 0)
	for _, slot := range cfg.Slots {
		for _, pick := range selected[slot.ID] {
			if pick.Quantity < 1 {
				return nil, shared.NewDomainError(shared.ErrValidationViolation.Code,
					"selected quantity must be at least 1")
			}
			item, ok := snap.ItemByID(pick.ItemID)
			if !ok {
				return nil, shared.NewDomainError(shared.ErrValidationViolation.Code,
					"selected item is not present in the catalog snapshot")
			}

			unitPrice := valueobject.NewMoneyAED(item.EffectivePrice())
			lines = append(lines, PriceLine{
				SlotID:              slot.ID,
				ItemID:              item.ID,
				Name:                item.Name,
				Quantity:            pick.Quantity,
				UnitPrice:           unitPrice,
				DiscountedUnitPrice: discountedUnitPrice(slot, unitPrice),
			})
		}
	}
	return lines, nil
}

// discountedUnitPrice applies the slot's discount to a unit price.
// Percentage discounts compute p*(1-v/100), fixed discounts subtract
// v, and the result never goes below zero.
func discountedUnitPrice(slot Slot, price valueobject.Money) valueobject.Money {
	if !slot.HasDiscount() {
		return price
	}

	var discounted valueobject.Money
	switch *slot.DiscountType {
	case DiscountPercentage:
		discounted = price.ApplyDiscount(slot.DiscountValue)
	case DiscountFixed:
		discounted = price.MustAdd(valueobject.NewMoneyAED(slot.DiscountValue).Negate())
	default:
		return price
	}

	return discounted.FloorZero()
}

func chargeNothing(lines []PriceLine) {
	for i := range lines {
		lines[i].ChargedUnits = 0
		lines[i].LineTotal = valueobject.ZeroAED()
	}
}

func chargeEverything(lines []PriceLine) {
	for i := range lines {
		lines[i].ChargedUnits = lines[i].Quantity
		lines[i].LineTotal = lines[i].DiscountedUnitPrice.MultiplyByInt(int64(lines[i].Quantity))
	}
}

// chargeExtras flattens the selection into physical units, orders them
// by discounted unit price in the charging method's direction with ties
// broken by item id ascending, and bills only the units beyond the
// included allowance. cheapest_first therefore charges the cheapest
// extras, most_expensive_first the priciest ones.
func chargeExtras(lines []PriceLine, includedCount int, method ExtraItemCharging) {
	type unit struct {
		lineIdx int
		itemID  uuid.UUID
		price   decimal.Decimal
	}

	units := make([]unit, 0)
	for i := range lines {
		for q := 0; q < lines[i].Quantity; q++ {
			units = append(units, unit{
				lineIdx: i,
				itemID:  lines[i].ItemID,
				price:   lines[i].DiscountedUnitPrice.Amount(),
			})
		}
	}

	sort.SliceStable(units, func(i, j int) bool {
		if !units[i].price.Equal(units[j].price) {
			if method == ChargeMostExpensiveFirst {
				return units[i].price.GreaterThan(units[j].price)
			}
			return units[i].price.LessThan(units[j].price)
		}
		return bytes.Compare(units[i].itemID[:], units[j].itemID[:]) < 0
	})

	included := includedCount
	if included > len(units) {
		included = len(units)
	}
	extra := len(units) - included

	for i := range lines {
		lines[i].ChargedUnits = 0
		lines[i].LineTotal = valueobject.ZeroAED()
	}
	for _, u := range units[:extra] {
		lines[u.lineIdx].ChargedUnits++
		lines[u.lineIdx].LineTotal = lines[u.lineIdx].LineTotal.MustAdd(
			valueobject.NewMoneyAED(u.price))
	}
}
