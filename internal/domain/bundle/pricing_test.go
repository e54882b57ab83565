package bundle

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
)

func pricingCfg(t *testing.T, slots []Slot, pricing PricingSpec) *BundleConfiguration {
	t.Helper()
	cfg, err := NewBundleConfiguration("Gift Box", BundleTypeGiftSets, uuid.New(), slots, pricing, ShippingFree)
	require.NoError(t, err)
	return cfg
}

func assertTotal(t *testing.T, breakdown *PriceBreakdown, want string) {
	t.Helper()
	assert.Equal(t, want, breakdown.Total.StringFixed(2))
}

func TestPriceSelectionBoxFixedPrice(t *testing.T) {
	a := testItem(t, "Amber", 100)
	b := testItem(t, "Musk", 200)
	snap := catalog.NewSnapshot([]catalog.Item{*a, *b})

	slot := testSlot(EligibilityRule{})
	cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
		Mode:     PricingModeBoxFixedPrice,
		BoxPrice: decimal.NewFromInt(150),
	})

	sel := selectionFor(slot.ID,
		SelectedItem{ItemID: a.ID, Quantity: 1},
		SelectedItem{ItemID: b.ID, Quantity: 2},
	)

	breakdown, err := PriceSelection(cfg, sel, snap)
	require.NoError(t, err)

	assertTotal(t, breakdown, "150.00")
	for _, line := range breakdown.Lines {
		assert.Zero(t, line.ChargedUnits)
		assert.True(t, line.LineTotal.IsZero())
	}
	assert.True(t, breakdown.ItemsTotal.IsZero())
}

func TestPriceSelectionProductsOnly(t *testing.T) {
	a := testItem(t, "Amber", 100)
	b := testItem(t, "Musk", 40)
	snap := catalog.NewSnapshot([]catalog.Item{*a, *b})

	slot := testSlot(EligibilityRule{})
	cfg := pricingCfg(t, []Slot{slot}, PricingSpec{Mode: PricingModeProductsOnly})

	sel := selectionFor(slot.ID,
		SelectedItem{ItemID: a.ID, Quantity: 2},
		SelectedItem{ItemID: b.ID, Quantity: 1},
	)

	breakdown, err := PriceSelection(cfg, sel, snap)
	require.NoError(t, err)

	assertTotal(t, breakdown, "240.00")
	assert.True(t, breakdown.BoxPrice.IsZero())
}

func TestPriceSelectionBoxPlusProducts(t *testing.T) {
	// Box of 50, one slot with 10% off a 100-priced item, optional
	// second slot left empty: 50 + 90 = 140.
	item := testItem(t, "Amber", 100)
	snap := catalog.NewSnapshot([]catalog.Item{*item})

	discounted := testSlot(EligibilityRule{})
	pct := DiscountPercentage
	discounted.DiscountType = &pct
	discounted.DiscountValue = decimal.NewFromInt(10)

	optional := testSlot(EligibilityRule{})
	optional.IsOptional = true

	cfg := pricingCfg(t, []Slot{discounted, optional}, PricingSpec{
		Mode:     PricingModeBoxPlusProducts,
		BoxPrice: decimal.NewFromInt(50),
	})

	sel := selectionFor(discounted.ID, SelectedItem{ItemID: item.ID, Quantity: 1})

	breakdown, err := PriceSelection(cfg, sel, snap)
	require.NoError(t, err)

	assertTotal(t, breakdown, "140.00")
	assert.Equal(t, "50.00", breakdown.BoxPrice.StringFixed(2))
	require.Len(t, breakdown.Lines, 1)
	assert.Equal(t, "100.00", breakdown.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "90.00", breakdown.Lines[0].DiscountedUnitPrice.StringFixed(2))
}

func TestPriceSelectionIncludedItemsWithExtras(t *testing.T) {
	p10 := testItem(t, "Citrus", 10)
	p20 := testItem(t, "Rose", 20)
	p30 := testItem(t, "Amber", 30)
	p40 := testItem(t, "Oud", 40)
	snap := catalog.NewSnapshot([]catalog.Item{*p10, *p20, *p30, *p40})

	slot := testSlot(EligibilityRule{})
	slot.MaxQuantity = 10

	sel := selectionFor(slot.ID,
		SelectedItem{ItemID: p10.ID, Quantity: 1},
		SelectedItem{ItemID: p20.ID, Quantity: 1},
		SelectedItem{ItemID: p30.ID, Quantity: 1},
		SelectedItem{ItemID: p40.ID, Quantity: 1},
	)

	t.Run("cheapest first charges the cheapest extras", func(t *testing.T) {
		// Units 10,20,30,40 with 2 included: the 2 extras beyond the
		// allowance are the cheapest units, 10 and 20.
		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
			Mode:               PricingModeIncludedItemsWithExtras,
			BoxPrice:           decimal.NewFromInt(100),
			IncludedItemsCount: 2,
			ExtraItemCharging:  ChargeCheapestFirst,
		})

		breakdown, err := PriceSelection(cfg, sel, snap)
		require.NoError(t, err)

		assertTotal(t, breakdown, "130.00")
		assert.Equal(t, "30.00", breakdown.ItemsTotal.StringFixed(2))
	})

	t.Run("most expensive first charges the priciest extras", func(t *testing.T) {
		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
			Mode:               PricingModeIncludedItemsWithExtras,
			BoxPrice:           decimal.NewFromInt(100),
			IncludedItemsCount: 2,
			ExtraItemCharging:  ChargeMostExpensiveFirst,
		})

		breakdown, err := PriceSelection(cfg, sel, snap)
		require.NoError(t, err)

		assertTotal(t, breakdown, "170.00")
		assert.Equal(t, "70.00", breakdown.ItemsTotal.StringFixed(2))
	})

	t.Run("selection within the allowance charges nothing", func(t *testing.T) {
		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
			Mode:               PricingModeIncludedItemsWithExtras,
			BoxPrice:           decimal.NewFromInt(100),
			IncludedItemsCount: 6,
			ExtraItemCharging:  ChargeCheapestFirst,
		})

		breakdown, err := PriceSelection(cfg, sel, snap)
		require.NoError(t, err)

		assertTotal(t, breakdown, "100.00")
		assert.True(t, breakdown.ItemsTotal.IsZero())
	})

	t.Run("zero allowance charges every unit", func(t *testing.T) {
		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
			Mode:               PricingModeIncludedItemsWithExtras,
			BoxPrice:           decimal.NewFromInt(100),
			IncludedItemsCount: 0,
			ExtraItemCharging:  ChargeCheapestFirst,
		})

		single := selectionFor(slot.ID, SelectedItem{ItemID: p10.ID, Quantity: 1})
		breakdown, err := PriceSelection(cfg, single, snap)
		require.NoError(t, err)

		assertTotal(t, breakdown, "110.00")
		require.Len(t, breakdown.Lines, 1)
		assert.Equal(t, 1, breakdown.Lines[0].ChargedUnits)
	})

	t.Run("price ties attribute charges to the lower item id", func(t *testing.T) {
		x := testItem(t, "Vanilla", 10)
		y := testItem(t, "Tonka", 10)
		tied := catalog.NewSnapshot([]catalog.Item{*x, *y})

		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
			Mode:               PricingModeIncludedItemsWithExtras,
			BoxPrice:           decimal.NewFromInt(100),
			IncludedItemsCount: 1,
			ExtraItemCharging:  ChargeCheapestFirst,
		})

		sel := selectionFor(slot.ID,
			SelectedItem{ItemID: x.ID, Quantity: 1},
			SelectedItem{ItemID: y.ID, Quantity: 1},
		)
		breakdown, err := PriceSelection(cfg, sel, tied)
		require.NoError(t, err)
		require.Len(t, breakdown.Lines, 2)

		// One of the two equal-priced units is absorbed. Ties order by
		// item id ascending and the charged group is taken from the
		// front, so the lower id is billed.
		charged, free := 0, 1
		if bytes.Compare(breakdown.Lines[0].ItemID[:], breakdown.Lines[1].ItemID[:]) > 0 {
			charged, free = 1, 0
		}
		assert.Equal(t, 1, breakdown.Lines[charged].ChargedUnits)
		assert.Zero(t, breakdown.Lines[free].ChargedUnits)
		assertTotal(t, breakdown, "110.00")
	})

	t.Run("multi-unit picks flatten into physical units", func(t *testing.T) {
		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
			Mode:               PricingModeIncludedItemsWithExtras,
			BoxPrice:           decimal.NewFromInt(100),
			IncludedItemsCount: 2,
			ExtraItemCharging:  ChargeCheapestFirst,
		})

		multi := selectionFor(slot.ID, SelectedItem{ItemID: p10.ID, Quantity: 3})
		breakdown, err := PriceSelection(cfg, multi, snap)
		require.NoError(t, err)

		// 3 units of 10 with 2 included: one extra unit of 10.
		assertTotal(t, breakdown, "110.00")
		require.Len(t, breakdown.Lines, 1)
		assert.Equal(t, 1, breakdown.Lines[0].ChargedUnits)
	})
}

func TestPriceSelectionDiscounts(t *testing.T) {
	t.Run("fixed discount subtracts from the unit price", func(t *testing.T) {
		item := testItem(t, "Amber", 100)
		snap := catalog.NewSnapshot([]catalog.Item{*item})

		slot := testSlot(EligibilityRule{})
		fixed := DiscountFixed
		slot.DiscountType = &fixed
		slot.DiscountValue = decimal.NewFromInt(25)

		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{Mode: PricingModeProductsOnly})
		sel := selectionFor(slot.ID, SelectedItem{ItemID: item.ID, Quantity: 1})

		breakdown, err := PriceSelection(cfg, sel, snap)
		require.NoError(t, err)
		assertTotal(t, breakdown, "75.00")
	})

	t.Run("fixed discount larger than the price clamps at zero", func(t *testing.T) {
		item := testItem(t, "Sample", 10)
		snap := catalog.NewSnapshot([]catalog.Item{*item})

		slot := testSlot(EligibilityRule{})
		fixed := DiscountFixed
		slot.DiscountType = &fixed
		slot.DiscountValue = decimal.NewFromInt(40)

		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{Mode: PricingModeProductsOnly})
		sel := selectionFor(slot.ID, SelectedItem{ItemID: item.ID, Quantity: 2})

		breakdown, err := PriceSelection(cfg, sel, snap)
		require.NoError(t, err)
		assertTotal(t, breakdown, "0.00")
	})

	t.Run("box price is never discounted", func(t *testing.T) {
		item := testItem(t, "Amber", 100)
		snap := catalog.NewSnapshot([]catalog.Item{*item})

		slot := testSlot(EligibilityRule{})
		pct := DiscountPercentage
		slot.DiscountType = &pct
		slot.DiscountValue = decimal.NewFromInt(50)

		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
			Mode:     PricingModeBoxPlusProducts,
			BoxPrice: decimal.NewFromInt(80),
		})
		sel := selectionFor(slot.ID, SelectedItem{ItemID: item.ID, Quantity: 1})

		breakdown, err := PriceSelection(cfg, sel, snap)
		require.NoError(t, err)
		assert.Equal(t, "80.00", breakdown.BoxPrice.StringFixed(2))
		assertTotal(t, breakdown, "130.00")
	})

	t.Run("discount applies to the sale price when one is set", func(t *testing.T) {
		item := testItem(t, "Amber", 100)
		sale := decimal.NewFromInt(80)
		require.NoError(t, item.SetPricing(decimal.NewFromInt(100), &sale))
		snap := catalog.NewSnapshot([]catalog.Item{*item})

		slot := testSlot(EligibilityRule{})
		pct := DiscountPercentage
		slot.DiscountType = &pct
		slot.DiscountValue = decimal.NewFromInt(10)

		cfg := pricingCfg(t, []Slot{slot}, PricingSpec{Mode: PricingModeProductsOnly})
		sel := selectionFor(slot.ID, SelectedItem{ItemID: item.ID, Quantity: 1})

		breakdown, err := PriceSelection(cfg, sel, snap)
		require.NoError(t, err)
		assertTotal(t, breakdown, "72.00")
	})
}

func TestPriceSelectionRounding(t *testing.T) {
	// Intermediate values keep full precision; only the final total
	// is rounded.
	item := testItem(t, "Amber", 0)
	require.NoError(t, item.SetPricing(decimal.NewFromFloat(33.335), nil))
	snap := catalog.NewSnapshot([]catalog.Item{*item})

	slot := testSlot(EligibilityRule{})
	cfg := pricingCfg(t, []Slot{slot}, PricingSpec{Mode: PricingModeProductsOnly})
	sel := selectionFor(slot.ID, SelectedItem{ItemID: item.ID, Quantity: 3})

	breakdown, err := PriceSelection(cfg, sel, snap)
	require.NoError(t, err)

	// 3 * 33.335 = 100.005, rounded half up to 100.01.
	assertTotal(t, breakdown, "100.01")
}

func TestPriceSelectionIsDeterministic(t *testing.T) {
	// Pricing is a pure function: repeated calls over the same inputs
	// produce identical breakdowns, down to the serialized form.
	p10 := testItem(t, "Citrus", 10)
	p20 := testItem(t, "Rose", 20)
	snap := catalog.NewSnapshot([]catalog.Item{*p10, *p20})

	slot := testSlot(EligibilityRule{})
	slot.MaxQuantity = 10
	pct := DiscountPercentage
	slot.DiscountType = &pct
	slot.DiscountValue = decimal.NewFromInt(15)

	cfg := pricingCfg(t, []Slot{slot}, PricingSpec{
		Mode:               PricingModeIncludedItemsWithExtras,
		BoxPrice:           decimal.NewFromInt(100),
		IncludedItemsCount: 2,
		ExtraItemCharging:  ChargeCheapestFirst,
	})
	sel := selectionFor(slot.ID,
		SelectedItem{ItemID: p10.ID, Quantity: 2},
		SelectedItem{ItemID: p20.ID, Quantity: 2},
	)

	first, err := PriceSelection(cfg, sel, snap)
	require.NoError(t, err)
	second, err := PriceSelection(cfg, sel, snap)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestPriceSelectionErrors(t *testing.T) {
	item := testItem(t, "Amber", 100)
	snap := catalog.NewSnapshot([]catalog.Item{*item})

	slot := testSlot(EligibilityRule{})
	cfg := pricingCfg(t, []Slot{slot}, PricingSpec{Mode: PricingModeProductsOnly})

	t.Run("item missing from snapshot", func(t *testing.T) {
		sel := selectionFor(slot.ID, SelectedItem{ItemID: uuid.New(), Quantity: 1})
		_, err := PriceSelection(cfg, sel, snap)
		require.Error(t, err)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		sel := selectionFor(slot.ID, SelectedItem{ItemID: item.ID, Quantity: 0})
		_, err := PriceSelection(cfg, sel, snap)
		require.Error(t, err)
	})
}
