package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/bundle"
	"github.com/storefront/backend/internal/domain/catalog"
)

func fixtureBreakdown(t *testing.T) (*bundle.BundleConfiguration, bundle.Selection, *bundle.PriceBreakdown) {
	t.Helper()

	item, err := catalog.NewItem("OUD-50", "Royal Oud 50ml", decimal.NewFromInt(100))
	require.NoError(t, err)
	snap := catalog.NewSnapshot([]catalog.Item{*item})

	slot := bundle.Slot{
		ID:          uuid.New(),
		Title:       "Pick a scent",
		SortBy:      bundle.SortByPrice,
		SortOrder:   bundle.SortAsc,
		MinQuantity: 1,
		MaxQuantity: 2,
	}
	cfg, err := bundle.NewBundleConfiguration("Gift Box", bundle.BundleTypeGiftSets, uuid.New(),
		[]bundle.Slot{slot},
		bundle.PricingSpec{Mode: bundle.PricingModeBoxPlusProducts, BoxPrice: decimal.NewFromInt(50)},
		bundle.ShippingOncePerBundle,
	)
	require.NoError(t, err)

	sel := bundle.Selection{Slots: []bundle.SlotSelection{{
		SlotID: slot.ID,
		Items:  []bundle.SelectedItem{{ItemID: item.ID, Quantity: 1}},
	}}}

	breakdown, err := bundle.PriceSelection(cfg, sel, snap)
	require.NoError(t, err)
	return cfg, sel, breakdown
}

func TestNewCartLine(t *testing.T) {
	cfg, sel, breakdown := fixtureBreakdown(t)

	t.Run("freezes the breakdown and its total", func(t *testing.T) {
		line, err := NewCartLine("sess-1", cfg, sel, breakdown)
		require.NoError(t, err)

		assert.Equal(t, cfg.ID, line.BundleID)
		assert.Equal(t, cfg.Name, line.BundleName)
		assert.Equal(t, bundle.ShippingOncePerBundle, line.Shipping)
		assert.True(t, line.TotalOverride.Equal(breakdown.Total.Amount()))
		assert.Equal(t, "150.00", line.TotalOverride.StringFixed(2))
	})

	t.Run("rejects empty session", func(t *testing.T) {
		_, err := NewCartLine("  ", cfg, sel, breakdown)
		assert.Error(t, err)
	})

	t.Run("rejects missing breakdown", func(t *testing.T) {
		_, err := NewCartLine("sess-1", cfg, sel, nil)
		assert.Error(t, err)
	})
}

func TestBreakdownDocumentRoundTrip(t *testing.T) {
	_, _, breakdown := fixtureBreakdown(t)

	doc := BreakdownDocument{PriceBreakdown: *breakdown}
	value, err := doc.Value()
	require.NoError(t, err)

	var decoded BreakdownDocument
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, breakdown.Mode, decoded.Mode)
	assert.Equal(t, breakdown.Total.StringFixed(2), decoded.Total.StringFixed(2))
	assert.Len(t, decoded.Lines, len(breakdown.Lines))
}

func TestSelectionDocumentRoundTrip(t *testing.T) {
	_, sel, _ := fixtureBreakdown(t)

	doc := SelectionDocument{Selection: sel}
	value, err := doc.Value()
	require.NoError(t, err)

	var decoded SelectionDocument
	require.NoError(t, decoded.Scan(value))
	require.Len(t, decoded.Slots, 1)
	assert.Equal(t, sel.Slots[0].SlotID, decoded.Slots[0].SlotID)
}
