package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), AED)
		require.NoError(t, err)
		assert.Equal(t, AED, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromFloat(t *testing.T) {
	m, err := NewMoneyFromFloat(99.99, USD)
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", AED)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", AED)
		assert.Error(t, err)
	})
}

func TestNewMoneyAED(t *testing.T) {
	m := NewMoneyAED(decimal.NewFromFloat(50.00))
	assert.Equal(t, AED, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestNewMoneyAEDFromFloat(t *testing.T) {
	m := NewMoneyAEDFromFloat(75.50)
	assert.Equal(t, AED, m.Currency())
	assert.Equal(t, 75.5, m.Float64())
}

func TestNewMoneyAEDFromString(t *testing.T) {
	m, err := NewMoneyAEDFromString("199.99")
	require.NoError(t, err)
	assert.Equal(t, AED, m.Currency())
}

func TestZero(t *testing.T) {
	m := Zero(USD)
	assert.True(t, m.IsZero())
	assert.Equal(t, USD, m.Currency())
}

func TestZeroAED(t *testing.T) {
	m := ZeroAED()
	assert.True(t, m.IsZero())
	assert.Equal(t, AED, m.Currency())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyAEDFromFloat(10.50)
		b := NewMoneyAEDFromFloat(4.50)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(15.00)))
	})

	t.Run("rejects mismatched currencies", func(t *testing.T) {
		a := NewMoneyAEDFromFloat(10)
		b, _ := NewMoneyFromFloat(10, USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})
}

func TestMoneySubtract(t *testing.T) {
	a := NewMoneyAEDFromFloat(10)
	b := NewMoneyAEDFromFloat(3.25)
	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(6.75)))
}

func TestMoneyMultiply(t *testing.T) {
	m := NewMoneyAEDFromFloat(12.5)
	assert.True(t, m.MultiplyByInt(3).Amount().Equal(decimal.NewFromFloat(37.5)))
	assert.True(t, m.Multiply(decimal.NewFromFloat(0.5)).Amount().Equal(decimal.NewFromFloat(6.25)))
}

func TestMoneyRound(t *testing.T) {
	t.Run("rounds half up for positive amounts", func(t *testing.T) {
		m := NewMoneyAEDFromFloat(10.005)
		assert.Equal(t, "10.01", m.Round(2).StringFixed(2))
	})

	t.Run("rounds down below the midpoint", func(t *testing.T) {
		m := NewMoneyAEDFromFloat(10.004)
		assert.Equal(t, "10.00", m.Round(2).StringFixed(2))
	})
}

func TestMoneyFloorZero(t *testing.T) {
	t.Run("negative amounts clamp to zero", func(t *testing.T) {
		m := NewMoneyAEDFromFloat(-5)
		assert.True(t, m.FloorZero().IsZero())
	})

	t.Run("positive amounts are unchanged", func(t *testing.T) {
		m := NewMoneyAEDFromFloat(5)
		assert.True(t, m.FloorZero().Equals(m))
	})
}

func TestMoneyComparisons(t *testing.T) {
	a := NewMoneyAEDFromFloat(5)
	b := NewMoneyAEDFromFloat(7)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	c, _ := NewMoneyFromFloat(5, USD)
	_, err = a.LessThan(c)
	assert.Error(t, err)
}

func TestMoneyDiscounts(t *testing.T) {
	t.Run("percentage discount", func(t *testing.T) {
		m := NewMoneyAEDFromFloat(100)
		discounted := m.ApplyDiscount(decimal.NewFromInt(10))
		assert.True(t, discounted.Amount().Equal(decimal.NewFromInt(90)))
	})

	t.Run("calculate percentage", func(t *testing.T) {
		m := NewMoneyAEDFromFloat(200)
		pct := m.CalculatePercentage(decimal.NewFromInt(25))
		assert.True(t, pct.Amount().Equal(decimal.NewFromInt(50)))
	})
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		m := NewMoneyAEDFromFloat(42.5)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"42.5","currency":"AED"}`, string(data))
	})

	t.Run("unmarshal", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"19.99","currency":"AED"}`), &m)
		require.NoError(t, err)
		assert.Equal(t, AED, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(19.99)))
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string amount with default currency", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("12.34"))
		assert.Equal(t, DefaultCurrency, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.34)))
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(3.14))
	})
}
