package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimitOrder(t *testing.T) {
	t.Run("Valid limit order", func(t *testing.T) {
		order, err := NewLimitOrder("BTC-USD", SideBuy, PositionLong, 10, 100.0)

		require.NoError(t, err)
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, "BTC-USD", order.Symbol)
		assert.Equal(t, OrderTypeLimit, order.Type)
		assert.Equal(t, SideBuy, order.Side)
		assert.Equal(t, PositionLong, order.Position)
		assert.Equal(t, int64(10), order.Quantity)
		assert.Equal(t, 100.0, order.Price)
		assert.NotZero(t, order.Timestamp)
	})

	t.Run("Zero quantity rejected", func(t *testing.T) {
		order, err := NewLimitOrder("BTC-USD", SideBuy, PositionLong, 0, 100.0)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Negative quantity rejected", func(t *testing.T) {
		order, err := NewLimitOrder("BTC-USD", SideSell, PositionShort, -5, 100.0)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Missing price rejected", func(t *testing.T) {
		order, err := NewLimitOrder("BTC-USD", SideBuy, PositionLong, 10, 0)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrMissingPrice)
	})

	t.Run("Negative price rejected", func(t *testing.T) {
		order, err := NewLimitOrder("BTC-USD", SideBuy, PositionLong, 10, -1.0)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrMissingPrice)
	})
}

func TestNewMarketOrder(t *testing.T) {
	t.Run("Valid market order carries no price", func(t *testing.T) {
		order, err := NewMarketOrder("BTC-USD", SideSell, PositionLong, 25)

		require.NoError(t, err)
		assert.Equal(t, OrderTypeMarket, order.Type)
		assert.Equal(t, int64(25), order.Quantity)
		assert.Zero(t, order.Price)
	})

	t.Run("Zero quantity rejected", func(t *testing.T) {
		order, err := NewMarketOrder("BTC-USD", SideBuy, PositionShort, 0)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestOrder_Predicates(t *testing.T) {
	buy, err := NewLimitOrder("BTC-USD", SideBuy, PositionLong, 10, 100.0)
	require.NoError(t, err)
	sell, err := NewLimitOrder("BTC-USD", SideSell, PositionShort, 10, 100.0)
	require.NoError(t, err)

	assert.True(t, buy.IsBuy())
	assert.False(t, buy.IsSell())
	assert.True(t, sell.IsSell())
	assert.False(t, sell.IsBuy())

	assert.False(t, buy.IsFilled())
	buy.Quantity = 0
	assert.True(t, buy.IsFilled())
}

func TestOrder_Clone(t *testing.T) {
	order, err := NewLimitOrder("BTC-USD", SideBuy, PositionLong, 10, 100.0)
	require.NoError(t, err)

	clone := order.Clone()

	require.NotSame(t, order, clone)
	assert.Equal(t, *order, *clone)

	// Mutating the clone must not touch the original.
	clone.Quantity = 3
	assert.Equal(t, int64(10), order.Quantity)
}

func TestOrder_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		order, err := NewLimitOrder("BTC-USD", SideBuy, PositionLong, 1, 1.0)
		require.NoError(t, err)
		assert.False(t, seen[order.ID])
		seen[order.ID] = true
	}
}
