package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterparty(t *testing.T) {
	testCases := []struct {
		name     string
		side     OrderSide
		position Position
		want     SidePosition
	}{
		{"Buy long trades against sell short", SideBuy, PositionLong, SidePosition{SideSell, PositionShort}},
		{"Sell long trades against buy short", SideSell, PositionLong, SidePosition{SideBuy, PositionShort}},
		{"Buy short trades against sell long", SideBuy, PositionShort, SidePosition{SideSell, PositionLong}},
		{"Sell short trades against buy long", SideSell, PositionShort, SidePosition{SideBuy, PositionLong}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Counterparty(tc.side, tc.position))
		})
	}
}

func TestCounterparty_Symmetric(t *testing.T) {
	// Every pairing must hold in both directions.
	for _, side := range []OrderSide{SideBuy, SideSell} {
		for _, position := range []Position{PositionLong, PositionShort} {
			target := Counterparty(side, position)
			back := Counterparty(target.Side, target.Position)

			assert.Equal(t, SidePosition{side, position}, back)
		}
	}
}

func TestIsValidMatch(t *testing.T) {
	buyLong, err := NewLimitOrder("BTC-USD", SideBuy, PositionLong, 10, 100.0)
	require.NoError(t, err)
	sellShort, err := NewLimitOrder("BTC-USD", SideSell, PositionShort, 10, 100.0)
	require.NoError(t, err)
	sellLong, err := NewLimitOrder("BTC-USD", SideSell, PositionLong, 10, 100.0)
	require.NoError(t, err)
	buyShort, err := NewLimitOrder("BTC-USD", SideBuy, PositionShort, 10, 100.0)
	require.NoError(t, err)

	assert.True(t, IsValidMatch(buyLong, sellShort))
	assert.True(t, IsValidMatch(sellShort, buyLong))
	assert.True(t, IsValidMatch(sellLong, buyShort))
	assert.True(t, IsValidMatch(buyShort, sellLong))

	// Same side never matches, and side alone is not enough.
	assert.False(t, IsValidMatch(buyLong, buyShort))
	assert.False(t, IsValidMatch(buyLong, sellLong))
	assert.False(t, IsValidMatch(sellShort, sellLong))
}

func TestNewFill(t *testing.T) {
	taker, err := NewMarketOrder("BTC-USD", SideBuy, PositionLong, 10)
	require.NoError(t, err)
	maker, err := NewLimitOrder("BTC-USD", SideSell, PositionShort, 7, 99.5)
	require.NoError(t, err)

	fill := NewFill(taker, maker)

	assert.Equal(t, "BTC-USD", fill.Symbol)
	assert.Equal(t, taker.ID, fill.TakerOrderID)
	assert.Equal(t, maker.ID, fill.MakerOrderID)
	assert.Equal(t, SideBuy, fill.TakerSide)
	assert.Equal(t, 99.5, fill.Price)
	assert.Equal(t, int64(7), fill.Quantity)
	assert.NotZero(t, fill.Timestamp)
}
