package orderbookv1

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNilOrder        = errors.New("order cannot be nil")
	ErrMissingPrice    = errors.New("limit orders must have a positive price")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// OrderType represents the execution type of an order.
type OrderType string

const (
	// OrderTypeLimit executes at the given price or better, resting otherwise.
	OrderTypeLimit OrderType = "LIMIT"
	// OrderTypeMarket executes immediately against the best available prices.
	OrderTypeMarket OrderType = "MARKET"
)

// OrderSide represents the trading direction of an order.
type OrderSide string

const (
	// SideBuy is a buy order.
	SideBuy OrderSide = "BUY"
	// SideSell is a sell order.
	SideSell OrderSide = "SELL"
)

// Position represents which side of the underlying exposure an order opens or
// closes, orthogonal to its buy/sell direction.
type Position string

const (
	// PositionLong is a long exposure.
	PositionLong Position = "LONG"
	// PositionShort is a short exposure.
	PositionShort Position = "SHORT"
)

// Order represents a single order in the order book. Quantity is mutated in
// place during matching to reflect the remaining unfilled amount.
type Order struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Type      OrderType `json:"type"`
	Side      OrderSide `json:"side"`
	Position  Position  `json:"position"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price,omitempty"` // zero for market orders
	Timestamp int64     `json:"timestamp"`
}

// NewLimitOrder creates a limit order. A missing or non-positive price is a
// construction-time error, the order never enters the book.
func NewLimitOrder(symbol string, side OrderSide, position Position, quantity int64, price float64) (*Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: got %f", ErrMissingPrice, price)
	}

	return &Order{
		ID:        ulid.Make().String(),
		Symbol:    symbol,
		Type:      OrderTypeLimit,
		Side:      side,
		Position:  position,
		Quantity:  quantity,
		Price:     price,
		Timestamp: time.Now().UnixNano(),
	}, nil
}

// NewMarketOrder creates a market order. Market orders carry no price.
func NewMarketOrder(symbol string, side OrderSide, position Position, quantity int64) (*Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	return &Order{
		ID:        ulid.Make().String(),
		Symbol:    symbol,
		Type:      OrderTypeMarket,
		Side:      side,
		Position:  position,
		Quantity:  quantity,
		Timestamp: time.Now().UnixNano(),
	}, nil
}

// IsBuy checks if the order is a buy order.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsSell checks if the order is a sell order.
func (o *Order) IsSell() bool {
	return o.Side == SideSell
}

// IsFilled checks if the order is filled (quantity is zero).
func (o *Order) IsFilled() bool {
	return o.Quantity <= 0
}

// Clone returns a copy of the order. Used to snapshot partial fills so the
// fill record does not alias the resident order.
func (o *Order) Clone() *Order {
	clone := *o
	return &clone
}
