package orderreaderv1

import (
	orderbookv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/orderbook/v1"
)

// PlaceOrderRequest represents an order instruction read from the order stream.
type PlaceOrderRequest struct {
	OrderID  string                `json:"orderID"`
	Symbol   string                `json:"symbol"`
	Type     orderbookv1.OrderType `json:"type"`
	Side     orderbookv1.OrderSide `json:"side"`
	Position orderbookv1.Position  `json:"position"`
	Quantity int64                 `json:"quantity"`
	Price    float64               `json:"price,omitempty"`

	Offset int64 `json:"-"` // offset of the request in the stream
}

// ToOrder builds the domain order for this request. Construction-time
// validation (limit price, positive quantity) applies here, before the order
// ever reaches the book.
func (r *PlaceOrderRequest) ToOrder() (*orderbookv1.Order, error) {
	var order *orderbookv1.Order
	var err error

	switch r.Type {
	case orderbookv1.OrderTypeMarket:
		order, err = orderbookv1.NewMarketOrder(r.Symbol, r.Side, r.Position, r.Quantity)
	default:
		order, err = orderbookv1.NewLimitOrder(r.Symbol, r.Side, r.Position, r.Quantity, r.Price)
	}
	if err != nil {
		return nil, err
	}

	if r.OrderID != "" {
		order.ID = r.OrderID
	}

	return order, nil
}
