package orderbookv1

import "time"

// SidePosition identifies the directional role of an order.
type SidePosition struct {
	Side     OrderSide
	Position Position
}

// counterparties is the single source of truth for which resident
// (side, position) an incoming order trades against. The table is symmetric
// under role swap: if (BUY, LONG) pairs with (SELL, SHORT) then (SELL, SHORT)
// pairs with (BUY, LONG).
var counterparties = map[SidePosition]SidePosition{
	{SideBuy, PositionLong}:   {SideSell, PositionShort},
	{SideSell, PositionLong}:  {SideBuy, PositionShort},
	{SideBuy, PositionShort}:  {SideSell, PositionLong},
	{SideSell, PositionShort}: {SideBuy, PositionLong},
}

// Counterparty returns the resident (side, position) the given incoming
// (side, position) matches against.
func Counterparty(side OrderSide, position Position) SidePosition {
	return counterparties[SidePosition{side, position}]
}

// IsValidMatch checks whether resident is a valid counterparty for incoming.
func IsValidMatch(incoming, resident *Order) bool {
	target := Counterparty(incoming.Side, incoming.Position)
	return target.Side == resident.Side && target.Position == resident.Position
}

// Fill records one execution between an incoming (taker) order and a resident
// (maker) order. It is immutable once created and does not alias either order.
type Fill struct {
	Symbol       string    `json:"symbol"`
	TakerOrderID string    `json:"takerOrderID"`
	MakerOrderID string    `json:"makerOrderID"`
	TakerSide    OrderSide `json:"takerSide"`
	Price        float64   `json:"price"`
	Quantity     int64     `json:"quantity"`
	Timestamp    int64     `json:"timestamp"`
}

// NewFill builds the fill record for a matched resident order. The maker is
// either a wholly-filled resident order or the snapshot copy of a partial
// fill, so its quantity is the executed amount and its price is the level
// the trade printed at.
func NewFill(taker, maker *Order) Fill {
	return Fill{
		Symbol:       taker.Symbol,
		TakerOrderID: taker.ID,
		MakerOrderID: maker.ID,
		TakerSide:    taker.Side,
		Price:        maker.Price,
		Quantity:     maker.Quantity,
		Timestamp:    time.Now().UnixNano(),
	}
}
