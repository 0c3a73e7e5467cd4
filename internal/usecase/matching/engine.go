package matching

import (
	orderbookv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/orderbook/v1"
)

// Engine implements price-time-priority matching over any BookSource. It owns
// no storage of its own; the concrete book supplies destructive best-level
// access and the engine restores every popped level that still holds
// liquidity.
type Engine struct {
	book orderbookv1.BookSource
}

// NewEngine creates a matching engine over the given book.
func NewEngine(book orderbookv1.BookSource) *Engine {
	return &Engine{book: book}
}

// MatchMarket fills a market order against successive best opposing levels
// until the order is exhausted or the opposing side runs out. Buy orders
// drain the ask side, sell orders the bid side; within each level the
// counterparty queue is selected through the pairing table. The order's
// quantity is reduced in place; any unfilled remainder is left on the order
// for the caller to decide on. Raises no errors, an empty result means
// nothing matched.
func (e *Engine) MatchMarket(order *orderbookv1.Order) (filled []*orderbookv1.Order, partials []*orderbookv1.Order) {
	target := orderbookv1.Counterparty(order.Side, order.Position)

	remaining := order.Quantity
	var popped []*orderbookv1.PriceLevel

	for remaining > 0 {
		level, ok := e.pop(order.Side)
		if !ok {
			break
		}
		popped = append(popped, level)

		levelFilled, partial, rest := level.GetQuantity(remaining, target.Position)
		filled = append(filled, levelFilled...)
		if partial != nil {
			partials = append(partials, partial)
		}
		remaining = rest
	}

	order.Quantity = remaining
	e.restore(order.Side, popped)

	return filled, partials
}

// MatchLimit fills a limit order against opposing levels while their price
// crosses the order's limit. A popped level that no longer crosses is
// restored untouched and the loop stops. Returns the flat list of matched
// resident orders (wholly filled plus at most one partial snapshot per
// level) and the order's final unfilled quantity.
func (e *Engine) MatchLimit(order *orderbookv1.Order) (matched []*orderbookv1.Order, remaining int64) {
	target := orderbookv1.Counterparty(order.Side, order.Position)

	remaining = order.Quantity
	var popped []*orderbookv1.PriceLevel

	for remaining > 0 {
		level, ok := e.pop(order.Side)
		if !ok {
			break
		}
		popped = append(popped, level)

		if !crosses(order, level.Price) {
			break
		}

		levelFilled, partial, rest := level.GetQuantity(remaining, target.Position)
		matched = append(matched, levelFilled...)
		if partial != nil {
			matched = append(matched, partial)
		}
		remaining = rest
	}

	order.Quantity = remaining
	e.restore(order.Side, popped)

	return matched, remaining
}

// crosses reports whether a resident level at price is executable against the
// limit order.
func crosses(order *orderbookv1.Order, price float64) bool {
	if order.Side == orderbookv1.SideBuy {
		return price <= order.Price
	}
	return price >= order.Price
}

// pop extracts the best opposing level for an incoming order: asks for a buy,
// bids for a sell.
func (e *Engine) pop(side orderbookv1.OrderSide) (*orderbookv1.PriceLevel, bool) {
	if side == orderbookv1.SideBuy {
		return e.book.PopBestAsk()
	}
	return e.book.PopBestBid()
}

// restore puts every popped level that still holds liquidity back on the side
// it came from. Restoring after the loop, not inside it, keeps a level whose
// counterparty queue ran dry from being popped again in the same pass.
func (e *Engine) restore(side orderbookv1.OrderSide, popped []*orderbookv1.PriceLevel) {
	for _, level := range popped {
		if level.Empty() {
			continue
		}
		if side == orderbookv1.SideBuy {
			e.book.RestoreAsk(level)
		} else {
			e.book.RestoreBid(level)
		}
	}
}
