package orderbookv1

import (
	"fmt"
	"sync"
)

// PriceLevel holds all resting liquidity at one exact price. Long and short
// resident orders queue separately, in strict arrival order, with a running
// quantity total per queue.
type PriceLevel struct {
	Price       float64  `json:"price"`
	LongOrders  []*Order `json:"longOrders"`
	ShortOrders []*Order `json:"shortOrders"`
	LongTotal   int64    `json:"longTotal"`
	ShortTotal  int64    `json:"shortTotal"`
	mu          sync.RWMutex
}

// NewPriceLevel creates an empty PriceLevel at the given price.
func NewPriceLevel(price float64) *PriceLevel {
	return &PriceLevel{
		Price:       price,
		LongOrders:  make([]*Order, 0),
		ShortOrders: make([]*Order, 0),
	}
}

// AddOrder appends an order to the queue selected by its position and bumps
// the matching running total.
func (l *PriceLevel) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, order.Quantity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if order.Position == PositionLong {
		l.LongOrders = append(l.LongOrders, order)
		l.LongTotal += order.Quantity
	} else {
		l.ShortOrders = append(l.ShortOrders, order)
		l.ShortTotal += order.Quantity
	}

	return nil
}

// CanMatch reports whether this level holds a resident order the incoming
// order could trade against. The counterparty queue is chosen through the
// same pairing table the matching engine uses, and its head order must carry
// the required opposite side. Read-only.
func (l *PriceLevel) CanMatch(order *Order) bool {
	if order == nil {
		return false
	}

	target := Counterparty(order.Side, order.Position)

	l.mu.RLock()
	defer l.mu.RUnlock()

	queue := l.LongOrders
	if target.Position == PositionShort {
		queue = l.ShortOrders
	}

	return len(queue) > 0 && queue[0].Side == target.Side
}

// GetQuantity drains up to requested units from the queue for the given
// position, oldest order first. Wholly consumed orders are removed from the
// queue and returned as filled. A head order larger than the remaining
// request is reduced in place and a snapshot copy with the consumed quantity
// is returned as the single partial fill. The leftover request is returned as
// remaining and is nonzero only if the queue ran out.
func (l *PriceLevel) GetQuantity(requested int64, position Position) (filled []*Order, partial *Order, remaining int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	queue := &l.LongOrders
	total := &l.LongTotal
	if position == PositionShort {
		queue = &l.ShortOrders
		total = &l.ShortTotal
	}

	remaining = requested
	for remaining > 0 && len(*queue) > 0 {
		head := (*queue)[0]

		if head.Quantity <= remaining {
			*queue = (*queue)[1:]
			filled = append(filled, head)
			remaining -= head.Quantity
			*total -= head.Quantity
		} else {
			partial = head.Clone()
			partial.Quantity = remaining
			head.Quantity -= remaining
			*total -= remaining
			remaining = 0
		}
	}

	return filled, partial, remaining
}

// Total returns the running total for the given position's queue.
func (l *PriceLevel) Total(position Position) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if position == PositionLong {
		return l.LongTotal
	}
	return l.ShortTotal
}

// Empty checks if the level has no resident orders on either queue.
func (l *PriceLevel) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.LongOrders) == 0 && len(l.ShortOrders) == 0
}

// OrderCount returns the number of resident orders at this level.
func (l *PriceLevel) OrderCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.LongOrders) + len(l.ShortOrders)
}

// Orders returns a copy of both queues, long orders first.
func (l *PriceLevel) Orders() []*Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	orders := make([]*Order, 0, len(l.LongOrders)+len(l.ShortOrders))
	orders = append(orders, l.LongOrders...)
	orders = append(orders, l.ShortOrders...)
	return orders
}

// Validate checks the running totals against the queue contents.
func (l *PriceLevel) Validate() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.Price <= 0 {
		return fmt.Errorf("%w: level price %f", ErrMissingPrice, l.Price)
	}

	var longSum, shortSum int64
	for _, order := range l.LongOrders {
		if order == nil {
			return fmt.Errorf("nil order found in level %f", l.Price)
		}
		longSum += order.Quantity
	}
	for _, order := range l.ShortOrders {
		if order == nil {
			return fmt.Errorf("nil order found in level %f", l.Price)
		}
		shortSum += order.Quantity
	}

	if longSum != l.LongTotal {
		return fmt.Errorf("long total mismatch at %f: calculated %d, stored %d", l.Price, longSum, l.LongTotal)
	}
	if shortSum != l.ShortTotal {
		return fmt.Errorf("short total mismatch at %f: calculated %d, stored %d", l.Price, shortSum, l.ShortTotal)
	}

	return nil
}
