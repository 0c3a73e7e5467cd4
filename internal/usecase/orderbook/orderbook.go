package orderbook

import (
	"container/heap"
	"fmt"
	"sort"
	"sync"

	orderbookv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/snapshot/v1"
	"github.com/joaquinbejar/OrderBookEngine/internal/usecase/matching"
	pkgerrors "github.com/joaquinbejar/OrderBookEngine/pkg/errors"
)

// Orderbook is the concrete book for one traded symbol. Bids and asks are
// indexed by price in a map, with explicit min/max price heaps providing
// genuine price order for best-of-book access. One book serves one symbol;
// callers must serialize access externally, the per-method locks only keep
// individual operations consistent.
type Orderbook struct {
	mu     sync.RWMutex
	symbol string

	askLevels map[float64]*orderbookv1.PriceLevel
	bidLevels map[float64]*orderbookv1.PriceLevel
	askHeap   *minPriceHeap
	bidHeap   *maxPriceHeap

	engine *matching.Engine
}

// NewOrderbook creates an empty orderbook for the given symbol.
func NewOrderbook(symbol string) *Orderbook {
	askHeap := &minPriceHeap{}
	bidHeap := &maxPriceHeap{}
	heap.Init(askHeap)
	heap.Init(bidHeap)

	ob := &Orderbook{
		symbol:    symbol,
		askLevels: make(map[float64]*orderbookv1.PriceLevel),
		bidLevels: make(map[float64]*orderbookv1.PriceLevel),
		askHeap:   askHeap,
		bidHeap:   bidHeap,
	}
	ob.engine = matching.NewEngine(ob)

	return ob
}

// Symbol returns the traded symbol this book serves.
func (ob *Orderbook) Symbol() string {
	return ob.symbol
}

// Match runs an incoming order against the book. A market order returns the
// matched resident orders (wholly filled plus partial snapshots) and fails
// with a no-liquidity error when nothing matched at all; a partially filled
// market remainder is dropped. A limit order matches while the book crosses
// its price and rests any unfilled remainder at its limit price.
func (ob *Orderbook) Match(order *orderbookv1.Order) ([]*orderbookv1.Order, error) {
	if order == nil {
		return nil, orderbookv1.ErrNilOrder
	}
	if order.Quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", orderbookv1.ErrInvalidQuantity, order.Quantity)
	}

	switch order.Type {
	case orderbookv1.OrderTypeMarket:
		filled, partials := ob.engine.MatchMarket(order)
		matched := append(filled, partials...)
		if len(matched) == 0 {
			return nil, ob.noLiquidityError(order)
		}
		return matched, nil

	case orderbookv1.OrderTypeLimit:
		if order.Price <= 0 {
			return nil, fmt.Errorf("%w: got %f", orderbookv1.ErrMissingPrice, order.Price)
		}

		matched, remaining := ob.engine.MatchLimit(order)
		if remaining > 0 {
			var err error
			if order.IsBuy() {
				err = ob.AddBid(order)
			} else {
				err = ob.AddAsk(order)
			}
			if err != nil {
				return matched, err
			}
		}
		return matched, nil

	default:
		return nil, fmt.Errorf("unknown order type %q", order.Type)
	}
}

// noLiquidityError builds the market-order rejection for an empty opposing side.
func (ob *Orderbook) noLiquidityError(order *orderbookv1.Order) error {
	if order.IsBuy() {
		return pkgerrors.NewErrorDetails(
			fmt.Sprintf("no ask liquidity for market order %s", order.ID),
			string(pkgerrors.ErrInsufficientAskVolume),
			"match",
		)
	}
	return pkgerrors.NewErrorDetails(
		fmt.Sprintf("no bid liquidity for market order %s", order.ID),
		string(pkgerrors.ErrInsufficientBidVolume),
		"match",
	)
}

// AddBid rests an order on the bid side at its price, creating the level on
// first use.
func (ob *Orderbook) AddBid(order *orderbookv1.Order) error {
	return ob.add(order, true)
}

// AddAsk rests an order on the ask side at its price, creating the level on
// first use.
func (ob *Orderbook) AddAsk(order *orderbookv1.Order) error {
	return ob.add(order, false)
}

func (ob *Orderbook) add(order *orderbookv1.Order, bid bool) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if order.Price <= 0 {
		return fmt.Errorf("%w: got %f", orderbookv1.ErrMissingPrice, order.Price)
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	levels := ob.askLevels
	if bid {
		levels = ob.bidLevels
	}

	level, exists := levels[order.Price]
	if !exists {
		level = orderbookv1.NewPriceLevel(order.Price)
		levels[order.Price] = level
		if bid {
			heap.Push(ob.bidHeap, order.Price)
		} else {
			heap.Push(ob.askHeap, order.Price)
		}
	}

	return level.AddOrder(order)
}

// PopBestAsk removes and returns the lowest-priced ask level.
func (ob *Orderbook) PopBestAsk() (*orderbookv1.PriceLevel, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if ob.askHeap.Len() == 0 {
		return nil, false
	}

	price := heap.Pop(ob.askHeap).(float64)
	level := ob.askLevels[price]
	delete(ob.askLevels, price)
	return level, true
}

// PopBestBid removes and returns the highest-priced bid level.
func (ob *Orderbook) PopBestBid() (*orderbookv1.PriceLevel, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if ob.bidHeap.Len() == 0 {
		return nil, false
	}

	price := heap.Pop(ob.bidHeap).(float64)
	level := ob.bidLevels[price]
	delete(ob.bidLevels, price)
	return level, true
}

// RestoreAsk reinserts a previously popped ask level.
func (ob *Orderbook) RestoreAsk(level *orderbookv1.PriceLevel) {
	ob.restore(level, false)
}

// RestoreBid reinserts a previously popped bid level.
func (ob *Orderbook) RestoreBid(level *orderbookv1.PriceLevel) {
	ob.restore(level, true)
}

func (ob *Orderbook) restore(level *orderbookv1.PriceLevel, bid bool) {
	if level == nil {
		return
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	if bid {
		if _, exists := ob.bidLevels[level.Price]; exists {
			return
		}
		ob.bidLevels[level.Price] = level
		heap.Push(ob.bidHeap, level.Price)
	} else {
		if _, exists := ob.askLevels[level.Price]; exists {
			return
		}
		ob.askLevels[level.Price] = level
		heap.Push(ob.askHeap, level.Price)
	}
}

// BestBid returns the highest-priced bid level without removing it.
func (ob *Orderbook) BestBid() (*orderbookv1.PriceLevel, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	if ob.bidHeap.Len() == 0 {
		return nil, false
	}
	return ob.bidLevels[ob.bidHeap.Peek()], true
}

// BestAsk returns the lowest-priced ask level without removing it.
func (ob *Orderbook) BestAsk() (*orderbookv1.PriceLevel, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	if ob.askHeap.Len() == 0 {
		return nil, false
	}
	return ob.askLevels[ob.askHeap.Peek()], true
}

// Spread returns the best ask and best bid prices without mutating the book.
// ok is false when either side is empty.
func (ob *Orderbook) Spread() (askPrice, bidPrice float64, ok bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	if ob.askHeap.Len() == 0 || ob.bidHeap.Len() == 0 {
		return 0, 0, false
	}
	return ob.askHeap.Peek(), ob.bidHeap.Peek(), true
}

// Asks returns ask levels sorted by price (ascending).
func (ob *Orderbook) Asks() []*orderbookv1.PriceLevel {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	levels := make([]*orderbookv1.PriceLevel, 0, len(ob.askLevels))
	for _, level := range ob.askLevels {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Price < levels[j].Price
	})
	return levels
}

// Bids returns bid levels sorted by price (descending).
func (ob *Orderbook) Bids() []*orderbookv1.PriceLevel {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	levels := make([]*orderbookv1.PriceLevel, 0, len(ob.bidLevels))
	for _, level := range ob.bidLevels {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Price > levels[j].Price
	})
	return levels
}

// AskTotalVolume returns the total resting quantity on the ask side.
func (ob *Orderbook) AskTotalVolume() int64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var total int64
	for _, level := range ob.askLevels {
		total += level.Total(orderbookv1.PositionLong) + level.Total(orderbookv1.PositionShort)
	}
	return total
}

// BidTotalVolume returns the total resting quantity on the bid side.
func (ob *Orderbook) BidTotalVolume() int64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var total int64
	for _, level := range ob.bidLevels {
		total += level.Total(orderbookv1.PositionLong) + level.Total(orderbookv1.PositionShort)
	}
	return total
}

// Validate checks every level's running totals against its queues.
func (ob *Orderbook) Validate() error {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	for _, level := range ob.askLevels {
		if err := level.Validate(); err != nil {
			return err
		}
	}
	for _, level := range ob.bidLevels {
		if err := level.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CreateSnapshot captures the current book state.
func (ob *Orderbook) CreateSnapshot() *snapshotv1.Snapshot {
	bookOrders := make([]snapshotv1.BookOrder, 0)
	for _, level := range ob.Asks() {
		bookOrders = append(bookOrders, snapshotOrders(level, false)...)
	}
	for _, level := range ob.Bids() {
		bookOrders = append(bookOrders, snapshotOrders(level, true)...)
	}

	return &snapshotv1.Snapshot{
		Symbol:       ob.symbol,
		BookSnapshot: snapshotv1.BookSnapshot{Orders: bookOrders},
	}
}

func snapshotOrders(level *orderbookv1.PriceLevel, bid bool) []snapshotv1.BookOrder {
	orders := level.Orders()
	bookOrders := make([]snapshotv1.BookOrder, 0, len(orders))
	for _, order := range orders {
		bookOrders = append(bookOrders, snapshotv1.BookOrder{
			OrderID:   order.ID,
			Symbol:    order.Symbol,
			Side:      string(order.Side),
			Position:  string(order.Position),
			Quantity:  order.Quantity,
			Price:     level.Price,
			Timestamp: order.Timestamp,
			Bid:       bid,
		})
	}
	return bookOrders
}

// RestoreOrderbook rebuilds the book from a snapshot, replacing current state.
func (ob *Orderbook) RestoreOrderbook(snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	ob.mu.Lock()
	ob.askLevels = make(map[float64]*orderbookv1.PriceLevel)
	ob.bidLevels = make(map[float64]*orderbookv1.PriceLevel)
	*ob.askHeap = (*ob.askHeap)[:0]
	*ob.bidHeap = (*ob.bidHeap)[:0]
	ob.mu.Unlock()

	for _, bookOrder := range snapshot.BookSnapshot.Orders {
		order := &orderbookv1.Order{
			ID:        bookOrder.OrderID,
			Symbol:    bookOrder.Symbol,
			Type:      orderbookv1.OrderTypeLimit,
			Side:      orderbookv1.OrderSide(bookOrder.Side),
			Position:  orderbookv1.Position(bookOrder.Position),
			Quantity:  bookOrder.Quantity,
			Price:     bookOrder.Price,
			Timestamp: bookOrder.Timestamp,
		}

		var err error
		if bookOrder.Bid {
			err = ob.AddBid(order)
		} else {
			err = ob.AddAsk(order)
		}
		if err != nil {
			return fmt.Errorf("failed to restore order %s: %w", bookOrder.OrderID, err)
		}
	}

	return nil
}
