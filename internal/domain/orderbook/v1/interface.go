package orderbookv1

import (
	snapshotv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/snapshot/v1"
)

// Book is the order book surface the engine application consumes.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Book interface {
	Match(order *Order) ([]*Order, error)
	AddBid(order *Order) error
	AddAsk(order *Order) error
	BestBid() (*PriceLevel, bool)
	BestAsk() (*PriceLevel, bool)
	Spread() (askPrice, bidPrice float64, ok bool)
	AskTotalVolume() int64
	BidTotalVolume() int64
	CreateSnapshot() *snapshotv1.Snapshot
	RestoreOrderbook(snapshot *snapshotv1.Snapshot) error
	Symbol() string
}

// BookSource provides price-ordered, destructive access to a book's resting
// liquidity. Pop removes the named level from the book's index; callers that
// do not fully consume a popped level must restore it.
type BookSource interface {
	// PopBestAsk removes and returns the lowest-priced ask level.
	PopBestAsk() (*PriceLevel, bool)
	// PopBestBid removes and returns the highest-priced bid level.
	PopBestBid() (*PriceLevel, bool)
	// RestoreAsk reinserts a level previously popped from the ask side.
	RestoreAsk(level *PriceLevel)
	// RestoreBid reinserts a level previously popped from the bid side.
	RestoreBid(level *PriceLevel)
}
