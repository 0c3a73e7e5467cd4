package snapshotv1

// Snapshot represents the state of the order book at a specific point in time.
type Snapshot struct {
	Symbol       string       `json:"symbol"`
	OrderOffset  int64        `json:"orderOffset"`
	BookSnapshot BookSnapshot `json:"bookSnapshot"`
}

// BookSnapshot holds every resting order of the book.
type BookSnapshot struct {
	Orders []BookOrder `json:"orders"`
}

// BookOrder represents one resting order with its details. Side and position
// are kept as plain strings so the snapshot schema stands on its own.
type BookOrder struct {
	OrderID   string  `json:"orderID"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Position  string  `json:"position"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
	Bid       bool    `json:"bid"`
}
