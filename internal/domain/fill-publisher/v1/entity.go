package fillpublisherv1

import (
	"encoding/json"

	orderbookv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/orderbook/v1"
)

// FillEvent is the published record of one execution.
type FillEvent struct {
	FillID       string  `json:"fillID"`
	Symbol       string  `json:"symbol"`
	TakerOrderID string  `json:"takerOrderID"`
	MakerOrderID string  `json:"makerOrderID"`
	TakerSide    string  `json:"takerSide"`
	Price        float64 `json:"price"`
	Quantity     int64   `json:"quantity"`
	Timestamp    int64   `json:"timestamp"`
}

// CreateFromFill creates a fill event from a domain fill record.
func CreateFromFill(fill orderbookv1.Fill) *FillEvent {
	return &FillEvent{
		FillID:       fill.TakerOrderID + ":" + fill.MakerOrderID,
		Symbol:       fill.Symbol,
		TakerOrderID: fill.TakerOrderID,
		MakerOrderID: fill.MakerOrderID,
		TakerSide:    string(fill.TakerSide),
		Price:        fill.Price,
		Quantity:     fill.Quantity,
		Timestamp:    fill.Timestamp,
	}
}

// ToBytes converts the fill event to a byte array.
func ToBytes(event *FillEvent) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return data
}

// FromBytes converts a byte array to a fill event.
func FromBytes(data []byte) *FillEvent {
	var event FillEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}
