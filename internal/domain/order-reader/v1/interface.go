package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// OrderReader defines the interface for reading order requests from a stream.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreaderv1_mock
type OrderReader interface {
	// ReadMessage reads a message and returns the raw message and parsed request
	ReadMessage(ctx context.Context) (kafka.Message, *PlaceOrderRequest, error)
	// SetOffset sets the offset for the reader
	SetOffset(offset int64) error
	// Close closes the reader
	Close() error
	// CommitMessages commits the messages after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}
