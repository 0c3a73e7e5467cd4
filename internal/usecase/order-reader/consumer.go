package orderreader

import (
	"context"
	"encoding/json"

	orderreaderv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/order-reader/v1"
	"github.com/joaquinbejar/OrderBookEngine/pkg/config"
	"github.com/joaquinbejar/OrderBookEngine/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Reader represents a Kafka Reader for consuming messages from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

// NewReader creates a new Kafka reader for consuming messages from the order topic.
func NewReader(cfg config.KafkaConfig, log logger.Interface) Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads a message from the order topic and parses it as a
// PlaceOrderRequest.
func (r Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderRequest, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, nil, err
	}

	var request orderreaderv1.PlaceOrderRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		r.logError(err, "UnmarshalOrder")
		return kafka.Message{}, nil, err
	}

	r.logger.Debug("ReadMessage",
		logger.Field{Key: "symbol", Value: request.Symbol},
		logger.Field{Key: "type", Value: request.Type},
		logger.Field{Key: "side", Value: request.Side},
		logger.Field{Key: "position", Value: request.Position},
		logger.Field{Key: "quantity", Value: request.Quantity},
		logger.Field{Key: "price", Value: request.Price},
	)

	request.Offset = msg.Offset // Set the offset in the order request

	return msg, &request, nil
}

// Close properly closes the Kafka reader.
func (r Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

// CommitMessages commits the messages to Kafka after processing.
func (r Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		r.logError(err, "CommitMessages")
		return err
	}
	return nil
}
