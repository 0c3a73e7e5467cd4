package fillpublisher

import (
	"context"

	fillpublisherv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/fill-publisher/v1"
	"github.com/joaquinbejar/OrderBookEngine/pkg/config"
	"github.com/joaquinbejar/OrderBookEngine/pkg/errors"
	"github.com/joaquinbejar/OrderBookEngine/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher represents a Kafka publisher for fill events.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for publishing fill events.
func NewPublisher(cfg config.FillsConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishFill publishes a fill event to the fills topic.
func (p *Publisher) PublishFill(ctx context.Context, event *fillpublisherv1.FillEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.Symbol),
		Value: fillpublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "fillID", Value: event.FillID},
			logger.Field{Key: "symbol", Value: event.Symbol},
		)
		return errors.NewTracer("failed to publish fill event").Wrap(err)
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
