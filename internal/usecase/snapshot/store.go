package snapshot

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/snapshot/v1"
	"github.com/joaquinbejar/OrderBookEngine/pkg/errors"
	"github.com/joaquinbejar/OrderBookEngine/pkg/logger"
	"github.com/joaquinbejar/OrderBookEngine/pkg/redis"
)

const keyPrefix = "orderbook:snapshot:"

// Store persists order book snapshots in Redis, one key per symbol.
type Store struct {
	symbol      string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewSnapshotStore creates a new snapshot store for the given symbol.
func NewSnapshotStore(redisclient redis.Client, symbol string, logger *logger.Logger) *Store {
	return &Store{
		symbol:      symbol,
		redisclient: redisclient,
		logger:      logger,
	}
}

func (s *Store) key() string {
	return keyPrefix + s.symbol
}

// Store serializes the snapshot and stores it in Redis.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		})
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key(), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		})
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, "Snapshot stored", logger.Field{
		Key:   "symbol",
		Value: s.symbol,
	}, logger.Field{
		Key:   "orderOffset",
		Value: snapshot.OrderOffset,
	})
	return nil
}

// Load reads the latest snapshot from Redis. Returns nil when no snapshot
// exists yet.
func (s *Store) Load(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.key())
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "action",
			Value: "load snapshot",
		})
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, "No snapshot found", logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		})
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal snapshot",
		})
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}

	return &snapshot, nil
}
