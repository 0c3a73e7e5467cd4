package engine

import (
	"context"
	"sync"
	"time"

	fillpublisherv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/fill-publisher/v1"
	orderreaderv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/snapshot/v1"
	"github.com/joaquinbejar/OrderBookEngine/pkg/config"
	"github.com/joaquinbejar/OrderBookEngine/pkg/logger"
	"go.uber.org/zap/zapcore"
)

// Engine is the main engine for processing orders and managing the order book.
// It owns the single goroutine that mutates the book, which serializes every
// match and insertion for its symbol.
type Engine struct {
	// Core components
	orderbook     orderbookv1.Book
	orderReader   orderreaderv1.OrderReader
	fillPublisher fillpublisherv1.FillPublisher
	snapshotStore snapshotv1.Store
	logger        *logger.Logger
	config        *config.Config

	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64

	// Shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	snapshotInterval    time.Duration
	snapshotOffsetDelta int64

	// Fill statistics
	totalFills int64
	fillsMutex sync.RWMutex
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	orderbook orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	fillPublisher fillpublisherv1.FillPublisher,
	snapshotStore snapshotv1.Store,
	logger *logger.Logger,
	config *config.Config,
) *Engine {
	return NewEngineWithOptions(orderbook, orderReader, fillPublisher, snapshotStore, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(
	orderbook orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	fillPublisher fillpublisherv1.FillPublisher,
	snapshotStore snapshotv1.Store,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) *Engine {
	e := &Engine{
		orderbook:     orderbook,
		orderReader:   orderReader,
		fillPublisher: fillPublisher,
		snapshotStore: snapshotStore,
		logger:        logger,
		config:        config,

		snapshotInterval:    options.SnapshotInterval,
		snapshotOffsetDelta: options.SnapshotOffsetDelta,
		orderOffset:         -1,
	}

	// Load snapshot during initialization
	if err := e.loadSnapshot(context.Background()); err != nil {
		e.logger.GetZap().Fatal("Failed to load snapshot", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	return e
}

// Start initializes the engine and starts processing routines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runSnapshotManager()

	e.logger.Info("Engine started", logger.Field{
		Key:   "symbol",
		Value: e.config.Symbol,
	})

	return nil
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor combines order reading and processing in a single goroutine
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor", logger.Field{
		Key:   "symbol",
		Value: e.config.Symbol,
	})

	// Set the initial offset
	currentOffset := e.getOrderOffset()
	if currentOffset > 0 {
		currentOffset++
	}

	if err := e.orderReader.SetOffset(currentOffset); err != nil {
		e.logger.GetZap().Fatal("Failed to set offset for order reader", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			e.orderReader.Close()
			return
		default:
			msg, request, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				// Simple backoff
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			if err := e.processOrder(request); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_order",
				})
				continue
			}

			e.setOrderOffset(msg.Offset)
		}
	}
}

// runSnapshotManager handles periodic snapshots
func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	e.logger.Info("Starting snapshot manager")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Snapshot manager shutting down")
			return
		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				e.createAndStoreSnapshot()
			}
		}
	}
}

// processOrder runs a single order request through the book and publishes the
// resulting fills.
func (e *Engine) processOrder(request *orderreaderv1.PlaceOrderRequest) error {
	e.logger.Debug("Processing order",
		logger.Field{Key: "offset", Value: request.Offset},
		logger.Field{Key: "type", Value: request.Type},
		logger.Field{Key: "side", Value: request.Side},
		logger.Field{Key: "position", Value: request.Position},
	)

	order, err := request.ToOrder()
	if err != nil {
		return err
	}

	matched, err := e.orderbook.Match(order)
	if err != nil {
		return err
	}

	if len(matched) > 0 {
		e.publishFills(order, matched)
	}
	return nil
}

// publishFills emits one fill event per matched resident order.
func (e *Engine) publishFills(taker *orderbookv1.Order, matched []*orderbookv1.Order) {
	e.fillsMutex.Lock()
	e.totalFills += int64(len(matched))
	currentTotal := e.totalFills
	e.fillsMutex.Unlock()

	e.logger.Info("Fills executed",
		logger.Field{Key: "fillCount", Value: len(matched)},
		logger.Field{Key: "totalFills", Value: currentTotal},
	)

	for _, maker := range matched {
		fill := orderbookv1.NewFill(taker, maker)

		e.logger.Info("Trade executed",
			logger.Field{Key: "price", Value: fill.Price},
			logger.Field{Key: "quantity", Value: fill.Quantity},
			logger.Field{Key: "takerOrderID", Value: fill.TakerOrderID},
			logger.Field{Key: "makerOrderID", Value: fill.MakerOrderID},
			logger.Field{Key: "takerSide", Value: fill.TakerSide},
		)

		if err := e.fillPublisher.PublishFill(e.ctx, fillpublisherv1.CreateFromFill(fill)); err != nil {
			e.logger.ErrorContext(e.ctx, err, logger.Field{
				Key:   "action",
				Value: "publish_fill",
			})
		}
	}
}

// shouldCreateSnapshot checks if a snapshot should be created
func (e *Engine) shouldCreateSnapshot() bool {
	e.mu.RLock()
	currentOffset := e.orderOffset
	lastSnapshotOffset := e.lastSnapshotOffset
	e.mu.RUnlock()

	if currentOffset <= 0 {
		return false
	}

	delta := currentOffset - lastSnapshotOffset
	return delta >= e.snapshotOffsetDelta
}

// createAndStoreSnapshot creates and stores a snapshot
func (e *Engine) createAndStoreSnapshot() {
	currentOffset := e.getOrderOffset()

	e.logger.Info("Creating snapshot", logger.Field{
		Key:   "currentOffset",
		Value: currentOffset,
	})

	snapshot := e.orderbook.CreateSnapshot()
	snapshot.OrderOffset = currentOffset

	if err := e.snapshotStore.Store(e.ctx, snapshot); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_snapshot",
		})
	} else {
		e.setLastSnapshotOffset(currentOffset)
		e.logger.Info("Snapshot stored successfully", logger.Field{
			Key:   "symbol",
			Value: e.config.Symbol,
		}, logger.Field{
			Key:   "offset",
			Value: currentOffset,
		})
	}
}

// Thread-safe getters and setters
func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

func (e *Engine) getLastSnapshotOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotOffset
}

func (e *Engine) setLastSnapshotOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSnapshotOffset = offset
}

// loadSnapshot loads and restores the orderbook from snapshot
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snapshot, err := e.snapshotStore.Load(ctx)
	if err != nil {
		return err
	}

	if snapshot != nil {
		if err := e.orderbook.RestoreOrderbook(snapshot); err != nil {
			return err
		}
		e.mu.Lock()
		e.orderOffset = snapshot.OrderOffset
		e.lastSnapshotOffset = snapshot.OrderOffset
		e.mu.Unlock()

		e.logger.Info("Orderbook restored from snapshot", logger.Field{
			Key:   "orderOffset",
			Value: snapshot.OrderOffset,
		})
	}

	return nil
}

// GetOrderOffset returns the current order offset
func (e *Engine) GetOrderOffset() int64 {
	return e.getOrderOffset()
}

// GetLastSnapshotOffset returns the last snapshot offset
func (e *Engine) GetLastSnapshotOffset() int64 {
	return e.getLastSnapshotOffset()
}

// GetTotalFills returns the total number of fills published
func (e *Engine) GetTotalFills() int64 {
	e.fillsMutex.RLock()
	defer e.fillsMutex.RUnlock()
	return e.totalFills
}
