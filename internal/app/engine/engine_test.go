package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	fillpublishermock "github.com/joaquinbejar/OrderBookEngine/internal/domain/fill-publisher/v1/mock"
	orderreaderv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/order-reader/v1"
	orderreadermock "github.com/joaquinbejar/OrderBookEngine/internal/domain/order-reader/v1/mock"
	orderbookv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/joaquinbejar/OrderBookEngine/internal/domain/snapshot/v1"
	snapshotmock "github.com/joaquinbejar/OrderBookEngine/internal/domain/snapshot/v1/mock"
	"github.com/joaquinbejar/OrderBookEngine/internal/usecase/orderbook"
	"github.com/joaquinbejar/OrderBookEngine/pkg/config"
	"github.com/joaquinbejar/OrderBookEngine/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures and helpers
type testFixture struct {
	ctrl              *gomock.Controller
	mockOrderReader   *orderreadermock.MockOrderReader
	mockFillPublisher *fillpublishermock.MockFillPublisher
	mockSnapshotStore *snapshotmock.MockStore
	orderbook         *orderbook.Orderbook
	logger            *logger.Logger
	config            *config.Config
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	return &testFixture{
		ctrl:              ctrl,
		mockOrderReader:   orderreadermock.NewMockOrderReader(ctrl),
		mockFillPublisher: fillpublishermock.NewMockFillPublisher(ctrl),
		mockSnapshotStore: snapshotmock.NewMockStore(ctrl),
		orderbook:         orderbook.NewOrderbook("BTC-USD"),
		logger:            log,
		config: &config.Config{
			Symbol: "BTC-USD",
			KafkaConfig: config.KafkaConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "orders",
			},
			FillsConfig: config.FillsConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "fills",
			},
			RedisConfig: config.RedisConfig{
				Addrs:    "localhost:6379",
				Password: "",
				DB:       0,
			},
		},
	}
}

func (f *testFixture) teardown() {
	f.ctrl.Finish()
}

func (f *testFixture) expectNilSnapshot() {
	f.mockSnapshotStore.EXPECT().
		Load(gomock.Any()).
		Return(nil, nil).
		Times(1)
}

func createTestOrderRequest(orderType orderbookv1.OrderType, side orderbookv1.OrderSide, position orderbookv1.Position, quantity int64, price float64, offset int64) *orderreaderv1.PlaceOrderRequest {
	return &orderreaderv1.PlaceOrderRequest{
		Symbol:   "BTC-USD",
		Type:     orderType,
		Side:     side,
		Position: position,
		Quantity: quantity,
		Price:    price,
		Offset:   offset,
	}
}

// Helper function to create engine with initialized context
func createTestEngine(fixture *testFixture) *Engine {
	engine := NewEngine(
		fixture.orderbook,
		fixture.mockOrderReader,
		fixture.mockFillPublisher,
		fixture.mockSnapshotStore,
		fixture.logger,
		fixture.config,
	)

	// Initialize context to prevent nil pointer dereference
	engine.ctx = context.Background()

	return engine
}

func TestNewEngine(t *testing.T) {
	testCases := []struct {
		name                string
		setupMocks          func(*testFixture)
		expectedOrderOffset int64
	}{
		{
			name: "successful engine creation with nil snapshot",
			setupMocks: func(f *testFixture) {
				f.expectNilSnapshot()
			},
			expectedOrderOffset: -1,
		},
		{
			name: "successful engine creation with existing snapshot",
			setupMocks: func(f *testFixture) {
				snapshot := &snapshotv1.Snapshot{
					Symbol:      "BTC-USD",
					OrderOffset: 100,
					BookSnapshot: snapshotv1.BookSnapshot{
						Orders: []snapshotv1.BookOrder{},
					},
				}
				f.mockSnapshotStore.EXPECT().
					Load(gomock.Any()).
					Return(snapshot, nil).
					Times(1)
			},
			expectedOrderOffset: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			defer fixture.teardown()

			tc.setupMocks(fixture)

			engine := NewEngine(
				fixture.orderbook,
				fixture.mockOrderReader,
				fixture.mockFillPublisher,
				fixture.mockSnapshotStore,
				fixture.logger,
				fixture.config,
			)

			assert.NotNil(t, engine)
			assert.Equal(t, tc.expectedOrderOffset, engine.GetOrderOffset())
		})
	}
}

func TestNewEngineWithOptions(t *testing.T) {
	testCases := []struct {
		name                     string
		options                  *Options
		expectedSnapshotInterval time.Duration
		expectedOffsetDelta      int64
	}{
		{
			name: "engine with custom options",
			options: &Options{
				SnapshotInterval:    10 * time.Second,
				SnapshotOffsetDelta: 500,
			},
			expectedSnapshotInterval: 10 * time.Second,
			expectedOffsetDelta:      500,
		},
		{
			name:                     "engine with default options",
			options:                  DefaultEngineOptions(),
			expectedSnapshotInterval: DefaultEngineOptions().SnapshotInterval,
			expectedOffsetDelta:      DefaultEngineOptions().SnapshotOffsetDelta,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			defer fixture.teardown()

			fixture.expectNilSnapshot()

			engine := NewEngineWithOptions(
				fixture.orderbook,
				fixture.mockOrderReader,
				fixture.mockFillPublisher,
				fixture.mockSnapshotStore,
				fixture.logger,
				fixture.config,
				tc.options,
			)

			assert.NotNil(t, engine)
			assert.Equal(t, tc.expectedSnapshotInterval, engine.snapshotInterval)
			assert.Equal(t, tc.expectedOffsetDelta, engine.snapshotOffsetDelta)
		})
	}
}

func TestEngine_ProcessOrder(t *testing.T) {
	testCases := []struct {
		name           string
		orderRequest   *orderreaderv1.PlaceOrderRequest
		setupMocks     func(*testFixture)
		setupOrderbook func(*testing.T, *orderbook.Orderbook)
		expectedError  bool
		expectedFills  int64
	}{
		{
			name:           "limit order rests without fills",
			orderRequest:   createTestOrderRequest(orderbookv1.OrderTypeLimit, orderbookv1.SideSell, orderbookv1.PositionShort, 10, 100.0, 1),
			setupMocks:     func(f *testFixture) {},
			setupOrderbook: func(t *testing.T, ob *orderbook.Orderbook) {},
			expectedError:  false,
			expectedFills:  0,
		},
		{
			name:         "market order fills against resting liquidity",
			orderRequest: createTestOrderRequest(orderbookv1.OrderTypeMarket, orderbookv1.SideBuy, orderbookv1.PositionLong, 5, 0, 2),
			setupMocks: func(f *testFixture) {
				f.mockFillPublisher.EXPECT().
					PublishFill(gomock.Any(), gomock.Any()).
					Return(nil).
					Times(1)
			},
			setupOrderbook: func(t *testing.T, ob *orderbook.Orderbook) {
				resident, err := orderbookv1.NewLimitOrder("BTC-USD", orderbookv1.SideSell, orderbookv1.PositionShort, 10, 99.0)
				require.NoError(t, err)
				require.NoError(t, ob.AddAsk(resident))
			},
			expectedError: false,
			expectedFills: 1,
		},
		{
			name:           "market order against empty book fails",
			orderRequest:   createTestOrderRequest(orderbookv1.OrderTypeMarket, orderbookv1.SideBuy, orderbookv1.PositionLong, 5, 0, 3),
			setupMocks:     func(f *testFixture) {},
			setupOrderbook: func(t *testing.T, ob *orderbook.Orderbook) {},
			expectedError:  true,
			expectedFills:  0,
		},
		{
			name:           "invalid limit order - negative price",
			orderRequest:   createTestOrderRequest(orderbookv1.OrderTypeLimit, orderbookv1.SideSell, orderbookv1.PositionShort, 10, -1.0, 4),
			setupMocks:     func(f *testFixture) {},
			setupOrderbook: func(t *testing.T, ob *orderbook.Orderbook) {},
			expectedError:  true,
			expectedFills:  0,
		},
		{
			name:           "invalid order - zero quantity",
			orderRequest:   createTestOrderRequest(orderbookv1.OrderTypeLimit, orderbookv1.SideSell, orderbookv1.PositionShort, 0, 100.0, 5),
			setupMocks:     func(f *testFixture) {},
			setupOrderbook: func(t *testing.T, ob *orderbook.Orderbook) {},
			expectedError:  true,
			expectedFills:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			defer fixture.teardown()

			fixture.expectNilSnapshot()
			tc.setupMocks(fixture)

			engine := createTestEngine(fixture)
			tc.setupOrderbook(t, fixture.orderbook)

			err := engine.processOrder(tc.orderRequest)

			if tc.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectedFills, engine.GetTotalFills())
		})
	}
}

func TestEngine_SnapshotManagement(t *testing.T) {
	testCases := []struct {
		name                   string
		currentOffset          int64
		lastSnapshotOffset     int64
		snapshotOffsetDelta    int64
		setupMocks             func(*testFixture)
		expectedShouldSnapshot bool
		testCreateSnapshot     bool
		expectStoreSuccess     bool
	}{
		{
			name:                "should create snapshot when offset delta exceeded",
			currentOffset:       1000,
			lastSnapshotOffset:  0,
			snapshotOffsetDelta: 500,
			setupMocks: func(f *testFixture) {
				f.mockSnapshotStore.EXPECT().
					Store(gomock.Any(), gomock.Any()).
					Return(nil).
					Times(1)
			},
			expectedShouldSnapshot: true,
			testCreateSnapshot:     true,
			expectStoreSuccess:     true,
		},
		{
			name:                   "should not create snapshot when offset delta not exceeded",
			currentOffset:          100,
			lastSnapshotOffset:     50,
			snapshotOffsetDelta:    500,
			setupMocks:             func(f *testFixture) {},
			expectedShouldSnapshot: false,
		},
		{
			name:                   "should not create snapshot with zero current offset",
			currentOffset:          0,
			lastSnapshotOffset:     0,
			snapshotOffsetDelta:    100,
			setupMocks:             func(f *testFixture) {},
			expectedShouldSnapshot: false,
		},
		{
			name:                "should create snapshot and handle store error",
			currentOffset:       1000,
			lastSnapshotOffset:  0,
			snapshotOffsetDelta: 500,
			setupMocks: func(f *testFixture) {
				f.mockSnapshotStore.EXPECT().
					Store(gomock.Any(), gomock.Any()).
					Return(errors.New("store error")).
					Times(1)
			},
			expectedShouldSnapshot: true,
			testCreateSnapshot:     true,
			expectStoreSuccess:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			defer fixture.teardown()

			fixture.expectNilSnapshot()
			tc.setupMocks(fixture)

			options := &Options{
				SnapshotInterval:    1 * time.Minute,
				SnapshotOffsetDelta: tc.snapshotOffsetDelta,
			}

			engine := NewEngineWithOptions(
				fixture.orderbook,
				fixture.mockOrderReader,
				fixture.mockFillPublisher,
				fixture.mockSnapshotStore,
				fixture.logger,
				fixture.config,
				options,
			)
			engine.ctx = context.Background()

			engine.setOrderOffset(tc.currentOffset)
			engine.setLastSnapshotOffset(tc.lastSnapshotOffset)

			assert.Equal(t, tc.expectedShouldSnapshot, engine.shouldCreateSnapshot())

			if tc.testCreateSnapshot {
				initialLastSnapshot := engine.GetLastSnapshotOffset()

				engine.createAndStoreSnapshot()

				if tc.expectStoreSuccess {
					assert.Equal(t, tc.currentOffset, engine.GetLastSnapshotOffset())
				} else {
					assert.Equal(t, initialLastSnapshot, engine.GetLastSnapshotOffset())
				}
			}
		})
	}
}

func TestEngine_GetTotalFills(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	fixture.expectNilSnapshot()
	fixture.mockFillPublisher.EXPECT().
		PublishFill(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	engine := createTestEngine(fixture)
	assert.Equal(t, int64(0), engine.GetTotalFills())

	for _, price := range []float64{99.0, 100.0} {
		resident, err := orderbookv1.NewLimitOrder("BTC-USD", orderbookv1.SideSell, orderbookv1.PositionShort, 5, price)
		require.NoError(t, err)
		require.NoError(t, fixture.orderbook.AddAsk(resident))
	}

	request := createTestOrderRequest(orderbookv1.OrderTypeMarket, orderbookv1.SideBuy, orderbookv1.PositionLong, 10, 0, 1)
	require.NoError(t, engine.processOrder(request))

	assert.Equal(t, int64(2), engine.GetTotalFills())
}

func TestEngine_StartStop(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	fixture.expectNilSnapshot()
	fixture.mockOrderReader.EXPECT().
		SetOffset(int64(-1)).
		Return(nil).
		Times(1)
	fixture.mockOrderReader.EXPECT().
		ReadMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderRequest, error) {
			<-ctx.Done()
			return kafka.Message{}, nil, ctx.Err()
		}).
		AnyTimes()
	fixture.mockOrderReader.EXPECT().
		Close().
		Return(nil).
		AnyTimes()

	engine := NewEngine(
		fixture.orderbook,
		fixture.mockOrderReader,
		fixture.mockFillPublisher,
		fixture.mockSnapshotStore,
		fixture.logger,
		fixture.config,
	)

	require.NoError(t, engine.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, engine.Stop(stopCtx))
}

func TestEngine_ConcurrentOffsetAccess(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	fixture.expectNilSnapshot()
	engine := createTestEngine(fixture)

	done := make(chan bool, 5)
	for i := 0; i < 5; i++ {
		go func(goroutineID int) {
			defer func() { done <- true }()
			for j := 0; j < 10; j++ {
				engine.setOrderOffset(int64(goroutineID*1000 + j))
				engine.setLastSnapshotOffset(int64(goroutineID*500 + j))

				_ = engine.GetOrderOffset()
				_ = engine.GetLastSnapshotOffset()
				_ = engine.GetTotalFills()
			}
		}(i)
	}

	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Test timeout - goroutines didn't complete")
		}
	}

	assert.GreaterOrEqual(t, engine.GetOrderOffset(), int64(-1))
}
