package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	app "github.com/joaquinbejar/OrderBookEngine/internal/app/engine"
	fillpublisher "github.com/joaquinbejar/OrderBookEngine/internal/usecase/fill-publisher"
	orderreader "github.com/joaquinbejar/OrderBookEngine/internal/usecase/order-reader"
	"github.com/joaquinbejar/OrderBookEngine/internal/usecase/orderbook"
	"github.com/joaquinbejar/OrderBookEngine/internal/usecase/snapshot"
	"github.com/joaquinbejar/OrderBookEngine/pkg/config"
	"github.com/joaquinbejar/OrderBookEngine/pkg/logger"
	"github.com/joaquinbejar/OrderBookEngine/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = strings.Split(cfg.RedisConfig.Addrs, ",")
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB

	rclient := redis.NewClient(log, redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	// Initialize components
	ob := orderbook.NewOrderbook(cfg.Symbol)
	oReader := orderreader.NewReader(cfg.KafkaConfig, log)
	fPublisher := fillpublisher.NewPublisher(cfg.FillsConfig, log)
	snapshotStore := snapshot.NewSnapshotStore(rclient, cfg.Symbol, log)
	engine := app.NewEngine(
		ob,
		oReader,
		fPublisher,
		snapshotStore,
		log,
		cfg,
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Order book engine started successfully", logger.Field{
		Key:   "symbol",
		Value: cfg.Symbol,
	})

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := fPublisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_fill_publisher",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Order book engine shutdown complete")
}
