package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	chRepo "event-aggregation-bot/internal/aggregation/adapters/clickhouse"
	aggHttp "event-aggregation-bot/internal/aggregation/adapters/http/fiber"
	mongoRepo "event-aggregation-bot/internal/aggregation/adapters/mongo"
	pgRepo "event-aggregation-bot/internal/aggregation/adapters/postgres"
	"event-aggregation-bot/internal/aggregation/adapters/query"
	redisCache "event-aggregation-bot/internal/aggregation/adapters/redis"
	"event-aggregation-bot/internal/aggregation/adapters/telegram"
	"event-aggregation-bot/internal/aggregation/core/ports"
	"event-aggregation-bot/internal/aggregation/core/usecase"
	"event-aggregation-bot/internal/config"
	"event-aggregation-bot/internal/logging"

	_ "event-aggregation-bot/docs"
)

// @title Event Aggregation API
// @version 1.0
// @description Aggregates timestamped event values into hourly, daily or monthly buckets.
// @host localhost:8080
// @BasePath /
func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log, logCloser, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up logging")
	}
	defer logCloser.Close()

	log.WithField("config", cfg.String()).Info("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Event store
	reader, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("failed to open event store")
	}
	defer closeStore()
	log.WithField("driver", cfg.StoreDriver).Info("event store ready")

	// Usecase
	opts := []usecase.Option{
		usecase.WithMaxBuckets(cfg.MaxBuckets),
		usecase.WithLogger(log),
	}
	if cfg.RedisAddr != "" {
		rdb := redisCache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		opts = append(opts, usecase.WithCache(redisCache.NewSeriesCache(rdb, cfg.CacheTTL)))
		log.WithField("addr", cfg.RedisAddr).Info("redis series cache enabled")
	}
	aggregateUC := usecase.NewAggregateUseCase(reader, opts...)

	queryHandler := query.NewHandler(aggregateUC, log)

	var wg sync.WaitGroup

	// Telegram
	if cfg.TelegramToken != "" {
		api, updates, err := telegram.NewAPI(cfg.TelegramToken, log)
		if err != nil {
			log.WithError(err).Fatal("failed to start telegram bot")
		}
		bot := telegram.NewBot(api, queryHandler, log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Run(ctx, updates)
		}()

		go func() {
			<-ctx.Done()
			api.StopReceivingUpdates()
		}()
	}

	// HTTP (Fiber)
	if cfg.HTTPEnabled {
		app := aggHttp.NewApp(aggHttp.NewAggregationHandler(queryHandler))

		go func() {
			if err := app.Listen(cfg.HTTPAddr); err != nil {
				log.WithError(err).Error("fiber stopped")
			}
		}()
		log.WithField("addr", cfg.HTTPAddr).Info("server started")

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.WithError(err).Error("fiber shutdown error")
			}
		}()
	}

	<-ctx.Done()

	log.Info("shutting down...")
	wg.Wait()
	log.Info("bot exiting")
}

func openStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (ports.EventReaderPort, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := pgRepo.Open(ctx, cfg.PostgresConnectionDSN())
		if err != nil {
			return nil, nil, err
		}
		return pgRepo.NewEventRepository(pgRepo.NewSQLDB(db), cfg.DBCollectionName), func() { db.Close() }, nil

	case config.DriverClickHouse:
		conn, err := chRepo.Open(ctx, chRepo.Config{
			Addr:     cfg.DBAddr(),
			Database: cfg.DBName,
			Username: cfg.DBUser,
			Password: cfg.DBPassword,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		return chRepo.NewEventRepository(chRepo.NewConn(conn), cfg.DBCollectionName), func() { conn.Close() }, nil

	default:
		client, err := mongoRepo.Connect(ctx, cfg.MongoConnectionURI())
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.DBName).Collection(cfg.DBCollectionName)
		return mongoRepo.NewEventRepository(coll), mongoRepo.CloseFunc(client, 5*time.Second, log), nil
	}
}
