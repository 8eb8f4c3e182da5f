package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/holiday"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RunWorker publishes outbox events to kafka and runs the scheduled holiday import.
// Either part is skipped when its configuration is missing.
func RunWorker(cfg *Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := 0

	if cfg.Kafka.Broker != "" {
		kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, 5)
		if err != nil {
			return err
		}
		defer kafkaWriter.Close()

		go producer.ProcessOutboxEvents(
			ctx,
			kafka.NewOutboxRepository(sqlDB),
			kafkaWriter,
			logger,
			cfg.Kafka.PollInterval,
		)
		started++
	} else {
		logger.Warn("KAFKA_BROKER not set, outbox publisher disabled")
	}

	if cfg.Holiday.ICSURL != "" {
		var rdb *redis.Client
		if cfg.Redis.Addr != "" {
			if rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5); err != nil {
				return err
			}
			defer rdb.Close()
		}

		holidayService := holiday.NewService(
			sqlDB,
			holiday.NewRepository(gormDB),
			holiday.NewHTTPFetcher(cfg.Holiday.FetchTimeout),
			rdb,
			logger,
		)
		scheduler, err := holiday.NewScheduler(holidayService, cfg.Holiday.ImportCron, cfg.Holiday.ICSURL, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
		started++
	} else {
		logger.Warn("HOLIDAY_ICS_URL not set, scheduled holiday import disabled")
	}

	if started == 0 {
		logger.Warn("worker has nothing to do")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
