package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/telemeet/telemed-api/internal/repository/postgres"
	"github.com/telemeet/telemed-api/pkg/logger"
	redisbroker "github.com/telemeet/telemed-api/pkg/messaging/redis"
	"github.com/telemeet/telemed-api/pkg/metrics"
	"github.com/telemeet/telemed-api/pkg/worker"
)

func main() {
	cfg, err := loadWorkerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load worker config")
	}

	appLogger := logger.NewLogger(nil)

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   cfg.RedisMaxRetries,
		RetryBackoff: cfg.RedisRetryBackoff,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.BatchSize,
			PollInterval:  cfg.PollInterval,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
		},
		appLogger,
		metrics.NewMetrics("telemed_worker"),
	)

	startHealthServer(cfg.HealthPort, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down worker")
		cancel()
	}()

	processor.Start(ctx)
}

func startHealthServer(port int, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			appLogger.Error(err, "health check server failed")
		}
	}()
}
