package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/meddesk/clinic-api/internal/config"
	"github.com/meddesk/clinic-api/internal/repository/postgres"
	"github.com/meddesk/clinic-api/pkg/logger"
	redisbroker "github.com/meddesk/clinic-api/pkg/messaging/redis"
	"github.com/meddesk/clinic-api/pkg/metrics"
	"github.com/meddesk/clinic-api/pkg/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redisbroker.NewBroker(redisbroker.Config{URL: cfg.Redis.URL}, &zl)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.New("clinic_worker", prometheus.DefaultRegisterer)

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		log,
		m,
		worker.OutboxConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	go processor.Run(ctx)
	log.Info("outbox worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()
}
