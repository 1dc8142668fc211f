package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/parlaybook/engine/internal/infra"
	"github.com/parlaybook/engine/internal/outbox"
	"github.com/parlaybook/engine/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	registry := prometheus.NewRegistry()
	metrics := infra.NewMetrics(registry)
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.OutboxMetricsPort),
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()
	defer metricsSrv.Close()

	relay := outbox.NewRelay(repository.NewOutboxRepository(), producer, cfg.KafkaTopic, cfg.OutboxBatchSize, metrics, logger)
	logger.Info("outbox-consumer starting",
		slog.Duration("poll_interval", cfg.OutboxPollInterval),
		slog.Int("batch_size", cfg.OutboxBatchSize),
		slog.String("topic", cfg.KafkaTopic),
		slog.Int("metrics_port", cfg.OutboxMetricsPort),
	)

	ticker := time.NewTicker(cfg.OutboxPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox-consumer shutting down")
			return nil
		case <-ticker.C:
			if err := relay.Drain(ctx, pool); err != nil {
				logger.Error("drain error", slog.String("error", err.Error()))
			}
		}
	}
}
