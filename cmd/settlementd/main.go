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
	"github.com/parlaybook/engine/internal/ledger"
	"github.com/parlaybook/engine/internal/ops"
	"github.com/parlaybook/engine/internal/repository"
	"github.com/parlaybook/engine/internal/settlement"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("settlementd failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional .env for local development; env vars win.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	registry := prometheus.NewRegistry()
	metrics := infra.NewMetrics(registry)

	// Repositories
	slipRepo := repository.NewSlipRepository()
	ledgerRepo := repository.NewLedgerRepository()
	accountRepo := repository.NewAccountRepository()
	commissionRepo := repository.NewCommissionRepository()
	matchRepo := repository.NewMatchRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Core engine
	ledgerEngine := ledger.NewEngine(ledgerRepo, outboxRepo)
	distributor := settlement.NewDistributor(ledgerEngine, accountRepo, commissionRepo, outboxRepo)

	rule, err := settlement.NewPriceRule(cfg.PriceRule)
	if err != nil {
		return fmt.Errorf("select price rule: %w", err)
	}

	orchestrator := settlement.NewOrchestrator(settlement.OrchestratorParams{
		Pool:        pool,
		Slips:       slipRepo,
		Matches:     matchRepo,
		Outbox:      outboxRepo,
		Engine:      ledgerEngine,
		Distributor: distributor,
		Rule:        rule,
		Workers:     cfg.SettleWorkers,
		Policy:      settlement.CommissionFailurePolicy(cfg.CommissionFailurePolicy),
		Logger:      logger,
		Metrics:     metrics,
	})
	placement := settlement.NewPlacement(pool, slipRepo, accountRepo, ledgerEngine, settlement.DefaultStakeLimits(), logger)

	// Operator API
	tokens := ops.NewTokenManager(cfg.OpsSecret, 8*time.Hour)
	handler := ops.NewHandler(pool, orchestrator, placement, ledgerRepo, registry)
	router := ops.NewRouter(handler, tokens, logger)

	addr := fmt.Sprintf(":%d", cfg.OpsPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ops server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Periodic sweep settles slips left pending by earlier passes.
	go func() {
		ticker := time.NewTicker(cfg.SettleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := orchestrator.RunSweep(ctx); err != nil {
					logger.Error("settlement sweep failed", "error", err)
				}
			}
		}
	}()
	logger.Info("settlement sweep scheduled",
		"interval", cfg.SettleInterval,
		"workers", cfg.SettleWorkers,
		"price_rule", rule.Name(),
		"commission_failure_policy", cfg.CommissionFailurePolicy,
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	logger.Info("settlementd stopped")
	return nil
}
