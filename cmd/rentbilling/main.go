package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/lodgepole/rentbilling/pkg/billing"
	"github.com/lodgepole/rentbilling/pkg/config"
	"github.com/lodgepole/rentbilling/pkg/observability"
	"github.com/lodgepole/rentbilling/pkg/payments"
	"github.com/lodgepole/rentbilling/pkg/storage"
	"github.com/lodgepole/rentbilling/pkg/tenants"
)

var (
	runOnce = flag.Bool("run-once", false, "Run one billing pass and exit")
	runDate = flag.String("date", "", "Run date (YYYY-MM-DD) for --run-once; defaults to today")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	ctx := context.Background()

	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize OpenTelemetry")
		return 1
	}

	db, err := storage.Connect(ctx, cfg.Database)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		return 1
	}
	defer db.Close()

	var runLock *storage.RunLock
	if cfg.Redis.URL != "" {
		runLock, err = storage.NewRunLock(cfg.Redis)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to redis")
			return 1
		}
		defer runLock.Close()
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	store := tenants.NewPostgresStore(db)
	processor := payments.NewStripeClient(cfg.Billing.StripeAPIKey, cfg.Billing.StripeBaseURL)

	opts := billing.Options{
		Currency:           cfg.Billing.Currency,
		ChargeIntervalDays: cfg.Billing.ChargeIntervalDays,
	}

	// Run once mode (for manual runs or backfilling)
	if *runOnce {
		if *runDate != "" {
			date, err := time.Parse("2006-01-02", *runDate)
			if err != nil {
				logger.WithError(err).Error("Invalid date format")
				return 1
			}
			opts.Now = func() time.Time { return date }
		}

		runner := billing.NewRunner(store, processor, logger, metrics, opts)
		result, err := runner.Run(ctx)
		if err != nil {
			logger.WithError(err).Error("Billing run failed")
			return 1
		}
		fmt.Printf("Billing run completed: %d evaluated, %d charged, %d failures\n",
			result.TenantsEvaluated, result.Charged, len(result.Failures))
		return 0
	}

	runner := billing.NewRunner(store, processor, logger, metrics, opts)
	handlers := billing.NewHandlers(runner, logger)

	router := mux.NewRouter()
	handlers.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(db, runLockClient(runLock))
	observability.RegisterHealthRoutes(healthMux, checker)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	// Scheduled mode
	c := cron.New()
	_, err = c.AddFunc(cfg.Billing.Schedule, func() {
		scheduledRun(ctx, runner, handlers, runLock, metrics, db, logger)
	})
	if err != nil {
		logger.WithError(err).Error("Failed to schedule billing run")
		return 1
	}
	c.Start()

	go func() {
		logger.Infof("Billing API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Billing API server failed")
		}
	}()

	go func() {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	logger.Infof("Billing schedule: %s", cfg.Billing.Schedule)

	sm := observability.NewShutdownManager(logger, server, cfg.Server.ShutdownTimeout)
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		cronCtx := c.Stop()
		select {
		case <-cronCtx.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		return providers.Shutdown(ctx)
	})

	if err := sm.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown failed")
		return 1
	}
	return 0
}

// scheduledRun executes the daily billing pass, guarded by the Redis run
// lock when one is configured.
func scheduledRun(ctx context.Context, runner *billing.Runner, handlers *billing.Handlers,
	runLock *storage.RunLock, metrics *observability.Metrics, db *sql.DB, logger *observability.Logger) {
	today := time.Now().UTC()

	if runLock != nil {
		ok, err := runLock.Acquire(ctx, today)
		if err != nil {
			// Redis being down should not stop billing; worst case another
			// replica runs too and the charge idempotency keys absorb it.
			logger.WithError(err).Warn("Run lock unavailable, proceeding without it")
		} else if !ok {
			logger.Info("Billing already ran today, skipping")
			return
		}
	}

	result, err := runner.Run(ctx)
	if err != nil {
		logger.WithError(err).Error("Scheduled billing run failed")
		return
	}

	handlers.RecordResult(result)
	metrics.UpdateDBStats(db.Stats())
}

// runLockClient unwraps the redis client for health checks, tolerating a nil lock
func runLockClient(lock *storage.RunLock) *redis.Client {
	if lock == nil {
		return nil
	}
	return lock.Client()
}
