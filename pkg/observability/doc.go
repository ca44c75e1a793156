// Package observability provides structured logging, Prometheus metrics,
// health checks, and OpenTelemetry tracing for the billing service.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.Info("Scheduler started")
//
// Context-aware logging:
//
//	logger.WithTenant(tenantID).WithError(err).Error("Charge failed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.ChargesTotal.WithLabelValues("succeeded").Inc()
//
// # Health Checks
//
// Configure health checker:
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	observability.RegisterHealthRoutes(mux, checker)
//
// # OpenTelemetry
//
// Initialize tracing:
//
//	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
//		ServiceName:  "rentbilling",
//		Endpoint:     "otel-collector:4317",
//	}, logger)
//	defer providers.Shutdown(ctx)
package observability
