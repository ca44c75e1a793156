package observability

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Billing run metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	TenantsEvaluated prometheus.Counter
	TenantsSkipped   *prometheus.CounterVec

	// Charge metrics
	ChargesTotal      *prometheus.CounterVec
	ChargedCentsTotal prometheus.Counter
	ChargeDuration    prometheus.Histogram

	// Database pool metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentbilling_runs_total",
				Help: "Total number of billing runs",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rentbilling_run_duration_seconds",
				Help:    "Billing run duration in seconds",
				Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300},
			},
		),
		TenantsEvaluated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rentbilling_tenants_evaluated_total",
				Help: "Total number of tenants evaluated for eligibility",
			},
		),
		TenantsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentbilling_tenants_skipped_total",
				Help: "Total number of tenants skipped during billing runs",
			},
			[]string{"reason"},
		),
		ChargesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentbilling_charges_total",
				Help: "Total number of charge attempts",
			},
			[]string{"status"},
		),
		ChargedCentsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rentbilling_charged_cents_total",
				Help: "Total amount charged in minor currency units",
			},
		),
		ChargeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rentbilling_charge_duration_seconds",
				Help:    "Payment processor charge duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rentbilling_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rentbilling_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
	}

	registry.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.TenantsEvaluated,
		m.TenantsSkipped,
		m.ChargesTotal,
		m.ChargedCentsTotal,
		m.ChargeDuration,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
	)

	return m
}

// UpdateDBStats records connection pool statistics from the database handle
func (m *Metrics) UpdateDBStats(stats sql.DBStats) {
	m.DBConnectionsActive.Set(float64(stats.InUse))
	m.DBConnectionsIdle.Set(float64(stats.Idle))
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
