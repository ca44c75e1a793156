package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lodgepole/rentbilling/pkg/observability"
	"github.com/lodgepole/rentbilling/pkg/payments"
	"github.com/lodgepole/rentbilling/pkg/tenants"
)

// minorUnitsPerMajor converts a decimal currency amount to its smallest
// denomination (dollars to cents).
var minorUnitsPerMajor = decimal.NewFromInt(100)

// Options configures a Runner
type Options struct {
	// Currency is the lowercase ISO code used for every charge
	Currency string

	// ChargeIntervalDays is the eligibility threshold in days
	ChargeIntervalDays int

	// Now supplies the run timestamp; defaults to time.Now
	Now func() time.Time
}

// Runner drives one end-to-end billing pass: fetch billable tenants, decide
// eligibility, charge, and record the payment date.
type Runner struct {
	store     tenants.Store
	processor payments.Processor
	logger    *observability.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer

	currency     string
	intervalDays int
	now          func() time.Time
}

// NewRunner creates a Runner with injected collaborators
func NewRunner(store tenants.Store, processor payments.Processor,
	logger *observability.Logger, metrics *observability.Metrics, opts Options) *Runner {
	currency := opts.Currency
	if currency == "" {
		currency = "cad"
	}
	intervalDays := opts.ChargeIntervalDays
	if intervalDays <= 0 {
		intervalDays = DefaultChargeIntervalDays
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		store:        store,
		processor:    processor,
		logger:       logger,
		metrics:      metrics,
		tracer:       observability.Tracer("rentbilling/billing"),
		currency:     currency,
		intervalDays: intervalDays,
		now:          now,
	}
}

// Run executes one billing pass. It returns an error only when the tenant
// fetch fails; per-tenant charge and lookup failures are logged, recorded in
// the result, and do not abort the remaining tenants.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	ctx, span := r.tracer.Start(ctx, "billing.run")
	defer span.End()

	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	ctx = observability.WithLogger(ctx, r.logger)
	logger := observability.FromContext(ctx)

	today := r.now().UTC()
	start := time.Now()
	result := &RunResult{RunID: runID, StartedAt: today}

	logger.Info("Starting tenant billing run")

	billable, err := r.store.ListBillable(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch billable tenants")
		r.metrics.RunsTotal.WithLabelValues("fetch_failed").Inc()
		return nil, fmt.Errorf("failed to fetch billable tenants: %w", err)
	}

	for _, tenant := range billable {
		r.processTenant(ctx, today, tenant, result)
	}

	result.Duration = time.Since(start)

	r.metrics.RunDuration.Observe(result.Duration.Seconds())
	if result.HasFailures() {
		r.metrics.RunsTotal.WithLabelValues("completed_with_failures").Inc()
	} else {
		r.metrics.RunsTotal.WithLabelValues("succeeded").Inc()
	}

	span.SetAttributes(
		attribute.String("billing.run_id", runID),
		attribute.Int("billing.tenants_evaluated", result.TenantsEvaluated),
		attribute.Int("billing.charged", result.Charged),
		attribute.Int("billing.failures", len(result.Failures)),
	)

	logger.WithFields(map[string]interface{}{
		"evaluated": result.TenantsEvaluated,
		"charged":   result.Charged,
		"failures":  len(result.Failures),
	}).Info("Tenant billing run completed")

	return result, nil
}

// processTenant runs the decide-charge-record sequence for a single tenant.
// Each tenant is independent; a failure here never propagates to the caller.
func (r *Runner) processTenant(ctx context.Context, today time.Time, tenant *tenants.Tenant, result *RunResult) {
	result.TenantsEvaluated++
	r.metrics.TenantsEvaluated.Inc()

	logger := observability.FromContext(ctx).WithTenant(tenant.ID.String())

	if !ShouldCharge(today, tenant.MoveInDate, tenant.LastPaymentDate, tenant.MoveOutDate, r.intervalDays) {
		result.SkippedNotDue++
		r.metrics.TenantsSkipped.WithLabelValues(SkipReasonNotDue).Inc()
		return
	}

	methods, err := r.store.ListPaymentMethods(ctx, tenant.ID)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch payment methods")
		r.recordFailure(result, tenant, StagePaymentMethodLookup, err)
		return
	}

	if len(methods) == 0 {
		logger.Debug("Tenant is due but has no payment method on file")
		result.SkippedNoPaymentMethod++
		r.metrics.TenantsSkipped.WithLabelValues(SkipReasonNoPaymentMethod).Inc()
		return
	}

	method := methods[0]
	amount := tenant.Rent.Mul(minorUnitsPerMajor).IntPart()

	chargeStart := time.Now()
	charge, err := r.processor.Charge(ctx, payments.ChargeRequest{
		CustomerID:       method.StripeCustomerID,
		PaymentMethodID:  method.StripePaymentMethodID,
		AmountMinorUnits: amount,
		Currency:         r.currency,
		IdempotencyKey:   fmt.Sprintf("rent:%s:%s", tenant.ID, today.Format("2006-01-02")),
	})
	r.metrics.ChargeDuration.Observe(time.Since(chargeStart).Seconds())

	if err != nil {
		logger.WithError(err).Error("Charge failed")
		r.metrics.ChargesTotal.WithLabelValues("failed").Inc()
		r.recordFailure(result, tenant, StageCharge, err)
		return
	}

	result.Charged++
	result.ChargedMinorUnits += amount
	r.metrics.ChargesTotal.WithLabelValues("succeeded").Inc()
	r.metrics.ChargedCentsTotal.Add(float64(amount))

	logger.WithFields(map[string]interface{}{
		"charge_id": charge.ID,
		"amount":    amount,
		"currency":  r.currency,
	}).Info("Tenant charged")

	if err := r.store.UpdateLastPaymentDate(ctx, tenant.ID, today); err != nil {
		// The charge went through; the idempotency key keeps the next run
		// from double-charging even though the payment date is stale.
		logger.WithError(err).Error("Failed to record payment date after successful charge")
		r.recordFailure(result, tenant, StageRecordPayment, err)
	}
}

func (r *Runner) recordFailure(result *RunResult, tenant *tenants.Tenant, stage string, err error) {
	result.Failures = append(result.Failures, TenantFailure{
		TenantID: tenant.ID,
		Stage:    stage,
		Error:    err.Error(),
	})
}
