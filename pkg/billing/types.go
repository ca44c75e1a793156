package billing

import (
	"time"

	"github.com/google/uuid"
)

// Failure stages recorded in RunResult
const (
	StagePaymentMethodLookup = "payment_method_lookup"
	StageCharge              = "charge"
	StageRecordPayment       = "record_payment"
)

// Skip reasons used for metrics labels
const (
	SkipReasonNotDue          = "not_due"
	SkipReasonNoPaymentMethod = "no_payment_method"
)

// TenantFailure records a per-tenant failure that did not abort the run
type TenantFailure struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Stage    string    `json:"stage"`
	Error    string    `json:"error"`
}

// RunResult aggregates the outcome of one billing run. A run with per-tenant
// failures still completes; only a tenant-fetch failure aborts it.
type RunResult struct {
	RunID                  string          `json:"run_id"`
	StartedAt              time.Time       `json:"started_at"`
	Duration               time.Duration   `json:"duration_ns"`
	TenantsEvaluated       int             `json:"tenants_evaluated"`
	Charged                int             `json:"charged"`
	ChargedMinorUnits      int64           `json:"charged_minor_units"`
	SkippedNotDue          int             `json:"skipped_not_due"`
	SkippedNoPaymentMethod int             `json:"skipped_no_payment_method"`
	Failures               []TenantFailure `json:"failures,omitempty"`
}

// HasFailures reports whether any tenant failed during the run
func (r *RunResult) HasFailures() bool {
	return len(r.Failures) > 0
}
