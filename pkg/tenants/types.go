package tenants

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant represents a tenant record owned by the tenants table. The billing
// job only reads tenants and updates LastPaymentDate.
type Tenant struct {
	ID              uuid.UUID       `json:"id"`
	Rent            decimal.Decimal `json:"rent"`
	MoveInDate      time.Time       `json:"move_in_date"`
	MoveOutDate     *time.Time      `json:"move_out_date,omitempty"`
	LastPaymentDate *time.Time      `json:"rent_most_recent_payment_date,omitempty"`
}

// PaymentMethod associates a tenant with a payment processor customer and
// stored payment instrument.
type PaymentMethod struct {
	ID                    int64     `json:"id"`
	TenantID              uuid.UUID `json:"tenant_id"`
	StripeCustomerID      string    `json:"stripe_customer_id"`
	StripePaymentMethodID string    `json:"stripe_payment_method_id"`
	IsDefault             bool      `json:"is_default"`
	CreatedAt             time.Time `json:"created_at"`
}

// StoreError wraps a tenant store failure with the operation that produced it
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "tenant store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
