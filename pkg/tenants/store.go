package tenants

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store defines the narrow interface the billing run needs from the tenant
// database. All methods fail with *StoreError.
type Store interface {
	// ListBillable returns tenants that have a rent amount and a move-in
	// date on file.
	ListBillable(ctx context.Context) ([]*Tenant, error)

	// ListPaymentMethods returns the payment methods for a tenant, default
	// method first.
	ListPaymentMethods(ctx context.Context, tenantID uuid.UUID) ([]*PaymentMethod, error)

	// UpdateLastPaymentDate records the timestamp of the latest successful
	// rent charge.
	UpdateLastPaymentDate(ctx context.Context, tenantID uuid.UUID, ts time.Time) error
}

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListBillable returns tenants eligible for evaluation. move_out_date is
// deliberately not part of the filter: active tenants without a scheduled
// move-out still owe rent.
func (s *PostgresStore) ListBillable(ctx context.Context) ([]*Tenant, error) {
	query := `
		SELECT id, rent, move_in_date, move_out_date, rent_most_recent_payment_date
		FROM tenants
		WHERE rent IS NOT NULL
		  AND move_in_date IS NOT NULL
		ORDER BY move_in_date
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &StoreError{Op: "list billable tenants", Err: err}
	}
	defer rows.Close()

	var result []*Tenant
	for rows.Next() {
		tenant := &Tenant{}
		var moveOut, lastPayment sql.NullTime

		if err := rows.Scan(&tenant.ID, &tenant.Rent, &tenant.MoveInDate, &moveOut, &lastPayment); err != nil {
			return nil, &StoreError{Op: "scan tenant", Err: err}
		}

		if moveOut.Valid {
			tenant.MoveOutDate = &moveOut.Time
		}
		if lastPayment.Valid {
			tenant.LastPaymentDate = &lastPayment.Time
		}

		result = append(result, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "iterate tenants", Err: err}
	}

	return result, nil
}

// ListPaymentMethods returns a tenant's payment methods ordered so the
// default (or most recently added) method comes first.
func (s *PostgresStore) ListPaymentMethods(ctx context.Context, tenantID uuid.UUID) ([]*PaymentMethod, error) {
	query := `
		SELECT id, tenant_id, stripe_customer_id, stripe_payment_method_id, is_default, created_at
		FROM stripe_payment_methods
		WHERE tenant_id = $1
		ORDER BY is_default DESC, created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, &StoreError{Op: "list payment methods", Err: err}
	}
	defer rows.Close()

	var methods []*PaymentMethod
	for rows.Next() {
		pm := &PaymentMethod{}
		if err := rows.Scan(&pm.ID, &pm.TenantID, &pm.StripeCustomerID,
			&pm.StripePaymentMethodID, &pm.IsDefault, &pm.CreatedAt); err != nil {
			return nil, &StoreError{Op: "scan payment method", Err: err}
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "iterate payment methods", Err: err}
	}

	return methods, nil
}

// UpdateLastPaymentDate sets rent_most_recent_payment_date for a tenant
func (s *PostgresStore) UpdateLastPaymentDate(ctx context.Context, tenantID uuid.UUID, ts time.Time) error {
	query := `UPDATE tenants SET rent_most_recent_payment_date = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, ts, tenantID)
	if err != nil {
		return &StoreError{Op: "update last payment date", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &StoreError{Op: "update last payment date", Err: err}
	}
	if rowsAffected == 0 {
		return &StoreError{Op: "update last payment date", Err: fmt.Errorf("tenant %s not found", tenantID)}
	}

	return nil
}
