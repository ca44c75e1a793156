// Package tenants provides the tenant record store used by the billing run.
//
// The billing job treats the tenant database as an external collaborator
// behind the Store interface: it lists billable tenants, looks up their
// payment methods, and writes back a single field
// (rent_most_recent_payment_date) after a successful charge.
//
// # Usage Example
//
//	store := tenants.NewPostgresStore(db)
//	billable, err := store.ListBillable(ctx)
//	methods, err := store.ListPaymentMethods(ctx, tenant.ID)
//	err = store.UpdateLastPaymentDate(ctx, tenant.ID, time.Now())
//
// # Related Packages
//
//   - pkg/billing: Consumes Store during billing runs
package tenants
