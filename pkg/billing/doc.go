// Package billing implements the scheduled rent billing run.
//
// # Overview
//
// A billing run fetches billable tenants, evaluates each against the rent
// eligibility rule, charges the eligible ones through the payment processor,
// and records the charge timestamp back to the tenant store.
//
// # Eligibility
//
// ShouldCharge is a pure function of four date inputs:
//
//	due := billing.ShouldCharge(today, moveIn, lastPayment, moveOut, 30)
//
// Rent comes due 30 days after move-in, the clock resets on every successful
// payment, and no tenant is charged on or after their move-out date.
//
// # Billing Run
//
// The Runner processes tenants sequentially, isolating per-tenant failures:
//
//	runner := billing.NewRunner(store, processor, logger, metrics, billing.Options{
//		Currency:           "cad",
//		ChargeIntervalDays: 30,
//	})
//	result, err := runner.Run(ctx)
//
// Only a failure to fetch the tenant list aborts a run. Lookup failures,
// declined charges, and record-keeping failures are logged, counted in the
// RunResult, and the loop continues with the next tenant.
//
// # Related Packages
//
//   - pkg/tenants: Tenant store the run reads and updates
//   - pkg/payments: Payment processor used for charges
package billing
