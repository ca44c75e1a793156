// Package payments provides the payment processor client used to charge
// tenants.
//
// The Processor interface is the narrow contract the billing run depends on;
// StripeClient implements it against the Stripe payment intents API with
// immediate confirmation (synchronous capture). Every charge carries an
// idempotency key so a crash between the charge and the follow-up database
// update cannot double-charge a tenant on the next run.
//
// # Usage Example
//
//	client := payments.NewStripeClient(cfg.Billing.StripeAPIKey, "")
//	charge, err := client.Charge(ctx, payments.ChargeRequest{
//		CustomerID:       "cus_123",
//		PaymentMethodID:  "pm_456",
//		AmountMinorUnits: 150000,
//		Currency:         "cad",
//		IdempotencyKey:   "rent:tenant-id:2026-08-31",
//	})
package payments
