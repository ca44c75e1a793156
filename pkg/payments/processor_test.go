package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeClientCharge(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotReq *http.Request
		var gotForm map[string]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotReq = r
			require.NoError(t, r.ParseForm())
			gotForm = map[string]string{}
			for k := range r.PostForm {
				gotForm[k] = r.PostForm.Get(k)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"pi_123","status":"succeeded","amount":150000,"currency":"cad"}`))
		}))
		defer server.Close()

		client := NewStripeClient("sk_test_abc", server.URL)

		charge, err := client.Charge(context.Background(), ChargeRequest{
			CustomerID:       "cus_123",
			PaymentMethodID:  "pm_456",
			AmountMinorUnits: 150000,
			Currency:         "cad",
			IdempotencyKey:   "rent:t1:2026-08-31",
		})
		require.NoError(t, err)

		assert.Equal(t, "pi_123", charge.ID)
		assert.Equal(t, "succeeded", charge.Status)
		assert.Equal(t, int64(150000), charge.AmountMinorUnits)

		assert.Equal(t, "/v1/payment_intents", gotReq.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", gotReq.Header.Get("Authorization"))
		assert.Equal(t, "rent:t1:2026-08-31", gotReq.Header.Get("Idempotency-Key"))
		assert.Equal(t, "150000", gotForm["amount"])
		assert.Equal(t, "cad", gotForm["currency"])
		assert.Equal(t, "cus_123", gotForm["customer"])
		assert.Equal(t, "pm_456", gotForm["payment_method"])
		assert.Equal(t, "true", gotForm["confirm"])
	})

	t.Run("card declined", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
		}))
		defer server.Close()

		client := NewStripeClient("sk_test_abc", server.URL)

		charge, err := client.Charge(context.Background(), ChargeRequest{
			CustomerID:       "cus_123",
			PaymentMethodID:  "pm_456",
			AmountMinorUnits: 5000,
			Currency:         "cad",
		})
		assert.Nil(t, charge)

		var procErr *ProcessorError
		require.ErrorAs(t, err, &procErr)
		assert.True(t, procErr.Declined)
		assert.Equal(t, "card_declined", procErr.Code)
		assert.Contains(t, procErr.Error(), "declined")
	})

	t.Run("unexpected status without error envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewStripeClient("sk_test_abc", server.URL)

		_, err := client.Charge(context.Background(), ChargeRequest{
			CustomerID:      "cus_123",
			PaymentMethodID: "pm_456",
			Currency:        "cad",
		})

		var procErr *ProcessorError
		require.ErrorAs(t, err, &procErr)
		assert.False(t, procErr.Declined)
		assert.Contains(t, procErr.Error(), "unexpected status 502")
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused

		client := NewStripeClient("sk_test_abc", server.URL)

		_, err := client.Charge(context.Background(), ChargeRequest{
			CustomerID:      "cus_123",
			PaymentMethodID: "pm_456",
			Currency:        "cad",
		})

		var procErr *ProcessorError
		require.ErrorAs(t, err, &procErr)
		assert.False(t, procErr.Declined)
	})
}
