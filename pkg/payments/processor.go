package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ChargeRequest describes a single synchronous rent charge
type ChargeRequest struct {
	// CustomerID is the processor's customer reference
	CustomerID string

	// PaymentMethodID is the processor's stored payment instrument reference
	PaymentMethodID string

	// AmountMinorUnits is the charge amount in the currency's smallest
	// denomination (cents for decimal currencies)
	AmountMinorUnits int64

	// Currency is the lowercase ISO currency code
	Currency string

	// IdempotencyKey de-duplicates retried requests at the processor
	IdempotencyKey string
}

// Charge is the processor's record of a completed payment
type Charge struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	AmountMinorUnits int64  `json:"amount"`
	Currency         string `json:"currency"`
}

// ProcessorError wraps a payment processor failure. Declined carries whether
// the processor rejected the charge (as opposed to a transport failure).
type ProcessorError struct {
	Op       string
	Declined bool
	Code     string
	Err      error
}

func (e *ProcessorError) Error() string {
	if e.Declined {
		return fmt.Sprintf("payment processor: %s: declined (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("payment processor: %s: %v", e.Op, e.Err)
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// Processor charges customers through a payment provider. Failures are
// *ProcessorError.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

// StripeClient implements Processor against the Stripe payment intents API
type StripeClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewStripeClient creates a Stripe API client. baseURL is overridable for
// tests; pass "" for the production endpoint.
func NewStripeClient(apiKey, baseURL string) *StripeClient {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// stripeError mirrors the error envelope of Stripe API responses
type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Charge creates and immediately confirms a payment intent
func (c *StripeClient) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountMinorUnits, 10))
	form.Set("currency", req.Currency)
	form.Set("customer", req.CustomerID)
	form.Set("payment_method", req.PaymentMethodID)
	form.Set("confirm", "true")
	form.Set("off_session", "true")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ProcessorError{Op: "create payment intent", Err: err}
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ProcessorError{Op: "create payment intent", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &ProcessorError{Op: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr stripeError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, &ProcessorError{
				Op:       "create payment intent",
				Declined: resp.StatusCode == http.StatusPaymentRequired || apiErr.Error.Type == "card_error",
				Code:     apiErr.Error.Code,
				Err:      fmt.Errorf("%s", apiErr.Error.Message),
			}
		}
		return nil, &ProcessorError{
			Op:  "create payment intent",
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	charge := &Charge{}
	if err := json.Unmarshal(body, charge); err != nil {
		return nil, &ProcessorError{Op: "decode payment intent", Err: err}
	}

	return charge, nil
}
