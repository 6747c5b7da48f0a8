package payments

import (
	"context"
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// StripeProcessor creates Stripe Checkout sessions. The secret key is taken
// from every request, so one processor serves whichever store is configured.
type StripeProcessor struct {
	backend stripe.Backend
}

// NewStripeProcessor builds a processor over its own backend with network
// retries disabled. An empty baseURL targets the public Stripe API.
func NewStripeProcessor(httpClient *http.Client, baseURL string) *StripeProcessor {
	cfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	return &StripeProcessor{backend: stripe.GetBackendWithConfig(stripe.APIBackend, cfg)}
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*SessionHandle, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.LineItem.Name),
	}
	if req.LineItem.Description != "" {
		productData.Description = stripe.String(req.LineItem.Description)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(req.LineItem.Currency),
					UnitAmount:  stripe.Int64(req.LineItem.UnitAmount),
					ProductData: productData,
				},
				Quantity: stripe.Int64(req.LineItem.Quantity),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	client := session.Client{B: p.backend, Key: req.SecretKey}
	s, err := client.New(params)
	if err != nil {
		return nil, err
	}
	if s.ID == "" {
		return nil, errors.New("processor returned an empty session id")
	}

	return &SessionHandle{ID: s.ID, URL: s.URL}, nil
}
