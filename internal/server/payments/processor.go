// Package payments hosts the payment processor port used by checkout and its
// Stripe implementation.
package payments

import (
	"context"
	"math"
)

// LineItem is a single purchasable line. UnitAmount is in minor currency
// units.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
	Currency    string
}

// CheckoutRequest describes one hosted checkout session to create with the
// credentials of a specific store.
type CheckoutRequest struct {
	SecretKey      string
	LineItem       LineItem
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

// SessionHandle identifies a created checkout session and the URL the buyer
// is redirected to.
type SessionHandle struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// Processor creates hosted checkout sessions. Implementations must issue at
// most one outbound call per invocation and never retry.
type Processor interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*SessionHandle, error)
}

// UnitAmount converts a major-unit price into minor units, rounding half away
// from zero.
func UnitAmount(price float64) int64 {
	return int64(math.Round(price * 100))
}
