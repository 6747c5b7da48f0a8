// Package httpapi exposes the storefront over HTTP: the public store read,
// buyer checkout, admin login and the session-gated settings update.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/payments"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

type StoreService interface {
	Get(ctx context.Context) (*models.Store, error)
	Update(ctx context.Context, patch *models.StorePatch) (*models.Store, error)
}

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, productID, idempotencyKey string) (*payments.SessionHandle, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.Token, error)
	ValidateSession(token string) (*auth.Identity, error)
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options tune behaviour that differs between deployments.
type Options struct {
	// Production hides error causes and marks cookies Secure.
	Production bool
	// RequestTimeout bounds every request handled by the router.
	RequestTimeout time.Duration
	// EnvChecks lists settings reported as set or missing by /health.
	EnvChecks map[string]bool
}

// API holds the dependencies shared by all handlers.
type API struct {
	store    StoreService
	checkout CheckoutService
	auth     AuthService
	db       Pinger
	logger   logging.Logger
	opts     Options
	now      func() time.Time
}

func NewAPI(store StoreService, checkout CheckoutService, authSvc AuthService, db Pinger, logger logging.Logger, opts Options) *API {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &API{
		store:    store,
		checkout: checkout,
		auth:     authSvc,
		db:       db,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}
