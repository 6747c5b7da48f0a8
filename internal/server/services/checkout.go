package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/events"
	"github.com/dmitrijs2005/storefront/internal/server/payments"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// maxIdempotencyKeyLen is the longest key the processor accepts.
const maxIdempotencyKeyLen = 255

// SessionCache replays checkout sessions already created for an
// idempotency key.
type SessionCache interface {
	Get(ctx context.Context, productID, idempotencyKey string) (*payments.SessionHandle, bool, error)
	Put(ctx context.Context, productID, idempotencyKey string, h *payments.SessionHandle) error
}

// CheckoutService turns a product id into a hosted checkout session at the
// payment processor. It never writes to the database.
type CheckoutService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	processor        payments.Processor
	cache            SessionCache
	publisher        events.Publisher
	logger           logging.Logger
	dbTimeout        time.Duration
	processorTimeout time.Duration
	baseURL          string
	currency         string
}

// NewCheckoutService wires a CheckoutService. cache may be nil, in which case
// idempotency keys are only forwarded to the processor.
func NewCheckoutService(db *sql.DB, m repomanager.RepositoryManager, processor payments.Processor, cache SessionCache,
	publisher events.Publisher, cfg *config.Config, logger logging.Logger) *CheckoutService {
	return &CheckoutService{
		db:               db,
		repomanager:      m,
		processor:        processor,
		cache:            cache,
		publisher:        publisher,
		logger:           logger,
		dbTimeout:        cfg.DatabaseTimeout,
		processorTimeout: cfg.ProcessorTimeout,
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		currency:         cfg.Currency,
	}
}

// CreateCheckoutSession creates a one-item, quantity-one checkout session for
// productID using the owning store's processor credentials.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, productID, idempotencyKey string) (*payments.SessionHandle, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, common.ErrorNotFound
	}
	if len(idempotencyKey) > maxIdempotencyKeyLen {
		return nil, fmt.Errorf("%w: idempotency key too long", common.ErrValidation)
	}

	if h := s.replay(ctx, productID, idempotencyKey); h != nil {
		return h, nil
	}

	dbCtx, cancel := withTimeout(ctx, s.dbTimeout)
	product, store, err := s.repomanager.Products(s.db).GetWithStore(dbCtx, productID)
	cancel()
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}

	if !store.PaymentConfigured() {
		s.logger.Warn(ctx, "checkout attempted without processor credentials", "store_id", store.ID)
		return nil, common.ErrPaymentNotConfigured
	}

	req := payments.CheckoutRequest{
		SecretKey: store.ProcessorSecretKey,
		LineItem: payments.LineItem{
			Name:        product.Title,
			Description: product.Description,
			UnitAmount:  payments.UnitAmount(product.Price),
			Quantity:    1,
			Currency:    s.currency,
		},
		SuccessURL:     s.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      s.baseURL,
		IdempotencyKey: idempotencyKey,
	}

	pCtx, cancel := withTimeout(ctx, s.processorTimeout)
	defer cancel()

	h, err := s.processor.CreateCheckoutSession(pCtx, req)
	if err == nil && (h == nil || h.ID == "") {
		err = errors.New("empty session id")
	}
	if err != nil {
		cause := redact(err.Error(), store.ProcessorSecretKey)
		s.logger.Error(ctx, "checkout session failed", "product_id", productID, "error", cause)
		return nil, fmt.Errorf("%w: %s", common.ErrUpstream, cause)
	}

	s.logger.Info(ctx, "checkout session created", "product_id", productID, "session_id", h.ID, "unit_amount", req.LineItem.UnitAmount)
	s.remember(ctx, productID, idempotencyKey, h)
	s.publishCreated(ctx, store.ID, productID, h, req.LineItem)

	return h, nil
}

// --- helpers below ---

func (s *CheckoutService) replay(ctx context.Context, productID, idempotencyKey string) *payments.SessionHandle {
	if s.cache == nil || idempotencyKey == "" {
		return nil
	}
	h, ok, err := s.cache.Get(ctx, productID, idempotencyKey)
	if err != nil {
		s.logger.Warn(ctx, "idempotency cache read failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	s.logger.Debug(ctx, "checkout session replayed", "product_id", productID, "session_id", h.ID)
	return h
}

func (s *CheckoutService) remember(ctx context.Context, productID, idempotencyKey string, h *payments.SessionHandle) {
	if s.cache == nil || idempotencyKey == "" {
		return
	}
	if err := s.cache.Put(ctx, productID, idempotencyKey, h); err != nil {
		s.logger.Warn(ctx, "idempotency cache write failed", "error", err)
	}
}

func (s *CheckoutService) publishCreated(ctx context.Context, storeID, productID string, h *payments.SessionHandle, item payments.LineItem) {
	err := s.publisher.Publish(ctx, events.Event{
		Topic: events.TopicCheckoutSessionCreated,
		Key:   productID,
		Type:  events.EventCheckoutSessionCreated,
		Payload: events.CheckoutSessionCreatedPayload{
			SessionID:  h.ID,
			StoreID:    storeID,
			ProductID:  productID,
			UnitAmount: item.UnitAmount,
			Currency:   item.Currency,
		},
	})
	if err != nil {
		s.logger.Warn(ctx, "checkout.session.created event dropped", "error", err)
	}
}

func redact(msg, secret string) string {
	if secret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, secret, "[redacted]")
}
