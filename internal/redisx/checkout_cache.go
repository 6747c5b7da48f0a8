package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/payments"
	"github.com/redis/go-redis/v9"
)

// CheckoutCache remembers the session created for a (product, idempotency
// key) pair so a retried request gets the same handle back.
type CheckoutCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCheckoutCache(rdb *redis.Client, ttl time.Duration) *CheckoutCache {
	if ttl <= 0 {
		ttl = DefaultTTLIdempotency
	}
	return &CheckoutCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached handle. A miss is reported with ok == false and a
// nil error.
func (c *CheckoutCache) Get(ctx context.Context, productID, idempotencyKey string) (*payments.SessionHandle, bool, error) {
	b, err := c.rdb.Get(ctx, CheckoutKey(productID, idempotencyKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis error: %w", err)
	}

	var h payments.SessionHandle
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, false, fmt.Errorf("decode cached session: %w", err)
	}
	return &h, true, nil
}

// Put stores h unless an entry already exists. The first writer wins.
func (c *CheckoutCache) Put(ctx context.Context, productID, idempotencyKey string, h *payments.SessionHandle) error {
	b, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if err := c.rdb.SetNX(ctx, CheckoutKey(productID, idempotencyKey), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
