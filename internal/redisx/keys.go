package redisx

import (
	"fmt"
	"time"
)

const (
	// Idempotent checkout: idem:checkout:{product_id}:{idempotency_key} -> session handle JSON
	KeyIdemCheckout = "idem:checkout:%s:%s"
)

// DefaultTTLIdempotency matches the processor's own idempotency window.
var DefaultTTLIdempotency = 24 * time.Hour

func CheckoutKey(productID, idempotencyKey string) string {
	return fmt.Sprintf(KeyIdemCheckout, productID, idempotencyKey)
}
