// Package redisx wraps the optional Redis cache used to replay idempotent
// checkout requests.
package redisx

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// New returns a client for addr with short network timeouts. A slow cache
// must never hold up checkout.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}
