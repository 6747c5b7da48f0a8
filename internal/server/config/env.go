package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseEnv overlays values from the process environment. A .env file, if
// present, is loaded into the environment by main before this runs.
//
// The legacy deployment variable names (DATABASE_URL, STRIPE_SECRET_KEY,
// NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY, NEXT_PUBLIC_APP_URL) are honoured so
// existing .env files keep working.
func parseEnv(config *Config) {
	applyEnv(config, os.LookupEnv)
}

func applyEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	dur := func(dst *time.Duration, key string) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}
	num := func(dst *int, key string) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				panic(err)
			}
			*dst = n
		}
	}

	str(&config.EndpointAddrHTTP, "STOREFRONT_HTTP_ADDR")
	str(&config.EndpointAddrGRPC, "STOREFRONT_GRPC_ADDR")
	str(&config.DatabaseDSN, "STOREFRONT_DATABASE_DSN", "DATABASE_URL")
	num(&config.DatabaseMaxOpenConns, "STOREFRONT_DATABASE_MAX_OPEN_CONNS")
	num(&config.DatabaseMaxIdleConns, "STOREFRONT_DATABASE_MAX_IDLE_CONNS")
	dur(&config.DatabaseTimeout, "STOREFRONT_DATABASE_TIMEOUT")
	str(&config.SecretKey, "STOREFRONT_SECRET_KEY")
	dur(&config.SessionValidityDuration, "STOREFRONT_SESSION_VALIDITY")
	str(&config.BaseURL, "STOREFRONT_BASE_URL", "NEXT_PUBLIC_APP_URL")
	str(&config.Environment, "STOREFRONT_ENV")
	str(&config.Currency, "STOREFRONT_CURRENCY")
	dur(&config.ProcessorTimeout, "STOREFRONT_PROCESSOR_TIMEOUT")
	str(&config.ProcessorBaseURL, "STOREFRONT_PROCESSOR_BASE_URL")
	str(&config.AdminEmail, "STOREFRONT_ADMIN_EMAIL")
	str(&config.AdminPassword, "STOREFRONT_ADMIN_PASSWORD")
	str(&config.AdminPasswordHash, "STOREFRONT_ADMIN_PASSWORD_HASH")
	str(&config.SeedProcessorSecretKey, "STRIPE_SECRET_KEY")
	str(&config.SeedProcessorPublishableKey, "NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY")
	str(&config.RedisAddr, "REDIS_ADDR")
	dur(&config.IdempotencyTTL, "STOREFRONT_IDEMPOTENCY_TTL")
	dur(&config.ShutdownTimeout, "STOREFRONT_SHUTDOWN_TIMEOUT")

	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		config.KafkaBrokers = flagx.SplitCSV(v)
	}
}
