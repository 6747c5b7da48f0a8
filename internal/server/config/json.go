package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations accept strings such as "5s" or "720h" via timex.Duration.
// Fields left out of the file keep the value they already had.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	DatabaseMaxOpenConns        int            `json:"database_max_open_conns"`
	DatabaseMaxIdleConns        int            `json:"database_max_idle_conns"`
	DatabaseTimeout             timex.Duration `json:"database_timeout"`
	SecretKey                   string         `json:"secret_key"`
	SessionValidityDuration     timex.Duration `json:"session_validity_duration"`
	BaseURL                     string         `json:"base_url"`
	Environment                 string         `json:"environment"`
	Currency                    string         `json:"currency"`
	ProcessorTimeout            timex.Duration `json:"processor_timeout"`
	ProcessorBaseURL            string         `json:"processor_base_url"`
	AdminEmail                  string         `json:"admin_email"`
	AdminPassword               string         `json:"admin_password"`
	AdminPasswordHash           string         `json:"admin_password_hash"`
	SeedProcessorSecretKey      string         `json:"seed_processor_secret_key"`
	SeedProcessorPublishableKey string         `json:"seed_processor_publishable_key"`
	RedisAddr                   string         `json:"redis_addr"`
	IdempotencyTTL              timex.Duration `json:"idempotency_ttl"`
	KafkaBrokers                []string       `json:"kafka_brokers"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics: the server must not start with
// a half-applied configuration.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFile(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	if err := applyJSONFile(config, jsonConfigFile); err != nil {
		panic(err)
	}
}

// applyJSONFile overlays the non-zero fields of the JSON file at path.
func applyJSONFile(config *Config, path string) error {
	c := &JsonConfig{}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setInt(&config.DatabaseMaxOpenConns, c.DatabaseMaxOpenConns)
	setInt(&config.DatabaseMaxIdleConns, c.DatabaseMaxIdleConns)
	setDuration(&config.DatabaseTimeout, c.DatabaseTimeout)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.SessionValidityDuration, c.SessionValidityDuration)
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.Environment, c.Environment)
	setString(&config.Currency, c.Currency)
	setDuration(&config.ProcessorTimeout, c.ProcessorTimeout)
	setString(&config.ProcessorBaseURL, c.ProcessorBaseURL)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.AdminPasswordHash, c.AdminPasswordHash)
	setString(&config.SeedProcessorSecretKey, c.SeedProcessorSecretKey)
	setString(&config.SeedProcessorPublishableKey, c.SeedProcessorPublishableKey)
	setString(&config.RedisAddr, c.RedisAddr)
	setDuration(&config.IdempotencyTTL, c.IdempotencyTTL)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
