package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   session HMAC secret key
//	-t int      session validity, hours
//	-b string   public base URL used for checkout redirects
//	-e string   environment name ("production" hides error causes)
//	-m string   checkout currency (ISO code, lower case)
//	-r string   Redis address for checkout idempotency (empty disables)
//	-k string   comma separated Kafka brokers (empty disables events)
//
// Other arguments are dropped with flagx.FilterArgs first so flags owned by
// other components do not make parsing fail.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-t", "-b", "-e", "-m", "-r", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Hours()), "session validity (in hours)")

	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.Currency, "m", config.Currency, "checkout currency")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")

	brokers := fs.String("k", "", "kafka brokers, comma separated")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Hour
	if *brokers != "" {
		config.KafkaBrokers = flagx.SplitCSV(*brokers)
	}
}
