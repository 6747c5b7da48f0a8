// Package server wires the storefront together: it opens the database pool,
// applies migrations, builds the services and runs the HTTP API and the gRPC
// health endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/redisx"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/events"
	"github.com/dmitrijs2005/storefront/internal/server/httpapi"
	"github.com/dmitrijs2005/storefront/internal/server/payments"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/storefront/internal/server/grpc"
)

const eventProducer = "storefront"

type App struct {
	config *config.Config
	logger logging.Logger
}

func NewApp(c *config.Config) (*App, error) {
	if c.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}
	logger := logging.NewJSONLogger(os.Stdout, c.Environment)
	return &App{config: c, logger: logger}, nil
}

// OpenDatabase opens the process-wide pool and brings the schema up to date.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN, repomanager.PoolOptions{
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}
	return db, rm, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until ctx is cancelled or a termination signal arrives, then
// drains in-flight requests and releases the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	db, rm, err := OpenDatabase(ctx, app.config)
	if err != nil {
		return err
	}
	defer db.Close()

	publisher, closePublisher := newPublisher(app.config, app.logger)
	defer closePublisher()

	cache, closeCache := newSessionCache(app.config)
	defer closeCache()

	processor := payments.NewStripeProcessor(&http.Client{Timeout: app.config.ProcessorTimeout}, app.config.ProcessorBaseURL)

	storeService := services.NewStoreService(db, rm, app.config, publisher, app.logger.With("module", "store"))
	authService := services.NewAuthService(db, rm, app.config, app.logger.With("module", "auth"))
	checkoutService := services.NewCheckoutService(db, rm, processor, cache, publisher, app.config, app.logger.With("module", "checkout"))

	api := httpapi.NewAPI(storeService, checkoutService, authService, db, app.logger.With("module", "http"), httpapi.Options{
		Production:     app.config.IsProduction(),
		RequestTimeout: app.config.DatabaseTimeout + app.config.ProcessorTimeout + 5*time.Second,
		EnvChecks:      envChecks(app.config),
	})

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc, httpapi.NewRouter(api))
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc, db)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc, h http.Handler) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc, db gs.Pinger) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, db, 10*time.Second)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// newPublisher returns a Kafka publisher when brokers are configured and a
// no-op one otherwise. The returned func flushes and closes it.
func newPublisher(cfg *config.Config, logger logging.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}, func() {}
	}
	p := events.NewKafkaPublisher(cfg.KafkaBrokers, eventProducer, 1024, logger.With("module", "events"))
	p.Start()
	return p, p.Close
}

// newSessionCache returns nil (not a typed nil) when Redis is not configured.
func newSessionCache(cfg *config.Config) (services.SessionCache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}
	rdb := redisx.New(cfg.RedisAddr)
	return redisx.NewCheckoutCache(rdb, cfg.IdempotencyTTL), closeRedis(rdb)
}

func closeRedis(rdb *redis.Client) func() {
	return func() { _ = rdb.Close() }
}

func envChecks(cfg *config.Config) map[string]bool {
	return map[string]bool{
		"DATABASE_URL":                       cfg.DatabaseDSN != "",
		"STOREFRONT_SECRET_KEY":              cfg.SecretKey != "" && cfg.SecretKey != defaultSecretKey(),
		"STRIPE_SECRET_KEY":                  cfg.SeedProcessorSecretKey != "",
		"NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY": cfg.SeedProcessorPublishableKey != "",
		"REDIS_ADDR":                         cfg.RedisAddr != "",
		"KAFKA_BROKERS":                      len(cfg.KafkaBrokers) > 0,
	}
}

func defaultSecretKey() string {
	var c config.Config
	c.LoadDefaults()
	return c.SecretKey
}
