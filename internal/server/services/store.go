package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/events"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SeedConfig is what a fresh installation starts with.
type SeedConfig struct {
	AdminEmail              string
	AdminPassword           string
	AdminPasswordHash       string
	ProcessorSecretKey      string
	ProcessorPublishableKey string
}

var (
	seedStoreName        = "My Store"
	seedStoreDescription = "Welcome to our store"
	seedBackgroundColor  = "#ffffff"
	seedProducts         = []models.Product{
		{Title: "The Blue Shirt", Price: 20.00, Description: "A comfortable and stylish blue shirt for everyday wear"},
		{Title: "The Red Shirt", Price: 25.00, Description: "A vibrant red shirt that makes a statement"},
		{Title: "The Green Shirt", Price: 22.00, Description: "An eco-friendly green shirt made from sustainable materials"},
	}
)

// StoreService owns the singleton Store: it creates the seed data on first
// read and applies admin updates atomically.
type StoreService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	logger      logging.Logger
	dbTimeout   time.Duration
	seed        SeedConfig
	hashCost    int
}

// NewStoreService constructs a StoreService using repositories and server config.
func NewStoreService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, publisher events.Publisher, logger logging.Logger) *StoreService {
	return &StoreService{
		db:          db,
		repomanager: m,
		publisher:   publisher,
		logger:      logger,
		dbTimeout:   cfg.DatabaseTimeout,
		seed: SeedConfig{
			AdminEmail:              cfg.AdminEmail,
			AdminPassword:           cfg.AdminPassword,
			AdminPasswordHash:       cfg.AdminPasswordHash,
			ProcessorSecretKey:      cfg.SeedProcessorSecretKey,
			ProcessorPublishableKey: cfg.SeedProcessorPublishableKey,
		},
		hashCost: auth.DefaultPasswordCost,
	}
}

// Get returns the store with its products, creating the seed admin and
// store first if the database is empty. Concurrent first calls all observe
// the same single store.
func (s *StoreService) Get(ctx context.Context) (*models.Store, error) {
	ctx, cancel := withTimeout(ctx, s.dbTimeout)
	defer cancel()

	store, err := s.repomanager.Stores(s.db).GetFirst(ctx)
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}

	if err := s.initialize(ctx); err != nil {
		return nil, err
	}

	store, err = s.repomanager.Stores(s.db).GetFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read after init: %v", common.ErrUpstream, err)
	}
	return store, nil
}

// Initialize creates the seed data unless it already exists. It is what Get
// does on an empty database, exposed for operator tooling.
func (s *StoreService) Initialize(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.dbTimeout)
	defer cancel()
	return s.initialize(ctx)
}

// Update applies patch inside one transaction. Every product in the patch
// must belong to the store; otherwise common.ErrorNotFound is returned and
// nothing is written.
func (s *StoreService) Update(ctx context.Context, patch *models.StorePatch) (*models.Store, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.dbTimeout)
	defer cancel()

	var updated *models.Store
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		storesRepo := s.repomanager.Stores(tx)
		productsRepo := s.repomanager.Products(tx)

		storeID, err := storesRepo.LockFirst(ctx)
		if err != nil {
			return err
		}

		ids, err := productsRepo.ListIDs(ctx, storeID)
		if err != nil {
			return err
		}
		owned := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			owned[id] = struct{}{}
		}
		for _, p := range patch.Products {
			if _, ok := owned[p.ID]; !ok {
				return fmt.Errorf("product %s: %w", p.ID, common.ErrorNotFound)
			}
		}

		if err := storesRepo.Update(ctx, storeID, patch); err != nil {
			return err
		}

		for i := range patch.Products {
			if err := productsRepo.Update(ctx, storeID, &patch.Products[i]); err != nil {
				return err
			}
		}

		updated, err = storesRepo.GetFirst(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}

	s.logger.Info(ctx, "store updated", "store_id", updated.ID, "products", len(patch.Products))
	s.publishUpdated(ctx, updated)

	return updated, nil
}

// --- helpers below ---

func (s *StoreService) initialize(ctx context.Context) error {
	admin, err := s.seedAdmin()
	if err != nil {
		return err
	}
	store := s.seedStore()

	var userCreated, storeCreated bool
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if userCreated, err = s.repomanager.Users(tx).CreateIfAbsent(ctx, admin); err != nil {
			return err
		}
		storeCreated, err = s.repomanager.Stores(tx).CreateIfAbsent(ctx, store)
		return err
	})
	if err != nil {
		// A racing initializer committed first; its rows are as good as ours.
		if dbx.IsUniqueViolation(err) {
			s.logger.Debug(ctx, "store initialized concurrently")
			return nil
		}
		return fmt.Errorf("%w: initialize store: %v", common.ErrUpstream, err)
	}

	if userCreated {
		s.logger.Info(ctx, "admin user created", "email", admin.Email)
	}
	if storeCreated {
		s.logger.Info(ctx, "default store created", "store_id", store.ID, "products", len(store.Products))
	}
	return nil
}

func (s *StoreService) seedAdmin() (*models.User, error) {
	hash := s.seed.AdminPasswordHash
	if hash == "" {
		var err error
		hash, err = auth.HashPassword(s.seed.AdminPassword, s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("%w: hash seed password: %v", common.ErrorInternal, err)
		}
	}
	return &models.User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(s.seed.AdminEmail),
		PasswordHash: hash,
		Role:         common.RoleAdmin,
	}, nil
}

func (s *StoreService) seedStore() *models.Store {
	description := seedStoreDescription
	store := &models.Store{
		ID:                      uuid.NewString(),
		Name:                    seedStoreName,
		BackgroundColor:         seedBackgroundColor,
		Description:             &description,
		ProcessorSecretKey:      s.seed.ProcessorSecretKey,
		ProcessorPublishableKey: s.seed.ProcessorPublishableKey,
	}
	for i, p := range seedProducts {
		p.ID = uuid.NewString()
		p.StoreID = store.ID
		p.Position = i
		store.Products = append(store.Products, p)
	}
	return store
}

func (s *StoreService) publishUpdated(ctx context.Context, store *models.Store) {
	ids := make([]string, 0, len(store.Products))
	for _, p := range store.Products {
		ids = append(ids, p.ID)
	}
	err := s.publisher.Publish(ctx, events.Event{
		Topic: events.TopicStoreUpdated,
		Key:   store.ID,
		Type:  events.EventStoreUpdated,
		Payload: events.StoreUpdatedPayload{
			StoreID:           store.ID,
			Name:              store.Name,
			PaymentConfigured: store.PaymentConfigured(),
			ProductIDs:        ids,
		},
	})
	if err != nil {
		s.logger.Warn(ctx, "store.updated event dropped", "error", err)
	}
}

func validatePatch(patch *models.StorePatch) error {
	if patch == nil {
		return fmt.Errorf("%w: empty body", common.ErrValidation)
	}
	if strings.TrimSpace(patch.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if strings.TrimSpace(patch.BackgroundColor) == "" {
		return fmt.Errorf("%w: backgroundColor is required", common.ErrValidation)
	}

	seen := make(map[string]struct{}, len(patch.Products))
	for i, p := range patch.Products {
		if p.ID == "" {
			return fmt.Errorf("%w: products[%d].id is required", common.ErrValidation, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: products[%d].id is duplicated", common.ErrValidation, i)
		}
		seen[p.ID] = struct{}{}

		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("%w: products[%d].title is required", common.ErrValidation, i)
		}
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
			return fmt.Errorf("%w: products[%d].price must be a non-negative number", common.ErrValidation, i)
		}
	}
	return nil
}
