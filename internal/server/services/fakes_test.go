package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/events"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/stores"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var errBoom = errors.New("boom")

// memDB is an in-memory stand-in for the three tables. Inserts behave like
// INSERT ... ON CONFLICT DO NOTHING, serialized by a mutex, so tests over it
// cover the service logic only. The SQL itself runs in
// store_postgres_test.go when STOREFRONT_TEST_DATABASE_DSN is set.
type memDB struct {
	mu    sync.Mutex
	users map[string]*models.User
	store *models.Store

	getFirstErr      error
	getByEmailErr    error
	getWithStoreErr  error
	createStoreErr   error
	lockErr          error
	listErr          error
	storeUpdateErr   error
	productUpdateErr error

	getFirstCalls     int
	getWithStoreCalls int
	storeCreates      int
	storeUpdates      int
	productUpdates    int
}

func newMemDB() *memDB {
	return &memDB{users: map[string]*models.User{}}
}

func (m *memDB) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeCreates + m.storeUpdates + m.productUpdates
}

func copyStore(s *models.Store) *models.Store {
	c := *s
	if s.Description != nil {
		d := *s.Description
		c.Description = &d
	}
	c.Products = append([]models.Product{}, s.Products...)
	return &c
}

type memRepoManager struct{ m *memDB }

func (r *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (r *memRepoManager) Users(dbx.DBTX) users.Repository             { return &memUsers{r.m} }
func (r *memRepoManager) Stores(dbx.DBTX) stores.Repository           { return &memStores{r.m} }
func (r *memRepoManager) Products(dbx.DBTX) products.Repository       { return &memProducts{r.m} }

type memUsers struct{ m *memDB }

func (u *memUsers) CreateIfAbsent(_ context.Context, user *models.User) (bool, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if _, ok := u.m.users[user.Email]; ok {
		return false, nil
	}
	c := *user
	u.m.users[user.Email] = &c
	return true, nil
}

func (u *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.m.getByEmailErr != nil {
		return nil, u.m.getByEmailErr
	}
	user, ok := u.m.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *user
	return &c, nil
}

type memStores struct{ m *memDB }

func (s *memStores) GetFirst(context.Context) (*models.Store, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.getFirstCalls++
	if s.m.getFirstErr != nil {
		return nil, s.m.getFirstErr
	}
	if s.m.store == nil {
		return nil, common.ErrorNotFound
	}
	return copyStore(s.m.store), nil
}

func (s *memStores) CreateIfAbsent(_ context.Context, store *models.Store) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.createStoreErr != nil {
		return false, s.m.createStoreErr
	}
	if s.m.store != nil {
		return false, nil
	}
	s.m.storeCreates++
	now := time.Now()
	c := copyStore(store)
	c.CreatedAt, c.UpdatedAt = now, now
	s.m.store = c
	return true, nil
}

func (s *memStores) LockFirst(context.Context) (string, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.lockErr != nil {
		return "", s.m.lockErr
	}
	if s.m.store == nil {
		return "", common.ErrorNotFound
	}
	return s.m.store.ID, nil
}

func (s *memStores) Update(_ context.Context, id string, patch *models.StorePatch) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.storeUpdateErr != nil {
		return s.m.storeUpdateErr
	}
	if s.m.store == nil || s.m.store.ID != id {
		return common.ErrorNotFound
	}
	s.m.storeUpdates++
	cur := s.m.store
	cur.Name = patch.Name
	cur.BackgroundColor = patch.BackgroundColor
	if patch.Description != nil {
		d := *patch.Description
		cur.Description = &d
	}
	if patch.ProcessorSecretKey != nil {
		cur.ProcessorSecretKey = *patch.ProcessorSecretKey
	}
	if patch.ProcessorPublishableKey != nil {
		cur.ProcessorPublishableKey = *patch.ProcessorPublishableKey
	}
	return nil
}

type memProducts struct{ m *memDB }

func (p *memProducts) ListIDs(_ context.Context, storeID string) ([]string, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.listErr != nil {
		return nil, p.m.listErr
	}
	if p.m.store == nil || p.m.store.ID != storeID {
		return nil, nil
	}
	ids := make([]string, 0, len(p.m.store.Products))
	for _, pr := range p.m.store.Products {
		ids = append(ids, pr.ID)
	}
	return ids, nil
}

func (p *memProducts) Update(_ context.Context, storeID string, product *models.ProductPatch) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.productUpdateErr != nil {
		return p.m.productUpdateErr
	}
	if p.m.store == nil || p.m.store.ID != storeID {
		return common.ErrorNotFound
	}
	for i := range p.m.store.Products {
		cur := &p.m.store.Products[i]
		if cur.ID == product.ID {
			p.m.productUpdates++
			cur.Title = product.Title
			cur.Price = product.Price
			if product.Description != nil {
				cur.Description = *product.Description
			}
			return nil
		}
	}
	return common.ErrorNotFound
}

func (p *memProducts) GetWithStore(_ context.Context, id string) (*models.Product, *models.Store, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	p.m.getWithStoreCalls++
	if p.m.getWithStoreErr != nil {
		return nil, nil, p.m.getWithStoreErr
	}
	if p.m.store == nil {
		return nil, nil, common.ErrorNotFound
	}
	for _, pr := range p.m.store.Products {
		if pr.ID == id {
			s := copyStore(p.m.store)
			s.Products = nil
			c := pr
			return &c, s, nil
		}
	}
	return nil, nil, common.ErrorNotFound
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakePublisher) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event{}, f.events...)
}

// newTxDB returns a real *sql.DB whose transactions carry no statements; the
// fake repositories ignore the handle they are bound to.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.DatabaseTimeout = 2 * time.Second
	cfg.ProcessorTimeout = 2 * time.Second
	return cfg
}

func discard() logging.Logger { return logging.NewDiscardLogger() }
