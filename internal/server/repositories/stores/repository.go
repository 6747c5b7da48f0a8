// Package stores declares and implements persistence for the singleton Store
// aggregate.
package stores

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Repository defines operations on the Store record.
type Repository interface {
	// GetFirst returns the store with its products in position order, read in a
	// single statement. Returns common.ErrorNotFound when no store exists.
	GetFirst(ctx context.Context) (*models.Store, error)

	// CreateIfAbsent inserts store together with store.Products unless a store
	// already exists. It reports whether the rows were inserted.
	CreateIfAbsent(ctx context.Context, store *models.Store) (bool, error)

	// LockFirst returns the id of the store and locks its row until the
	// surrounding transaction ends.
	LockFirst(ctx context.Context) (string, error)

	// Update writes the scalar fields of patch to the store with the given
	// id. Nil pointer fields keep the stored values; patch.Products is
	// ignored.
	Update(ctx context.Context, id string, patch *models.StorePatch) error
}
