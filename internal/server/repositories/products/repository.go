// Package products declares and implements persistence for catalog products.
// Products are created only together with their store and are never deleted.
package products

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Repository defines operations on existing products.
type Repository interface {
	// ListIDs returns the ids of all products owned by storeID.
	ListIDs(ctx context.Context, storeID string) ([]string, error)

	// Update overwrites title and price of a product owned by storeID, and
	// its description when p.Description is not nil. Returns
	// common.ErrorNotFound when no such product exists.
	Update(ctx context.Context, storeID string, p *models.ProductPatch) error

	// GetWithStore loads a product and its owning store in one read.
	// The returned store has no Products populated.
	GetWithStore(ctx context.Context, id string) (*models.Product, *models.Store, error)
}
