package users

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	// CreateIfAbsent inserts user unless the email is taken. It reports
	// whether a row was inserted; a taken email is not an error.
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
