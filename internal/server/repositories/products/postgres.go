package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListIDs(ctx context.Context, storeID string) ([]string, error) {
	query := `SELECT id FROM products WHERE store_id = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) Update(ctx context.Context, storeID string, p *models.ProductPatch) error {
	query := `
		UPDATE products SET
			title = $3,
			price = $4,
			description = COALESCE($5, description),
			updated_at = now()
		WHERE id = $1 AND store_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, p.ID, storeID, p.Title, p.Price, p.Description)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) GetWithStore(ctx context.Context, id string) (*models.Product, *models.Store, error) {
	query := `
		SELECT p.id, p.store_id, p.title, p.price, p.description, p.position,
		       s.name, s.background_color, s.processor_secret_key, s.processor_publishable_key
		FROM products p
		JOIN stores s ON s.id = p.store_id
		WHERE p.id = $1
	`
	p := &models.Product{}
	s := &models.Store{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.StoreID, &p.Title, &p.Price, &p.Description, &p.Position,
		&s.Name, &s.BackgroundColor, &s.ProcessorSecretKey, &s.ProcessorPublishableKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	s.ID = p.StoreID
	return p, s, nil
}
