package stores

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

func (r *PostgresRepository) GetFirst(ctx context.Context) (*models.Store, error) {
	query := `
		SELECT s.id, s.name, s.background_color, s.description,
		       s.processor_secret_key, s.processor_publishable_key, s.created_at, s.updated_at,
		       p.id, p.title, p.price, p.description, p.position, p.created_at, p.updated_at
		FROM stores s
		LEFT JOIN products p ON p.store_id = s.id
		WHERE s.id = (SELECT id FROM stores ORDER BY created_at, id LIMIT 1)
		ORDER BY p.position, p.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var store *models.Store
	for rows.Next() {
		var (
			s           models.Store
			description sql.NullString
			pID         sql.NullString
			pTitle      sql.NullString
			pPrice      sql.NullFloat64
			pDesc       sql.NullString
			pPosition   sql.NullInt64
			pCreatedAt  sql.NullTime
			pUpdatedAt  sql.NullTime
		)
		if err := rows.Scan(
			&s.ID, &s.Name, &s.BackgroundColor, &description,
			&s.ProcessorSecretKey, &s.ProcessorPublishableKey, &s.CreatedAt, &s.UpdatedAt,
			&pID, &pTitle, &pPrice, &pDesc, &pPosition, &pCreatedAt, &pUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		if store == nil {
			if description.Valid {
				d := description.String
				s.Description = &d
			}
			s.Products = []models.Product{}
			store = &s
		}

		// LEFT JOIN yields one row of NULLs for a store without products.
		if !pID.Valid {
			continue
		}
		store.Products = append(store.Products, models.Product{
			ID:          pID.String,
			StoreID:     store.ID,
			Title:       pTitle.String,
			Price:       pPrice.Float64,
			Description: pDesc.String,
			Position:    int(pPosition.Int64),
			CreatedAt:   pCreatedAt.Time,
			UpdatedAt:   pUpdatedAt.Time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if store == nil {
		return nil, common.ErrorNotFound
	}
	return store, nil
}

func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, store *models.Store) (bool, error) {
	query := `
		INSERT INTO stores (id, name, background_color, description, processor_secret_key, processor_publishable_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (singleton) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		store.ID, store.Name, store.BackgroundColor, store.Description,
		store.ProcessorSecretKey, store.ProcessorPublishableKey)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	productQuery := `
		INSERT INTO products (id, store_id, title, price, description, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range store.Products {
		p := &store.Products[i]
		p.StoreID = store.ID
		if _, err := r.db.ExecContext(ctx, productQuery,
			p.ID, p.StoreID, p.Title, p.Price, p.Description, p.Position); err != nil {
			return false, fmt.Errorf("db error: %w", err)
		}
	}

	return true, nil
}

func (r *PostgresRepository) LockFirst(ctx context.Context) (string, error) {
	query := `
		SELECT id FROM stores
		ORDER BY created_at, id
		LIMIT 1
		FOR UPDATE
	`
	var id string
	if err := r.db.QueryRowContext(ctx, query).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch *models.StorePatch) error {
	query := `
		UPDATE stores SET
			name = $2,
			background_color = $3,
			description = COALESCE($4, description),
			processor_secret_key = COALESCE($5, processor_secret_key),
			processor_publishable_key = COALESCE($6, processor_publishable_key),
			updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		id, patch.Name, patch.BackgroundColor, patch.Description,
		patch.ProcessorSecretKey, patch.ProcessorPublishableKey)
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
