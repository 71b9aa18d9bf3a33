package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/commercio/posting_engine/internal/apperrors"
	"github.com/commercio/posting_engine/internal/core/domain"
	portsrepo "github.com/commercio/posting_engine/internal/core/ports/repositories"
	"github.com/commercio/posting_engine/internal/models"
	"github.com/commercio/posting_engine/internal/utils/mapping"
)

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for product data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productColumns = `product_id, name, on_hand, unit_cost, unit_selling_price, unit_wholesale_price, is_active, version, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID, &m.Name, &m.OnHand, &m.UnitCost, &m.UnitSellingPrice, &m.UnitWholesalePrice,
		&m.IsActive, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProductID, m.Name, m.OnHand, m.UnitCost, m.UnitSellingPrice, m.UnitWholesalePrice,
		m.IsActive, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return storageError("failed to insert product "+m.ProductID, err)
	}
	return nil
}

// FindProductByID retrieves an active product by its identifier.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1 AND is_active = TRUE;`
	m, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("product not found: " + productID)
		}
		return nil, storageError("failed to find product "+productID, err)
	}
	product := mapping.ToDomainProduct(m)
	return &product, nil
}

// FindProductsByIDsForUpdate selects products by ID and locks their rows.
// Inactive products are returned so callers can reject them explicitly; a
// missing ID fails the whole lookup as NotFound.
func (r *PgxProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1) FOR UPDATE;`
	rows, err := tx.Query(ctx, query, productIDs)
	if err != nil {
		return nil, storageError("failed to lock products", err)
	}
	defer rows.Close()

	products := make(map[string]domain.Product, len(productIDs))
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, storageError("failed to scan product row", err)
		}
		products[m.ProductID] = mapping.ToDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to read product rows", err)
	}
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("product not found: %s", id))
		}
	}
	return products, nil
}

// AdjustOnHandInTx applies a signed quantity delta to a locked product row.
// The result may go negative; oversell is not clamped.
func (r *PgxProductRepository) AdjustOnHandInTx(ctx context.Context, tx pgx.Tx, productID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE products
		SET on_hand = on_hand + $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1;
	`
	tag, err := tx.Exec(ctx, query, productID, delta, now, userID)
	if err != nil {
		return storageError("failed to adjust on-hand of product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("product not found: " + productID)
	}
	return nil
}

// DeactivateProduct marks a product as inactive.
func (r *PgxProductRepository) DeactivateProduct(ctx context.Context, productID string, userID string, now time.Time) error {
	query := `
		UPDATE products
		SET is_active = FALSE, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $1 AND is_active = TRUE;
	`
	tag, err := r.Pool.Exec(ctx, query, productID, now, userID)
	if err != nil {
		return storageError("failed to deactivate product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("product not found: " + productID)
	}
	return nil
}
