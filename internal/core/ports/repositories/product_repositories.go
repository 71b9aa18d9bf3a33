package repositories

import (
	"context"
	"time"

	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductReader defines read operations for product data.
type ProductReader interface {
	// FindProductByID retrieves a specific active product by its identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
}

// ProductWriter defines write operations for product data.
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// DeactivateProduct marks a product as inactive.
	DeactivateProduct(ctx context.Context, productID string, userID string, now time.Time) error
}

// ProductTransactionSupport defines operations that run inside an engine transaction.
type ProductTransactionSupport interface {
	// FindProductsByIDsForUpdate selects products and locks them within a
	// transaction. Inactive products are returned so callers can reject them
	// explicitly; missing IDs surface as NotFound.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error)

	// AdjustOnHandInTx applies a signed quantity delta to a locked product row.
	// The result may go negative; oversell is not clamped here.
	AdjustOnHandInTx(ctx context.Context, tx pgx.Tx, productID string, delta decimal.Decimal, userID string, now time.Time) error
}

// ProductRepositoryFacade combines all product-related repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductTransactionSupport
}
