package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/commercio/posting_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider creates all pgsql-backed repositories against one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(pool),
		ProductRepo:  newPgxProductRepository(pool),
		DocumentRepo: newPgxDocumentRepository(pool),
		PaymentRepo:  newPgxPaymentRepository(pool),
	}
}
