package repositories

import (
	"context"
	"time"

	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DocumentReader defines read operations for document data.
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its lines. Voided documents
	// are excluded from reads and surface as NotFound.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)
}

// DocumentTransactionSupport defines operations that run inside an engine
// transaction. ForUpdate reads return the row in any state so the service
// can distinguish NotFound from illegal transitions.
type DocumentTransactionSupport interface {
	// FindDocumentByIDForUpdate selects a document (any state) with its lines
	// and locks the header row.
	FindDocumentByIDForUpdate(ctx context.Context, tx pgx.Tx, documentID string) (*domain.Document, error)

	// SaveDocumentInTx inserts a document header and all of its lines.
	SaveDocumentInTx(ctx context.Context, tx pgx.Tx, document domain.Document) error

	// UpdateDocumentInTx rewrites totals and state of a document header with
	// an optimistic version check; a stale version surfaces as Conflict.
	UpdateDocumentInTx(ctx context.Context, tx pgx.Tx, document domain.Document) error

	// InsertLinesInTx appends new lines to an existing document.
	InsertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.LineItem) error

	// VoidLinesInTx marks the given lines of a document voided.
	VoidLinesInTx(ctx context.Context, tx pgx.Tx, documentID string, lineIDs []string, userID string, now time.Time) error

	// VoidAllLinesInTx marks every line of a document voided.
	VoidAllLinesInTx(ctx context.Context, tx pgx.Tx, documentID string, userID string, now time.Time) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentTransactionSupport
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction
// capabilities. The posting engine drives its single-transaction operations
// through this interface.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
