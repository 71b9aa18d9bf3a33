package services

import (
	"context"

	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/dto"
)

// PostingReaderSvc defines snapshot reads for the caller layer. Voided
// entities are excluded.
type PostingReaderSvc interface {
	// GetDocument retrieves a document with its lines.
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)

	// GetAccount retrieves an active account.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// GetProduct retrieves an active product.
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// PostingWriterSvc defines the document lifecycle operations. Each call is
// one all-or-nothing transaction; input is pre-validated and pre-authorized
// by the caller layer.
type PostingWriterSvc interface {
	// CreateDocument creates a document in Draft or directly Accepted state,
	// optionally allocating an initial payment in the same transaction.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*domain.Document, error)

	// AmendDocument adds/removes lines and optionally records or updates a
	// payment; ledger effects are applied only while the document is Accepted.
	AmendDocument(ctx context.Context, documentID string, req dto.AmendDocumentRequest) (*domain.Document, error)

	// AcceptDocument transitions Draft → Accepted, applying every current
	// line's ledger effect exactly once.
	AcceptDocument(ctx context.Context, documentID string, actorID string) (*domain.Document, error)

	// VoidDocument reverses whatever effects are currently live and marks the
	// document, its lines and its payments voided.
	VoidDocument(ctx context.Context, documentID string, actorID string) (*domain.Document, error)
}

// PostingSvcFacade combines all posting engine interfaces.
type PostingSvcFacade interface {
	PostingReaderSvc
	PostingWriterSvc
}
