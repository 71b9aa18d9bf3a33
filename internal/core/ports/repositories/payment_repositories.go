package repositories

import (
	"context"
	"time"

	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a non-voided payment by its identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentsByDocumentID retrieves the non-voided payments applied to a document.
	FindPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error)
}

// PaymentTransactionSupport defines operations that run inside an engine transaction.
type PaymentTransactionSupport interface {
	// FindPaymentByIDForUpdate selects a payment (any state) and locks its row.
	FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error)

	// FindPaymentsByDocumentIDForUpdate selects and locks the non-voided
	// payments applied to a document.
	FindPaymentsByDocumentIDForUpdate(ctx context.Context, tx pgx.Tx, documentID string) ([]domain.Payment, error)

	// SavePaymentInTx inserts a new payment.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// UpdatePaymentInTx rewrites channel amounts, totals and the voided flag.
	UpdatePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// VoidPaymentsByDocumentIDInTx marks every non-voided payment of a document voided.
	VoidPaymentsByDocumentIDInTx(ctx context.Context, tx pgx.Tx, documentID string, userID string, now time.Time) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentTransactionSupport
}
