package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercio/posting_engine/internal/apperrors"
	"github.com/commercio/posting_engine/internal/core/domain"
	portsrepo "github.com/commercio/posting_engine/internal/core/ports/repositories"
	"github.com/commercio/posting_engine/internal/models"
	"github.com/commercio/posting_engine/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, document_id, account_id, cash_amount, card_amount, transfer_amount, other_amount, total_amount, applied_amount, voided, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.DocumentID, &m.AccountID,
		&m.CashAmount, &m.CardAmount, &m.TransferAmount, &m.OtherAmount,
		&m.TotalAmount, &m.AppliedAmount, &m.Voided,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindPaymentByID retrieves a non-voided payment by its identifier.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 AND voided = FALSE;`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment not found: " + paymentID)
		}
		return nil, storageError("failed to find payment "+paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

// FindPaymentsByDocumentID retrieves the non-voided payments applied to a document.
func (r *PgxPaymentRepository) FindPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE document_id = $1 AND voided = FALSE ORDER BY created_at, payment_id;`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, storageError("failed to query payments of document "+documentID, err)
	}
	modelPayments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, storageError("failed to scan payments of document "+documentID, err)
	}
	return mapping.ToDomainPaymentSlice(modelPayments), nil
}

// FindPaymentByIDForUpdate selects a payment in any state and locks its row.
func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 FOR UPDATE;`
	m, err := scanPayment(tx.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment not found: " + paymentID)
		}
		return nil, storageError("failed to lock payment "+paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

// FindPaymentsByDocumentIDForUpdate selects and locks the non-voided
// payments applied to a document.
func (r *PgxPaymentRepository) FindPaymentsByDocumentIDForUpdate(ctx context.Context, tx pgx.Tx, documentID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE document_id = $1 AND voided = FALSE ORDER BY created_at, payment_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, documentID)
	if err != nil {
		return nil, storageError("failed to lock payments of document "+documentID, err)
	}
	modelPayments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, storageError("failed to scan payments of document "+documentID, err)
	}
	return mapping.ToDomainPaymentSlice(modelPayments), nil
}

// SavePaymentInTx inserts a new payment.
func (r *PgxPaymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.PaymentID, m.DocumentID, m.AccountID,
		m.CashAmount, m.CardAmount, m.TransferAmount, m.OtherAmount,
		m.TotalAmount, m.AppliedAmount, m.Voided,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return storageError("failed to insert payment "+m.PaymentID, err)
	}
	return nil
}

// UpdatePaymentInTx rewrites channel amounts, totals and the voided flag.
func (r *PgxPaymentRepository) UpdatePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		UPDATE payments
		SET cash_amount = $2, card_amount = $3, transfer_amount = $4, other_amount = $5,
		    total_amount = $6, applied_amount = $7, voided = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE payment_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.PaymentID,
		m.CashAmount, m.CardAmount, m.TransferAmount, m.OtherAmount,
		m.TotalAmount, m.AppliedAmount, m.Voided,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return storageError("failed to update payment "+m.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment not found: " + m.PaymentID)
	}
	return nil
}

// VoidPaymentsByDocumentIDInTx marks every non-voided payment of a document voided.
func (r *PgxPaymentRepository) VoidPaymentsByDocumentIDInTx(ctx context.Context, tx pgx.Tx, documentID string, userID string, now time.Time) error {
	query := `
		UPDATE payments
		SET voided = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE document_id = $1 AND voided = FALSE;
	`
	if _, err := tx.Exec(ctx, query, documentID, now, userID); err != nil {
		return storageError("failed to void payments of document "+documentID, err)
	}
	return nil
}
