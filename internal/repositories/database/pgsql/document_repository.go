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

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for document and line data.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

const documentColumns = `document_id, kind, account_id, total_amount, outstanding_amount, state, version, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, document_id, product_id, quantity, unit_price, unit_cost, voided, created_at, created_by, last_updated_at, last_updated_by`

func scanDocument(row pgx.Row) (models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID, &m.Kind, &m.AccountID, &m.TotalAmount, &m.OutstandingAmount,
		&m.State, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgx.CollectableRow) (models.LineItem, error) {
	var m models.LineItem
	err := row.Scan(
		&m.LineID, &m.DocumentID, &m.ProductID, &m.Quantity, &m.UnitPrice, &m.UnitCost, &m.Voided,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

type queryRunner interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// findLines loads every line of a document, voided included, in insertion order.
func (r *PgxDocumentRepository) findLines(ctx context.Context, q queryRunner, documentID string) ([]domain.LineItem, error) {
	query := `SELECT ` + lineColumns + ` FROM line_items WHERE document_id = $1 ORDER BY created_at, line_id;`
	rows, err := q.Query(ctx, query, documentID)
	if err != nil {
		return nil, storageError("failed to query lines of document "+documentID, err)
	}
	modelLines, err := pgx.CollectRows(rows, scanLine)
	if err != nil {
		return nil, storageError("failed to scan lines of document "+documentID, err)
	}
	return mapping.ToDomainLineItemSlice(modelLines), nil
}

// FindDocumentByID retrieves a non-voided document with all of its lines.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1 AND state <> 'VOIDED';`
	m, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("document not found: " + documentID)
		}
		return nil, storageError("failed to find document "+documentID, err)
	}
	doc := mapping.ToDomainDocument(m)
	doc.Lines, err = r.findLines(ctx, r.Pool, documentID)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindDocumentByIDForUpdate selects a document in any state with its lines
// and locks the header row.
func (r *PgxDocumentRepository) FindDocumentByIDForUpdate(ctx context.Context, tx pgx.Tx, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1 FOR UPDATE;`
	m, err := scanDocument(tx.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("document not found: " + documentID)
		}
		return nil, storageError("failed to lock document "+documentID, err)
	}
	doc := mapping.ToDomainDocument(m)
	doc.Lines, err = r.findLines(ctx, tx, documentID)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveDocumentInTx inserts a document header and all of its lines.
func (r *PgxDocumentRepository) SaveDocumentInTx(ctx context.Context, tx pgx.Tx, document domain.Document) error {
	m := mapping.ToModelDocument(document)
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.DocumentID, m.Kind, m.AccountID, m.TotalAmount, m.OutstandingAmount,
		m.State, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return storageError("failed to insert document "+m.DocumentID, err)
	}
	return r.InsertLinesInTx(ctx, tx, document.Lines)
}

// UpdateDocumentInTx rewrites the totals and state of a document header.
// The version check makes lost concurrent updates surface as Conflict.
func (r *PgxDocumentRepository) UpdateDocumentInTx(ctx context.Context, tx pgx.Tx, document domain.Document) error {
	m := mapping.ToModelDocument(document)
	query := `
		UPDATE documents
		SET total_amount = $2, outstanding_amount = $3, state = $4, version = version + 1,
		    last_updated_at = $5, last_updated_by = $6
		WHERE document_id = $1 AND version = $7;
	`
	tag, err := tx.Exec(ctx, query,
		m.DocumentID, m.TotalAmount, m.OutstandingAmount, m.State,
		m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return storageError("failed to update document "+m.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(409, "document "+m.DocumentID+" was modified concurrently", apperrors.ErrConflict)
	}
	return nil
}

// InsertLinesInTx appends lines to an existing document.
func (r *PgxDocumentRepository) InsertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.LineItem) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO line_items (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelLineItem(line)
		batch.Queue(query,
			m.LineID, m.DocumentID, m.ProductID, m.Quantity, m.UnitPrice, m.UnitCost, m.Voided,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return storageError("failed to insert document lines", err)
		}
	}
	return nil
}

// VoidLinesInTx marks the given lines of a document voided.
func (r *PgxDocumentRepository) VoidLinesInTx(ctx context.Context, tx pgx.Tx, documentID string, lineIDs []string, userID string, now time.Time) error {
	if len(lineIDs) == 0 {
		return nil
	}
	query := `
		UPDATE line_items
		SET voided = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1 AND line_id = ANY($2) AND voided = FALSE;
	`
	tag, err := tx.Exec(ctx, query, documentID, lineIDs, now, userID)
	if err != nil {
		return storageError("failed to void lines of document "+documentID, err)
	}
	if tag.RowsAffected() != int64(len(lineIDs)) {
		return apperrors.NewNotFoundError("one or more lines not found on document " + documentID)
	}
	return nil
}

// VoidAllLinesInTx marks every line of a document voided.
func (r *PgxDocumentRepository) VoidAllLinesInTx(ctx context.Context, tx pgx.Tx, documentID string, userID string, now time.Time) error {
	query := `
		UPDATE line_items
		SET voided = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE document_id = $1 AND voided = FALSE;
	`
	if _, err := tx.Exec(ctx, query, documentID, now, userID); err != nil {
		return storageError("failed to void lines of document "+documentID, err)
	}
	return nil
}
