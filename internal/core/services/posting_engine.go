package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/commercio/posting_engine/internal/apperrors"
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/commercio/posting_engine/internal/core/ports/services"
	"github.com/commercio/posting_engine/internal/dto"
	"github.com/commercio/posting_engine/internal/platform/logging"
	"github.com/commercio/posting_engine/internal/utils/ledger"
)

// postingEngine implements the document lifecycle. Every write runs inside
// one transaction: document rows, line rows, payment rows and both ledgers
// move together or not at all.
type postingEngine struct {
	baseService
	notifier                    portssvc.NotificationsGateway
	clock                       portssvc.Clock
	acceptOnFullPurchasePayment bool
}

var _ portssvc.PostingSvcFacade = (*postingEngine)(nil)

// NewPostingEngine creates a new posting engine service.
func NewPostingEngine(repos repositories.RepositoryProvider, notifier portssvc.NotificationsGateway, clock portssvc.Clock, txTimeout time.Duration, acceptOnFullPurchasePayment bool) portssvc.PostingSvcFacade {
	return &postingEngine{
		baseService:                 baseService{repos: repos, txTimeout: txTimeout},
		notifier:                    notifier,
		clock:                       clock,
		acceptOnFullPurchasePayment: acceptOnFullPurchasePayment,
	}
}

// notify delivers a posting event after commit. Failures are logged and
// swallowed; the posting already happened.
func (s *postingEngine) notify(ctx context.Context, kind string, documentID string, summary string) {
	event := domain.PostingEvent{Kind: kind, DocumentID: documentID, Summary: summary}
	if err := s.notifier.Notify(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("posting event delivery failed", "kind", kind, "documentID", documentID, "error", err)
	}
}

// GetDocument retrieves a non-voided document with its lines.
func (s *postingEngine) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.repos.DocumentRepo.FindDocumentByID(ctx, documentID)
}

// GetAccount retrieves an active account.
func (s *postingEngine) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repos.AccountRepo.FindAccountByID(ctx, accountID)
}

// GetProduct retrieves an active product.
func (s *postingEngine) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repos.ProductRepo.FindProductByID(ctx, productID)
}

// lockCounterparty loads and locks the account a document of the given kind
// settles against, checking that the account is live and plays the right role.
func (s *postingEngine) lockCounterparty(ctx context.Context, tx pgx.Tx, kind domain.DocumentKind, accountID string) (*domain.Account, error) {
	account, err := s.repos.AccountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrNotFound, accountID)
	}
	role, err := ledger.CounterpartyRole(kind)
	if err != nil {
		return nil, err
	}
	if account.Role != role {
		return nil, fmt.Errorf("%w: account %s has role %s, %s requires %s", apperrors.ErrConflict, accountID, account.Role, kind, role)
	}
	return account, nil
}

// buildLines locks the referenced products and turns line requests into
// domain lines. Unit price zero falls back to the product's selling price;
// unit cost is captured from the product at entry.
func (s *postingEngine) buildLines(ctx context.Context, tx pgx.Tx, doc *domain.Document, requests []dto.CreateLineRequest, userID string, now time.Time) ([]domain.LineItem, ledger.Delta, error) {
	productIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		productIDs = append(productIDs, r.ProductID)
	}
	products, err := s.repos.ProductRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs)
	if err != nil {
		return nil, ledger.Delta{}, err
	}

	delta := ledger.NewDelta()
	lines := make([]domain.LineItem, 0, len(requests))
	for _, r := range requests {
		product := products[r.ProductID]
		if !product.IsActive {
			return nil, ledger.Delta{}, fmt.Errorf("%w: product %s is inactive", apperrors.ErrConflict, r.ProductID)
		}
		unitPrice := r.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.UnitSellingPrice
		}
		line := domain.LineItem{
			LineID:    uuid.NewString(),
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitPrice: unitPrice,
			UnitCost:  product.UnitCost,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		lineDelta, err := ledger.AddLine(doc, line)
		if err != nil {
			return nil, ledger.Delta{}, err
		}
		delta.Merge(lineDelta)
		lines = append(lines, doc.Lines[len(doc.Lines)-1])
	}
	return lines, delta, nil
}

// CreateDocument creates a document, optionally accepting it and allocating
// an initial payment in the same transaction.
func (s *postingEngine) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*domain.Document, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	doc := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       req.Kind,
		AccountID:  req.AccountID,
		State:      domain.Draft,
		Version:    1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.ActorID,
		},
	}

	err := s.withTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := s.lockCounterparty(ctx, tx, req.Kind, req.AccountID); err != nil {
			return err
		}
		if _, _, err := s.buildLines(ctx, tx, doc, req.Lines, req.ActorID, now); err != nil {
			return err
		}
		doc.OutstandingAmount = doc.TotalAmount

		if req.Accepted {
			if err := applyAcceptanceInTx(ctx, tx, s.repos, doc, req.ActorID, now); err != nil {
				return err
			}
		}
		if err := s.repos.DocumentRepo.SaveDocumentInTx(ctx, tx, *doc); err != nil {
			return err
		}

		if req.InitialPayment == nil {
			return nil
		}
		payment := &domain.Payment{
			PaymentID:  uuid.NewString(),
			DocumentID: &doc.DocumentID,
			AccountID:  doc.AccountID,
			Channels:   req.InitialPayment.ToDomain(),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     req.ActorID,
				LastUpdatedAt: now,
				LastUpdatedBy: req.ActorID,
			},
		}
		if err := allocatePaymentInTx(ctx, tx, s.repos, payment, doc, req.ActorID, now); err != nil {
			return err
		}
		if err := maybeAcceptOnFullPaymentInTx(ctx, tx, s.repos, doc, s.acceptOnFullPurchasePayment, req.ActorID, now); err != nil {
			return err
		}
		if err := s.repos.DocumentRepo.UpdateDocumentInTx(ctx, tx, *doc); err != nil {
			return err
		}
		doc.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "document.created", doc.DocumentID,
		fmt.Sprintf("%s for account %s, total %s", doc.Kind, doc.AccountID, doc.TotalAmount))
	return doc, nil
}

// AmendDocument applies line additions and removals as deltas and optionally
// records or reallocates one payment, all in a single transaction. Ledger
// effects move only while the document is Accepted.
func (s *postingEngine) AmendDocument(ctx context.Context, documentID string, req dto.AmendDocumentRequest) (*domain.Document, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var doc *domain.Document

	err := s.withTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		doc, err = s.repos.DocumentRepo.FindDocumentByIDForUpdate(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if doc.State == domain.Voided {
			return fmt.Errorf("%w: document %s is voided", apperrors.ErrNotFound, documentID)
		}

		delta := ledger.NewDelta()
		for _, lineID := range req.RemoveLineIDs {
			lineDelta, err := ledger.VoidLine(doc, lineID)
			if err != nil {
				return err
			}
			delta.Merge(lineDelta)
		}
		if len(req.RemoveLineIDs) > 0 {
			if err := s.repos.DocumentRepo.VoidLinesInTx(ctx, tx, doc.DocumentID, req.RemoveLineIDs, req.ActorID, now); err != nil {
				return err
			}
		}

		if len(req.AddLines) > 0 {
			newLines, addDelta, err := s.buildLines(ctx, tx, doc, req.AddLines, req.ActorID, now)
			if err != nil {
				return err
			}
			delta.Merge(addDelta)
			if err := s.repos.DocumentRepo.InsertLinesInTx(ctx, tx, newLines); err != nil {
				return err
			}
		}

		if doc.State == domain.Accepted && !delta.IsZero() {
			for productID, stockDelta := range delta.Stock {
				if stockDelta.IsZero() {
					continue
				}
				if err := s.repos.ProductRepo.AdjustOnHandInTx(ctx, tx, productID, stockDelta, req.ActorID, now); err != nil {
					return err
				}
			}
			if !delta.Balance.IsZero() {
				if err := s.repos.AccountRepo.AdjustBalanceInTx(ctx, tx, doc.AccountID, delta.Balance, req.ActorID, now); err != nil {
					return err
				}
			}
		}
		doc.OutstandingAmount = doc.OutstandingAmount.Add(delta.Total)
		if doc.OutstandingAmount.Sign() < 0 {
			doc.OutstandingAmount = decimal.Zero
		}

		if req.Payment != nil {
			if err := s.amendPaymentInTx(ctx, tx, doc, req.Payment, req.ActorID, now); err != nil {
				return err
			}
		}

		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = req.ActorID
		if err := s.repos.DocumentRepo.UpdateDocumentInTx(ctx, tx, *doc); err != nil {
			return err
		}
		doc.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "document.amended", doc.DocumentID,
		fmt.Sprintf("%s amended, total %s, outstanding %s", doc.Kind, doc.TotalAmount, doc.OutstandingAmount))
	return doc, nil
}

// amendPaymentInTx handles the payment leg of an amendment: a nil PaymentID
// records a new payment against the document, otherwise the referenced
// payment's channel amounts are replaced.
func (s *postingEngine) amendPaymentInTx(ctx context.Context, tx pgx.Tx, doc *domain.Document, req *dto.AmendPaymentRequest, userID string, now time.Time) error {
	if req.PaymentID == nil {
		payment := &domain.Payment{
			PaymentID:  uuid.NewString(),
			DocumentID: &doc.DocumentID,
			AccountID:  doc.AccountID,
			Channels:   req.Channels.ToDomain(),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := allocatePaymentInTx(ctx, tx, s.repos, payment, doc, userID, now); err != nil {
			return err
		}
		return maybeAcceptOnFullPaymentInTx(ctx, tx, s.repos, doc, s.acceptOnFullPurchasePayment, userID, now)
	}

	payment, err := s.repos.PaymentRepo.FindPaymentByIDForUpdate(ctx, tx, *req.PaymentID)
	if err != nil {
		return err
	}
	if payment.Voided {
		return fmt.Errorf("%w: payment %s is voided", apperrors.ErrNotFound, *req.PaymentID)
	}
	if payment.DocumentID == nil || *payment.DocumentID != doc.DocumentID {
		return fmt.Errorf("%w: payment %s does not belong to document %s", apperrors.ErrConflict, payment.PaymentID, doc.DocumentID)
	}
	return reallocatePaymentInTx(ctx, tx, s.repos, payment, doc, req.Channels.ToDomain(), userID, now)
}

// AcceptDocument transitions Draft → Accepted, posting every active line's
// ledger effect exactly once.
func (s *postingEngine) AcceptDocument(ctx context.Context, documentID string, actorID string) (*domain.Document, error) {
	now := s.clock.Now()
	var doc *domain.Document

	err := s.withTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		doc, err = s.repos.DocumentRepo.FindDocumentByIDForUpdate(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if doc.State != domain.Draft {
			return fmt.Errorf("%w: document %s is %s, only Draft documents can be accepted", apperrors.ErrConflict, documentID, doc.State)
		}
		if err := applyAcceptanceInTx(ctx, tx, s.repos, doc, actorID, now); err != nil {
			return err
		}
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = actorID
		if err := s.repos.DocumentRepo.UpdateDocumentInTx(ctx, tx, *doc); err != nil {
			return err
		}
		doc.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "document.accepted", doc.DocumentID,
		fmt.Sprintf("%s accepted, total %s", doc.Kind, doc.TotalAmount))
	return doc, nil
}

// VoidDocument reverses whatever effects are currently live: the acceptance
// posting when the document is Accepted, and every non-voided payment
// regardless of state. Lines and payments are marked voided with the header.
func (s *postingEngine) VoidDocument(ctx context.Context, documentID string, actorID string) (*domain.Document, error) {
	now := s.clock.Now()
	var doc *domain.Document

	err := s.withTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		doc, err = s.repos.DocumentRepo.FindDocumentByIDForUpdate(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if doc.State == domain.Voided {
			return fmt.Errorf("%w: document %s is already voided", apperrors.ErrConflict, documentID)
		}

		if doc.State == domain.Accepted {
			if err := reverseAcceptanceInTx(ctx, tx, s.repos, doc, actorID, now); err != nil {
				return err
			}
		}

		payments, err := s.repos.PaymentRepo.FindPaymentsByDocumentIDForUpdate(ctx, tx, doc.DocumentID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			if err := s.repos.AccountRepo.AdjustBalanceInTx(ctx, tx, p.AccountID, p.TotalAmount, actorID, now); err != nil {
				return err
			}
		}
		if len(payments) > 0 {
			if err := s.repos.PaymentRepo.VoidPaymentsByDocumentIDInTx(ctx, tx, doc.DocumentID, actorID, now); err != nil {
				return err
			}
		}
		if err := s.repos.DocumentRepo.VoidAllLinesInTx(ctx, tx, doc.DocumentID, actorID, now); err != nil {
			return err
		}

		doc.State = domain.Voided
		doc.OutstandingAmount = decimal.Zero
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = actorID
		if err := s.repos.DocumentRepo.UpdateDocumentInTx(ctx, tx, *doc); err != nil {
			return err
		}
		doc.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "document.voided", doc.DocumentID,
		fmt.Sprintf("%s voided, total %s reversed", doc.Kind, doc.TotalAmount))
	return doc, nil
}
