package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/commercio/posting_engine/internal/apperrors"
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/commercio/posting_engine/internal/core/ports/services"
	"github.com/commercio/posting_engine/internal/dto"
	"github.com/commercio/posting_engine/internal/platform/logging"
)

// paymentAllocator implements settlements against accounts and documents.
// A payment always lowers the counterparty balance by its full amount; the
// attached document only decides how much of it consumes outstanding.
type paymentAllocator struct {
	baseService
	notifier                    portssvc.NotificationsGateway
	clock                       portssvc.Clock
	acceptOnFullPurchasePayment bool
}

var _ portssvc.PaymentSvcFacade = (*paymentAllocator)(nil)

// NewPaymentAllocator creates a new payment allocation service.
func NewPaymentAllocator(repos repositories.RepositoryProvider, notifier portssvc.NotificationsGateway, clock portssvc.Clock, txTimeout time.Duration, acceptOnFullPurchasePayment bool) portssvc.PaymentSvcFacade {
	return &paymentAllocator{
		baseService:                 baseService{repos: repos, txTimeout: txTimeout},
		notifier:                    notifier,
		clock:                       clock,
		acceptOnFullPurchasePayment: acceptOnFullPurchasePayment,
	}
}

func (s *paymentAllocator) notify(ctx context.Context, kind string, documentID string, summary string) {
	event := domain.PostingEvent{Kind: kind, DocumentID: documentID, Summary: summary}
	if err := s.notifier.Notify(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("posting event delivery failed", "kind", kind, "documentID", documentID, "error", err)
	}
}

// lockPaymentDocument loads and locks the document a payment refers to.
// The payment row being live implies the document is too; a voided document
// here means a concurrent void slipped in, which is a conflict.
func (s *paymentAllocator) lockPaymentDocument(ctx context.Context, tx pgx.Tx, documentID string) (*domain.Document, error) {
	doc, err := s.repos.DocumentRepo.FindDocumentByIDForUpdate(ctx, tx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.State == domain.Voided {
		return nil, fmt.Errorf("%w: document %s is voided", apperrors.ErrConflict, documentID)
	}
	return doc, nil
}

// CreatePayment records a settlement against an account and optionally a
// document. A Draft purchase order fully settled by this payment is accepted
// in the same transaction when the rule is enabled.
func (s *paymentAllocator) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	payment := &domain.Payment{
		PaymentID:  uuid.NewString(),
		DocumentID: req.DocumentID,
		AccountID:  req.AccountID,
		Channels:   req.Channels.ToDomain(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.ActorID,
		},
	}

	err := s.withTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		account, err := s.repos.AccountRepo.FindAccountByIDForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrNotFound, req.AccountID)
		}

		var doc *domain.Document
		if req.DocumentID != nil {
			doc, err = s.repos.DocumentRepo.FindDocumentByIDForUpdate(ctx, tx, *req.DocumentID)
			if err != nil {
				return err
			}
			if doc.State == domain.Voided {
				return fmt.Errorf("%w: document %s is voided", apperrors.ErrNotFound, *req.DocumentID)
			}
			if doc.AccountID != req.AccountID {
				return fmt.Errorf("%w: document %s belongs to account %s", apperrors.ErrConflict, doc.DocumentID, doc.AccountID)
			}
		}

		if err := allocatePaymentInTx(ctx, tx, s.repos, payment, doc, req.ActorID, now); err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		if err := maybeAcceptOnFullPaymentInTx(ctx, tx, s.repos, doc, s.acceptOnFullPurchasePayment, req.ActorID, now); err != nil {
			return err
		}
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = req.ActorID
		return s.repos.DocumentRepo.UpdateDocumentInTx(ctx, tx, *doc)
	})
	if err != nil {
		return nil, err
	}

	documentID := ""
	if payment.DocumentID != nil {
		documentID = *payment.DocumentID
	}
	s.notify(ctx, "payment.created", documentID,
		fmt.Sprintf("payment of %s against account %s, %s applied", payment.TotalAmount, payment.AccountID, payment.AppliedAmount))
	return payment, nil
}

// UpdatePayment replaces the channel amounts of a payment, moving the
// ledgers only by the difference against the prior total.
func (s *paymentAllocator) UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var payment *domain.Payment

	err := s.withTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		payment, err = s.repos.PaymentRepo.FindPaymentByIDForUpdate(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if payment.Voided {
			return fmt.Errorf("%w: payment %s is voided", apperrors.ErrNotFound, paymentID)
		}

		var doc *domain.Document
		if payment.DocumentID != nil {
			doc, err = s.lockPaymentDocument(ctx, tx, *payment.DocumentID)
			if err != nil {
				return err
			}
		}

		if err := reallocatePaymentInTx(ctx, tx, s.repos, payment, doc, req.Channels.ToDomain(), req.ActorID, now); err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = req.ActorID
		return s.repos.DocumentRepo.UpdateDocumentInTx(ctx, tx, *doc)
	})
	if err != nil {
		return nil, err
	}

	documentID := ""
	if payment.DocumentID != nil {
		documentID = *payment.DocumentID
	}
	s.notify(ctx, "payment.updated", documentID,
		fmt.Sprintf("payment %s updated to %s, %s applied", payment.PaymentID, payment.TotalAmount, payment.AppliedAmount))
	return payment, nil
}

// DeletePayment voids the payment and reverses its contribution to the
// counterparty balance and, when attached, the document's outstanding amount.
func (s *paymentAllocator) DeletePayment(ctx context.Context, paymentID string, actorID string) error {
	now := s.clock.Now()
	var payment *domain.Payment

	err := s.withTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		payment, err = s.repos.PaymentRepo.FindPaymentByIDForUpdate(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if payment.Voided {
			return fmt.Errorf("%w: payment %s is voided", apperrors.ErrNotFound, paymentID)
		}

		var doc *domain.Document
		if payment.DocumentID != nil {
			doc, err = s.lockPaymentDocument(ctx, tx, *payment.DocumentID)
			if err != nil {
				return err
			}
		}

		if err := releasePaymentInTx(ctx, tx, s.repos, payment, doc, actorID, now); err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = actorID
		return s.repos.DocumentRepo.UpdateDocumentInTx(ctx, tx, *doc)
	})
	if err != nil {
		return err
	}

	documentID := ""
	if payment.DocumentID != nil {
		documentID = *payment.DocumentID
	}
	s.notify(ctx, "payment.voided", documentID,
		fmt.Sprintf("payment %s of %s reversed", payment.PaymentID, payment.TotalAmount))
	return nil
}
