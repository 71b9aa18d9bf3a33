package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/commercio/posting_engine/internal/apperrors"
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/core/ports/repositories"
	"github.com/commercio/posting_engine/internal/utils/ledger"
)

// The helpers in this file mutate ledgers and documents inside an already
// open transaction. They update the document in memory only; persisting the
// header is the caller's job so each operation writes it exactly once.

// validateChannels rejects negative channel amounts and zero totals.
func validateChannels(channels domain.PaymentChannels) error {
	for _, amount := range []decimal.Decimal{channels.Cash, channels.Card, channels.Transfer, channels.Other} {
		if amount.Sign() < 0 {
			return fmt.Errorf("%w: channel amounts must not be negative", apperrors.ErrInvalidAmount)
		}
	}
	if channels.Total().Sign() <= 0 {
		return fmt.Errorf("%w: payment total must be positive", apperrors.ErrInvalidAmount)
	}
	return nil
}

// applyAcceptanceInTx posts every active line's stock effect and the
// document's balance effect, then marks the document Accepted in memory.
func applyAcceptanceInTx(ctx context.Context, tx pgx.Tx, repos repositories.RepositoryProvider, doc *domain.Document, userID string, now time.Time) error {
	for _, line := range doc.ActiveLines() {
		stockDelta, err := ledger.SignedStockEffect(doc.Kind, line)
		if err != nil {
			return err
		}
		if err := repos.ProductRepo.AdjustOnHandInTx(ctx, tx, line.ProductID, stockDelta, userID, now); err != nil {
			return err
		}
	}
	balanceDelta, err := ledger.SignedBalanceEffect(doc.Kind, doc.TotalAmount)
	if err != nil {
		return err
	}
	if !balanceDelta.IsZero() {
		if err := repos.AccountRepo.AdjustBalanceInTx(ctx, tx, doc.AccountID, balanceDelta, userID, now); err != nil {
			return err
		}
	}
	doc.State = domain.Accepted
	return nil
}

// reverseAcceptanceInTx undoes exactly what applyAcceptanceInTx posted for
// the document's current active lines and total.
func reverseAcceptanceInTx(ctx context.Context, tx pgx.Tx, repos repositories.RepositoryProvider, doc *domain.Document, userID string, now time.Time) error {
	for _, line := range doc.ActiveLines() {
		stockDelta, err := ledger.SignedStockEffect(doc.Kind, line)
		if err != nil {
			return err
		}
		if err := repos.ProductRepo.AdjustOnHandInTx(ctx, tx, line.ProductID, stockDelta.Neg(), userID, now); err != nil {
			return err
		}
	}
	balanceDelta, err := ledger.SignedBalanceEffect(doc.Kind, doc.TotalAmount)
	if err != nil {
		return err
	}
	if !balanceDelta.IsZero() {
		if err := repos.AccountRepo.AdjustBalanceInTx(ctx, tx, doc.AccountID, balanceDelta.Neg(), userID, now); err != nil {
			return err
		}
	}
	return nil
}

// allocatePaymentInTx persists a new payment, lowers the counterparty
// balance by the full amount and, when a document is attached, consumes its
// outstanding amount up to the payment total. The un-applied remainder stays
// an account-level settlement.
func allocatePaymentInTx(ctx context.Context, tx pgx.Tx, repos repositories.RepositoryProvider, payment *domain.Payment, doc *domain.Document, userID string, now time.Time) error {
	if err := validateChannels(payment.Channels); err != nil {
		return err
	}
	payment.TotalAmount = payment.Channels.Total()
	payment.AppliedAmount = decimal.Zero
	if doc != nil {
		payment.AppliedAmount = decimal.Min(payment.TotalAmount, doc.OutstandingAmount)
		doc.OutstandingAmount = doc.OutstandingAmount.Sub(payment.AppliedAmount)
	}
	if err := repos.AccountRepo.AdjustBalanceInTx(ctx, tx, payment.AccountID, payment.TotalAmount.Neg(), userID, now); err != nil {
		return err
	}
	return repos.PaymentRepo.SavePaymentInTx(ctx, tx, *payment)
}

// reallocatePaymentInTx replaces a payment's channel amounts, moving the
// ledgers only by the difference against the prior total.
func reallocatePaymentInTx(ctx context.Context, tx pgx.Tx, repos repositories.RepositoryProvider, payment *domain.Payment, doc *domain.Document, channels domain.PaymentChannels, userID string, now time.Time) error {
	if err := validateChannels(channels); err != nil {
		return err
	}
	newTotal := channels.Total()
	if doc != nil {
		newApplied := decimal.Min(newTotal, doc.OutstandingAmount.Add(payment.AppliedAmount))
		doc.OutstandingAmount = doc.OutstandingAmount.Add(payment.AppliedAmount).Sub(newApplied)
		payment.AppliedAmount = newApplied
	}
	balanceDelta := payment.TotalAmount.Sub(newTotal)
	if !balanceDelta.IsZero() {
		if err := repos.AccountRepo.AdjustBalanceInTx(ctx, tx, payment.AccountID, balanceDelta, userID, now); err != nil {
			return err
		}
	}
	payment.Channels = channels
	payment.TotalAmount = newTotal
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = userID
	return repos.PaymentRepo.UpdatePaymentInTx(ctx, tx, *payment)
}

// releasePaymentInTx voids a payment, restoring the counterparty balance and
// giving the applied portion back to the document's outstanding amount,
// capped at the document total.
func releasePaymentInTx(ctx context.Context, tx pgx.Tx, repos repositories.RepositoryProvider, payment *domain.Payment, doc *domain.Document, userID string, now time.Time) error {
	if err := repos.AccountRepo.AdjustBalanceInTx(ctx, tx, payment.AccountID, payment.TotalAmount, userID, now); err != nil {
		return err
	}
	if doc != nil {
		doc.OutstandingAmount = decimal.Min(doc.TotalAmount, doc.OutstandingAmount.Add(payment.AppliedAmount))
	}
	payment.Voided = true
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = userID
	return repos.PaymentRepo.UpdatePaymentInTx(ctx, tx, *payment)
}

// maybeAcceptOnFullPaymentInTx accepts a Draft purchase order whose
// outstanding amount just reached zero, when the rule is enabled.
func maybeAcceptOnFullPaymentInTx(ctx context.Context, tx pgx.Tx, repos repositories.RepositoryProvider, doc *domain.Document, enabled bool, userID string, now time.Time) error {
	if !enabled || doc == nil {
		return nil
	}
	if doc.Kind != domain.PurchaseOrder || doc.State != domain.Draft || !doc.OutstandingAmount.IsZero() {
		return nil
	}
	return applyAcceptanceInTx(ctx, tx, repos, doc, userID, now)
}
