package services

import (
	"context"

	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/dto"
)

// PaymentSvcFacade defines the payment allocation operations.
type PaymentSvcFacade interface {
	// CreatePayment records a settlement against an account and optionally a
	// document. Fully settling a Draft purchase order's outstanding amount in
	// one call triggers acceptance when the rule is enabled.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.Payment, error)

	// UpdatePayment replaces the channel amounts, applying only the
	// difference versus the prior total to the ledgers.
	UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest) (*domain.Payment, error)

	// DeletePayment voids the payment and reverses its contribution.
	DeletePayment(ctx context.Context, paymentID string, actorID string) error
}
