package dto

import (
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ChannelAmountsRequest splits a settlement across tender channels. Each
// amount must be non-negative; the engine enforces this as InvalidAmount.
type ChannelAmountsRequest struct {
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Transfer decimal.Decimal `json:"transfer"`
	Other    decimal.Decimal `json:"other"`
}

// ToDomain converts the request channels to domain.PaymentChannels.
func (c ChannelAmountsRequest) ToDomain() domain.PaymentChannels {
	return domain.PaymentChannels{
		Cash:     c.Cash,
		Card:     c.Card,
		Transfer: c.Transfer,
		Other:    c.Other,
	}
}

// CreatePaymentRequest records a settlement against an account and
// optionally against one of its documents.
type CreatePaymentRequest struct {
	DocumentID *string               `json:"documentID,omitempty" validate:"omitempty,uuid4"`
	AccountID  string                `json:"accountID" validate:"required,uuid4"`
	Channels   ChannelAmountsRequest `json:"channels"`
	ActorID    string                `json:"actorID" validate:"required"`
}

// UpdatePaymentRequest replaces the channel amounts of an existing payment.
type UpdatePaymentRequest struct {
	Channels ChannelAmountsRequest `json:"channels"`
	ActorID  string                `json:"actorID" validate:"required"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID     string          `json:"paymentID"`
	DocumentID    *string         `json:"documentID,omitempty"`
	AccountID     string          `json:"accountID"`
	Cash          decimal.Decimal `json:"cash"`
	Card          decimal.Decimal `json:"card"`
	Transfer      decimal.Decimal `json:"transfer"`
	Other         decimal.Decimal `json:"other"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		DocumentID:    p.DocumentID,
		AccountID:     p.AccountID,
		Cash:          p.Channels.Cash,
		Card:          p.Channels.Card,
		Transfer:      p.Channels.Transfer,
		Other:         p.Channels.Other,
		TotalAmount:   p.TotalAmount,
		AppliedAmount: p.AppliedAmount,
	}
}
