package domain

import (
	"github.com/shopspring/decimal"
)

// PaymentChannels splits a settlement across the supported tender channels.
type PaymentChannels struct {
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Transfer decimal.Decimal `json:"transfer"`
	Other    decimal.Decimal `json:"other"`
}

// Total returns the sum of all channel amounts.
func (c PaymentChannels) Total() decimal.Decimal {
	return c.Cash.Add(c.Card).Add(c.Transfer).Add(c.Other)
}

// Payment records a settlement against a document and/or an account.
// AppliedAmount is the portion of TotalAmount that reduced the document's
// outstanding amount; the remainder is a pure account-level payment.
type Payment struct {
	PaymentID     string          `json:"paymentID"`            // Primary Key (UUID)
	DocumentID    *string         `json:"documentID,omitempty"` // Nullable document reference
	AccountID     string          `json:"accountID"`
	Channels      PaymentChannels `json:"channels"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
	Voided        bool            `json:"voided"`
	AuditFields
}
