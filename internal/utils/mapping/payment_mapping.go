package mapping

import (
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:      d.PaymentID,
		DocumentID:     d.DocumentID,
		AccountID:      d.AccountID,
		CashAmount:     d.Channels.Cash,
		CardAmount:     d.Channels.Card,
		TransferAmount: d.Channels.Transfer,
		OtherAmount:    d.Channels.Other,
		TotalAmount:    d.TotalAmount,
		AppliedAmount:  d.AppliedAmount,
		Voided:         d.Voided,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:  m.PaymentID,
		DocumentID: m.DocumentID,
		AccountID:  m.AccountID,
		Channels: domain.PaymentChannels{
			Cash:     m.CashAmount,
			Card:     m.CardAmount,
			Transfer: m.TransferAmount,
			Other:    m.OtherAmount,
		},
		TotalAmount:   m.TotalAmount,
		AppliedAmount: m.AppliedAmount,
		Voided:        m.Voided,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model Payments.
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}
