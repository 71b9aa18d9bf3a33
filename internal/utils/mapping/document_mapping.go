package mapping

import (
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/models"
)

// ToModelDocument converts a domain Document header to a model Document.
// Lines are mapped separately because they live in their own table.
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:        d.DocumentID,
		Kind:              models.DocumentKind(d.Kind),
		AccountID:         d.AccountID,
		TotalAmount:       d.TotalAmount,
		OutstandingAmount: d.OutstandingAmount,
		State:             models.DocumentState(d.State),
		Version:           d.Version,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain Document without lines.
func ToDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentID:        m.DocumentID,
		Kind:              domain.DocumentKind(m.Kind),
		AccountID:         m.AccountID,
		TotalAmount:       m.TotalAmount,
		OutstandingAmount: m.OutstandingAmount,
		State:             domain.DocumentState(m.State),
		Version:           m.Version,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain LineItem to a model LineItem.
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineID:      d.LineID,
		DocumentID:  d.DocumentID,
		ProductID:   d.ProductID,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		UnitCost:    d.UnitCost,
		Voided:      d.Voided,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem.
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineID:      m.LineID,
		DocumentID:  m.DocumentID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		UnitCost:    m.UnitCost,
		Voided:      m.Voided,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineItemSlice converts a slice of model LineItems.
func ToDomainLineItemSlice(ms []models.LineItem) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}
