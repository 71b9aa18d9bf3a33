package domain

import (
	"github.com/shopspring/decimal"
)

// DocumentKind identifies the four commercial document types.
type DocumentKind string

const (
	SalesOrder     DocumentKind = "SALES_ORDER"
	PurchaseOrder  DocumentKind = "PURCHASE_ORDER"
	SalesReturn    DocumentKind = "SALES_RETURN"
	PurchaseReturn DocumentKind = "PURCHASE_RETURN"
)

// DocumentState is the posting lifecycle state. Draft→Accepted is one-way;
// Voided is terminal and reachable from either.
type DocumentState string

const (
	Draft    DocumentState = "DRAFT"
	Accepted DocumentState = "ACCEPTED"
	Voided   DocumentState = "VOIDED"
)

// Document represents a posted business transaction against one counterparty.
// TotalAmount always equals the sum of quantity × unitPrice over its
// non-voided lines; OutstandingAmount is TotalAmount minus non-voided
// payments applied to this document.
type Document struct {
	DocumentID        string          `json:"documentID"` // Primary Key (UUID)
	Kind              DocumentKind    `json:"kind"`
	AccountID         string          `json:"accountID"` // Counterparty reference
	Lines             []LineItem      `json:"lines,omitempty"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	State             DocumentState   `json:"state"`
	Version           int64           `json:"version"`
	AuditFields
}

// LineItem is one ordered line of a document. Removed lines are voided, not
// deleted, so reversal math can find them.
type LineItem struct {
	LineID     string          `json:"lineID"` // Primary Key (UUID)
	DocumentID string          `json:"documentID"`
	ProductID  string          `json:"productID"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	UnitCost   decimal.Decimal `json:"unitCost"` // Captured from the product at entry
	Voided     bool            `json:"voided"`
	AuditFields
}

// Amount returns quantity × unitPrice for this line.
func (l LineItem) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// ActiveLines returns the non-voided lines in order.
func (d *Document) ActiveLines() []LineItem {
	active := make([]LineItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		if !l.Voided {
			active = append(active, l)
		}
	}
	return active
}

// FindLine returns a pointer to the line with the given ID, or nil.
func (d *Document) FindLine(lineID string) *LineItem {
	for i := range d.Lines {
		if d.Lines[i].LineID == lineID {
			return &d.Lines[i]
		}
	}
	return nil
}

// RecomputeTotal returns the sum of Amount over non-voided lines.
func (d *Document) RecomputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		if !l.Voided {
			total = total.Add(l.Amount())
		}
	}
	return total
}
