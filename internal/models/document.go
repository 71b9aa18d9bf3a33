package models

import "github.com/shopspring/decimal"

// DocumentKind mirrors the domain document kinds at the persistence layer.
type DocumentKind string

// DocumentState mirrors the domain lifecycle states.
type DocumentState string

// Document is the persistence shape of a document header.
type Document struct {
	DocumentID        string          `db:"document_id"`
	Kind              DocumentKind    `db:"kind"`
	AccountID         string          `db:"account_id"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	OutstandingAmount decimal.Decimal `db:"outstanding_amount"`
	State             DocumentState   `db:"state"`
	Version           int64           `db:"version"`
	AuditFields
}

// LineItem is the persistence shape of a document line.
type LineItem struct {
	LineID     string          `db:"line_id"`
	DocumentID string          `db:"document_id"`
	ProductID  string          `db:"product_id"`
	Quantity   decimal.Decimal `db:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	UnitCost   decimal.Decimal `db:"unit_cost"`
	Voided     bool            `db:"voided"`
	AuditFields
}
