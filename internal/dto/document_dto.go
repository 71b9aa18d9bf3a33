package dto

import (
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest describes one line of a document being created or amended.
// UnitPrice zero means "use the product's selling price".
type CreateLineRequest struct {
	ProductID string          `json:"productID" validate:"required,uuid4"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreateDocumentRequest creates a document in Draft state, or directly
// Accepted when Accepted is set. InitialPayment, when present, is allocated
// against the new document in the same transaction.
type CreateDocumentRequest struct {
	Kind           domain.DocumentKind    `json:"kind" validate:"required,oneof=SALES_ORDER PURCHASE_ORDER SALES_RETURN PURCHASE_RETURN"`
	AccountID      string                 `json:"accountID" validate:"required,uuid4"`
	Lines          []CreateLineRequest    `json:"lines" validate:"required,min=1,dive"`
	InitialPayment *ChannelAmountsRequest `json:"initialPayment,omitempty"`
	Accepted       bool                   `json:"accepted"`
	ActorID        string                 `json:"actorID" validate:"required"`
}

// AmendPaymentRequest carries the payment part of an amendment. A nil
// PaymentID records a new payment against the document; otherwise the
// referenced payment's channel amounts are replaced.
type AmendPaymentRequest struct {
	PaymentID *string               `json:"paymentID,omitempty" validate:"omitempty,uuid4"`
	Channels  ChannelAmountsRequest `json:"channels"`
}

// AmendDocumentRequest adds and removes lines and optionally touches a
// payment, all in one transaction.
type AmendDocumentRequest struct {
	AddLines      []CreateLineRequest  `json:"addLines,omitempty" validate:"omitempty,dive"`
	RemoveLineIDs []string             `json:"removeLineIDs,omitempty" validate:"omitempty,dive,uuid4"`
	Payment       *AmendPaymentRequest `json:"payment,omitempty"`
	ActorID       string               `json:"actorID" validate:"required"`
}

// LineResponse defines the data returned for a document line.
type LineResponse struct {
	LineID    string          `json:"lineID"`
	ProductID string          `json:"productID"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
}

// DocumentResponse defines the data returned for a document snapshot.
type DocumentResponse struct {
	DocumentID        string          `json:"documentID"`
	Kind              string          `json:"kind"`
	AccountID         string          `json:"accountID"`
	State             string          `json:"state"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	Lines             []LineResponse  `json:"lines"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	resp := DocumentResponse{
		DocumentID:        d.DocumentID,
		Kind:              string(d.Kind),
		AccountID:         d.AccountID,
		State:             string(d.State),
		TotalAmount:       d.TotalAmount,
		OutstandingAmount: d.OutstandingAmount,
	}
	for _, l := range d.ActiveLines() {
		resp.Lines = append(resp.Lines, LineResponse{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Amount:    l.Amount(),
		})
	}
	return resp
}
