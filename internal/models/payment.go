package models

import "github.com/shopspring/decimal"

// Payment is the persistence shape of a settlement. The four tender
// channels are flattened into columns.
type Payment struct {
	PaymentID      string          `db:"payment_id"`
	DocumentID     *string         `db:"document_id"`
	AccountID      string          `db:"account_id"`
	CashAmount     decimal.Decimal `db:"cash_amount"`
	CardAmount     decimal.Decimal `db:"card_amount"`
	TransferAmount decimal.Decimal `db:"transfer_amount"`
	OtherAmount    decimal.Decimal `db:"other_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	AppliedAmount  decimal.Decimal `db:"applied_amount"`
	Voided         bool            `db:"voided"`
	AuditFields
}
