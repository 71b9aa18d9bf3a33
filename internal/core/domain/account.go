package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRole distinguishes the two counterparty ledgers.
type AccountRole string

const (
	RoleCustomer AccountRole = "CUSTOMER" // amount-receivable ledger
	RoleSupplier AccountRole = "SUPPLIER" // amount-payable ledger
)

// Account represents a counterparty with a signed outstanding balance.
// A positive balance means the counterparty owes us (customer) or we owe
// them (supplier); payments always decrease it.
type Account struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	Role      AccountRole     `json:"role"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"` // Signed ledger amount
	IsActive  bool            `json:"isActive"`
	Version   int64           `json:"version"` // Optimistic concurrency check
	AuditFields
}
