package models

import "github.com/shopspring/decimal"

// AccountRole distinguishes the two counterparty ledgers.
type AccountRole string

const (
	RoleCustomer AccountRole = "CUSTOMER"
	RoleSupplier AccountRole = "SUPPLIER"
)

// Account is the persistence shape of a counterparty account.
type Account struct {
	AccountID string          `db:"account_id"`
	Role      AccountRole     `db:"role"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	IsActive  bool            `db:"is_active"`
	Version   int64           `db:"version"`
	AuditFields
}
