package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents a stock-keeping unit with an on-hand quantity counter.
// OnHand is mutated only while the owning document is Accepted, and may go
// negative (oversell is a deliberate policy, never clamped silently).
type Product struct {
	ProductID          string          `json:"productID"` // Primary Key (UUID)
	Name               string          `json:"name"`
	OnHand             decimal.Decimal `json:"onHand"`
	UnitCost           decimal.Decimal `json:"unitCost"`
	UnitSellingPrice   decimal.Decimal `json:"unitSellingPrice"`
	UnitWholesalePrice decimal.Decimal `json:"unitWholesalePrice"`
	IsActive           bool            `json:"isActive"`
	Version            int64           `json:"version"`
	AuditFields
}
