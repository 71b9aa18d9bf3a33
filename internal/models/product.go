package models

import "github.com/shopspring/decimal"

// Product is the persistence shape of a stock-keeping unit.
type Product struct {
	ProductID          string          `db:"product_id"`
	Name               string          `db:"name"`
	OnHand             decimal.Decimal `db:"on_hand"`
	UnitCost           decimal.Decimal `db:"unit_cost"`
	UnitSellingPrice   decimal.Decimal `db:"unit_selling_price"`
	UnitWholesalePrice decimal.Decimal `db:"unit_wholesale_price"`
	IsActive           bool            `db:"is_active"`
	Version            int64           `db:"version"`
	AuditFields
}
