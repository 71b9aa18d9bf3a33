package ledger

import (
	"fmt"

	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CounterpartyRole returns the account role a document kind settles against.
func CounterpartyRole(kind domain.DocumentKind) (domain.AccountRole, error) {
	switch kind {
	case domain.SalesOrder, domain.SalesReturn:
		return domain.RoleCustomer, nil
	case domain.PurchaseOrder, domain.PurchaseReturn:
		return domain.RoleSupplier, nil
	default:
		return "", fmt.Errorf("unknown document kind '%s'", kind)
	}
}

// StockSign returns the direction a posted line moves on-hand stock.
// Sales ship goods out, purchases bring goods in; returns run the opposite
// way of the document family they reverse.
func StockSign(kind domain.DocumentKind) (int64, error) {
	switch kind {
	case domain.SalesOrder, domain.PurchaseReturn:
		return -1, nil
	case domain.PurchaseOrder, domain.SalesReturn:
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown document kind '%s'", kind)
	}
}

// BalanceSign returns the direction a posted document moves the
// counterparty balance. Orders raise what is owed, returns lower it.
// One convention per direction; the legacy system was inconsistent here.
func BalanceSign(kind domain.DocumentKind) (int64, error) {
	switch kind {
	case domain.SalesOrder, domain.PurchaseOrder:
		return 1, nil
	case domain.SalesReturn, domain.PurchaseReturn:
		return -1, nil
	default:
		return 0, fmt.Errorf("unknown document kind '%s'", kind)
	}
}

// SignedStockEffect returns the on-hand delta a line contributes once its
// document is Accepted.
func SignedStockEffect(kind domain.DocumentKind, line domain.LineItem) (decimal.Decimal, error) {
	sign, err := StockSign(kind)
	if err != nil {
		return decimal.Zero, err
	}
	return line.Quantity.Mul(decimal.NewFromInt(sign)), nil
}

// SignedBalanceEffect returns the counterparty balance delta for a monetary
// amount posted under the given document kind.
func SignedBalanceEffect(kind domain.DocumentKind, amount decimal.Decimal) (decimal.Decimal, error) {
	sign, err := BalanceSign(kind)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(decimal.NewFromInt(sign)), nil
}
