package ledger

import (
	"fmt"

	"github.com/commercio/posting_engine/internal/apperrors"
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Delta is the difference between the old and new ledger effect of a line
// change. Callers propagate only the delta when the document is already
// Accepted; the full line set is never replayed.
type Delta struct {
	Stock   map[string]decimal.Decimal // productID → on-hand delta
	Balance decimal.Decimal            // counterparty balance delta
	Total   decimal.Decimal            // document total delta (unsigned convention)
}

// NewDelta returns an empty delta.
func NewDelta() Delta {
	return Delta{Stock: make(map[string]decimal.Decimal), Balance: decimal.Zero, Total: decimal.Zero}
}

// Merge accumulates another delta into d.
func (d *Delta) Merge(other Delta) {
	for productID, dq := range other.Stock {
		d.Stock[productID] = d.Stock[productID].Add(dq)
	}
	d.Balance = d.Balance.Add(other.Balance)
	d.Total = d.Total.Add(other.Total)
}

// IsZero reports whether the delta carries no effect at all.
func (d Delta) IsZero() bool {
	for _, dq := range d.Stock {
		if !dq.IsZero() {
			return false
		}
	}
	return d.Balance.IsZero() && d.Total.IsZero()
}

// lineDelta computes the signed effect of a single line, scaled by factor
// (+1 to apply, -1 to reverse).
func lineDelta(kind domain.DocumentKind, line domain.LineItem, factor int64) (Delta, error) {
	stock, err := SignedStockEffect(kind, line)
	if err != nil {
		return Delta{}, err
	}
	amount := line.Amount()
	balance, err := SignedBalanceEffect(kind, amount)
	if err != nil {
		return Delta{}, err
	}
	f := decimal.NewFromInt(factor)
	d := NewDelta()
	d.Stock[line.ProductID] = stock.Mul(f)
	d.Balance = balance.Mul(f)
	d.Total = amount.Mul(f)
	return d, nil
}

// AddLine appends a line to the document, recomputes the total and returns
// the effect delta of the addition.
func AddLine(doc *domain.Document, line domain.LineItem) (Delta, error) {
	if line.Quantity.Sign() <= 0 {
		return Delta{}, fmt.Errorf("%w: line quantity must be positive", apperrors.ErrInvalidAmount)
	}
	if line.UnitPrice.Sign() < 0 {
		return Delta{}, fmt.Errorf("%w: line unit price must not be negative", apperrors.ErrInvalidAmount)
	}
	line.DocumentID = doc.DocumentID
	doc.Lines = append(doc.Lines, line)
	doc.TotalAmount = doc.RecomputeTotal()
	return lineDelta(doc.Kind, line, 1)
}

// VoidLine marks the target line voided, recomputes the total and returns
// the reversal delta. Fails NotFound when the line is missing or already voided.
func VoidLine(doc *domain.Document, lineID string) (Delta, error) {
	line := doc.FindLine(lineID)
	if line == nil || line.Voided {
		return Delta{}, fmt.Errorf("%w: line %s", apperrors.ErrNotFound, lineID)
	}
	line.Voided = true
	doc.TotalAmount = doc.RecomputeTotal()
	return lineDelta(doc.Kind, *line, -1)
}

// ReplaceLine swaps the quantity and unit price of an existing line and
// returns the delta between the old and the new effect.
func ReplaceLine(doc *domain.Document, lineID string, quantity, unitPrice decimal.Decimal) (Delta, error) {
	line := doc.FindLine(lineID)
	if line == nil || line.Voided {
		return Delta{}, fmt.Errorf("%w: line %s", apperrors.ErrNotFound, lineID)
	}
	if quantity.Sign() <= 0 {
		return Delta{}, fmt.Errorf("%w: line quantity must be positive", apperrors.ErrInvalidAmount)
	}
	if unitPrice.Sign() < 0 {
		return Delta{}, fmt.Errorf("%w: line unit price must not be negative", apperrors.ErrInvalidAmount)
	}

	reversal, err := lineDelta(doc.Kind, *line, -1)
	if err != nil {
		return Delta{}, err
	}
	line.Quantity = quantity
	line.UnitPrice = unitPrice
	applied, err := lineDelta(doc.Kind, *line, 1)
	if err != nil {
		return Delta{}, err
	}
	reversal.Merge(applied)
	doc.TotalAmount = doc.RecomputeTotal()
	return reversal, nil
}
