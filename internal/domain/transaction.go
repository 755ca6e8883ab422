package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus tracks whether a purchase still stands.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionReversed  TransactionStatus = "reversed"
)

// DefaultReversalWindow is how long a customer has to reverse a purchase.
const DefaultReversalWindow = 10 * 24 * time.Hour

// TransactionLine is a snapshot of one purchased item at the time of sale.
// ItemID becomes nil when the item is later deleted from the catalogue.
type TransactionLine struct {
	ItemID    *int64
	ItemName  string
	Category  Category
	UnitPrice decimal.Decimal
	Currency  Currency
	Quantity  int
}

// Total is the line's price in its own currency.
func (l TransactionLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(MoneyScale)
}

// Transaction records a purchase and its per-currency totals.
type Transaction struct {
	ID         int64
	CustomerID int64
	Lines      []TransactionLine
	Totals     Amounts
	Status     TransactionStatus
	CreatedAt  time.Time
	ReversedAt *time.Time
}

// LineFor snapshots item for a purchase of quantity units.
func LineFor(item *Item, quantity int) TransactionLine {
	id := item.ID
	return TransactionLine{
		ItemID:    &id,
		ItemName:  item.Name,
		Category:  item.Category,
		UnitPrice: item.PricePerUnit,
		Currency:  item.Currency,
		Quantity:  quantity,
	}
}

// SumLines adds up line totals per currency.
func SumLines(lines []TransactionLine) Amounts {
	var totals Amounts
	for _, l := range lines {
		totals = totals.Add(l.Currency, l.Total())
	}
	return totals
}

// NewTransaction builds a completed transaction whose totals are derived from lines.
func NewTransaction(customerID int64, lines []TransactionLine, now time.Time) (*Transaction, error) {
	if len(lines) == 0 {
		return nil, NewValidationError("items", "at least one item is required", nil)
	}
	return &Transaction{
		CustomerID: customerID,
		Lines:      lines,
		Totals:     SumLines(lines),
		Status:     TransactionCompleted,
		CreatedAt:  now.UTC(),
	}, nil
}

// CheckReversible reports why the transaction cannot be reversed at now, if at all.
func (t *Transaction) CheckReversible(now time.Time, window time.Duration) error {
	if t.Status == TransactionReversed {
		return ErrAlreadyReversed
	}
	if now.Sub(t.CreatedAt) > window {
		return ErrReversalWindowClosed
	}
	return nil
}

// Reverse marks the transaction reversed after checking it is still reversible.
func (t *Transaction) Reverse(now time.Time, window time.Duration) error {
	if err := t.CheckReversible(now, window); err != nil {
		return err
	}
	reversedAt := now.UTC()
	t.Status = TransactionReversed
	t.ReversedAt = &reversedAt
	return nil
}

// Contains reports whether any line refers to itemID.
func (t *Transaction) Contains(itemID int64) bool {
	for _, l := range t.Lines {
		if l.ItemID != nil && *l.ItemID == itemID {
			return true
		}
	}
	return false
}
