package domain

import "time"

// MovementKind says why an item's stock changed.
type MovementKind string

const (
	MovementInitial  MovementKind = "initial"
	MovementRestock  MovementKind = "restock"
	MovementSale     MovementKind = "sale"
	MovementReversal MovementKind = "reversal"
)

// StockMovement is one row of the per-item stock ledger. Delta is negative for sales.
type StockMovement struct {
	ID            int64
	ItemID        int64
	TransactionID *int64
	Kind          MovementKind
	Delta         int
	CreatedAt     time.Time
}

// NewStockMovement records a stock change. Sales are stored as negative deltas.
func NewStockMovement(itemID int64, transactionID *int64, kind MovementKind, quantity int, now time.Time) StockMovement {
	delta := quantity
	if kind == MovementSale {
		delta = -quantity
	}
	return StockMovement{
		ItemID:        itemID,
		TransactionID: transactionID,
		Kind:          kind,
		Delta:         delta,
		CreatedAt:     now.UTC(),
	}
}
