package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// ItemFilter narrows an item listing. A nil Category lists everything.
type ItemFilter struct {
	Category *domain.Category
	Page     Page
}

// ItemStore defines the interface for catalogue and stock persistence.
type ItemStore interface {
	// Create saves a new item and sets its ID.
	// Returns ErrItemNameExists if the name is taken.
	Create(ctx context.Context, item *domain.Item) error

	// Get retrieves an item by ID or by name.
	// Returns ErrItemNotFound if no item matches.
	Get(ctx context.Context, ref domain.ItemRef) (*domain.Item, error)

	// LockForPurchase locks every referenced item with SELECT ... FOR UPDATE
	// in ascending ID order and returns them in that order. References must be
	// all IDs or all names. If any reference matches nothing the error wraps
	// ErrItemNotFound and names the first missing reference.
	LockForPurchase(ctx context.Context, refs []domain.ItemRef) ([]*domain.Item, error)

	// LockByIDs locks the given items in ascending ID order, skipping IDs that
	// no longer exist.
	LockByIDs(ctx context.Context, ids []int64) ([]*domain.Item, error)

	// Update writes every mutable column back, quantity included.
	// Returns ErrItemNotFound or ErrItemNameExists.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes the item. Historical transaction lines keep their snapshot
	// with a null item reference and the item's reviews are removed.
	Delete(ctx context.Context, id int64) error

	// List returns items ordered by ID. Returns an empty slice when none match.
	List(ctx context.Context, filter ItemFilter) ([]*domain.Item, error)

	// ListLowStock returns items whose quantity is below threshold.
	ListLowStock(ctx context.Context, threshold int) ([]*domain.Item, error)

	// AddMovement appends to the stock ledger and sets the movement ID.
	AddMovement(ctx context.Context, movement *domain.StockMovement) error

	// ListMovements returns an item's ledger, newest first.
	ListMovements(ctx context.Context, itemID int64, page Page) ([]*domain.StockMovement, error)

	// WithTx returns an ItemStore bound to the given transaction.
	WithTx(tx *sql.Tx) ItemStore
}
