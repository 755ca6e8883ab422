package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// TransactionStore defines the interface for purchase records.
type TransactionStore interface {
	// Create inserts the transaction and its lines and sets its ID.
	Create(ctx context.Context, txn *domain.Transaction) error

	// GetByID retrieves a transaction with its lines.
	// Returns ErrTransactionNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)

	// GetByIDForUpdate is GetByID with the transaction row locked.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Transaction, error)

	// ListByCustomer returns a customer's transactions, newest first.
	ListByCustomer(ctx context.Context, customerID int64, page Page) ([]*domain.Transaction, error)

	// MarkReversed sets status reversed and stamps reversed_at.
	MarkReversed(ctx context.Context, id int64, at time.Time) error

	// HasPurchased reports whether itemID appears in any completed
	// transaction of the customer.
	HasPurchased(ctx context.Context, customerID, itemID int64) (bool, error)

	// WithTx returns a TransactionStore bound to the given transaction.
	WithTx(tx *sql.Tx) TransactionStore
}
