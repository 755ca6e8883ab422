package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// ReviewStore defines the interface for review persistence.
type ReviewStore interface {
	// Create saves a review and sets its ID.
	// Returns ErrReviewExists if the customer already reviewed the item.
	Create(ctx context.Context, review *domain.Review) error

	GetByID(ctx context.Context, id int64) (*domain.Review, error)

	// Update writes rating, comment and updated_at.
	Update(ctx context.Context, review *domain.Review) error

	Delete(ctx context.Context, id int64) error

	ListByCustomer(ctx context.Context, customerID int64, page Page) ([]*domain.Review, error)
	ListByItem(ctx context.Context, itemID int64, page Page) ([]*domain.Review, error)
	List(ctx context.Context, page Page) ([]*domain.Review, error)

	WithTx(tx *sql.Tx) ReviewStore
}
