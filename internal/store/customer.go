package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// CustomerFilter narrows a customer listing. A nil Status lists everyone.
type CustomerFilter struct {
	Status *domain.CustomerStatus
	Page   Page
}

// CustomerStore defines the interface for customer persistence.
type CustomerStore interface {
	// Create saves a new customer and sets its ID.
	// Returns ErrUsernameExists, ErrEmailExists or ErrPhoneExists on a clash.
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by ID.
	// Returns ErrCustomerNotFound if the customer does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)

	// GetByIDForUpdate retrieves a customer and locks the row until the
	// surrounding transaction ends. Only meaningful on a store bound with WithTx.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Customer, error)

	// GetByUsername, GetByEmail and GetByPhone look a customer up by one of
	// its unique fields. Phone must already be normalized.
	GetByUsername(ctx context.Context, username string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)

	// Update writes profile, balances and status back.
	// Returns ErrCustomerNotFound if the customer does not exist.
	Update(ctx context.Context, customer *domain.Customer) error

	// List returns customers ordered by ID. Returns an empty slice when none match.
	List(ctx context.Context, filter CustomerFilter) ([]*domain.Customer, error)

	// SetLastLogout stamps the moment after which older tokens are revoked.
	SetLastLogout(ctx context.Context, id int64, at time.Time) error

	// WithTx returns a CustomerStore bound to the given transaction.
	WithTx(tx *sql.Tx) CustomerStore
}
