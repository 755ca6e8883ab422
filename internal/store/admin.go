package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// AdminStore defines the interface for admin persistence. It mirrors
// CustomerStore minus balances, status and locking.
type AdminStore interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Admin, error)
	Update(ctx context.Context, admin *domain.Admin) error
	SetLastLogout(ctx context.Context, id int64, at time.Time) error
	WithTx(tx *sql.Tx) AdminStore
}
