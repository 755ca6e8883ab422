package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockCustomerStore implements store.CustomerStore for testing.
type MockCustomerStore struct {
	CreateFn           func(ctx context.Context, customer *domain.Customer) error
	GetByIDFn          func(ctx context.Context, id int64) (*domain.Customer, error)
	GetByIDForUpdateFn func(ctx context.Context, id int64) (*domain.Customer, error)
	GetByUsernameFn    func(ctx context.Context, username string) (*domain.Customer, error)
	GetByEmailFn       func(ctx context.Context, email string) (*domain.Customer, error)
	GetByPhoneFn       func(ctx context.Context, phone string) (*domain.Customer, error)
	UpdateFn           func(ctx context.Context, customer *domain.Customer) error
	ListFn             func(ctx context.Context, filter store.CustomerFilter) ([]*domain.Customer, error)
	SetLastLogoutFn    func(ctx context.Context, id int64, at time.Time) error

	// WithTxCalls counts how many times WithTx was called.
	WithTxCalls int
}

var _ store.CustomerStore = (*MockCustomerStore)(nil)

func (m *MockCustomerStore) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, customer)
	}
	return nil
}

func (m *MockCustomerStore) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrCustomerNotFound
}

// GetByIDForUpdate falls back to GetByIDFn when no locking behavior is set.
func (m *MockCustomerStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Customer, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCustomerStore) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, store.ErrCustomerNotFound
}

func (m *MockCustomerStore) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrCustomerNotFound
}

func (m *MockCustomerStore) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	if m.GetByPhoneFn != nil {
		return m.GetByPhoneFn(ctx, phone)
	}
	return nil, store.ErrCustomerNotFound
}

func (m *MockCustomerStore) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, customer)
	}
	return nil
}

func (m *MockCustomerStore) List(ctx context.Context, filter store.CustomerFilter) ([]*domain.Customer, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*domain.Customer{}, nil
}

func (m *MockCustomerStore) SetLastLogout(ctx context.Context, id int64, at time.Time) error {
	if m.SetLastLogoutFn != nil {
		return m.SetLastLogoutFn(ctx, id, at)
	}
	return nil
}

func (m *MockCustomerStore) WithTx(*sql.Tx) store.CustomerStore {
	m.WithTxCalls++
	return m
}
