package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockAdminStore implements store.AdminStore for testing.
type MockAdminStore struct {
	CreateFn        func(ctx context.Context, admin *domain.Admin) error
	GetByIDFn       func(ctx context.Context, id int64) (*domain.Admin, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.Admin, error)
	GetByEmailFn    func(ctx context.Context, email string) (*domain.Admin, error)
	GetByPhoneFn    func(ctx context.Context, phone string) (*domain.Admin, error)
	UpdateFn        func(ctx context.Context, admin *domain.Admin) error
	SetLastLogoutFn func(ctx context.Context, id int64, at time.Time) error
}

var _ store.AdminStore = (*MockAdminStore)(nil)

func (m *MockAdminStore) Create(ctx context.Context, admin *domain.Admin) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, admin)
	}
	return nil
}

func (m *MockAdminStore) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrAdminNotFound
}

func (m *MockAdminStore) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, store.ErrAdminNotFound
}

func (m *MockAdminStore) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrAdminNotFound
}

func (m *MockAdminStore) GetByPhone(ctx context.Context, phone string) (*domain.Admin, error) {
	if m.GetByPhoneFn != nil {
		return m.GetByPhoneFn(ctx, phone)
	}
	return nil, store.ErrAdminNotFound
}

func (m *MockAdminStore) Update(ctx context.Context, admin *domain.Admin) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, admin)
	}
	return nil
}

func (m *MockAdminStore) SetLastLogout(ctx context.Context, id int64, at time.Time) error {
	if m.SetLastLogoutFn != nil {
		return m.SetLastLogoutFn(ctx, id, at)
	}
	return nil
}

func (m *MockAdminStore) WithTx(*sql.Tx) store.AdminStore {
	return m
}
