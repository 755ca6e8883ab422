package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockTransactionStore implements store.TransactionStore for testing.
type MockTransactionStore struct {
	CreateFn           func(ctx context.Context, txn *domain.Transaction) error
	GetByIDFn          func(ctx context.Context, id int64) (*domain.Transaction, error)
	GetByIDForUpdateFn func(ctx context.Context, id int64) (*domain.Transaction, error)
	ListByCustomerFn   func(ctx context.Context, customerID int64, page store.Page) ([]*domain.Transaction, error)
	MarkReversedFn     func(ctx context.Context, id int64, at time.Time) error
	HasPurchasedFn     func(ctx context.Context, customerID, itemID int64) (bool, error)
}

var _ store.TransactionStore = (*MockTransactionStore)(nil)

// Create assigns ID 1 when CreateFn is nil.
func (m *MockTransactionStore) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, txn)
	}
	txn.ID = 1
	return nil
}

func (m *MockTransactionStore) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrTransactionNotFound
}

func (m *MockTransactionStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionStore) ListByCustomer(
	ctx context.Context,
	customerID int64,
	page store.Page,
) ([]*domain.Transaction, error) {
	if m.ListByCustomerFn != nil {
		return m.ListByCustomerFn(ctx, customerID, page)
	}
	return []*domain.Transaction{}, nil
}

func (m *MockTransactionStore) MarkReversed(ctx context.Context, id int64, at time.Time) error {
	if m.MarkReversedFn != nil {
		return m.MarkReversedFn(ctx, id, at)
	}
	return nil
}

func (m *MockTransactionStore) HasPurchased(ctx context.Context, customerID, itemID int64) (bool, error) {
	if m.HasPurchasedFn != nil {
		return m.HasPurchasedFn(ctx, customerID, itemID)
	}
	return false, nil
}

func (m *MockTransactionStore) WithTx(*sql.Tx) store.TransactionStore {
	return m
}
