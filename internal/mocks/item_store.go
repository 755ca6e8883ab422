package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockItemStore implements store.ItemStore for testing. Movements passed to
// AddMovement are recorded in Movements when AddMovementFn is nil.
type MockItemStore struct {
	CreateFn          func(ctx context.Context, item *domain.Item) error
	GetFn             func(ctx context.Context, ref domain.ItemRef) (*domain.Item, error)
	LockForPurchaseFn func(ctx context.Context, refs []domain.ItemRef) ([]*domain.Item, error)
	LockByIDsFn       func(ctx context.Context, ids []int64) ([]*domain.Item, error)
	UpdateFn          func(ctx context.Context, item *domain.Item) error
	DeleteFn          func(ctx context.Context, id int64) error
	ListFn            func(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error)
	ListLowStockFn    func(ctx context.Context, threshold int) ([]*domain.Item, error)
	AddMovementFn     func(ctx context.Context, movement *domain.StockMovement) error
	ListMovementsFn   func(ctx context.Context, itemID int64, page store.Page) ([]*domain.StockMovement, error)

	Movements []domain.StockMovement
	Updated   []domain.Item
}

var _ store.ItemStore = (*MockItemStore)(nil)

func (m *MockItemStore) Create(ctx context.Context, item *domain.Item) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}
	return nil
}

func (m *MockItemStore) Get(ctx context.Context, ref domain.ItemRef) (*domain.Item, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, ref)
	}
	return nil, &store.MissingItemError{Ref: ref.String()}
}

func (m *MockItemStore) LockForPurchase(ctx context.Context, refs []domain.ItemRef) ([]*domain.Item, error) {
	if m.LockForPurchaseFn != nil {
		return m.LockForPurchaseFn(ctx, refs)
	}
	return nil, &store.MissingItemError{Ref: refs[0].String()}
}

func (m *MockItemStore) LockByIDs(ctx context.Context, ids []int64) ([]*domain.Item, error) {
	if m.LockByIDsFn != nil {
		return m.LockByIDsFn(ctx, ids)
	}
	return []*domain.Item{}, nil
}

// Update records a copy of the item when UpdateFn is nil.
func (m *MockItemStore) Update(ctx context.Context, item *domain.Item) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, item)
	}
	m.Updated = append(m.Updated, *item)
	return nil
}

func (m *MockItemStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockItemStore) List(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*domain.Item{}, nil
}

func (m *MockItemStore) ListLowStock(ctx context.Context, threshold int) ([]*domain.Item, error) {
	if m.ListLowStockFn != nil {
		return m.ListLowStockFn(ctx, threshold)
	}
	return []*domain.Item{}, nil
}

func (m *MockItemStore) AddMovement(ctx context.Context, movement *domain.StockMovement) error {
	if m.AddMovementFn != nil {
		return m.AddMovementFn(ctx, movement)
	}
	movement.ID = int64(len(m.Movements) + 1)
	m.Movements = append(m.Movements, *movement)
	return nil
}

func (m *MockItemStore) ListMovements(ctx context.Context, itemID int64, page store.Page) ([]*domain.StockMovement, error) {
	if m.ListMovementsFn != nil {
		return m.ListMovementsFn(ctx, itemID, page)
	}
	return []*domain.StockMovement{}, nil
}

func (m *MockItemStore) WithTx(*sql.Tx) store.ItemStore {
	return m
}
