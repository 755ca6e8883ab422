package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockReviewStore implements store.ReviewStore for testing.
type MockReviewStore struct {
	CreateFn         func(ctx context.Context, review *domain.Review) error
	GetByIDFn        func(ctx context.Context, id int64) (*domain.Review, error)
	UpdateFn         func(ctx context.Context, review *domain.Review) error
	DeleteFn         func(ctx context.Context, id int64) error
	ListByCustomerFn func(ctx context.Context, customerID int64, page store.Page) ([]*domain.Review, error)
	ListByItemFn     func(ctx context.Context, itemID int64, page store.Page) ([]*domain.Review, error)
	ListFn           func(ctx context.Context, page store.Page) ([]*domain.Review, error)
}

var _ store.ReviewStore = (*MockReviewStore)(nil)

func (m *MockReviewStore) Create(ctx context.Context, review *domain.Review) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, review)
	}
	review.ID = 1
	return nil
}

func (m *MockReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrReviewNotFound
}

func (m *MockReviewStore) Update(ctx context.Context, review *domain.Review) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, review)
	}
	return nil
}

func (m *MockReviewStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockReviewStore) ListByCustomer(ctx context.Context, customerID int64, page store.Page) ([]*domain.Review, error) {
	if m.ListByCustomerFn != nil {
		return m.ListByCustomerFn(ctx, customerID, page)
	}
	return []*domain.Review{}, nil
}

func (m *MockReviewStore) ListByItem(ctx context.Context, itemID int64, page store.Page) ([]*domain.Review, error) {
	if m.ListByItemFn != nil {
		return m.ListByItemFn(ctx, itemID, page)
	}
	return []*domain.Review{}, nil
}

func (m *MockReviewStore) List(ctx context.Context, page store.Page) ([]*domain.Review, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	return []*domain.Review{}, nil
}

func (m *MockReviewStore) WithTx(*sql.Tx) store.ReviewStore {
	return m
}
